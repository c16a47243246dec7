// Package limits provides centralized frame size constants and validation
// functions for the texture bridge. Every component that accepts decoded
// frames from an untrusted producer checks them here first.
//
// # Frame Limits
//
//   - MaxFrameWidth / MaxFrameHeight (8192): the largest decoded picture.
//
//   - MaxPlaneStride (16384 bytes): the longest row of a plane, allowing for
//     decoder alignment padding beyond the visible width.
//
//   - MaxFrameMessage: header plus an NV12 frame at maximum stride. Readers
//     reject larger length prefixes before allocating.
//
// # Validation Functions
//
//	if err := limits.ValidateDimensions(w, h); err != nil {
//	    return err
//	}
//	if err := limits.ValidateStride(lumaStride, w); err != nil {
//	    return err
//	}
//
// All errors wrap a sentinel so callers can classify them with errors.Is:
//
//	if errors.Is(err, limits.ErrMessageTooLarge) {
//	    // drop the recording
//	}
package limits
