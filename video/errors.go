package video

import "errors"

// Sentinel errors for frame handling.
var (
	// ErrNilFrame indicates a nil frame was passed in.
	ErrNilFrame = errors.New("nil frame")

	// ErrOddDimensions indicates a width or height NV12 cannot subsample.
	ErrOddDimensions = errors.New("frame dimensions must be even for NV12")

	// ErrPlaneLength indicates a plane does not match height times stride.
	ErrPlaneLength = errors.New("plane length does not match frame geometry")

	// ErrShortMessage indicates a frame message ended before its declared content.
	ErrShortMessage = errors.New("frame message truncated")

	// ErrTrailingData indicates bytes after the chroma plane.
	ErrTrailingData = errors.New("trailing data after frame message")

	// ErrUnknownTexture indicates no texture object is attached for the frame's id.
	ErrUnknownTexture = errors.New("no texture attached for frame")
)
