// Package limits provides centralized frame size limits for the texture bridge.
// This ensures consistent validation across the codec, the hosts and the C API.
package limits

import (
	"errors"
	"fmt"
)

const (
	// MaxFrameWidth is the widest decoded frame accepted (8K UHD)
	MaxFrameWidth = 8192

	// MaxFrameHeight is the tallest decoded frame accepted
	MaxFrameHeight = 8192

	// MaxPlaneStride bounds a plane's row length in bytes, including any
	// alignment padding the decoder adds after the visible pixels
	MaxPlaneStride = 2 * MaxFrameWidth

	// FrameHeaderSize is the fixed prefix of a frame message: texture id (8),
	// width, height, luma stride, chroma stride and luma length (4 each)
	FrameHeaderSize = 8 + 5*4

	// FrameMessageOverhead is the header plus the chroma length field
	FrameMessageOverhead = FrameHeaderSize + 4

	// MaxFrameMessage is the largest NV12 frame message: a full luma plane
	// plus a half-height chroma plane at maximum stride
	MaxFrameMessage = FrameMessageOverhead + MaxFrameHeight*MaxPlaneStride*3/2

	// DefaultMaxTextures caps the number of live textures per bridge
	DefaultMaxTextures = 64
)

var (
	// ErrInvalidDimensions indicates a zero, negative or oversized frame size
	ErrInvalidDimensions = errors.New("invalid frame dimensions")

	// ErrInvalidStride indicates a plane stride shorter than a row or too long
	ErrInvalidStride = errors.New("invalid plane stride")

	// ErrMessageEmpty indicates an empty frame message was provided
	ErrMessageEmpty = errors.New("empty frame message")

	// ErrMessageTooLarge indicates a frame message exceeds MaxFrameMessage
	ErrMessageTooLarge = errors.New("frame message too large")
)

// ValidateDimensions checks width and height against the frame limits.
func ValidateDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if width > MaxFrameWidth || height > MaxFrameHeight {
		return fmt.Errorf("%w: %dx%d exceeds %dx%d", ErrInvalidDimensions, width, height, MaxFrameWidth, MaxFrameHeight)
	}
	return nil
}

// ValidateStride checks that a plane stride can hold rowBytes bytes per row.
func ValidateStride(stride, rowBytes int) error {
	if stride < rowBytes {
		return fmt.Errorf("%w: stride %d shorter than row of %d bytes", ErrInvalidStride, stride, rowBytes)
	}
	if stride > MaxPlaneStride {
		return fmt.Errorf("%w: stride %d exceeds limit %d", ErrInvalidStride, stride, MaxPlaneStride)
	}
	return nil
}

// ValidateMessageSize validates an encoded frame message length.
// Returns an error with context including the actual and maximum sizes.
func ValidateMessageSize(size int) error {
	if size <= 0 {
		return ErrMessageEmpty
	}
	if size > MaxFrameMessage {
		return fmt.Errorf("%w: size %d exceeds limit %d", ErrMessageTooLarge, size, MaxFrameMessage)
	}
	return nil
}

// ValidateMaxTextures checks a configured texture cap.
func ValidateMaxTextures(n int) error {
	if n <= 0 {
		return fmt.Errorf("max textures must be positive, got %d", n)
	}
	return nil
}
