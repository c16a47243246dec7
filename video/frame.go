package video

import (
	"fmt"

	"github.com/opd-ai/texturerender/interfaces"
	"github.com/opd-ai/texturerender/limits"
)

// Frame is one decoded NV12 picture addressed to a texture.
//
// Luma holds Height rows of LumaStride bytes. Chroma holds Height/2 rows of
// ChromaStride bytes with interleaved U and V samples, one pair per two
// horizontal pixels.
type Frame struct {
	TextureID    interfaces.TextureID
	Width        int
	Height       int
	LumaStride   int
	ChromaStride int
	Luma         []byte
	Chroma       []byte
}

// NewFrame allocates a tightly packed frame filled with black.
func NewFrame(id interfaces.TextureID, width, height int) (*Frame, error) {
	if err := validateGeometry(width, height); err != nil {
		return nil, err
	}

	f := &Frame{
		TextureID:    id,
		Width:        width,
		Height:       height,
		LumaStride:   width,
		ChromaStride: width,
	}
	f.Luma = make([]byte, f.LumaLength())
	f.Chroma = make([]byte, f.ChromaLength())
	for i := range f.Chroma {
		f.Chroma[i] = 128
	}
	return f, nil
}

// LumaLength is the expected size of the luma plane.
func (f *Frame) LumaLength() int {
	return f.Height * f.LumaStride
}

// ChromaLength is the expected size of the interleaved chroma plane.
func (f *Frame) ChromaLength() int {
	return f.Height * f.ChromaStride / 2
}

// Validate checks geometry, strides and plane sizes.
func (f *Frame) Validate() error {
	if f == nil {
		return ErrNilFrame
	}
	if err := validateGeometry(f.Width, f.Height); err != nil {
		return err
	}
	if err := limits.ValidateStride(f.LumaStride, f.Width); err != nil {
		return fmt.Errorf("luma: %w", err)
	}
	if err := limits.ValidateStride(f.ChromaStride, f.Width); err != nil {
		return fmt.Errorf("chroma: %w", err)
	}
	if len(f.Luma) != f.LumaLength() {
		return fmt.Errorf("%w: luma has %d bytes, want %d", ErrPlaneLength, len(f.Luma), f.LumaLength())
	}
	if len(f.Chroma) != f.ChromaLength() {
		return fmt.Errorf("%w: chroma has %d bytes, want %d", ErrPlaneLength, len(f.Chroma), f.ChromaLength())
	}
	return nil
}

func validateGeometry(width, height int) error {
	if err := limits.ValidateDimensions(width, height); err != nil {
		return err
	}
	if width%2 != 0 || height%2 != 0 {
		return fmt.Errorf("%w: %dx%d", ErrOddDimensions, width, height)
	}
	return nil
}
