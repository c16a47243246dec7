package video

import (
	"image"
	"testing"

	"github.com/opd-ai/texturerender/limits"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidFrame(t *testing.T, width, height int, y, u, v byte) *Frame {
	t.Helper()
	f, err := NewFrame(1, width, height)
	require.NoError(t, err)
	for i := range f.Luma {
		f.Luma[i] = y
	}
	for i := 0; i < len(f.Chroma); i += 2 {
		f.Chroma[i] = u
		f.Chroma[i+1] = v
	}
	return f
}

func TestToRGBAColors(t *testing.T) {
	tests := []struct {
		name    string
		y, u, v byte
		r, g, b uint8
	}{
		{"black", 0, 128, 128, 0, 0, 0},
		{"white", 255, 128, 128, 255, 255, 255},
		{"mid gray", 128, 128, 128, 128, 128, 128},
		{"reddish", 50, 128, 228, 207, 3, 50},
		{"clamped blue", 200, 255, 128, 200, 176, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := ToRGBA(solidFrame(t, 4, 4, tt.y, tt.u, tt.v))
			require.NoError(t, err)

			px := img.RGBAAt(1, 1)
			assert.InDelta(t, tt.r, px.R, 1)
			assert.InDelta(t, tt.g, px.G, 1)
			assert.InDelta(t, tt.b, px.B, 1)
			assert.Equal(t, uint8(0xff), px.A)
		})
	}
}

func TestToRGBAHonoursStride(t *testing.T) {
	f := solidFrame(t, 4, 2, 0, 128, 128)
	f.LumaStride = 8
	f.Luma = make([]byte, f.LumaLength())
	for i := range f.Luma {
		f.Luma[i] = 0xff // padding bytes must never reach the image
	}
	for row := 0; row < 2; row++ {
		for x := 0; x < 4; x++ {
			f.Luma[row*8+x] = 100
		}
	}

	img, err := ToRGBA(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			assert.Equal(t, uint8(100), img.RGBAAt(x, y).R)
		}
	}
}

func TestToRGBAInvalid(t *testing.T) {
	_, err := ToRGBA(nil)
	assert.ErrorIs(t, err, ErrNilFrame)
}

func TestScale(t *testing.T) {
	src, err := ToRGBA(solidFrame(t, 8, 8, 128, 128, 128))
	require.NoError(t, err)

	same, err := Scale(src, 8, 8)
	require.NoError(t, err)
	assert.Same(t, src, same)

	up, err := Scale(src, 16, 12)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 12), up.Bounds())
	assert.InDelta(t, 128, up.RGBAAt(7, 5).R, 1)

	_, err = Scale(src, 0, 10)
	assert.ErrorIs(t, err, limits.ErrInvalidDimensions)

	_, err = Scale(nil, 10, 10)
	assert.ErrorIs(t, err, ErrNilFrame)
}

func TestPixelBuffer(t *testing.T) {
	img, err := PixelBuffer(solidFrame(t, 32, 16, 255, 128, 128), 8, 4)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())
	assert.InDelta(t, 255, img.RGBAAt(3, 2).G, 1)
}

func TestTestPattern(t *testing.T) {
	_, err := NewTestPattern(1, 15, 8)
	assert.ErrorIs(t, err, ErrOddDimensions)

	pattern, err := NewTestPattern(2, 64, 16)
	require.NoError(t, err)

	first := pattern.Next()
	second := pattern.Next()
	assert.Equal(t, 2, pattern.Count())
	require.NoError(t, first.Validate())
	require.NoError(t, second.Validate())

	// The bar moves, so consecutive frames differ and do not share planes.
	assert.NotEqual(t, first.Luma, second.Luma)
	assert.Equal(t, uint8(235), first.Luma[0])
	assert.Equal(t, uint8(235), second.Luma[barWidth/2])
	assert.NotEqual(t, uint8(235), second.Luma[0])
}
