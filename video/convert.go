package video

import (
	"image"

	"github.com/opd-ai/texturerender/limits"
	"golang.org/x/image/draw"
)

// BT.709 full-range coefficients in 16.16 fixed point. The decoder that
// produces these frames is configured for BT.709 primaries with JPEG range.
const (
	crToR = 103206 // 1.5748
	cbToG = 12276  // 0.1873
	crToG = 30678  // 0.4681
	cbToB = 121609 // 1.8556
	half  = 1 << 15
)

func clampByte(v int32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// ToRGBA converts an NV12 frame to an RGBA image of the same size.
func ToRGBA(f *Frame) (*image.RGBA, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		luma := f.Luma[y*f.LumaStride : y*f.LumaStride+f.Width]
		chroma := f.Chroma[(y/2)*f.ChromaStride : (y/2)*f.ChromaStride+f.Width]
		out := img.Pix[y*img.Stride : y*img.Stride+4*f.Width]

		for x := 0; x < f.Width; x++ {
			c := x &^ 1
			lum := int32(luma[x])
			cb := int32(chroma[c]) - 128
			cr := int32(chroma[c+1]) - 128

			out[4*x] = clampByte(lum + (crToR*cr+half)>>16)
			out[4*x+1] = clampByte(lum - (cbToG*cb+crToG*cr+half)>>16)
			out[4*x+2] = clampByte(lum + (cbToB*cb+half)>>16)
			out[4*x+3] = 0xff
		}
	}
	return img, nil
}

// Scale resizes src to width x height with bilinear filtering. src is
// returned unchanged when it already has that size.
func Scale(src *image.RGBA, width, height int) (*image.RGBA, error) {
	if src == nil {
		return nil, ErrNilFrame
	}
	if err := limits.ValidateDimensions(width, height); err != nil {
		return nil, err
	}
	if src.Bounds().Dx() == width && src.Bounds().Dy() == height {
		return src, nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// PixelBuffer converts f to RGBA at the size the host asked for.
func PixelBuffer(f *Frame, width, height int) (*image.RGBA, error) {
	img, err := ToRGBA(f)
	if err != nil {
		return nil, err
	}
	return Scale(img, width, height)
}
