package video

import "github.com/opd-ai/texturerender/interfaces"

// barWidth is the width in pixels of the moving bar.
const barWidth = 16

// TestPattern generates synthetic NV12 frames: a horizontal luma ramp with a
// bright bar that moves right by barWidth/2 pixels per frame, tinted with a
// chroma value that cycles with the frame count.
type TestPattern struct {
	id     interfaces.TextureID
	width  int
	height int
	count  int
}

// NewTestPattern creates a generator for frames of the given size.
func NewTestPattern(id interfaces.TextureID, width, height int) (*TestPattern, error) {
	if err := validateGeometry(width, height); err != nil {
		return nil, err
	}
	return &TestPattern{id: id, width: width, height: height}, nil
}

// Count returns how many frames were generated so far.
func (p *TestPattern) Count() int {
	return p.count
}

// Next returns a freshly allocated frame. Earlier frames stay valid, so a
// frame handed to the bridge is never modified afterwards.
func (p *TestPattern) Next() *Frame {
	f, _ := NewFrame(p.id, p.width, p.height)

	barStart := (p.count * barWidth / 2) % p.width
	for y := 0; y < f.Height; y++ {
		row := f.Luma[y*f.LumaStride : y*f.LumaStride+f.Width]
		for x := range row {
			row[x] = uint8(16 + x*200/f.Width)
		}
		for x := barStart; x < barStart+barWidth && x < f.Width; x++ {
			row[x] = 235
		}
	}

	tint := uint8(64 + (p.count*8)%128)
	for i := 0; i < len(f.Chroma); i += 2 {
		f.Chroma[i] = 128
		f.Chroma[i+1] = tint
	}

	p.count++
	return f
}
