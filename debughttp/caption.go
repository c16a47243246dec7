package debughttp

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"github.com/opd-ai/texturerender/interfaces"
)

const captionHeight = 18

// drawCaption labels img in place with the texture id and frame sequence.
func drawCaption(img *image.RGBA, id interfaces.TextureID, sequence uint64) {
	dc := gg.NewContextForRGBA(img)
	width := float64(img.Bounds().Dx())

	dc.SetRGBA(0, 0, 0, 0.6)
	dc.DrawRectangle(0, 0, width, captionHeight)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	dc.DrawString(fmt.Sprintf("texture %d seq %d", id, sequence), 4, 13)
}
