package adaptive

import (
	"image"

	"github.com/mgallant/adaptrace/pkg/core"
)

// ToImage converts the render's averaged linear radiance into a final
// sRGB image, using pkg/core's go-colorful-backed conversion.
func (s *RenderState) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	for j := 0; j < s.Height; j++ {
		for i := 0; i < s.Width; i++ {
			cell := s.Render[s.index(image.Point{X: i, Y: j})]
			img.SetRGBA(i, j, core.ToRGBA(cell.Radiance))
		}
	}
	return img
}
