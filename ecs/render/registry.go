package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

var images = map[color.RGBA]*ebiten.Image{}

// SolidImage returns a cached 1x1 image filled with c.
func SolidImage(c color.Color) *ebiten.Image {
	key := color.RGBAModel.Convert(c).(color.RGBA)
	if img, ok := images[key]; ok {
		return img
	}
	img := ebiten.NewImage(1, 1)
	img.Fill(key)
	images[key] = img
	return img
}
