package component

import "image/color"

// Rectangle is a flat colored box drawn centered on the Transform.
type Rectangle struct {
	Width  float64
	Height float64
	Color  color.Color
	Layer  int
}

var RectangleComponent = NewComponent[Rectangle]()
