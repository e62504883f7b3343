package widgets

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// labelFace is the bitmap face used for tick labels and the cursor readout.
var labelFace = basicfont.Face7x13

// textWidth returns the advance of s in pixels.
func textWidth(s string) int {
	return font.MeasureString(labelFace, s).Ceil()
}

// textHeight returns the ascent plus descent of the label face in pixels.
func textHeight() int {
	m := labelFace.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}

// drawText draws s with its top-left corner at (x, y).
// When alignRight is set, x is the right edge instead.
func drawText(dst *image.RGBA, s string, x, y int, col color.Color, alignRight bool) {
	if alignRight {
		x -= textWidth(s)
	}

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: labelFace,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y) + labelFace.Metrics().Ascent},
	}
	d.DrawString(s)
}
