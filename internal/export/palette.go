package export

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

// frameColor represents an RGB color for a drawn frame.
type frameColor struct {
	R, G, B int
}

// framePalette returns n colours with evenly spaced hues at constant
// lightness and chroma, so neighbouring frames stay distinguishable
// however many there are.
func framePalette(n int) []frameColor {
	colors := make([]frameColor, n)
	for i := range colors {
		hue := 360 * float64(i) / float64(max(n, 1))
		r, g, b := colorful.Hcl(hue, 0.45, 0.75).Clamped().RGB255()
		colors[i] = frameColor{R: int(r), G: int(g), B: int(b)}
	}
	return colors
}
