// Package palette provides the 24-bit color type used for virtual pixels and
// the random color generator that mutates them.
package palette

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB represents a 24-bit color
type RGB struct {
	R, G, B uint8
}

var (
	Black = RGB{0, 0, 0}
	Red   = RGB{255, 0, 0}
	White = RGB{255, 255, 255}
)

// Equal returns true if colors match
func (c RGB) Equal(other RGB) bool {
	return c.R == other.R && c.G == other.G && c.B == other.B
}

// RGBA converts to an opaque image/color value
func (c RGB) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// Hex formats the color as #rrggbb
func (c RGB) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// String implements fmt.Stringer for log fields
func (c RGB) String() string {
	return c.Hex()
}

// FromRGBA drops alpha; ok is false for fully transparent input
func FromRGBA(v color.RGBA) (RGB, bool) {
	if v.A == 0 {
		return RGB{}, false
	}
	return RGB{v.R, v.G, v.B}, true
}
