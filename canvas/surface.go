// Package canvas holds the fixed-size drawing surface that the propagation
// engine paints into. Coordinates are Cartesian with the origin at the
// surface center and the y-axis pointing up.
package canvas

import (
	"image"
	"image/color"

	"github.com/lixenwraith/pixel-play/palette"
)

// Surface is an RGBA raster of unit cells; transparent cells are unpainted
type Surface struct {
	img     *image.RGBA
	centerX int
	centerY int

	// generation increments on every mutation
	generation uint64
}

// NewSurface creates a cleared surface of the given size
func NewSurface(width, height int) *Surface {
	return &Surface{
		img:     image.NewRGBA(image.Rect(0, 0, width, height)),
		centerX: width / 2,
		centerY: height / 2,
	}
}

// Size returns surface dimensions in cells
func (s *Surface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// ToScreen maps a Cartesian coordinate to raster coordinates
func (s *Surface) ToScreen(x, y int) (int, int) {
	return s.centerX + x, s.centerY - y
}

// RenderCell paints one unit cell; off-surface cells are clipped
func (s *Surface) RenderCell(x, y int, c palette.RGB) {
	px, py := s.ToScreen(x, y)
	if !image.Pt(px, py).In(s.img.Rect) {
		return
	}
	s.img.SetRGBA(px, py, c.RGBA())
	s.generation++
}

// ClearAll erases the whole surface
func (s *Surface) ClearAll() {
	clear(s.img.Pix)
	s.generation++
}

// At reads the Cartesian cell (x, y); ok is false when unpainted or off-surface
func (s *Surface) At(x, y int) (palette.RGB, bool) {
	px, py := s.ToScreen(x, y)
	return s.AtScreen(px, py)
}

// AtScreen reads a raster cell
func (s *Surface) AtScreen(px, py int) (palette.RGB, bool) {
	if !image.Pt(px, py).In(s.img.Rect) {
		return palette.RGB{}, false
	}
	return palette.FromRGBA(s.img.RGBAAt(px, py))
}

// Painted counts non-transparent cells
func (s *Surface) Painted() int {
	n := 0
	for i := 3; i < len(s.img.Pix); i += 4 {
		if s.img.Pix[i] != 0 {
			n++
		}
	}
	return n
}

// Generation returns the mutation counter
func (s *Surface) Generation() uint64 {
	return s.generation
}

// Image returns a copy of the raster with unpainted cells filled by background
func (s *Surface) Image(background color.Color) *image.RGBA {
	out := image.NewRGBA(s.img.Rect)
	bg := color.RGBAModel.Convert(background).(color.RGBA)
	for py := s.img.Rect.Min.Y; py < s.img.Rect.Max.Y; py++ {
		for px := s.img.Rect.Min.X; px < s.img.Rect.Max.X; px++ {
			c := s.img.RGBAAt(px, py)
			if c.A == 0 {
				c = bg
			}
			out.SetRGBA(px, py, c)
		}
	}
	return out
}
