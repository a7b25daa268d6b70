package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	xdraw "golang.org/x/image/draw"
)

// WritePNG encodes the surface on a black background, upscaled by scale with nearest-neighbor sampling
func (s *Surface) WritePNG(w io.Writer, scale int) error {
	if scale < 1 {
		return fmt.Errorf("invalid snapshot scale %d", scale)
	}

	src := s.Image(color.Black)
	var out image.Image = src
	if scale > 1 {
		b := src.Bounds()
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
		xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
		out = dst
	}

	if err := png.Encode(w, out); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// SavePNG writes a snapshot to path, replacing any existing file
func (s *Surface) SavePNG(path string, scale int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	if err := s.WritePNG(f, scale); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot file: %w", err)
	}
	return nil
}
