package engine

import (
	"slices"

	"github.com/lixenwraith/pixel-play/palette"
)

// Point is an integer Cartesian coordinate
type Point struct {
	X, Y int
}

// Add returns p offset by d
func (p Point) Add(d Point) Point {
	return Point{p.X + d.X, p.Y + d.Y}
}

// Pixel is one virtual pixel of the growing field
type Pixel struct {
	X, Y  int
	Color palette.RGB
}

// Point returns the pixel coordinate
func (p Pixel) Point() Point {
	return Point{p.X, p.Y}
}

// Neighbor orders; the restart search uses the outward order
var (
	outwardDirections = [4]Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	inwardDirections  = [4]Point{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
)

// pixelSet is the run's pixel collection with a coordinate index for occupancy checks
type pixelSet struct {
	items []Pixel
	index map[Point]int
}

func newPixelSet() pixelSet {
	return pixelSet{index: make(map[Point]int)}
}

func (s *pixelSet) reset() {
	s.items = s.items[:0]
	clear(s.index)
}

func (s *pixelSet) add(p Pixel) {
	s.index[p.Point()] = len(s.items)
	s.items = append(s.items, p)
}

func (s *pixelSet) occupied(pt Point) bool {
	_, ok := s.index[pt]
	return ok
}

func (s *pixelSet) list() []Pixel {
	return slices.Clone(s.items)
}

func (s *pixelSet) len() int {
	return len(s.items)
}

func visitedFrom(frontier []Pixel) map[Point]struct{} {
	visited := make(map[Point]struct{}, len(frontier)*4)
	for _, p := range frontier {
		visited[p.Point()] = struct{}{}
	}
	return visited
}
