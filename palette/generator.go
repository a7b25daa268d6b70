package palette

// Source supplies uniform integers in [0, n); *math/rand.Rand satisfies it
type Source interface {
	Intn(n int) int
}

// Generator draws uniformly from the 256^3 color space
type Generator struct {
	src     Source
	retries int
}

// NewGenerator creates a generator; retries below 1 are raised to 1
func NewGenerator(src Source, retries int) *Generator {
	if retries < 1 {
		retries = 1
	}
	return &Generator{src: src, retries: retries}
}

// Random returns one uniformly random color
func (g *Generator) Random() RGB {
	return RGB{
		R: uint8(g.src.Intn(256)),
		G: uint8(g.src.Intn(256)),
		B: uint8(g.src.Intn(256)),
	}
}

// DifferentFrom rejection-samples a color that is not avoid.
// After the retry budget is spent it flips the low red bit of avoid,
// so the result never equals avoid.
func (g *Generator) DifferentFrom(avoid RGB) RGB {
	for range g.retries {
		if c := g.Random(); !c.Equal(avoid) {
			return c
		}
	}
	avoid.R ^= 1
	return avoid
}
