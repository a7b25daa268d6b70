package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// SweepGenerator is a sine tone gliding linearly from one frequency to another with an exponential fade
type SweepGenerator struct {
	sr       beep.SampleRate
	from, to float64
	decay    float64
	samples  int
	pos      int
	phase    float64
}

// NewSweepGenerator creates a finite sweep lasting d
func NewSweepGenerator(sr beep.SampleRate, from, to float64, d time.Duration, decay float64) *SweepGenerator {
	return &SweepGenerator{
		sr:      sr,
		from:    from,
		to:      to,
		decay:   decay,
		samples: sr.N(d),
	}
}

func (g *SweepGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.samples {
		return 0, false
	}
	for i := range samples {
		if g.pos >= g.samples {
			return i, true
		}
		progress := float64(g.pos) / float64(g.samples)
		freq := g.from + (g.to-g.from)*progress
		t := float64(g.pos) / float64(g.sr)

		// Short attack to avoid a click, then exponential decay
		envelope := math.Min(t/0.005, 1.0) * math.Exp(-t*g.decay)
		sample := 0.3 * envelope * math.Sin(2*math.Pi*g.phase)

		samples[i][0] = sample
		samples[i][1] = sample

		g.phase += freq / float64(g.sr)
		g.phase -= math.Floor(g.phase)
		g.pos++
	}
	return len(samples), true
}

func (g *SweepGenerator) Err() error {
	return nil
}

// Len returns the total sample count
func (g *SweepGenerator) Len() int {
	return g.samples
}
