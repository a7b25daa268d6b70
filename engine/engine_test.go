package engine

import (
	"bytes"
	"math/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/pixel-play/palette"
)

func TestBeginPlacesRedSeed(t *testing.T) {
	h := newHarness(t, &stubRandom{coin: 0.99}, nil)

	h.engine.Begin()

	assert.Equal(t, 1, h.control.disables)
	assert.False(t, h.control.enabled)
	assert.Equal(t, 1, h.renderer.clears)
	require.Len(t, h.renderer.cells, 1)
	assert.Equal(t, renderedCell{0, 0, palette.Red}, h.renderer.cells[0])

	st := h.engine.Status()
	assert.Equal(t, PhaseSeeded, st.Phase)
	assert.Equal(t, 1, st.Pixels)
	assert.Equal(t, 0, st.TotalIterations)

	// Nothing runs before the start delay
	assert.Equal(t, 0, h.frame())
	assert.Equal(t, PhaseSeeded, h.engine.Status().Phase)
}

func TestFirstFrameGrowsEveryNeighborWhenCoinAlwaysWins(t *testing.T) {
	h := newHarness(t, &stubRandom{coin: 0}, nil)

	h.engine.Begin()
	require.Equal(t, 1, h.afterDelay())

	st := h.engine.Status()
	assert.Equal(t, PhaseOutward, st.Phase)
	assert.Equal(t, 1, st.TotalIterations)
	assert.Equal(t, 5, st.Pixels)
	assert.Equal(t, 4, st.Frontier)
	assert.Equal(t, 1, h.sched.Pending())

	seed := h.engine.Pixels()[0]
	assert.False(t, seed.Color.Equal(palette.Red), "recolor pass runs with coin 0")

	want := []Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	frontier := h.engine.Frontier()
	require.Len(t, frontier, 4)
	for i, p := range frontier {
		assert.Equal(t, want[i], p.Point())
		assert.False(t, p.Color.Equal(seed.Color))
	}

	// seed, recolor, four children
	assert.Len(t, h.renderer.cells, 6)
}

func TestFirstFrameIsSubsetOfSeedNeighbors(t *testing.T) {
	nb := neighborsOf(Point{})
	checked := 0
	for seed := int64(1); seed <= 64; seed++ {
		h := newHarness(t, rand.New(rand.NewSource(seed)), nil)
		h.engine.Begin()
		h.afterDelay()

		st := h.engine.Status()
		if st.Restarts > 0 {
			// Frame 1 grew nothing and restarted elsewhere
			continue
		}
		checked++

		origin := h.engine.Pixels()[0]
		require.Equal(t, Point{}, origin.Point())
		frontier := h.engine.Frontier()
		require.NotEmpty(t, frontier)
		require.LessOrEqual(t, len(frontier), 4)
		for _, p := range frontier {
			assert.True(t, nb[p.Point()], "unexpected child %v", p.Point())
			assert.False(t, p.Color.Equal(origin.Color))
		}
	}
	assert.Positive(t, checked)
}

func TestIterationCapStopsImmediately(t *testing.T) {
	h := newHarness(t, &stubRandom{coin: 0}, func(p *Params) { p.MaxIterations = 3 })

	h.engine.Begin()
	h.afterDelay()
	h.frame()
	require.True(t, h.engine.Running())
	h.frame()

	st := h.engine.Status()
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Equal(t, 3, st.TotalIterations)
	assert.Equal(t, StopIterationCap, st.LastStop)
	assert.Positive(t, st.Frontier, "cap stops regardless of frontier size")

	assert.Equal(t, 1, h.control.enables)
	assert.True(t, h.control.enabled)
	assert.Equal(t, 0, h.sched.Pending())
	assert.Equal(t, 0, h.frame())
}

func TestRunsNeverExceedCapAndNeverRevisit(t *testing.T) {
	for seed := int64(1); seed <= 12; seed++ {
		h := newHarness(t, rand.New(rand.NewSource(seed)), nil)
		h.engine.Begin()
		h.runToIdle(t, 100_000)

		st := h.engine.Status()
		assert.LessOrEqual(t, st.TotalIterations, st.MaxIterations)
		assert.Equal(t, 1, h.control.enables)
		assert.Equal(t, 1, h.renderer.clears)

		seen := make(map[Point]bool)
		for _, p := range h.engine.Pixels() {
			require.False(t, seen[p.Point()], "seed %d: %v added twice", seed, p.Point())
			seen[p.Point()] = true
		}
	}
}

func TestSeedRestartWalksWhenNothingGrows(t *testing.T) {
	h := newHarness(t, &stubRandom{coin: 0.99}, func(p *Params) { p.MaxIterations = 5 })
	var seeds []Point
	var stops []StopReason
	h.engine.hooks = Hooks{
		OnRestart: func(seed Point) { seeds = append(seeds, seed) },
		OnStop:    func(reason StopReason, _ Status) { stops = append(stops, reason) },
	}

	h.engine.Begin()
	h.afterDelay()

	st := h.engine.Status()
	assert.Equal(t, PhaseSeeded, st.Phase)
	assert.Equal(t, 1, st.Restarts)
	assert.Equal(t, 1, st.TotalIterations)
	assert.Equal(t, []Pixel{{X: 1, Y: 0, Color: palette.Red}}, h.engine.Pixels())
	assert.Equal(t, 0, h.control.enables)

	h.runToIdle(t, 1000)

	st = h.engine.Status()
	assert.Equal(t, 5, st.TotalIterations)
	assert.Equal(t, 4, st.Restarts)
	assert.Equal(t, StopIterationCap, st.LastStop)
	assert.Equal(t, []Point{{1, 0}, {2, 0}, {3, 0}, {4, 0}}, seeds)
	assert.Equal(t, []StopReason{StopIterationCap}, stops)
	assert.Equal(t, 1, h.control.enables)

	// Restarts keep already drawn cells on the surface
	assert.Equal(t, 1, h.renderer.clears)
	var reds []Point
	for _, c := range h.renderer.cells {
		if c.Color.Equal(palette.Red) {
			reds = append(reds, Point{c.X, c.Y})
		}
	}
	assert.Equal(t, []Point{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}}, reds)
}

func TestClearOnRestart(t *testing.T) {
	h := newHarness(t, &stubRandom{coin: 0.99}, func(p *Params) {
		p.MaxIterations = 3
		p.ClearOnRestart = true
	})

	h.engine.Begin()
	h.afterDelay()
	assert.Equal(t, 2, h.renderer.clears)
}

func TestSeedRestartHaltsWhenNeighborhoodOccupied(t *testing.T) {
	h := newHarness(t, &stubRandom{coin: 0.99}, nil)
	center := Pixel{X: 0, Y: 0, Color: palette.Red}
	h.engine.pixels.add(center)
	for _, d := range outwardDirections {
		h.engine.pixels.add(Pixel{X: d.X, Y: d.Y, Color: palette.White})
	}

	h.engine.OutwardPropagate([]Pixel{center})

	st := h.engine.Status()
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Equal(t, StopNoSeed, st.LastStop)
	assert.Equal(t, 1, st.TotalIterations)
	assert.Equal(t, 1, h.control.enables)
	assert.Equal(t, 0, h.sched.Pending())
}

func TestSeedRestartPicksFirstFreeNeighbor(t *testing.T) {
	h := newHarness(t, &stubRandom{coin: 0.99}, nil)
	center := Pixel{X: 0, Y: 0, Color: palette.Red}
	h.engine.pixels.add(center)
	for _, d := range outwardDirections[:3] {
		h.engine.pixels.add(Pixel{X: d.X, Y: d.Y, Color: palette.White})
	}

	h.engine.OutwardPropagate([]Pixel{center})

	st := h.engine.Status()
	assert.Equal(t, PhaseSeeded, st.Phase)
	assert.Equal(t, 1, st.Restarts)
	assert.Equal(t, []Pixel{{X: 0, Y: -1, Color: palette.Red}}, h.engine.Pixels())
	assert.Equal(t, 0, h.control.enables)
	assert.Equal(t, 0, h.renderer.clears, "restart with iterations > 0 keeps the surface")
}

func TestOutwardEmptyFrontierStops(t *testing.T) {
	h := newHarness(t, &stubRandom{coin: 0}, nil)

	h.engine.OutwardPropagate(nil)

	assert.Equal(t, StopNoSeed, h.engine.Status().LastStop)
	assert.Equal(t, 1, h.control.enables)
}

func TestChildColorDiffersEvenWhenGeneratorCollides(t *testing.T) {
	h := newHarness(t, &redRandom{coin: 0}, nil)

	h.engine.OutwardPropagate([]Pixel{{X: 0, Y: 0, Color: palette.Red}})

	frontier := h.engine.Frontier()
	require.Len(t, frontier, 4)
	for _, p := range frontier {
		assert.False(t, p.Color.Equal(palette.Red))
	}
}

func TestInwardEmptyFrontierEnablesWithoutScheduling(t *testing.T) {
	h := newHarness(t, &stubRandom{coin: 0}, nil)

	h.engine.InwardPropagate(nil)

	st := h.engine.Status()
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Equal(t, StopFrontierExhausted, st.LastStop)
	assert.Equal(t, 0, st.TotalIterations)
	assert.Equal(t, 1, h.control.enables)
	assert.Equal(t, 0, h.sched.Pending())
	assert.Empty(t, h.renderer.cells)
}

func TestInwardNeighborOrder(t *testing.T) {
	h := newHarness(t, &stubRandom{coin: 0}, nil)

	h.engine.InwardPropagate([]Pixel{{X: 0, Y: 0, Color: palette.Red}})

	assert.Equal(t, PhaseInward, h.engine.Status().Phase)
	assert.Equal(t, 1, h.engine.Status().TotalIterations)
	assert.Equal(t, 1, h.sched.Pending())

	want := []Point{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	frontier := h.engine.Frontier()
	require.Len(t, frontier, 4)
	for i, p := range frontier {
		assert.Equal(t, want[i], p.Point())
	}
}

func TestInwardProbabilityIsLower(t *testing.T) {
	// 0.4 passes the outward threshold (0.5) but not the inward one (0.33)
	out := newHarness(t, &stubRandom{coin: 0.4}, nil)
	out.engine.OutwardPropagate([]Pixel{{X: 0, Y: 0, Color: palette.Red}})
	assert.Len(t, out.engine.Frontier(), 4)

	in := newHarness(t, &stubRandom{coin: 0.4}, nil)
	in.engine.InwardPropagate([]Pixel{{X: 0, Y: 0, Color: palette.Red}})
	assert.Empty(t, in.engine.Frontier())
	assert.True(t, in.engine.Running())

	// Empty frontier is detected on the next frame, with no restart
	in.frame()
	st := in.engine.Status()
	assert.Equal(t, StopFrontierExhausted, st.LastStop)
	assert.Equal(t, 0, st.Restarts)
	assert.Equal(t, 1, in.control.enables)
}

func TestInwardIterationCap(t *testing.T) {
	h := newHarness(t, &stubRandom{coin: 0}, func(p *Params) { p.MaxIterations = 2 })

	h.engine.InwardPropagate([]Pixel{{X: 0, Y: 0, Color: palette.Red}})
	h.frame()

	st := h.engine.Status()
	assert.Equal(t, StopIterationCap, st.LastStop)
	assert.Equal(t, 2, st.TotalIterations)
	assert.Equal(t, 0, h.sched.Pending())
}

func TestBeginInwardExpandsCollection(t *testing.T) {
	h := newHarness(t, &stubRandom{coin: 0}, func(p *Params) { p.MaxIterations = 2 })

	h.engine.Begin()
	h.afterDelay()
	h.frame()
	require.False(t, h.engine.Running())
	require.Equal(t, 13, h.engine.Status().Pixels)

	h.engine.BeginInward()

	st := h.engine.Status()
	assert.Equal(t, PhaseInward, st.Phase)
	assert.Equal(t, 1, st.TotalIterations)
	assert.Equal(t, 12, st.Frontier)
	assert.Equal(t, 25, st.Pixels)
	assert.Equal(t, 2, h.control.disables)
}

func TestRecolorPass(t *testing.T) {
	h := newHarness(t, &stubRandom{coin: 0.5}, nil)
	h.engine.Start(0, 0)
	rendered := len(h.renderer.cells)

	// 0.5 is above the recolor probability
	h.engine.RecolorPass()
	assert.Equal(t, palette.Red, h.engine.Pixels()[0].Color)
	assert.Len(t, h.renderer.cells, rendered)

	h.engine.rng = &stubRandom{coin: 0}
	h.engine.colors = palette.NewGenerator(h.engine.rng, 4)
	h.engine.RecolorPass()
	assert.False(t, h.engine.Pixels()[0].Color.Equal(palette.Red))
	assert.Len(t, h.renderer.cells, rendered+1)
}

func TestRecolorOnSeed(t *testing.T) {
	h := newHarness(t, &stubRandom{coin: 0}, func(p *Params) { p.RecolorOnSeed = true })

	h.engine.Begin()
	// Seed render plus its immediate recolor, before the start delay
	require.Len(t, h.renderer.cells, 2)
	assert.Equal(t, palette.Red, h.renderer.cells[0].Color)
	assert.False(t, h.engine.Pixels()[0].Color.Equal(palette.Red))
	assert.Equal(t, PhaseSeeded, h.engine.Status().Phase)

	// Off by default: the seed stays red until the delayed pass
	plain := newHarness(t, &stubRandom{coin: 0}, nil)
	plain.engine.Begin()
	require.Len(t, plain.renderer.cells, 1)
	assert.Equal(t, palette.Red, plain.engine.Pixels()[0].Color)
}

func TestLogsCarryHexColors(t *testing.T) {
	var buf bytes.Buffer
	h := newHarness(t, &stubRandom{coin: 0}, nil).withLogger(&buf)

	h.engine.Begin()
	assert.Contains(t, buf.String(), `"color":"#ff0000"`)
	assert.Contains(t, buf.String(), `"message":"seed placed"`)

	buf.Reset()
	h.engine.RecolorPass()
	out := buf.String()
	assert.Contains(t, out, `"message":"pixel recolored"`)
	assert.Regexp(t, regexp.MustCompile(`"color":"#[0-9a-f]{6}"`), out)
	assert.Contains(t, out, `"color":"`+h.engine.Pixels()[0].Color.Hex()+`"`)
}

func TestBeginCancelsLiveLoop(t *testing.T) {
	h := newHarness(t, &stubRandom{coin: 0}, nil)

	h.engine.Begin()
	h.afterDelay()
	require.Equal(t, PhaseOutward, h.engine.Status().Phase)

	h.engine.Begin()
	st := h.engine.Status()
	assert.Equal(t, PhaseSeeded, st.Phase)
	assert.Equal(t, 0, st.TotalIterations)
	assert.Equal(t, 1, h.sched.Pending(), "only the new start delay remains")
	assert.Equal(t, 2, h.renderer.clears)

	// The old frame loop is gone
	assert.Equal(t, 0, h.frame())

	h.afterDelay()
	assert.Equal(t, 1, h.engine.Status().TotalIterations)
	h.frame()
	assert.Equal(t, 2, h.engine.Status().TotalIterations)
}

func TestCancelLeavesControlDisabled(t *testing.T) {
	h := newHarness(t, &stubRandom{coin: 0}, nil)

	h.engine.Begin()
	h.engine.Cancel()

	assert.False(t, h.engine.Running())
	assert.Equal(t, 0, h.sched.Pending())
	assert.Equal(t, 0, h.control.enables)
	assert.False(t, h.control.enabled)
}
