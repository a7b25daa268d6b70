package engine

import (
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/pixel-play/palette"
)

type renderedCell struct {
	X, Y  int
	Color palette.RGB
}

// recordingRenderer captures every render call
type recordingRenderer struct {
	cells  []renderedCell
	clears int
}

func (r *recordingRenderer) RenderCell(x, y int, c palette.RGB) {
	r.cells = append(r.cells, renderedCell{x, y, c})
}

func (r *recordingRenderer) ClearAll() {
	r.clears++
}

// countingControl tracks enable/disable calls
type countingControl struct {
	enables  int
	disables int
	enabled  bool
}

func (c *countingControl) Enable() {
	c.enables++
	c.enabled = true
}

func (c *countingControl) Disable() {
	c.disables++
	c.enabled = false
}

// stubRandom returns a fixed coin value and a counter for color channels,
// so consecutive channels never repeat
type stubRandom struct {
	coin float64
	n    int
}

func (s *stubRandom) Float64() float64 { return s.coin }

func (s *stubRandom) Intn(n int) int {
	s.n++
	return s.n % n
}

// redRandom makes every generated color red
type redRandom struct {
	coin float64
	n    int
}

func (s *redRandom) Float64() float64 { return s.coin }

func (s *redRandom) Intn(n int) int {
	v := [3]int{255, 0, 0}[s.n%3]
	s.n++
	return v % n
}

type harness struct {
	engine   *Engine
	renderer *recordingRenderer
	control  *countingControl
	sched    *LoopScheduler
	clock    *MockTimeProvider
}

func newHarness(t *testing.T, rng Random, mutate func(*Params)) *harness {
	t.Helper()
	params := DefaultParams()
	if mutate != nil {
		mutate(&params)
	}

	clock := NewMockTimeProvider(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	h := &harness{
		renderer: &recordingRenderer{},
		control:  &countingControl{enabled: true},
		clock:    clock,
		sched:    NewLoopScheduler(clock),
	}
	h.engine = New(params, Deps{
		Renderer:  h.renderer,
		Control:   h.control,
		Scheduler: h.sched,
		Random:    rng,
	})
	return h
}

// withLogger rebuilds the engine with a trace-level logger writing to w
func (h *harness) withLogger(w io.Writer) *harness {
	logger := zerolog.New(w).Level(zerolog.TraceLevel)
	h.engine = New(h.engine.params, Deps{
		Renderer:  h.renderer,
		Control:   h.control,
		Scheduler: h.sched,
		Random:    h.engine.rng,
		Logger:    &logger,
	})
	return h
}

// frame advances one display frame and pumps the scheduler
func (h *harness) frame() int {
	h.clock.Advance(16 * time.Millisecond)
	return h.sched.Pump()
}

// afterDelay advances past the start delay and pumps once
func (h *harness) afterDelay() int {
	h.clock.Advance(h.engine.params.StartDelay)
	return h.sched.Pump()
}

// runToIdle pumps until the engine stops or the frame bound is hit
func (h *harness) runToIdle(t *testing.T, maxFrames int) {
	t.Helper()
	for range maxFrames {
		if !h.engine.Running() {
			return
		}
		h.frame()
	}
	t.Fatalf("engine still running after %d frames: %+v", maxFrames, h.engine.Status())
}

func neighborsOf(p Point) map[Point]bool {
	out := make(map[Point]bool, 4)
	for _, d := range outwardDirections {
		out[p.Add(d)] = true
	}
	return out
}
