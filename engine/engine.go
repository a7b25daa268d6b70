// Package engine grows a field of colored virtual pixels from a seed by
// randomized four-neighbor expansion, one step per scheduled frame.
//
// The engine is single-threaded: every callback it hands to the Scheduler
// mutates engine state, so the host must run them on one goroutine.
package engine

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/pixel-play/constants"
	"github.com/lixenwraith/pixel-play/palette"
)

// Renderer paints unit cells in a centered Cartesian frame
type Renderer interface {
	RenderCell(x, y int, c palette.RGB)
	ClearAll()
}

// Control is the start trigger; disabled while a run is in progress
type Control interface {
	Enable()
	Disable()
}

// Random supplies branch probabilities and color channels; *math/rand.Rand satisfies it
type Random interface {
	Float64() float64
	Intn(n int) int
}

// Params holds the propagation constants
type Params struct {
	RecolorProbability float64
	OutwardProbability float64
	InwardProbability  float64
	MaxIterations      int
	StartDelay         time.Duration
	ColorRetries       int

	// ClearOnRestart also clears the surface when a seed restart begins a new run
	ClearOnRestart bool

	// RecolorOnSeed runs a recolor pass right after the seed is placed, so the seed may flicker off red
	RecolorOnSeed bool
}

// DefaultParams returns the stock propagation constants
func DefaultParams() Params {
	return Params{
		RecolorProbability: constants.RecolorProbability,
		OutwardProbability: constants.OutwardBranchProbability,
		InwardProbability:  constants.InwardBranchProbability,
		MaxIterations:      constants.MaxIterations,
		StartDelay:         constants.StartDelay,
		ColorRetries:       constants.ColorRetries,
	}
}

// Hooks are optional observers of run transitions
type Hooks struct {
	OnRestart func(seed Point)
	OnStop    func(reason StopReason, status Status)
}

// Deps are the engine's collaborators; Logger may be nil
type Deps struct {
	Renderer  Renderer
	Control   Control
	Scheduler Scheduler
	Random    Random
	Logger    *zerolog.Logger
	Hooks     Hooks
}

// Engine owns the pixel collection and drives propagation
type Engine struct {
	params   Params
	renderer Renderer
	control  Control
	sched    Scheduler
	rng      Random
	colors   *palette.Generator
	log      zerolog.Logger
	hooks    Hooks

	state    RunState
	pixels   pixelSet
	frontier []Pixel
}

// New creates an idle engine
func New(params Params, deps Deps) *Engine {
	logger := zerolog.Nop()
	if deps.Logger != nil {
		logger = deps.Logger.With().Str("component", "engine").Logger()
	}
	return &Engine{
		params:   params,
		renderer: deps.Renderer,
		control:  deps.Control,
		sched:    deps.Scheduler,
		rng:      deps.Random,
		colors:   palette.NewGenerator(deps.Random, params.ColorRetries),
		log:      logger,
		hooks:    deps.Hooks,
		state:    RunState{MaxIterations: params.MaxIterations},
		pixels:   newPixelSet(),
	}
}

// Begin is the user-triggered start: drops any live loop, zeroes the iteration count,
// disables the control and seeds at the origin
func (e *Engine) Begin() {
	e.state.cancel(e.sched)
	e.state.reset()
	e.control.Disable()
	e.log.Info().Msg("start triggered")
	e.Start(constants.SeedX, constants.SeedY)
}

// Start seeds a run at (seedX, seedY) and schedules recolor and outward propagation after the start delay.
// The surface is cleared only for the first run of a start (TotalIterations == 0) unless ClearOnRestart is set.
func (e *Engine) Start(seedX, seedY int) {
	e.state.cancel(e.sched)
	if e.state.TotalIterations == 0 || e.params.ClearOnRestart {
		e.renderer.ClearAll()
	}

	seed := Pixel{X: seedX, Y: seedY, Color: palette.Red}
	e.pixels.reset()
	e.pixels.add(seed)
	e.frontier = nil
	e.renderer.RenderCell(seed.X, seed.Y, seed.Color)
	e.state.Phase = PhaseSeeded

	e.log.Debug().Int("x", seedX).Int("y", seedY).Stringer("color", seed.Color).
		Dur("delay", e.params.StartDelay).Msg("seed placed")

	if e.params.RecolorOnSeed {
		e.RecolorPass()
	}

	gen := e.state.generation
	e.state.pending = e.sched.After(e.params.StartDelay, func() {
		if gen != e.state.generation {
			return
		}
		e.state.pending = 0
		e.RecolorPass()
		e.OutwardPropagate(e.pixels.list())
	})
}

// RecolorPass gives each pixel, with RecolorProbability, a new color different from its current one
func (e *Engine) RecolorPass() {
	recolored := 0
	for i := range e.pixels.items {
		px := &e.pixels.items[i]
		if e.rng.Float64() >= e.params.RecolorProbability {
			continue
		}
		px.Color = e.colors.DifferentFrom(px.Color)
		e.renderer.RenderCell(px.X, px.Y, px.Color)
		e.log.Trace().Int("x", px.X).Int("y", px.Y).Stringer("color", px.Color).Msg("pixel recolored")
		recolored++
	}
	e.log.Debug().Int("pixels", e.pixels.len()).Int("recolored", recolored).Msg("recolor pass")
}

// OutwardPropagate grows from frontier, one step now and one per frame after.
// An emptied frontier restarts from a free neighbor of the last expanded pixel.
func (e *Engine) OutwardPropagate(frontier []Pixel) {
	e.state.cancel(e.sched)
	e.state.Phase = PhaseOutward
	e.frontier = append([]Pixel(nil), frontier...)
	e.log.Info().Int("frontier", len(frontier)).Msg("outward propagation started")
	e.outwardStep(e.state.generation, visitedFrom(frontier))
}

func (e *Engine) outwardStep(gen uint64, visited map[Point]struct{}) {
	if gen != e.state.generation {
		return
	}
	e.state.pending = 0

	if e.state.TotalIterations >= e.state.MaxIterations {
		e.stop(StopIterationCap)
		return
	}

	parents := e.frontier
	e.frontier = e.expand(parents, visited, outwardDirections, e.params.OutwardProbability)
	e.state.TotalIterations++

	if e.state.TotalIterations >= e.state.MaxIterations {
		e.stop(StopIterationCap)
		return
	}
	if len(e.frontier) == 0 {
		e.reseed(parents)
		return
	}

	e.state.pending = e.sched.RequestFrame(func() {
		e.outwardStep(gen, visited)
	})
}

// reseed restarts from the first unoccupied neighbor of the last pixel in parents, or stops
func (e *Engine) reseed(parents []Pixel) {
	if len(parents) == 0 {
		e.stop(StopNoSeed)
		return
	}

	last := parents[len(parents)-1].Point()
	for _, d := range outwardDirections {
		seed := last.Add(d)
		if e.pixels.occupied(seed) {
			continue
		}
		e.state.Restarts++
		e.log.Info().Int("x", seed.X).Int("y", seed.Y).Int("restarts", e.state.Restarts).
			Msg("restarting propagation from new seed")
		if e.hooks.OnRestart != nil {
			e.hooks.OnRestart(seed)
		}
		e.Start(seed.X, seed.Y)
		return
	}

	e.stop(StopNoSeed)
}

// InwardPropagate grows from frontier with the inward neighbor order and probability; no restarts
func (e *Engine) InwardPropagate(frontier []Pixel) {
	e.state.cancel(e.sched)
	e.state.Phase = PhaseInward
	e.frontier = append([]Pixel(nil), frontier...)
	e.log.Info().Int("frontier", len(frontier)).Msg("inward propagation started")
	e.inwardStep(e.state.generation, visitedFrom(frontier))
}

func (e *Engine) inwardStep(gen uint64, visited map[Point]struct{}) {
	if gen != e.state.generation {
		return
	}
	e.state.pending = 0

	if e.state.TotalIterations >= e.state.MaxIterations {
		e.stop(StopIterationCap)
		return
	}
	if len(e.frontier) == 0 {
		e.stop(StopFrontierExhausted)
		return
	}

	e.frontier = e.expand(e.frontier, visited, inwardDirections, e.params.InwardProbability)
	e.state.TotalIterations++

	if e.state.TotalIterations >= e.state.MaxIterations {
		e.stop(StopIterationCap)
		return
	}

	e.state.pending = e.sched.RequestFrame(func() {
		e.inwardStep(gen, visited)
	})
}

// BeginInward is the user-triggered inward run over the current pixel collection
func (e *Engine) BeginInward() {
	e.state.cancel(e.sched)
	e.state.reset()
	e.control.Disable()
	e.log.Info().Msg("inward triggered")
	e.InwardPropagate(e.pixels.list())
}

// expand runs one propagation step and returns the next frontier.
// Each child's color differs from its parent's color as carried in parents.
func (e *Engine) expand(parents []Pixel, visited map[Point]struct{}, dirs [4]Point, probability float64) []Pixel {
	var next []Pixel
	for _, parent := range parents {
		origin := parent.Point()
		for _, d := range dirs {
			pt := origin.Add(d)
			if _, seen := visited[pt]; seen {
				continue
			}
			if e.rng.Float64() >= probability {
				continue
			}
			visited[pt] = struct{}{}

			child := Pixel{X: pt.X, Y: pt.Y, Color: e.colors.DifferentFrom(parent.Color)}
			e.pixels.add(child)
			next = append(next, child)
			e.renderer.RenderCell(child.X, child.Y, child.Color)
		}
	}

	e.log.Debug().Int("frontier", len(next)).Int("iteration", e.state.TotalIterations+1).Msg("new parents")
	return next
}

// stop ends the run and re-enables the control
func (e *Engine) stop(reason StopReason) {
	e.state.cancel(e.sched)
	e.state.Phase = PhaseIdle
	e.state.LastStop = reason

	e.log.Info().
		Str("reason", reason.String()).
		Int("iterations", e.state.TotalIterations).
		Int("pixels", e.pixels.len()).
		Int("restarts", e.state.Restarts).
		Msg("propagation stopped")

	e.control.Enable()
	if e.hooks.OnStop != nil {
		e.hooks.OnStop(reason, e.Status())
	}
}

// Cancel drops any pending tick and goes idle; the control is left as is
func (e *Engine) Cancel() {
	e.state.cancel(e.sched)
	e.state.Phase = PhaseIdle
}

// Status returns a copy of the observable run state
func (e *Engine) Status() Status {
	return Status{
		Phase:           e.state.Phase,
		TotalIterations: e.state.TotalIterations,
		MaxIterations:   e.state.MaxIterations,
		Pixels:          e.pixels.len(),
		Frontier:        len(e.frontier),
		Restarts:        e.state.Restarts,
		LastStop:        e.state.LastStop,
	}
}

// Running reports whether a run is in progress
func (e *Engine) Running() bool {
	return e.state.Phase != PhaseIdle
}

// Pixels returns a copy of the current pixel collection
func (e *Engine) Pixels() []Pixel {
	return e.pixels.list()
}

// Frontier returns a copy of the current frontier
func (e *Engine) Frontier() []Pixel {
	return append([]Pixel(nil), e.frontier...)
}
