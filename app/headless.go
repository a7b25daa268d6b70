package app

import (
	"errors"
	"time"

	"github.com/lixenwraith/pixel-play/engine"
)

// ErrClockNotManual is returned by RunHeadless when the session clock cannot be stepped
var ErrClockNotManual = errors.New("headless run needs a manually advanced clock")

// ManualClock is a clock the headless runner steps one frame at a time.
// *engine.MockTimeProvider satisfies it.
type ManualClock interface {
	engine.Clock
	Advance(d time.Duration)
}

// Summary reports a finished headless run
type Summary struct {
	Frames    int
	Simulated time.Duration
	Status    engine.Status
	Painted   int
	Truncated bool // Frame bound hit while the engine was still running
}

// RunHeadless presses the trigger and pumps frames on the manual clock until
// the engine goes idle or maxFrames is reached
func (s *Session) RunHeadless(maxFrames int) (Summary, error) {
	clock, ok := s.clock.(ManualClock)
	if !ok {
		return Summary{}, ErrClockNotManual
	}

	interval := s.cfg.Display.FrameInterval.ToDuration()
	start := clock.Now()

	s.trigger.Press()

	var sum Summary
	for sum.Frames < maxFrames && s.engine.Running() {
		clock.Advance(interval)
		s.sched.Pump()
		sum.Frames++
	}

	if s.engine.Running() {
		sum.Truncated = true
		s.engine.Cancel()
	}

	sum.Simulated = clock.Now().Sub(start)
	sum.Status = s.engine.Status()
	sum.Painted = s.surface.Painted()

	s.log.Info().
		Int("frames", sum.Frames).
		Int("iterations", sum.Status.TotalIterations).
		Int("pixels", sum.Status.Pixels).
		Int("restarts", sum.Status.Restarts).
		Str("stop", sum.Status.LastStop.String()).
		Bool("truncated", sum.Truncated).
		Msg("headless run finished")
	return sum, nil
}
