// Package app wires the engine to a surface, a trigger, a scheduler and the
// terminal or headless host loop.
package app

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/pixel-play/audio"
	"github.com/lixenwraith/pixel-play/canvas"
	"github.com/lixenwraith/pixel-play/config"
	"github.com/lixenwraith/pixel-play/control"
	"github.com/lixenwraith/pixel-play/engine"
)

// Session is one surface with its engine and host-side collaborators
type Session struct {
	cfg   config.Config
	log   zerolog.Logger
	clock engine.Clock

	surface *canvas.Surface
	trigger *control.Trigger
	sched   *engine.LoopScheduler
	engine  *engine.Engine
	sound   *audio.SoundManager

	// drawnGen is the surface generation last shown on screen
	drawnGen uint64
}

// NewSession builds an idle session; clock drives the scheduler's timers
func NewSession(cfg config.Config, clock engine.Clock, logger zerolog.Logger) *Session {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Debug().Int64("seed", seed).Msg("random source seeded")

	s := &Session{
		cfg:     cfg,
		log:     logger,
		clock:   clock,
		surface: canvas.NewSurface(cfg.Surface.Width, cfg.Surface.Height),
		trigger: control.NewTrigger("Start", "space"),
		sched:   engine.NewLoopScheduler(clock),
		sound:   audio.NewSoundManager(cfg.Audio.Volume),
	}

	s.engine = engine.New(cfg.Engine.Params(), engine.Deps{
		Renderer:  s.surface,
		Control:   s.trigger,
		Scheduler: s.sched,
		Random:    rand.New(rand.NewSource(seed)),
		Logger:    &logger,
		Hooks: engine.Hooks{
			OnRestart: func(engine.Point) { s.sound.PlayRestart() },
			OnStop:    func(engine.StopReason, engine.Status) { s.sound.PlayStop() },
		},
	})
	s.trigger.SetHandler(s.engine.Begin)
	return s
}

// Engine exposes the session's engine
func (s *Session) Engine() *engine.Engine { return s.engine }

// Surface exposes the drawing surface
func (s *Session) Surface() *canvas.Surface { return s.surface }

// Trigger exposes the start control
func (s *Session) Trigger() *control.Trigger { return s.trigger }

// Scheduler exposes the frame scheduler
func (s *Session) Scheduler() *engine.LoopScheduler { return s.sched }

// EnableAudio initializes the speaker. Failure leaves the session silent.
func (s *Session) EnableAudio() {
	if err := s.sound.Initialize(); err != nil {
		s.log.Warn().Err(err).Msg("audio unavailable, continuing without sound")
		return
	}
	s.log.Debug().Msg("audio initialized")
}

// Close releases audio resources
func (s *Session) Close() {
	s.sound.Cleanup()
}

// StartInward runs inward propagation over the current pixels; ignored while a run is live
func (s *Session) StartInward() bool {
	if !s.trigger.Enabled() || len(s.engine.Pixels()) == 0 {
		return false
	}
	s.engine.BeginInward()
	return true
}

// Snapshot writes the surface to the configured PNG path
func (s *Session) Snapshot() (string, error) {
	path := s.cfg.Snapshot.Path
	if err := s.surface.SavePNG(path, s.cfg.Snapshot.Scale); err != nil {
		return "", err
	}
	s.log.Info().Str("path", path).Int("painted", s.surface.Painted()).Msg("snapshot saved")
	return path, nil
}
