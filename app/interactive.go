package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/pixel-play/view"
)

// RunInteractive drives the session on screen until quit or ctx is done.
// The caller owns screen initialization and Fini.
func (s *Session) RunInteractive(ctx context.Context, screen tcell.Screen) error {
	viewer := view.New(screen, s.surface, s.trigger, s.engine.Status)

	events := make(chan tcell.Event, 100)
	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	go s.pollEvents(screen, events, stopCh, doneCh)
	defer func() {
		close(stopCh)
		// Unblock PollEvent so the poller can observe stopCh
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
		<-doneCh
	}()

	ticker := time.NewTicker(s.cfg.Display.FrameInterval.ToDuration())
	defer ticker.Stop()

	s.log.Info().Msg("interactive session started")
	s.redraw(viewer)

	for {
		select {
		case <-ctx.Done():
			s.engine.Cancel()
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if s.handleAction(viewer, viewer.HandleKey(ev)) {
					s.engine.Cancel()
					s.log.Info().Msg("quit requested")
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
			}
			s.redraw(viewer)

		case <-ticker.C:
			if s.tick() {
				s.redraw(viewer)
			}
		}
	}
}

// tick pumps the scheduler and reports whether the screen is stale: a callback
// ran, which may have moved the status bar, or the surface changed since the last draw
func (s *Session) tick() bool {
	ran := s.sched.Pump()
	return ran > 0 || s.surface.Generation() != s.drawnGen
}

func (s *Session) redraw(viewer *view.Viewer) {
	viewer.Draw()
	s.drawnGen = s.surface.Generation()
}

// handleAction applies a viewer action; returns true on quit
func (s *Session) handleAction(viewer *view.Viewer, action view.Action) bool {
	switch action {
	case view.ActionQuit:
		return true
	case view.ActionStart:
		if !s.trigger.Press() {
			viewer.SetMessage("already running")
			return false
		}
		viewer.SetMessage("")
	case view.ActionInward:
		if !s.StartInward() {
			viewer.SetMessage("inward needs an idle, painted surface")
			return false
		}
		viewer.SetMessage("inward")
	case view.ActionSnapshot:
		path, err := s.Snapshot()
		if err != nil {
			s.log.Error().Err(err).Msg("snapshot failed")
			viewer.SetMessage(fmt.Sprintf("snapshot failed: %v", err))
			return false
		}
		viewer.SetMessage("saved " + path)
	}
	return false
}

func (s *Session) pollEvents(screen tcell.Screen, events chan<- tcell.Event, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)
	defer close(events)

	for {
		select {
		case <-stopCh:
			return
		default:
		}

		ev := screen.PollEvent()
		if ev == nil {
			return
		}

		select {
		case events <- ev:
		case <-stopCh:
			return
		}
	}
}
