package engine

import (
	"slices"
	"time"
)

// Handle identifies a scheduled callback; zero is never issued
type Handle uint64

// Scheduler requests future ticks for the propagation loop.
// Implementations decide what a frame is: a display refresh, a timer, or a manual step.
type Scheduler interface {
	// RequestFrame runs fn on the next frame tick
	RequestFrame(fn func()) Handle
	// After runs fn on the first tick at or past now+d
	After(d time.Duration, fn func()) Handle
	// Cancel drops a pending callback; unknown or consumed handles are ignored
	Cancel(h Handle)
}

type task struct {
	handle Handle
	due    time.Time
	fn     func()
}

// LoopScheduler is a single-threaded Scheduler driven by the host loop calling Pump once per frame
type LoopScheduler struct {
	clock  Clock
	next   Handle
	frames []*task
	timers []*task
	live   map[Handle]*task
}

// NewLoopScheduler creates a scheduler reading deadlines from clock
func NewLoopScheduler(clock Clock) *LoopScheduler {
	return &LoopScheduler{
		clock: clock,
		live:  make(map[Handle]*task),
	}
}

func (s *LoopScheduler) track(fn func()) *task {
	s.next++
	t := &task{handle: s.next, fn: fn}
	s.live[t.handle] = t
	return t
}

// RequestFrame queues fn for the next Pump
func (s *LoopScheduler) RequestFrame(fn func()) Handle {
	t := s.track(fn)
	s.frames = append(s.frames, t)
	return t.handle
}

// After queues fn for the first Pump at or past now+d
func (s *LoopScheduler) After(d time.Duration, fn func()) Handle {
	t := s.track(fn)
	t.due = s.clock.Now().Add(d)
	s.timers = append(s.timers, t)
	return t.handle
}

// Cancel drops a pending callback
func (s *LoopScheduler) Cancel(h Handle) {
	delete(s.live, h)
}

// Pump runs due timers in deadline order, then the frame callbacks queued before Pump began.
// Callbacks scheduled from inside Pump wait for the next call. Returns the number of callbacks run.
func (s *LoopScheduler) Pump() int {
	frames := s.frames
	s.frames = nil

	now := s.clock.Now()
	var due, waiting []*task
	for _, t := range s.timers {
		if _, ok := s.live[t.handle]; !ok {
			continue
		}
		if t.due.After(now) {
			waiting = append(waiting, t)
		} else {
			due = append(due, t)
		}
	}
	s.timers = waiting
	slices.SortStableFunc(due, func(a, b *task) int {
		return a.due.Compare(b.due)
	})

	ran := 0
	for _, t := range due {
		if s.run(t) {
			ran++
		}
	}
	for _, t := range frames {
		if s.run(t) {
			ran++
		}
	}
	return ran
}

func (s *LoopScheduler) run(t *task) bool {
	if _, ok := s.live[t.handle]; !ok {
		return false
	}
	delete(s.live, t.handle)
	t.fn()
	return true
}

// Pending returns the number of callbacks not yet run or cancelled
func (s *LoopScheduler) Pending() int {
	return len(s.live)
}
