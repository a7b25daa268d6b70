package engine

import (
	"sync"
	"time"
)

// Clock is the time source the scheduler reads timer deadlines from
type Clock interface {
	Now() time.Time
}

// TimeProvider is the wall clock used by the interactive session
type TimeProvider struct{}

func NewTimeProvider() *TimeProvider {
	return &TimeProvider{}
}

func (p *TimeProvider) Now() time.Time {
	return time.Now()
}

// MockTimeProvider only moves when Advance is called. The headless runner
// steps it one frame interval per pump, so the start delay costs a fixed
// number of frames regardless of host speed.
type MockTimeProvider struct {
	mu  sync.RWMutex
	now time.Time
}

func NewMockTimeProvider(start time.Time) *MockTimeProvider {
	return &MockTimeProvider{now: start}
}

func (m *MockTimeProvider) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Advance moves simulated time forward by d
func (m *MockTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}
