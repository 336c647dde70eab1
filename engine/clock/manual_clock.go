package clock

import (
	"sync"
	"time"
)

// ManualClock is a Clock whose time only moves when Advance is called.
// It makes frame timing deterministic in tests and offline tools.
type ManualClock struct {
	*clock
	mu  sync.Mutex
	now time.Duration
}

// NewManualClock creates a ManualClock at time zero.
func NewManualClock() *ManualClock {
	m := &ManualClock{}
	m.clock = newClock(m.read)
	return m
}

// Advance moves the clock's time source forward by d. Negative values are ignored.
// The new time becomes visible at the next Tick.
func (m *ManualClock) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	m.mu.Lock()
	m.now += d
	m.mu.Unlock()
}

func (m *ManualClock) read() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}
