// Package clock provides the frame clock used to drive camera motion and shader time.
package clock

import (
	"sync"
	"time"

	"github.com/loov/hrtime"
)

// Clock measures elapsed time between frames.
// Tick advances the clock to "now"; Delta and Elapsed report the state captured by the last Tick.
type Clock interface {
	// Tick samples the time source and records the interval since the previous Tick.
	// The first Tick measures from the moment the clock was created.
	Tick()

	// Delta returns the interval between the last two ticks in seconds. It is never negative.
	//
	// Returns:
	//   - float32: seconds since the previous tick
	Delta() float32

	// Elapsed returns the time from clock creation to the last tick in seconds.
	//
	// Returns:
	//   - float32: seconds since the clock started
	Elapsed() float32
}

// source returns a monotonic timestamp.
type source func() time.Duration

type clock struct {
	mu *sync.Mutex

	now     source
	start   time.Duration
	prev    time.Duration
	delta   time.Duration
	elapsed time.Duration
}

var _ Clock = &clock{}

// NewSystemClock creates a Clock backed by the high resolution system timer.
//
// Returns:
//   - Clock: a clock started at the current instant
func NewSystemClock() Clock {
	return newClock(hrtime.Now)
}

func newClock(now source) *clock {
	start := now()
	return &clock{
		mu:    &sync.Mutex{},
		now:   now,
		start: start,
		prev:  start,
	}
}

func (c *clock) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now()
	c.delta = max(t-c.prev, 0)
	c.prev = t
	c.elapsed = t - c.start
}

func (c *clock) Delta() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return float32(c.delta.Seconds())
}

func (c *clock) Elapsed() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return float32(c.elapsed.Seconds())
}
