package uniform

import "github.com/Carmen-Shannon/oxy-sky/engine/clock"

// UniformBufferBuilderOption is a functional option applied during NewUniformBuffer.
type UniformBufferBuilderOption func(*uniformBuffer)

// WithClock replaces the system clock, typically with a clock.ManualClock in tests.
//
// Parameters:
//   - c: the clock that drives camera motion and shader time
//
// Returns:
//   - UniformBufferBuilderOption: a function that sets the clock
func WithClock(c clock.Clock) UniformBufferBuilderOption {
	return func(u *uniformBuffer) {
		u.clock = c
	}
}
