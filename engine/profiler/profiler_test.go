package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeTime struct {
	t time.Time
}

func (f *fakeTime) now() time.Time { return f.t }

func newTestProfiler(ft *fakeTime, options ...ProfilerBuilderOption) *Profiler {
	p := NewProfiler(options...)
	p.now = ft.now
	p.lastTime = ft.t
	return p
}

func TestTick_ReportsOncePerInterval(t *testing.T) {
	ft := &fakeTime{t: time.Unix(0, 0)}
	p := newTestProfiler(ft)

	for i := 0; i < 59; i++ {
		ft.t = ft.t.Add(time.Second / 60)
		assert.False(t, p.Tick())
	}
	ft.t = time.Unix(1, 0)
	p.Skip()
	assert.True(t, p.Tick())

	stats := p.Last()
	assert.InDelta(t, 60, stats.FPS, 1e-9)
	assert.Equal(t, uint64(1), stats.SkippedFrames)
	assert.Positive(t, stats.SysMB)

	ft.t = ft.t.Add(time.Millisecond)
	assert.False(t, p.Tick(), "counters restart after a report")
}

func TestWithInterval(t *testing.T) {
	ft := &fakeTime{t: time.Unix(0, 0)}
	p := newTestProfiler(ft, WithInterval(100*time.Millisecond))

	ft.t = ft.t.Add(100 * time.Millisecond)
	assert.True(t, p.Tick())
	assert.InDelta(t, 10, p.Last().FPS, 1e-9)

	assert.Equal(t, time.Second, NewProfiler(WithInterval(0)).updateInterval)
}
