package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clhenry/dust-bin/dustbin"
	"github.com/clhenry/dust-bin/dustbin/stimulus"
	"github.com/clhenry/dust-bin/dustbin/timing"
)

func newViewerBench(t *testing.T) *dustbin.Bench {
	t.Helper()
	line, err := stimulus.NewPulseTrain(10, 80)
	require.NoError(t, err)
	bench, err := dustbin.New(
		dustbin.Config{ClockHz: 640_000, Width: 16, Depth: 4},
		line,
		stimulus.NewCounter(1),
	)
	require.NoError(t, err)
	return bench
}

func TestNewViewerDefaults(t *testing.T) {
	v := NewViewer(newViewerBench(t), 30, 0)
	defer v.SetLimiter(timing.NewNoOpLimiter())

	assert.Equal(t, 1, v.ticksPerRefresh, "batch size clamps to at least one tick")
	assert.IsType(t, &timing.TickerLimiter{}, v.limiter)
}

func TestSetLimiterSwapsInNoOp(t *testing.T) {
	v := NewViewer(newViewerBench(t), 30, 64)

	noop := timing.NewNoOpLimiter()
	v.SetLimiter(noop)
	assert.Same(t, noop, v.limiter, "unthrottled runs replace the ticker with the no-op limiter")
}

func TestStopFromAnotherGoroutine(t *testing.T) {
	v := NewViewer(newViewerBench(t), 30, 1)
	defer v.SetLimiter(timing.NewNoOpLimiter())

	v.running.Store(true)
	done := make(chan struct{})
	go func() {
		v.stop()
		close(done)
	}()
	<-done
	assert.False(t, v.running.Load())
}
