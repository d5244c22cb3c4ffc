package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var (
	_ Limiter = (*TickerLimiter)(nil)
	_ Limiter = (*noOpLimiter)(nil)
)

func TestNoOpLimiterDoesNotBlock(t *testing.T) {
	l := NewNoOpLimiter()

	start := time.Now()
	for i := 0; i < 1000; i++ {
		l.WaitForNextRefresh()
	}
	l.Reset()
	assert.Less(t, time.Since(start), time.Second)
}

func TestTickerLimiterClampsRate(t *testing.T) {
	slow := NewTickerLimiter(0)
	defer slow.Stop()
	assert.Equal(t, time.Second, slow.interval)

	fast := NewTickerLimiter(50)
	defer fast.Stop()
	assert.Equal(t, time.Second/50, fast.interval)
}

func TestTickerLimiterWaits(t *testing.T) {
	l := NewTickerLimiter(100)
	defer l.Stop()

	start := time.Now()
	l.WaitForNextRefresh()
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}
