package timing

import "time"

// Limiter controls refresh pacing for the live viewer.
type Limiter interface {
	// WaitForNextRefresh blocks until the next refresh is due.
	// Returns immediately if timing is behind schedule.
	WaitForNextRefresh()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless runs).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextRefresh() {}
func (n *noOpLimiter) Reset()              {}

// TickerLimiter uses time.Ticker for simple, consistent refresh timing.
type TickerLimiter struct {
	interval time.Duration
	ticker   *time.Ticker
}

// NewTickerLimiter paces refreshes at the given rate.
func NewTickerLimiter(refreshHz int) *TickerLimiter {
	if refreshHz < 1 {
		refreshHz = 1
	}
	interval := time.Second / time.Duration(refreshHz)
	return &TickerLimiter{
		interval: interval,
		ticker:   time.NewTicker(interval),
	}
}

func (t *TickerLimiter) WaitForNextRefresh() {
	<-t.ticker.C
}

func (t *TickerLimiter) Reset() {
	t.ticker.Reset(t.interval)
}

func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}
