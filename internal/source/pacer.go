package source

import (
	"context"
	"sync"
	"time"
)

// detailDelay is the deliberate gap between per-card follow-up requests to
// the same board.
const detailDelay = time.Second

// pacer enforces a minimum interval between consecutive requests so detail
// fetches never hammer an upstream site.
type pacer struct {
	mu       sync.Mutex
	last     time.Time
	interval time.Duration
}

func newPacer(interval time.Duration) *pacer {
	return &pacer{interval: interval}
}

// wait blocks until the interval since the previous request has elapsed, or
// the context is cancelled.
func (p *pacer) wait(ctx context.Context) error {
	p.mu.Lock()
	now := time.Now()
	if p.last.IsZero() || now.Sub(p.last) >= p.interval {
		p.last = now
		p.mu.Unlock()
		return nil
	}
	remaining := p.interval - now.Sub(p.last)
	p.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(remaining):
	}

	p.mu.Lock()
	p.last = time.Now()
	p.mu.Unlock()
	return nil
}
