package core

import (
	"context"
	"time"
)

// Pacer spaces out simulation steps to a steady ticks-per-second rate so a
// viewer can follow the run. A Pacer with a non-positive rate never waits.
type Pacer struct {
	step time.Duration
	last time.Time
}

// NewPacer constructs a Pacer targeting the given TPS.
func NewPacer(tps int) *Pacer {
	p := &Pacer{}
	p.SetTPS(tps)
	return p
}

// SetTPS changes the tick rate. Zero or negative disables pacing.
func (p *Pacer) SetTPS(tps int) {
	if tps <= 0 {
		p.step = 0
		return
	}
	p.step = time.Second / time.Duration(tps)
}

// Step returns the interval between ticks.
func (p *Pacer) Step() time.Duration { return p.step }

// Wait blocks until one step has elapsed since the previous call returned, or
// until ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p.step <= 0 {
		return ctx.Err()
	}
	now := time.Now()
	if p.last.IsZero() {
		p.last = now
	}
	remaining := p.step - now.Sub(p.last)
	if remaining > 0 {
		t := time.NewTimer(remaining)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	p.last = time.Now()
	return nil
}
