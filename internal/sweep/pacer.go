package sweep

import (
	"context"
	"time"
)

// Clock is the time source the pacer waits on.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Pacer runs tasks one at a time with a fixed gap between consecutive tasks.
type Pacer struct {
	interval time.Duration
	clock    Clock
}

func NewPacer(interval time.Duration, clock Clock) *Pacer {
	if clock == nil {
		clock = realClock{}
	}
	if interval < 0 {
		interval = 0
	}
	return &Pacer{interval: interval, clock: clock}
}

// Each calls fn for every item in order. A started task runs with a context
// that ignores cancellation; cancellation only stops the next task from starting.
// It returns how many tasks were started.
func Each[T any](ctx context.Context, p *Pacer, items []T, fn func(context.Context, T)) int {
	taskCtx := context.WithoutCancel(ctx)
	started := 0
	for i, it := range items {
		if i > 0 && p.interval > 0 {
			select {
			case <-ctx.Done():
				return started
			case <-p.clock.After(p.interval):
			}
		}
		if ctx.Err() != nil {
			return started
		}
		started++
		fn(taskCtx, it)
	}
	return started
}
