// Package clock abstracts the blocking sleeps used by the sampling loop,
// the alert emitter and the CPU sampler so tests can run without delays.
package clock

import (
	"context"
	"sync"
	"time"
)

// Clock sleeps for a duration or until ctx is done.
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// Real returns a Clock backed by time timers.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Recorder is a Clock that returns immediately and remembers every
// requested duration.
type Recorder struct {
	mu     sync.Mutex
	sleeps []time.Duration

	// OnSleep, if set, runs after each recorded sleep. Returning an error
	// makes Sleep fail with it.
	OnSleep func(n int, d time.Duration) error
}

func (r *Recorder) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	r.sleeps = append(r.sleeps, d)
	n := len(r.sleeps)
	hook := r.OnSleep
	r.mu.Unlock()
	if hook != nil {
		return hook(n, d)
	}
	return nil
}

// Sleeps returns a copy of the recorded durations in call order.
func (r *Recorder) Sleeps() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]time.Duration, len(r.sleeps))
	copy(out, r.sleeps)
	return out
}
