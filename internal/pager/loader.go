package pager

import (
	"context"
	"time"
)

// DefaultLoadDelay is the simulated latency of a page load
const DefaultLoadDelay = 1000 * time.Millisecond

// Loader produces the next batch of items.
// Implementations must return exactly count integers starting at start.
type Loader interface {
	LoadBatch(ctx context.Context, start, count int) ([]int, error)
}

// LoaderFunc adapts a plain function to the Loader interface
type LoaderFunc func(ctx context.Context, start, count int) ([]int, error)

// LoadBatch calls f
func (f LoaderFunc) LoadBatch(ctx context.Context, start, count int) ([]int, error) {
	return f(ctx, start, count)
}

// DelayLoader simulates a slow data source by waiting a fixed delay
// before returning the next run of sequential integers.
type DelayLoader struct {
	Delay time.Duration
}

// NewDelayLoader creates a loader with the given delay
func NewDelayLoader(delay time.Duration) *DelayLoader {
	return &DelayLoader{Delay: delay}
}

// LoadBatch waits for the delay (or ctx cancellation) and returns start..start+count-1
func (l *DelayLoader) LoadBatch(ctx context.Context, start, count int) ([]int, error) {
	if l.Delay > 0 {
		timer := time.NewTimer(l.Delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	return sequence(start, count), nil
}

// sequence returns count consecutive integers beginning at start
func sequence(start, count int) []int {
	if count <= 0 {
		return nil
	}
	out := make([]int, count)
	for i := range out {
		out[i] = start + i
	}
	return out
}
