// Package pacing runs short, fixed sequences of timed steps used to pace
// progress feedback (price refresh status labels, upload progress).
package pacing

import (
	"context"
	"time"
)

// Step runs Do once After has elapsed since the previous step finished.
type Step struct {
	After time.Duration
	Do    func()
}

// Sequence is an ordered list of steps.
type Sequence []Step

// Run executes the steps in order. When ctx is cancelled the pending steps
// are dropped and ctx.Err() is returned; a step that already ran is not
// undone.
func (s Sequence) Run(ctx context.Context) error {
	for _, step := range s {
		if err := wait(ctx, step.After); err != nil {
			return err
		}
		if step.Do != nil {
			step.Do()
		}
	}
	return nil
}

// Start runs the sequence in its own goroutine. The returned channel
// receives the result of Run and is then closed.
func (s Sequence) Start(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- s.Run(ctx)
	}()
	return done
}

// Total is the sum of all step delays.
func (s Sequence) Total() time.Duration {
	var d time.Duration
	for _, step := range s {
		d += step.After
	}
	return d
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
