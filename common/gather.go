package common

import (
	"context"
	"sync"

	"emperror.dev/errors"
)

// Outcome is the result of running a function on a single item in Gather.
type Outcome[T, R any] struct {
	Item  T
	Value R
	Err   error
}

// Gather runs fn on every item concurrently and waits for all of them to return.
// Outcomes are in the same order as items. A panic in fn is recovered and
// returned as that item's error, and never affects other items.
func Gather[T, R any](ctx context.Context, items []T, fn func(context.Context, T) (R, error)) []Outcome[T, R] {
	return GatherLimit(ctx, 0, items, fn)
}

// GatherLimit is Gather with at most limit calls to fn running at once.
// A limit of zero or less means no limit.
// Items that haven't started when ctx is cancelled fail with the context's error.
func GatherLimit[T, R any](ctx context.Context, limit int, items []T, fn func(context.Context, T) (R, error)) []Outcome[T, R] {
	out := make([]Outcome[T, R], len(items))
	if len(items) == 0 {
		return out
	}

	var sem chan struct{}
	if limit > 0 {
		sem = make(chan struct{}, limit)
	}

	var wg sync.WaitGroup
	for i := range items {
		out[i].Item = items[i]

		if sem != nil {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				out[i].Err = errors.WithStack(ctx.Err())
				continue
			}
		}

		wg.Add(1)
		go func(o *Outcome[T, R]) {
			defer wg.Done()
			if sem != nil {
				defer func() { <-sem }()
			}
			defer func() {
				if r := recover(); r != nil {
					o.Err = errors.Errorf("panic: %v", r)
				}
			}()

			o.Value, o.Err = fn(ctx, o.Item)
		}(&out[i])
	}
	wg.Wait()

	return out
}

// Failed returns the outcomes with a non-nil error.
func Failed[T, R any](outcomes []Outcome[T, R]) []Outcome[T, R] {
	var failed []Outcome[T, R]
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// CombineErrors combines all errors in outcomes into one.
func CombineErrors[T, R any](outcomes []Outcome[T, R]) error {
	errs := make([]error, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return errors.Combine(errs...)
}
