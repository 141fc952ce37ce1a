package waiter

import (
	"context"
	"time"
)

// Wait polls w until it reports a terminal outcome, bounded by the action's
// default timeout if it has one. The delay between polls is the action's
// default delay.
//
// The context is passed through to Poll untouched: cancellation, if wanted,
// is the action's business, not the wait loop's.
func Wait[T any](ctx context.Context, w Waiter[T]) (T, error) {
	if timeout, ok := w.DefaultWaitTimeout(); ok {
		return WaitFor(ctx, w, timeout)
	}
	return WaitForever(ctx, w)
}

// WaitFor polls w until it reports a terminal outcome or duration elapses,
// using the action's default delay between polls.
func WaitFor[T any](ctx context.Context, w Waiter[T], duration time.Duration) (T, error) {
	return WaitForWithDelay(ctx, w, duration, w.DefaultDelay())
}

// WaitForWithDelay polls w until it reports a terminal outcome or duration
// elapses, sleeping for delay between polls.
//
// The elapsed time is checked against the monotonic clock before every poll,
// so a zero or already-elapsed duration returns the action's timeout error
// without a single poll. A poll error is returned verbatim and immediately,
// never converted into a timeout.
func WaitForWithDelay[T any](ctx context.Context, w Waiter[T], duration, delay time.Duration) (T, error) {
	start := time.Now()
	for time.Since(start) <= duration {
		value, done, err := w.Poll(ctx)
		if err != nil {
			var zero T
			return zero, err
		}
		if done {
			return value, nil
		}
		time.Sleep(delay)
	}
	var zero T
	return zero, w.TimeoutError()
}

// WaitForever polls w until it reports a terminal outcome, using the
// action's default delay between polls.
func WaitForever[T any](ctx context.Context, w Waiter[T]) (T, error) {
	return WaitForeverWithDelay(ctx, w, w.DefaultDelay())
}

// WaitForeverWithDelay polls w until it reports a terminal outcome, sleeping
// for delay between polls. There is no built-in way to stop it: the loop
// ends only when a poll completes or fails.
func WaitForeverWithDelay[T any](ctx context.Context, w Waiter[T], delay time.Duration) (T, error) {
	for {
		value, done, err := w.Poll(ctx)
		if err != nil {
			var zero T
			return zero, err
		}
		if done {
			return value, nil
		}
		time.Sleep(delay)
	}
}
