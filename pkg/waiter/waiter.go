// Package waiter polls an asynchronous action until it completes, fails, or
// a timeout elapses.
//
// A concrete action implements the Waiter interface and is handed to exactly
// one of the wait functions, which owns it for the duration of the call:
//
//	value, err := waiter.Wait(ctx, action)
//
// The wait functions poll the action at a fixed delay until it reports a
// terminal outcome. An action must not be reused after a wait function
// returns.
package waiter

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is the conventional base error for expired waits. Concrete
// waiters usually return it from TimeoutError, wrapped with details about
// the action that timed out, so that callers can test for it with errors.Is.
var ErrTimeout = errors.New("wait timed out")

// Waiter is an action that can be polled until it produces a value of type T
// or fails.
type Waiter[T any] interface {
	// DefaultWaitTimeout returns the timeout used by Wait. The second
	// return value is false if the action should be waited on forever by
	// default. It is read once at the start of a Wait call and must be
	// stable for a given action.
	DefaultWaitTimeout() (time.Duration, bool)

	// DefaultDelay returns the default pause between two consecutive
	// polls. Like DefaultWaitTimeout, it is read once per wait call.
	DefaultDelay() time.Duration

	// Poll updates the state of the action. It returns the final value and
	// true once the action has finished, and the zero value and false
	// while it is still pending. All errors are terminal.
	//
	// Poll must not be called again after it reported completion or
	// failure. The wait functions never do.
	Poll(ctx context.Context) (T, bool, error)

	// TimeoutError returns the error reported when a bounded wait elapses
	// before the action finishes.
	TimeoutError() error
}
