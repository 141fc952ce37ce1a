// Package test holds helpers shared by the test suites.
package test

import (
	"context"
	"fmt"
	"time"

	"github.com/damianiandrea/go-waitfor/pkg/waiter"
)

// Await polls fn every 10ms until it reports true or the timeout elapses.
func Await(timeout time.Duration, fn func() bool) error {
	_, err := waiter.WaitForWithDelay[struct{}](context.Background(),
		&condition{fn: fn}, timeout, 10*time.Millisecond)
	return err
}

type condition struct {
	fn func() bool
}

func (c *condition) DefaultWaitTimeout() (time.Duration, bool) {
	return 0, false
}

func (c *condition) DefaultDelay() time.Duration {
	return 10 * time.Millisecond
}

func (c *condition) Poll(_ context.Context) (struct{}, bool, error) {
	return struct{}{}, c.fn(), nil
}

func (c *condition) TimeoutError() error {
	return fmt.Errorf("condition not met in time: %w", waiter.ErrTimeout)
}
