// Package nats provides a waitable readiness target for NATS.
package nats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/damianiandrea/go-waitfor/pkg/waiter"
)

const defaultUrl = "nats://127.0.0.1:4222"

// Target waits for a NATS server to accept a connection. It implements
// waiter.Waiter.
type Target struct {
	waiter.State[string]

	name       string
	url        string
	timeout    time.Duration
	hasTimeout bool
	delay      time.Duration
	logger     *slog.Logger
}

func NewTarget(name, url string, opts ...Option) *Target {
	t := &Target{
		name:   name,
		url:    url,
		delay:  time.Second,
		logger: slog.Default(),
	}
	if t.url == "" {
		t.url = defaultUrl
	}

	for _, opt := range opts {
		opt(t)
	}

	t.SetState("no poll yet")
	return t
}

func (t *Target) Name() string {
	return t.name
}

func (t *Target) DefaultWaitTimeout() (time.Duration, bool) {
	return t.timeout, t.hasTimeout
}

func (t *Target) DefaultDelay() time.Duration {
	return t.delay
}

func (t *Target) TimeoutError() error {
	return fmt.Errorf("target %v: %w", t.name, waiter.ErrTimeout)
}

// Poll attempts one connection. The probe connection is closed again right
// away; the connected url is kept as the final value.
func (t *Target) Poll(ctx context.Context) (string, bool, error) {
	conn, err := nats.Connect(t.url)
	if err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		state := fmt.Sprintf("could not connect to nats: %v", err)
		t.SetState(state)
		t.logger.Debug("nats target not ready", "target", t.name, "state", state)
		return "", false, nil
	}

	url := conn.ConnectedUrlRedacted()
	conn.Close()

	t.SetState("ready")
	return fmt.Sprintf("connected to nats at %v", url), true, nil
}

type Option func(*Target)

// WithTimeout sets the target's default wait timeout. Targets without one
// are waited on forever.
func WithTimeout(timeout time.Duration) Option {
	return func(t *Target) {
		t.timeout = timeout
		t.hasTimeout = true
	}
}

// WithDelay sets the target's default delay between polls.
func WithDelay(delay time.Duration) Option {
	return func(t *Target) {
		if delay >= 0 {
			t.delay = delay
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(t *Target) {
		if logger != nil {
			t.logger = logger
		}
	}
}
