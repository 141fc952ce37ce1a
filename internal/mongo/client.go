// Package mongo provides a waitable readiness target for MongoDB.
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/damianiandrea/go-waitfor/pkg/waiter"
)

// selectionTimeout bounds a single ping so that one poll cannot hang for
// the driver's 30s server selection default.
const selectionTimeout = 5 * time.Second

// Target waits for a MongoDB deployment to answer a primary ping. It
// implements waiter.Waiter.
type Target struct {
	waiter.State[string]

	name       string
	uri        string
	timeout    time.Duration
	hasTimeout bool
	delay      time.Duration
	logger     *slog.Logger

	client *mongo.Client
}

func NewTarget(name, uri string, opts ...Option) *Target {
	t := &Target{
		name:   name,
		uri:    uri,
		delay:  time.Second,
		logger: slog.Default(),
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

// Poll pings the deployment's primary. A failed ping means mongodb is not
// ready yet; an unparsable uri or a cancelled context is terminal. The
// probe client is disconnected once the deployment answered.
func (t *Target) Poll(ctx context.Context) (string, bool, error) {
	if t.client == nil {
		client, err := mongo.Connect(ctx, options.Client().
			ApplyURI(t.uri).
			SetServerSelectionTimeout(selectionTimeout))
		if err != nil {
			return "", false, fmt.Errorf("could not create mongodb client: %v", err)
		}
		t.client = client
	}

	if err := t.client.Ping(ctx, readpref.Primary()); err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		state := fmt.Sprintf("could not ping mongodb: %v", err)
		t.SetState(state)
		t.logger.Debug("mongo target not ready", "target", t.name, "state", state)
		return "", false, nil
	}

	if err := t.client.Disconnect(ctx); err != nil {
		t.logger.Warn("could not disconnect mongodb probe client", "target", t.name, "err", err)
	}
	t.client = nil

	t.SetState("ready")
	return "mongodb is ready", true, nil
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
