package nats

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	natstest "github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"

	"github.com/damianiandrea/go-waitfor/pkg/waiter"
)

func TestNewTarget(t *testing.T) {
	t.Run("should create target with defaults", func(t *testing.T) {
		target := NewTarget("bus", "")

		require.Equal(t, "bus", target.Name())
		require.Equal(t, "nats://127.0.0.1:4222", target.url)
		require.Equal(t, time.Second, target.DefaultDelay())
		_, bounded := target.DefaultWaitTimeout()
		require.False(t, bounded)
		require.Equal(t, slog.Default(), target.logger)
	})
	t.Run("should create target with the configured options", func(t *testing.T) {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

		target := NewTarget("bus", nats.DefaultURL,
			WithTimeout(30*time.Second),
			WithDelay(50*time.Millisecond),
			WithLogger(logger),
		)

		timeout, bounded := target.DefaultWaitTimeout()
		require.True(t, bounded)
		require.Equal(t, 30*time.Second, timeout)
		require.Equal(t, 50*time.Millisecond, target.DefaultDelay())
		require.Equal(t, logger, target.logger)
	})
}

func TestTarget_Poll(t *testing.T) {
	t.Run("should report pending while nats is not available", func(t *testing.T) {
		target := NewTarget("bus", nats.DefaultURL)

		_, done, err := target.Poll(context.Background())

		require.NoError(t, err)
		require.False(t, done)
		require.Contains(t, target.CurrentState(), "could not connect to nats")
	})
	t.Run("should be done once nats is available", func(t *testing.T) {
		s := natstest.RunDefaultServer()
		defer s.Shutdown()
		target := NewTarget("bus", nats.DefaultURL)

		value, done, err := target.Poll(context.Background())

		require.NoError(t, err)
		require.True(t, done)
		require.Contains(t, value, "connected to nats")
		require.Equal(t, "ready", target.CurrentState())
	})
}

func TestTarget_Wait(t *testing.T) {
	t.Run("should be driven to readiness by the waiter", func(t *testing.T) {
		s := natstest.RunDefaultServer()
		defer s.Shutdown()
		target := NewTarget("bus", nats.DefaultURL,
			WithTimeout(5*time.Second),
			WithDelay(10*time.Millisecond),
		)

		value, err := waiter.Wait[string](context.Background(), target)

		require.NoError(t, err)
		require.Contains(t, value, "connected to nats")
	})
	t.Run("should time out when nats never becomes available", func(t *testing.T) {
		target := NewTarget("bus", nats.DefaultURL,
			WithTimeout(50*time.Millisecond),
			WithDelay(10*time.Millisecond),
		)

		_, err := waiter.Wait[string](context.Background(), target)

		require.ErrorIs(t, err, waiter.ErrTimeout)
		require.ErrorContains(t, err, "bus")
	})
}
