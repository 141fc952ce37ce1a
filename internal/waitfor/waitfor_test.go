package waitfor

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/damianiandrea/go-waitfor/internal/config"
	"github.com/damianiandrea/go-waitfor/internal/mongo"
	"github.com/damianiandrea/go-waitfor/internal/nats"
	"github.com/damianiandrea/go-waitfor/internal/probe"
)

func Test_buildTarget(t *testing.T) {
	logger := slog.Default()
	delay := config.Duration(10 * time.Millisecond)
	timeout := config.Duration(time.Second)

	t.Run("should build an http target", func(t *testing.T) {
		target, err := buildTarget(&config.Target{
			Name: "api", Type: config.TypeHTTP, Url: "http://127.0.0.1:8081/healthz",
			Timeout: &timeout, Delay: &delay,
		}, logger)

		require.NoError(t, err)
		require.IsType(t, &probe.HTTPTarget{}, target)
		require.Equal(t, "api", target.Name())
		require.Equal(t, 10*time.Millisecond, target.DefaultDelay())
		gotTimeout, bounded := target.DefaultWaitTimeout()
		require.True(t, bounded)
		require.Equal(t, time.Second, gotTimeout)
	})
	t.Run("should build a tcp target", func(t *testing.T) {
		target, err := buildTarget(&config.Target{
			Name: "cache", Type: config.TypeTCP, Addr: "127.0.0.1:6379",
		}, logger)

		require.NoError(t, err)
		require.IsType(t, &probe.TCPTarget{}, target)
		_, bounded := target.DefaultWaitTimeout()
		require.False(t, bounded)
	})
	t.Run("should build a mongo target", func(t *testing.T) {
		target, err := buildTarget(&config.Target{
			Name: "db", Type: config.TypeMongo, Uri: "mongodb://127.0.0.1:27017",
		}, logger)

		require.NoError(t, err)
		require.IsType(t, &mongo.Target{}, target)
	})
	t.Run("should build a nats target", func(t *testing.T) {
		target, err := buildTarget(&config.Target{
			Name: "bus", Type: config.TypeNats, Url: "nats://127.0.0.1:4222",
		}, logger)

		require.NoError(t, err)
		require.IsType(t, &nats.Target{}, target)
	})
	t.Run("should return error for an unknown target type", func(t *testing.T) {
		target, err := buildTarget(&config.Target{Name: "x", Type: "redis"}, logger)

		require.Nil(t, target)
		require.EqualError(t, err, `unknown target type "redis"`)
	})
}

func TestWaitFor_Run(t *testing.T) {
	t.Run("should return once every target is ready", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		timeout := config.Duration(5 * time.Second)
		delay := config.Duration(10 * time.Millisecond)
		app, err := New(&config.Config{WaitFor: &config.WaitFor{
			Server: config.Server{Addr: "127.0.0.1:0"},
			Targets: []*config.Target{
				{Name: "api", Type: config.TypeHTTP, Url: srv.URL, Timeout: &timeout, Delay: &delay},
				{Name: "raw", Type: config.TypeTCP, Addr: srv.Listener.Addr().String(), Timeout: &timeout, Delay: &delay},
			},
		}})

		require.NoError(t, err)
		require.Len(t, app.targets, 2)
		require.NoError(t, app.Run())
	})
}
