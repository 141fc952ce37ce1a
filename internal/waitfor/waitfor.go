// Package waitfor wires the configured targets to the wait driver and the
// health server.
package waitfor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/damianiandrea/go-waitfor/internal/config"
	"github.com/damianiandrea/go-waitfor/internal/mongo"
	"github.com/damianiandrea/go-waitfor/internal/nats"
	"github.com/damianiandrea/go-waitfor/internal/probe"
	"github.com/damianiandrea/go-waitfor/internal/prometheus"
	"github.com/damianiandrea/go-waitfor/internal/server"
	"github.com/damianiandrea/go-waitfor/pkg/waiter"
)

const (
	reasonError   = "error"
	reasonTimeout = "timeout"
)

// Target is a waitable readiness target: the waiter capability plus a name
// and an observable current state for the health endpoint.
type Target interface {
	waiter.Waiter[string]
	waiter.CurrentStater[string]
	Name() string
}

type WaitFor struct {
	ctx  context.Context
	stop context.CancelFunc

	cfg        *config.Config
	logger     *slog.Logger
	registerer *prometheus.WaiterRegisterer
	targets    []Target
	server     *server.Server
}

func New(cfg *config.Config) (*WaitFor, error) {
	logLevel := convertLogLevel(cfg.WaitFor.Log.Level)
	loggerOpts := &slog.HandlerOptions{Level: logLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, loggerOpts))

	registerer := prometheus.NewWaiterRegisterer(prometheus.DefaultRegisterer())

	targets := make([]Target, 0, len(cfg.WaitFor.Targets))
	staters := make([]server.NamedStater, 0, len(cfg.WaitFor.Targets))
	for _, targetCfg := range cfg.WaitFor.Targets {
		target, err := buildTarget(targetCfg, logger)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
		staters = append(staters, target)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	srv := server.New(
		server.WithAddr(cfg.WaitFor.Server.Addr),
		server.WithContext(ctx),
		server.WithNamedStaters(staters...),
		server.WithLogger(logger),
		server.WithMetricsHandler(prometheus.HTTPHandler()),
	)

	return &WaitFor{
		ctx:        ctx,
		stop:       stop,
		cfg:        cfg,
		logger:     logger,
		registerer: registerer,
		targets:    targets,
		server:     srv,
	}, nil
}

// Run drives every target to a terminal outcome, serving health and metrics
// in the meantime. It returns nil once all targets are ready, or the first
// failure otherwise.
func (w *WaitFor) Run() error {
	defer w.stop()

	group, groupCtx := errgroup.WithContext(w.ctx)
	for _, _target := range w.targets {
		target := _target
		group.Go(func() error {
			return w.await(groupCtx, target)
		})
	}

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- w.server.Run()
	}()

	err := group.Wait()
	if closeErr := w.server.Close(); closeErr != nil {
		w.logger.Error("could not close server", "err", closeErr)
	}
	if serverErr := <-serverDone; serverErr != nil && !errors.Is(serverErr, http.ErrServerClosed) {
		w.logger.Error("server stopped unexpectedly", "err", serverErr)
	}
	return err
}

// await runs one whole wait for one target, with per-poll and per-wait
// metrics.
func (w *WaitFor) await(ctx context.Context, target Target) error {
	w.logger.Info("waiting for target", "target", target.Name())
	start := time.Now()
	value, err := waiter.Wait[string](ctx, &instrumented{target: target, registerer: w.registerer})
	elapsed := time.Since(start)
	if err != nil {
		reason := reasonError
		if errors.Is(err, waiter.ErrTimeout) {
			reason = reasonTimeout
		}
		w.registerer.ObserveWaitFailed(target.Name(), reason, elapsed)
		w.logger.Error("target not ready", "target", target.Name(), "err", err, "elapsed", elapsed)
		return err
	}
	w.registerer.ObserveWaitSucceeded(target.Name(), elapsed)
	w.logger.Info("target ready", "target", target.Name(), "value", value, "elapsed", elapsed)
	return nil
}

func buildTarget(cfg *config.Target, logger *slog.Logger) (Target, error) {
	switch cfg.Type {
	case config.TypeHTTP:
		opts := []probe.Option{
			probe.WithMethod(cfg.Method),
			probe.WithExpectedStatus(cfg.Status),
			probe.WithContent(cfg.Content),
			probe.WithLogger(logger),
		}
		if cfg.Delay != nil {
			opts = append(opts, probe.WithDelay(cfg.Delay.Std()))
		}
		if cfg.Timeout != nil {
			opts = append(opts, probe.WithTimeout(cfg.Timeout.Std()))
		}
		return probe.NewHTTPTarget(cfg.Name, cfg.Url, opts...), nil
	case config.TypeTCP:
		opts := []probe.Option{
			probe.WithSend(cfg.Send),
			probe.WithExpect(cfg.Expect),
			probe.WithLogger(logger),
		}
		if cfg.IOTimeout != nil {
			opts = append(opts, probe.WithIOTimeout(cfg.IOTimeout.Std()))
		}
		if cfg.Delay != nil {
			opts = append(opts, probe.WithDelay(cfg.Delay.Std()))
		}
		if cfg.Timeout != nil {
			opts = append(opts, probe.WithTimeout(cfg.Timeout.Std()))
		}
		return probe.NewTCPTarget(cfg.Name, cfg.Addr, opts...), nil
	case config.TypeMongo:
		opts := []mongo.Option{
			mongo.WithLogger(logger),
		}
		if cfg.Delay != nil {
			opts = append(opts, mongo.WithDelay(cfg.Delay.Std()))
		}
		if cfg.Timeout != nil {
			opts = append(opts, mongo.WithTimeout(cfg.Timeout.Std()))
		}
		return mongo.NewTarget(cfg.Name, cfg.Uri, opts...), nil
	case config.TypeNats:
		opts := []nats.Option{
			nats.WithLogger(logger),
		}
		if cfg.Delay != nil {
			opts = append(opts, nats.WithDelay(cfg.Delay.Std()))
		}
		if cfg.Timeout != nil {
			opts = append(opts, nats.WithTimeout(cfg.Timeout.Std()))
		}
		return nats.NewTarget(cfg.Name, cfg.Url, opts...), nil
	default:
		return nil, fmt.Errorf("unknown target type %q", cfg.Type)
	}
}

// instrumented counts polls without changing the wrapped target's behavior.
type instrumented struct {
	target     Target
	registerer *prometheus.WaiterRegisterer
}

func (i *instrumented) DefaultWaitTimeout() (time.Duration, bool) {
	return i.target.DefaultWaitTimeout()
}

func (i *instrumented) DefaultDelay() time.Duration {
	return i.target.DefaultDelay()
}

func (i *instrumented) Poll(ctx context.Context) (string, bool, error) {
	i.registerer.IncPollStarted(i.target.Name())
	return i.target.Poll(ctx)
}

func (i *instrumented) TimeoutError() error {
	return i.target.TimeoutError()
}

func convertLogLevel(logLevel string) slog.Level {
	switch strings.ToLower(logLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		fallthrough
	default:
		return slog.LevelInfo
	}
}
