// Package probe provides waitable readiness targets for plain HTTP and TCP
// endpoints.
package probe

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultMethod    = http.MethodGet
	defaultStatus    = http.StatusOK
	defaultDelay     = time.Second
	defaultIOTimeout = time.Second

	stateReady = "ready"
)

type settings struct {
	method     string
	status     int
	content    string
	send       string
	expect     string
	ioTimeout  time.Duration
	timeout    time.Duration
	hasTimeout bool
	delay      time.Duration
	logger     *slog.Logger
}

func defaultSettings() settings {
	return settings{
		method:    defaultMethod,
		status:    defaultStatus,
		ioTimeout: defaultIOTimeout,
		delay:     defaultDelay,
		logger:    slog.Default(),
	}
}

type Option func(*settings)

// WithMethod sets the HTTP method used by an HTTP target.
func WithMethod(method string) Option {
	return func(s *settings) {
		if method != "" {
			s.method = method
		}
	}
}

// WithExpectedStatus sets the HTTP status code that marks an HTTP target
// ready.
func WithExpectedStatus(status int) Option {
	return func(s *settings) {
		if status != 0 {
			s.status = status
		}
	}
}

// WithContent sets a substring the response body must contain before the
// target is considered ready.
func WithContent(content string) Option {
	return func(s *settings) {
		s.content = content
	}
}

// WithSend sets data written to the connection by a TCP target before it
// reads the reply.
func WithSend(send string) Option {
	return func(s *settings) {
		s.send = send
	}
}

// WithExpect sets a substring a TCP target must read back before it is
// considered ready.
func WithExpect(expect string) Option {
	return func(s *settings) {
		s.expect = expect
	}
}

// WithIOTimeout bounds the read/write deadline of a single TCP probe.
func WithIOTimeout(ioTimeout time.Duration) Option {
	return func(s *settings) {
		if ioTimeout > 0 {
			s.ioTimeout = ioTimeout
		}
	}
}

// WithTimeout sets the target's default wait timeout. Targets without one
// are waited on forever.
func WithTimeout(timeout time.Duration) Option {
	return func(s *settings) {
		s.timeout = timeout
		s.hasTimeout = true
	}
}

// WithDelay sets the target's default delay between polls.
func WithDelay(delay time.Duration) Option {
	return func(s *settings) {
		if delay >= 0 {
			s.delay = delay
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// classifyDialError turns the most common transient connect errors into
// short progress messages, as read in the current state of a target.
func classifyDialError(err error) string {
	switch {
	case strings.Contains(err.Error(), "connection refused"):
		return "connection refused"
	case strings.Contains(err.Error(), "no such host"):
		return "could not reach host"
	default:
		return err.Error()
	}
}
