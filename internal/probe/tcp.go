package probe

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/damianiandrea/go-waitfor/pkg/waiter"
)

// TCPTarget waits for a TCP endpoint to accept connections and, optionally,
// to answer a written payload with the expected content. It implements
// waiter.Waiter.
type TCPTarget struct {
	waiter.State[string]

	name     string
	addr     string
	settings settings

	dialer net.Dialer
}

func NewTCPTarget(name, addr string, opts ...Option) *TCPTarget {
	t := &TCPTarget{
		name:     name,
		addr:     addr,
		settings: defaultSettings(),
	}

	for _, opt := range opts {
		opt(&t.settings)
	}

	t.SetState("no poll yet")
	return t
}

func (t *TCPTarget) Name() string {
	return t.name
}

func (t *TCPTarget) DefaultWaitTimeout() (time.Duration, bool) {
	return t.settings.timeout, t.settings.hasTimeout
}

func (t *TCPTarget) DefaultDelay() time.Duration {
	return t.settings.delay
}

func (t *TCPTarget) TimeoutError() error {
	return fmt.Errorf("target %v: %w", t.name, waiter.ErrTimeout)
}

// Poll dials the endpoint once. Dial and read/write failures as well as
// content mismatches mean the endpoint is not ready yet; only a cancelled
// context is terminal.
func (t *TCPTarget) Poll(ctx context.Context) (string, bool, error) {
	conn, err := t.dialer.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		return t.pending(classifyDialError(err))
	}
	defer func() {
		_ = conn.Close()
	}()

	if t.settings.send != "" {
		// add a newline to emulate the behavior of echo | nc
		send := t.settings.send
		if !strings.HasSuffix(send, "\n") {
			send += "\n"
		}
		_ = conn.SetWriteDeadline(time.Now().Add(t.settings.ioTimeout))
		if _, err = conn.Write([]byte(send)); err != nil {
			return t.pending(fmt.Sprintf("could not write to %v: %v", t.addr, err))
		}
	}

	if t.settings.expect != "" {
		if state, ok := t.readUntilMatch(conn); !ok {
			return t.pending(state)
		}
	}

	t.SetState(stateReady)
	return fmt.Sprintf("connected to %v", t.addr), true, nil
}

// readUntilMatch reads from the connection until the expected content shows
// up, the peer closes, or the io timeout expires.
func (t *TCPTarget) readUntilMatch(conn net.Conn) (string, bool) {
	var content []byte
	buf := make([]byte, 1024)
	for {
		_ = conn.SetReadDeadline(time.Now().Add(t.settings.ioTimeout))
		n, err := conn.Read(buf)
		content = append(content, buf[:n]...)
		if bytes.Contains(content, []byte(t.settings.expect)) {
			return stateReady, true
		}
		if err != nil {
			return "no content match", false
		}
	}
}

func (t *TCPTarget) pending(state string) (string, bool, error) {
	t.SetState(state)
	t.settings.logger.Debug("tcp target not ready", "target", t.name, "state", state)
	return "", false, nil
}
