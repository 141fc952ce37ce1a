package probe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/damianiandrea/go-waitfor/pkg/waiter"
)

// HTTPTarget waits for an HTTP endpoint to answer with the expected status
// and, optionally, the expected content. It implements waiter.Waiter.
type HTTPTarget struct {
	waiter.State[string]

	name     string
	url      string
	settings settings

	client *http.Client
}

func NewHTTPTarget(name, url string, opts ...Option) *HTTPTarget {
	t := &HTTPTarget{
		name:     name,
		url:      url,
		settings: defaultSettings(),
		client:   &http.Client{},
	}

	for _, opt := range opts {
		opt(&t.settings)
	}

	t.SetState("no poll yet")
	return t
}

func (t *HTTPTarget) Name() string {
	return t.name
}

func (t *HTTPTarget) DefaultWaitTimeout() (time.Duration, bool) {
	return t.settings.timeout, t.settings.hasTimeout
}

func (t *HTTPTarget) DefaultDelay() time.Duration {
	return t.settings.delay
}

func (t *HTTPTarget) TimeoutError() error {
	return fmt.Errorf("target %v: %w", t.name, waiter.ErrTimeout)
}

// Poll performs one request against the endpoint. Transport errors and
// status or content mismatches mean the endpoint is not ready yet; only an
// unbuildable request or a cancelled context is terminal.
func (t *HTTPTarget) Poll(ctx context.Context) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, t.settings.method, t.url, nil)
	if err != nil {
		return "", false, fmt.Errorf("could not build request for %v: %v", t.url, err)
	}

	res, err := t.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", false, ctx.Err()
		}
		return t.pending(classifyDialError(err))
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode != t.settings.status {
		return t.pending(fmt.Sprintf("status %q does not match expected status (%d)",
			res.Status, t.settings.status))
	}

	if t.settings.content != "" {
		body, err := io.ReadAll(res.Body)
		if err != nil {
			return t.pending("could not read response body")
		}
		if !bytes.Contains(body, []byte(t.settings.content)) {
			return t.pending("response does not contain expected content")
		}
	}

	t.SetState(stateReady)
	return res.Status, true, nil
}

func (t *HTTPTarget) pending(state string) (string, bool, error) {
	t.SetState(state)
	t.settings.logger.Debug("http target not ready", "target", t.name, "state", state)
	return "", false, nil
}
