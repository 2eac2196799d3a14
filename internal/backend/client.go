// Package backend is the typed HTTP client for the Q&A review backend. The
// backend owns authentication, persistence, matching, statistics, and email
// delivery; this package owns request construction, the session cookie, the
// error taxonomy, and the retry policy.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds every request, independent of retries.
const DefaultTimeout = 30 * time.Second

// Client communicates with the review backend over HTTP. The base URL is
// chosen once at construction and never re-evaluated.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	retry          RetryPolicy
	onUnauthorized func()
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	// Timeout bounds each request. Defaults to DefaultTimeout.
	Timeout time.Duration
	// Jar holds the session cookie. Requests run without credentials when
	// nil, which only AuthCheck and Login tolerate.
	Jar http.CookieJar
	// Retry overrides DefaultRetryPolicy.
	Retry *RetryPolicy
	// OnUnauthorized runs whenever any call gets a 401, in addition to the
	// call failing. The CLI uses it to drop the saved session.
	OnUnauthorized func()
}

// New creates a Client for the given base URL.
func New(baseURL string, opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	retry := DefaultRetryPolicy()
	if opts.Retry != nil {
		retry = *opts.Retry
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     opts.Jar,
		},
		retry:          retry,
		onUnauthorized: opts.OnUnauthorized,
	}
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string { return c.baseURL }

// call issues one logical request, retrying per the policy, and decodes the
// JSON response into out when out is non-nil.
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	return c.retry.Do(ctx, func(ctx context.Context) error {
		return c.callOnce(ctx, method, path, body, out)
	})
}

func (c *Client) callOnce(ctx context.Context, method, path string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshalling request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return &HTTPError{Status: resp.StatusCode, Message: errorMessage(resp)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{Status: resp.StatusCode, Message: errorMessage(resp)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// errorMessage pulls a human-readable message out of a JSON error body,
// falling back to the status line.
func errorMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil {
		var body struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &body) == nil && body.Message != "" {
			return body.Message
		}
	}
	return fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}
