// Package backend is the REST client for the club backend: authentication,
// users, teams, hills, events and jump results.
//
// Every request carries the session's bearer token when one is set. A 401
// answer clears the token so the next screen falls back to the login page.
// A token scoped to the request context (WithToken) takes precedence and is
// never cleared.
package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/okian/jumpboard/pkg/logger"
	"github.com/okian/jumpboard/pkg/metrics"
)

// Default client configuration constants.
const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 8 << 20
)

// Client talks to the club backend.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	tokens  TokenStore
	logger  logger.Logger
}

// New creates a client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	c := &Client{
		base:    u,
		http:    &http.Client{},
		timeout: defaultTimeout,
		tokens:  NewMemoryTokenStore(""),
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Tokens exposes the client's token store.
func (c *Client) Tokens() TokenStore {
	return c.tokens
}

// request describes one backend call. endpoint is the low-cardinality route
// used as the metrics label, path is the concrete URL path.
type request struct {
	endpoint string
	method   string
	path     string
	query    url.Values
	body     any
}

func (c *Client) do(ctx context.Context, req request, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	elapsed := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.RecordBackendRequest(req.endpoint, req.method, "error", elapsed)
		metrics.RecordErrorLatency("backend", "transport", elapsed)
		c.logger.Error(ctx, "backend request failed",
			logger.String("method", req.method),
			logger.String("path", req.path),
			logger.Error(err))
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, req.method, req.path, err)
	}
	defer resp.Body.Close()

	metrics.RecordBackendRequest(req.endpoint, req.method, strconv.Itoa(resp.StatusCode), elapsed)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: reading %s: %w", ErrTransport, req.path, err)
	}

	if err := c.checkStatus(ctx, req, resp.StatusCode, data); err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDecode, req.path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, req request) (*http.Request, error) {
	u := c.base.JoinPath(req.path)
	if len(req.query) > 0 {
		u.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s body: %w", req.path, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("building %s %s: %w", req.method, req.path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	token, scoped := TokenFrom(ctx)
	if !scoped {
		token = c.tokens.Token()
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	return httpReq, nil
}

func (c *Client) checkStatus(ctx context.Context, req request, status int, body []byte) error {
	switch {
	case status >= http.StatusOK && status < http.StatusMultipleChoices:
		return nil
	case status == http.StatusUnauthorized:
		if _, scoped := TokenFrom(ctx); scoped {
			c.logger.Debug(ctx, "backend rejected the caller's token",
				logger.String("path", req.path))
			return fmt.Errorf("%w: %s %s", ErrUnauthorized, req.method, req.path)
		}
		c.tokens.Clear()
		metrics.RecordBackendLogout()
		c.logger.Warn(ctx, "backend rejected the session token, logging out",
			logger.String("path", req.path))
		return fmt.Errorf("%w: %s %s", ErrUnauthorized, req.method, req.path)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", ErrNotFound, req.method, req.path)
	case status >= http.StatusInternalServerError:
		c.logger.Error(ctx, "backend server error",
			logger.String("method", req.method),
			logger.String("path", req.path),
			logger.Int("status", status),
			logger.String("body", snippet(body)))
		return fmt.Errorf("%w: %s %s returned %d", ErrServer, req.method, req.path, status)
	default:
		return fmt.Errorf("%w: %s %s returned %d: %s", ErrUnexpectedStatus, req.method, req.path, status, snippet(body))
	}
}

func snippet(body []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
