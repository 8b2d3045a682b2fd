package backend

import (
	"net/http"
	"time"

	"github.com/okian/jumpboard/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithTimeout bounds every request made by the client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTokenStore sets where the bearer token is kept.
func WithTokenStore(store TokenStore) Option {
	return func(c *Client) {
		if store != nil {
			c.tokens = store
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}
