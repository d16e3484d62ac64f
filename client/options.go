package client

import (
	"fmt"
	"net/http"
	"time"
)

// Option configures a Client in New. Options run before the auth and
// request id transports are installed, so transports set here sit beneath
// them.
type Option func(*Client) error

// WithHTTPTimeout bounds a single HTTP exchange. Prefer context deadlines
// for per-call limits.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithTransport replaces the base round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) error {
		if rt == nil {
			return fmt.Errorf("transport must not be nil")
		}
		c.http.Transport = rt
		return nil
	}
}

// WithDebugLogging dumps every request and response at debug level. It
// logs bodies and headers, so keep it out of production.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if !enabled {
			return nil
		}
		if _, ok := c.http.Transport.(*debugTransport); ok {
			return nil
		}
		base := c.http.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		c.http.Transport = &debugTransport{base: base}
		return nil
	}
}

// WithProbeConcurrency bounds the connection probes PageWithStatus runs at
// once.
func WithProbeConcurrency(n int) Option {
	return func(c *Client) error {
		if n < 1 {
			return fmt.Errorf("probe concurrency must be >= 1")
		}
		c.probeConcurrency = n
		return nil
	}
}

// WithQueueConfig sets the reader command queue tunables instead of
// reading them from TRAC8_SQ_* variables.
func WithQueueConfig(cfg QueueConfig) Option {
	return func(c *Client) error {
		c.queueCfg = &cfg
		return nil
	}
}
