package natsclient

import (
	"log/slog"
	"time"

	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/metric"
)

// ClientOption is a functional option for configuring the Client.
type ClientOption func(*Client) error

// WithMaxReconnects sets the maximum reconnection attempts (-1 for infinite).
func WithMaxReconnects(n int) ClientOption {
	return func(c *Client) error {
		c.maxReconnects = n
		return nil
	}
}

// WithReconnectWait sets the wait time between reconnection attempts.
func WithReconnectWait(d time.Duration) ClientOption {
	return func(c *Client) error {
		c.reconnectWait = d
		return nil
	}
}

// WithPingInterval sets the ping interval for connection health checks.
func WithPingInterval(d time.Duration) ClientOption {
	return func(c *Client) error {
		c.pingInterval = d
		return nil
	}
}

// WithConnectTimeout bounds the initial connection attempt.
func WithConnectTimeout(d time.Duration) ClientOption {
	return func(c *Client) error {
		c.connectTimeout = d
		return nil
	}
}

// WithClientName sets the connection name visible to the NATS server.
func WithClientName(name string) ClientOption {
	return func(c *Client) error {
		c.clientName = name
		return nil
	}
}

// WithLogger sets the structured logger used by the client.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// WithMetrics wires connection state into the platform metrics.
func WithMetrics(m *metric.Metrics) ClientOption {
	return func(c *Client) error {
		c.metrics = m
		return nil
	}
}
