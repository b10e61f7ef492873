// Package natsclient manages the NATS connection used for the analysis
// request/reply surface and for publishing analysis lifecycle events.
package natsclient

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/errors"
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/metric"
)

// ConnectionStatus represents the state of the NATS connection.
type ConnectionStatus int

// Possible connection statuses.
const (
	StatusDisconnected ConnectionStatus = iota
	StatusConnecting
	StatusConnected
	StatusReconnecting
)

// String returns the string representation of ConnectionStatus.
func (s ConnectionStatus) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}

// Client manages one NATS connection with reconnect handling and
// connection metrics.
type Client struct {
	url    string
	logger *slog.Logger

	conn *nats.Conn
	subs []*nats.Subscription

	maxReconnects  int
	reconnectWait  time.Duration
	pingInterval   time.Duration
	connectTimeout time.Duration
	drainTimeout   time.Duration
	clientName     string

	metrics *metric.Metrics

	status atomic.Value // ConnectionStatus

	mu      sync.RWMutex
	closeMu sync.Mutex
	closed  atomic.Bool
}

// NewClient creates a NATS client. The connection is established by
// Connect, not here.
func NewClient(url string, opts ...ClientOption) (*Client, error) {
	if url == "" {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "natsclient", "NewClient", "url cannot be empty")
	}

	c := &Client{
		url:            url,
		logger:         slog.Default(),
		maxReconnects:  -1, // reconnect forever
		reconnectWait:  2 * time.Second,
		pingInterval:   30 * time.Second,
		connectTimeout: 5 * time.Second,
		drainTimeout:   30 * time.Second,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, errors.WrapInvalid(err, "natsclient", "NewClient", "apply option")
		}
	}

	c.status.Store(StatusDisconnected)
	return c, nil
}

// URL returns the NATS server URL.
func (c *Client) URL() string {
	return c.url
}

// Status returns the current connection status.
func (c *Client) Status() ConnectionStatus {
	val := c.status.Load()
	if val == nil {
		return StatusDisconnected
	}
	return val.(ConnectionStatus)
}

// IsConnected reports whether the underlying connection is live.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil && c.conn.IsConnected()
}

func (c *Client) setStatus(status ConnectionStatus) {
	c.status.Store(status)
	if c.metrics != nil {
		c.metrics.RecordNATSStatus(status == StatusConnected)
	}
}

func (c *Client) connectionOptions() []nats.Option {
	opts := []nats.Option{
		nats.MaxReconnects(c.maxReconnects),
		nats.ReconnectWait(c.reconnectWait),
		nats.PingInterval(c.pingInterval),
		nats.Timeout(c.connectTimeout),
		nats.DrainTimeout(c.drainTimeout),
		nats.DisconnectErrHandler(c.handleDisconnect),
		nats.ReconnectHandler(c.handleReconnect),
		nats.ClosedHandler(c.handleClosed),
	}
	if c.clientName != "" {
		opts = append(opts, nats.Name(c.clientName))
	}
	return opts
}

// Connect establishes the connection, honoring context cancellation.
func (c *Client) Connect(ctx context.Context) error {
	c.setStatus(StatusConnecting)
	c.logger.Info("connecting to NATS", "url", c.url)

	connectDone := make(chan error, 1)
	go func() {
		conn, err := nats.Connect(c.url, c.connectionOptions()...)
		if err != nil {
			connectDone <- err
			return
		}
		c.mu.Lock()
		c.conn = conn
		c.mu.Unlock()
		connectDone <- nil
	}()

	select {
	case err := <-connectDone:
		if err != nil {
			c.setStatus(StatusDisconnected)
			return errors.WrapTransient(err, "natsclient", "Connect", "establish connection")
		}
	case <-ctx.Done():
		c.setStatus(StatusDisconnected)
		return errors.WrapTransient(errors.ErrConnectionTimeout, "natsclient", "Connect", "connection cancelled")
	}

	c.setStatus(StatusConnected)
	c.logger.Info("connected to NATS", "url", c.url)
	return nil
}

// Close drains subscriptions and closes the connection. Safe to call
// more than once.
func (c *Client) Close(_ context.Context) error {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	if c.closed.Load() {
		return nil
	}
	c.closed.Store(true)

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, sub := range c.subs {
		if err := sub.Drain(); err != nil {
			c.logger.Warn("drain subscription", "subject", sub.Subject, "error", err)
		}
	}
	c.subs = nil

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.setStatus(StatusDisconnected)
	return nil
}

// Publish publishes raw bytes to a subject.
func (c *Client) Publish(_ context.Context, subject string, data []byte) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil || !conn.IsConnected() {
		return errors.WrapTransient(errors.ErrNoConnection, "natsclient", "Publish", "publish to "+subject)
	}
	if err := conn.Publish(subject, data); err != nil {
		return errors.WrapTransient(err, "natsclient", "Publish", "publish to "+subject)
	}
	return nil
}

// PublishJSON marshals v and publishes it to a subject.
func (c *Client) PublishJSON(ctx context.Context, subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.WrapFatal(err, "natsclient", "PublishJSON", "marshal payload")
	}
	return c.Publish(ctx, subject, data)
}

// Subscribe subscribes to a subject. Each handler invocation gets a
// context derived from the parent with a processing timeout.
func (c *Client) Subscribe(ctx context.Context, subject string, handler func(context.Context, []byte)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil || !c.conn.IsConnected() {
		return errors.WrapTransient(errors.ErrNoConnection, "natsclient", "Subscribe", "subscribe to "+subject)
	}

	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		msgCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		handler(msgCtx, msg.Data)
	})
	if err != nil {
		return errors.WrapTransient(err, "natsclient", "Subscribe", "subscribe to "+subject)
	}

	c.subs = append(c.subs, sub)
	return nil
}

// SubscribeReply subscribes to a request subject and answers each
// request with the handler's response. Handler errors are returned to
// the requester as a JSON error envelope.
func (c *Client) SubscribeReply(
	ctx context.Context,
	subject string,
	handler func(context.Context, []byte) ([]byte, error),
) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil || !c.conn.IsConnected() {
		return errors.WrapTransient(errors.ErrNoConnection, "natsclient", "SubscribeReply", "subscribe to "+subject)
	}

	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		msgCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		response, err := handler(msgCtx, msg.Data)
		if err != nil {
			response, _ = json.Marshal(map[string]string{"error": err.Error()})
		}
		if msg.Reply == "" {
			return
		}
		if err := msg.Respond(response); err != nil {
			c.logger.Warn("respond to request", "subject", subject, "error", err)
		}
	})
	if err != nil {
		return errors.WrapTransient(err, "natsclient", "SubscribeReply", "subscribe to "+subject)
	}

	c.subs = append(c.subs, sub)
	return nil
}

func (c *Client) handleDisconnect(_ *nats.Conn, err error) {
	c.setStatus(StatusReconnecting)
	if err != nil {
		c.logger.Warn("NATS disconnected", "error", err)
	}
}

func (c *Client) handleReconnect(conn *nats.Conn) {
	c.setStatus(StatusConnected)
	if c.metrics != nil {
		c.metrics.NATSReconnects.Inc()
	}
	c.logger.Info("NATS reconnected", "url", conn.ConnectedUrl())
}

func (c *Client) handleClosed(_ *nats.Conn) {
	c.setStatus(StatusDisconnected)
	c.logger.Info("NATS connection closed")
}
