package natsclient

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/errors"
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/metric"
)

func TestNewClientDefaults(t *testing.T) {
	c, err := NewClient("nats://localhost:4222")
	require.NoError(t, err)

	assert.Equal(t, "nats://localhost:4222", c.URL())
	assert.Equal(t, StatusDisconnected, c.Status())
	assert.False(t, c.IsConnected())
	assert.Equal(t, -1, c.maxReconnects)
	assert.Equal(t, 2*time.Second, c.reconnectWait)
}

func TestNewClientRejectsEmptyURL(t *testing.T) {
	_, err := NewClient("")
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestNewClientOptions(t *testing.T) {
	registry := metric.NewMetricsRegistry()
	c, err := NewClient("nats://localhost:4222",
		WithMaxReconnects(5),
		WithReconnectWait(time.Second),
		WithPingInterval(10*time.Second),
		WithConnectTimeout(3*time.Second),
		WithClientName("conceptmri"),
		WithLogger(slog.Default()),
		WithMetrics(registry.CoreMetrics()),
	)
	require.NoError(t, err)

	assert.Equal(t, 5, c.maxReconnects)
	assert.Equal(t, time.Second, c.reconnectWait)
	assert.Equal(t, 10*time.Second, c.pingInterval)
	assert.Equal(t, 3*time.Second, c.connectTimeout)
	assert.Equal(t, "conceptmri", c.clientName)
	assert.NotNil(t, c.metrics)
}

func TestConnectionStatusString(t *testing.T) {
	assert.Equal(t, "disconnected", StatusDisconnected.String())
	assert.Equal(t, "connecting", StatusConnecting.String())
	assert.Equal(t, "connected", StatusConnected.String())
	assert.Equal(t, "reconnecting", StatusReconnecting.String())
	assert.Equal(t, "unknown", ConnectionStatus(99).String())
}

func TestPublishWithoutConnection(t *testing.T) {
	c, err := NewClient("nats://localhost:4222")
	require.NoError(t, err)

	err = c.Publish(context.Background(), "conceptmri.analysis.completed", []byte("{}"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNoConnection))

	err = c.PublishJSON(context.Background(), "conceptmri.analysis.completed", map[string]string{"session": "s1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNoConnection))
}

func TestSubscribeWithoutConnection(t *testing.T) {
	c, err := NewClient("nats://localhost:4222")
	require.NoError(t, err)

	err = c.Subscribe(context.Background(), "conceptmri.routes.analyze", func(context.Context, []byte) {})
	require.Error(t, err)
	assert.True(t, errors.IsTransient(err))
}

func TestCloseIsIdempotent(t *testing.T) {
	c, err := NewClient("nats://localhost:4222")
	require.NoError(t, err)

	assert.NoError(t, c.Close(context.Background()))
	assert.NoError(t, c.Close(context.Background()))
	assert.Equal(t, StatusDisconnected, c.Status())
}

func TestMetricsTrackStatus(t *testing.T) {
	registry := metric.NewMetricsRegistry()
	c, err := NewClient("nats://localhost:4222", WithMetrics(registry.CoreMetrics()))
	require.NoError(t, err)

	c.setStatus(StatusConnected)
	assert.Equal(t, StatusConnected, c.Status())

	c.setStatus(StatusDisconnected)
	assert.Equal(t, StatusDisconnected, c.Status())
}
