package gateway

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/metric"
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/service"
)

const writeTimeout = 10 * time.Second

// wsClient pairs a connection with its write lock. Writes come from
// whichever goroutine completed an analysis, so every write to the
// connection must hold the lock.
type wsClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// write sends one message under the client's write lock.
func (c *wsClient) write(messageType int, payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(messageType, payload)
}

// writeControl sends a control frame under the client's write lock.
func (c *wsClient) writeControl(messageType int, payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteControl(messageType, payload, time.Now().Add(writeTimeout))
}

// Hub fans completed-analysis events out to connected websocket clients.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger
	metrics  *metric.Metrics

	mu      sync.RWMutex
	clients map[*wsClient]struct{}
	closed  bool
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger, metrics *metric.Metrics) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger:  logger,
		metrics: metrics,
		clients: make(map[*wsClient]struct{}),
	}
}

// HandleWS upgrades the connection and keeps it registered until the
// peer disconnects. Incoming frames are read and discarded so close
// and ping frames are processed.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	client := &wsClient{conn: conn}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[client] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	if h.metrics != nil {
		h.metrics.WSClients.Set(float64(count))
	}
	h.logger.Debug("websocket client connected", "remote", r.RemoteAddr, "clients", count)

	go h.readLoop(client)
}

func (h *Hub) readLoop(client *wsClient) {
	defer h.remove(client)
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) remove(client *wsClient) {
	h.mu.Lock()
	delete(h.clients, client)
	count := len(h.clients)
	h.mu.Unlock()

	client.conn.Close()
	if h.metrics != nil {
		h.metrics.WSClients.Set(float64(count))
	}
}

// BroadcastCompleted sends a completed-analysis event to every client.
// Safe to call from multiple goroutines at once: each client's write
// lock serializes frames on its connection. Clients that fail the
// write are dropped.
func (h *Hub) BroadcastCompleted(event service.CompletedEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Warn("marshal completed event", "error", err)
		return
	}

	h.mu.RLock()
	clients := make([]*wsClient, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if err := client.write(websocket.TextMessage, payload); err != nil {
			h.logger.Debug("dropping websocket client", "error", err)
			h.remove(client)
		}
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new connections.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*wsClient, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.clients = make(map[*wsClient]struct{})
	h.mu.Unlock()

	for _, client := range clients {
		if err := client.writeControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")); err != nil {
			h.logger.Debug("close websocket client", "error", err)
		}
		client.conn.Close()
	}
	if h.metrics != nil {
		h.metrics.WSClients.Set(float64(0))
	}
}
