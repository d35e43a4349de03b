package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nerrad567/dcs-inspector-core/internal/infrastructure/config"
	"github.com/nerrad567/dcs-inspector-core/internal/infrastructure/logging"
)

// Event stream frame types.
const (
	FrameHello = "hello"
	FrameEvent = "event"

	// streamBufferSize is the number of frames queued per client before
	// further events are dropped for it.
	streamBufferSize = 256

	// allEvents in the events filter selects every event.
	allEvents = "*"
)

// StreamFrame is one message on the event stream. The stream is one-way:
// clients choose their events when they connect and never send frames.
type StreamFrame struct {
	Type      string `json:"type"`
	Event     string `json:"event,omitempty"`
	Timestamp string `json:"timestamp"`
	Payload   any    `json:"payload,omitempty"`
}

// helloPayload opens every stream.
type helloPayload struct {
	ClientID string   `json:"client_id"`
	Events   []string `json:"events"`
}

// eventFilter is the set of event names a client receives. An empty
// filter receives everything.
type eventFilter map[string]struct{}

// parseFilter reads a comma-separated list of event names.
func parseFilter(raw string) eventFilter {
	f := eventFilter{}
	for _, name := range strings.Split(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			f[name] = struct{}{}
		}
	}
	return f
}

func (f eventFilter) matches(event string) bool {
	if len(f) == 0 {
		return true
	}
	if _, ok := f[allEvents]; ok {
		return true
	}
	_, ok := f[event]
	return ok
}

func (f eventFilter) names() []string {
	if len(f) == 0 {
		return []string{allEvents}
	}
	out := make([]string, 0, len(f))
	for name := range f {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// streamClient is one connected event-stream consumer.
type streamClient struct {
	id     string
	conn   *websocket.Conn
	filter eventFilter
	send   chan []byte
}

// Hub fans inspector events out to event-stream clients.
//
// A client's send channel is only closed under the write lock and only
// written under the read lock, so Broadcast never races a disconnect.
type Hub struct {
	cfg    config.WebSocketConfig
	logger *logging.Logger

	mu      sync.RWMutex
	clients map[string]*streamClient
	stopped bool
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		// Origin checking is handled by CORS middleware
		return true
	},
}

// NewHub creates a hub.
func NewHub(cfg config.WebSocketConfig, logger *logging.Logger) *Hub {
	return &Hub{
		cfg:     cfg,
		logger:  logger,
		clients: make(map[string]*streamClient),
	}
}

// Run blocks until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()

	h.mu.Lock()
	h.stopped = true
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
	}
	h.mu.Unlock()
}

// add registers c. It reports false once the hub has stopped.
func (h *Hub) add(c *streamClient) bool {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return false
	}
	h.clients[c.id] = c
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("event stream client connected", "client", c.id, "events", c.filter.names(), "clients", n)
	return true
}

// remove unregisters c and closes its send channel. Repeated calls are
// no-ops.
func (h *Hub) remove(c *streamClient) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	if ok {
		delete(h.clients, c.id)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		h.logger.Debug("event stream client disconnected", "client", c.id, "clients", n)
	}
}

// Broadcast queues event for every client whose filter selects it. A
// client with a full queue misses the event.
func (h *Hub) Broadcast(event string, payload any) {
	data, err := encodeFrame(FrameEvent, event, payload)
	if err != nil {
		h.logger.Error("encoding event frame failed", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		if !c.filter.matches(event) {
			continue
		}
		select {
		case c.send <- data:
		default:
			h.logger.Debug("event stream client lagging, event dropped", "client", c.id, "event", event)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func encodeFrame(frameType, event string, payload any) ([]byte, error) {
	return json.Marshal(StreamFrame{
		Type:      frameType,
		Event:     event,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Payload:   payload,
	})
}

// handleWebSocket upgrades the request to an event stream. The "events"
// query parameter selects event names (comma-separated); without it the
// client receives every event. The first frame is a hello carrying the
// client ID.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	c := &streamClient{
		id:     uuid.NewString(),
		conn:   conn,
		filter: parseFilter(r.URL.Query().Get("events")),
		send:   make(chan []byte, streamBufferSize),
	}

	hello, err := encodeFrame(FrameHello, "", helloPayload{ClientID: c.id, Events: c.filter.names()})
	if err != nil {
		s.logger.Error("encoding hello frame failed", "error", err)
		conn.Close()
		return
	}
	// The queue is empty, so the hello is always first.
	c.send <- hello

	if !s.hub.add(c) {
		conn.Close()
		return
	}

	go c.writePump(s.cfg.WebSocket)
	go c.readPump(s.hub, s.cfg.WebSocket)
}

// readPump keeps the read deadline fresh and detects disconnects. Inbound
// frames are discarded.
func (c *streamClient) readPump(h *Hub, cfg config.WebSocketConfig) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()

	wait := time.Duration(cfg.PingInterval+cfg.PongTimeout) * time.Second
	c.conn.SetReadLimit(int64(cfg.MaxMessageSize))
	//nolint:errcheck // Best-effort deadline on connection setup
	c.conn.SetReadDeadline(time.Now().Add(wait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("event stream read error", "client", c.id, "error", err)
			}
			return
		}
		//nolint:errcheck // Best-effort deadline reset
		c.conn.SetReadDeadline(time.Now().Add(wait))
	}
}

// writePump drains the send queue and pings. It exits when the queue is
// closed or a write fails.
func (c *streamClient) writePump(cfg config.WebSocketConfig) {
	ticker := time.NewTicker(time.Duration(cfg.PingInterval) * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	writeWait := time.Duration(cfg.PongTimeout) * time.Second

	for {
		select {
		case data, ok := <-c.send:
			//nolint:errcheck // Best-effort deadline; write error caught below
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				//nolint:errcheck // Best-effort close frame
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "inspector shutting down"))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			//nolint:errcheck // Best-effort deadline; ping error caught below
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
