package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"chat-simulator/internal/models"
	"chat-simulator/internal/observability"
)

const snapshotRoutingKey = "ws_events.snapshots"

// client wraps a connection with its own write lock. Broadcasts arrive from
// request goroutines and timer goroutines at the same time, and the websocket
// allows only one concurrent writer per connection.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
	info ConnInfo
}

func (c *client) write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub maintains the active websocket connections of the single simulated
// conversation and pushes the full snapshot to each of them on every
// timeline change.
type Hub struct {
	mu    sync.RWMutex
	conns map[*websocket.Conn]*client
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		conns: make(map[*websocket.Conn]*client),
	}
}

// AddClient registers a websocket connection.
func (h *Hub) AddClient(conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = &client{conn: conn, info: info}
}

// RemoveClient removes a websocket connection.
func (h *Hub) RemoveClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}

// SendSnapshot writes the snapshot to a single registered connection, using
// the same per-connection serialization as broadcasts.
func (h *Hub) SendSnapshot(conn *websocket.Conn, snap models.Snapshot) error {
	h.mu.RLock()
	cl, ok := h.conns[conn]
	h.mu.RUnlock()
	if !ok {
		return nil
	}

	payload, _ := json.Marshal(models.ChatEvent{Type: "snapshot", Snapshot: &snap})
	return cl.write(payload)
}

// BroadcastSnapshot sends the snapshot to all connected clients. Safe to call
// from any goroutine.
func (h *Hub) BroadcastSnapshot(snap models.Snapshot) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.conns))
	for _, cl := range h.conns {
		clients = append(clients, cl)
	}
	h.mu.RUnlock()

	event := models.ChatEvent{Type: "snapshot", Snapshot: &snap}
	payload, _ := json.Marshal(event)
	for _, cl := range clients {
		if err := cl.write(payload); err != nil {
			log.Printf("websocket write error: %v", err)
			cl.conn.Close()
			h.RemoveClient(cl.conn)
			h.publishWSError(cl, err)
		}
	}
}

func (h *Hub) publishWSError(cl *client, err error) {
	info := cl.info

	payload := map[string]any{
		"ws": map[string]any{
			"event":       "ws_error",
			"conn_id":     info.ConnID,
			"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
			"reason":      err.Error(),
		},
		"client": map[string]any{
			"ip":         info.IP,
			"request_id": info.RequestID,
			"trace_id":   info.TraceID,
		},
	}

	_ = observability.PublishEvent(context.Background(), snapshotRoutingKey, observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_error",
		Payload:   payload,
	})
	observability.IncWSEvent("ws_error")
}
