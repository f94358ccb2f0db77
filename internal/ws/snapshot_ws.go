package ws

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"chat-simulator/internal/models"
	"chat-simulator/internal/observability"
)

// SnapshotProvider supplies the current timeline snapshot for newly
// connected clients.
type SnapshotProvider interface {
	Snapshot() models.Snapshot
}

// SnapshotHandler upgrades clients onto the snapshot stream.
type SnapshotHandler struct {
	hub      *Hub
	provider SnapshotProvider
}

// NewSnapshotHandler constructs a SnapshotHandler.
func NewSnapshotHandler(hub *Hub, provider SnapshotProvider) *SnapshotHandler {
	return &SnapshotHandler{hub: hub, provider: provider}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the connection, registers the client and immediately sends
// the current snapshot so the client renders without waiting for the next
// timeline change.
func (h *SnapshotHandler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("chat-simulator/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	info := ConnInfo{
		ConnID:      newConnID(),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   observability.RequestIDFromRequest(c.Request),
		TraceID:     span.SpanContext().TraceID().String(),
		ConnectedAt: time.Now(),
	}
	h.hub.AddClient(conn, info)

	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	_ = observability.PublishEvent(ctx, snapshotRoutingKey, observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_connect",
		Payload: map[string]any{
			"ws": map[string]any{
				"event":       "ws_connect",
				"conn_id":     info.ConnID,
				"duration_ms": 0,
			},
			"client": map[string]any{
				"ip":         info.IP,
				"request_id": info.RequestID,
				"trace_id":   info.TraceID,
			},
		},
	})

	if h.provider != nil {
		// Serialized through the hub: a broadcast may already be in flight
		// for this connection by the time we get here.
		if err := h.hub.SendSnapshot(conn, h.provider.Snapshot()); err != nil {
			log.Printf("websocket initial snapshot write error: %v", err)
		}
	}

	// Keep connection alive and clean on close
	go func() {
		defer func() {
			h.hub.RemoveClient(conn)
			observability.DecWSActive()
			observability.IncWSEvent("ws_disconnect")
			_ = observability.PublishEvent(ctx, snapshotRoutingKey, observability.EventEnvelope{
				EventType: "ws_events",
				EventName: "ws_disconnect",
				Payload: map[string]any{
					"ws": map[string]any{
						"event":       "ws_disconnect",
						"conn_id":     info.ConnID,
						"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
					},
					"client": map[string]any{
						"ip":         info.IP,
						"request_id": info.RequestID,
						"trace_id":   info.TraceID,
					},
				},
			})
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					observability.IncWSEvent("ws_error")
				}
				return
			}
		}
	}()
}
