package emitters

import (
	"context"
	"time"
)

// Publisher is the transport the emitters publish through.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// Envelope wraps every emitted side-effect event.
type Envelope struct {
	SchemaVersion int    `json:"schema_version"`
	EventType     string `json:"event_type"`
	OccurredAt    string `json:"occurred_at"`
	Service       string `json:"service"`
	Payload       any    `json:"payload"`
}

const (
	routingKeyNotification = "side_effects.notifications"
	routingKeySound        = "side_effects.sounds"
)

func newEnvelope(eventType, service string, payload any) Envelope {
	return Envelope{
		SchemaVersion: 1,
		EventType:     eventType,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339Nano),
		Service:       service,
		Payload:       payload,
	}
}
