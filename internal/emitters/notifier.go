package emitters

import (
	"context"
	"log"

	"chat-simulator/internal/observability"
	"chat-simulator/internal/store"
)

// Notifier emits system notifications for messages that arrive while the
// client is unfocused. Emission is fire and forget: failures are logged and
// swallowed, never blocking message flow. The notifications-enabled preference
// is checked here, at emission time, so toggling it takes effect immediately
// without touching the timeline.
type Notifier struct {
	publisher Publisher
	prefs     store.KV
	service   string
}

type notificationPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// NewNotifier builds a Notifier. A nil publisher yields a Notifier that only
// checks preferences and logs.
func NewNotifier(publisher Publisher, prefs store.KV, service string) *Notifier {
	return &Notifier{publisher: publisher, prefs: prefs, service: service}
}

// MessageReceived emits a new-message notification. The caller is responsible
// for only invoking it when the client is unfocused.
func (n *Notifier) MessageReceived(ctx context.Context, senderName, text string) {
	if n == nil {
		return
	}

	enabled := true
	n.prefs.ReadJSON(ctx, store.KeyNotificationsEnabled, &enabled)
	if !enabled {
		return
	}

	if n.publisher == nil {
		log.Printf("notification suppressed, no publisher: from=%s", senderName)
		return
	}

	envelope := newEnvelope("notification", n.service, notificationPayload{
		Title: "Nova mensagem de " + senderName,
		Body:  text,
	})
	if err := n.publisher.Publish(ctx, routingKeyNotification, envelope); err != nil {
		observability.IncAMQPPublishError()
		log.Printf("notification publish failed: %v", err)
	}
}
