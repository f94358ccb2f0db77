package handlers

import (
	"context"

	"chat-simulator/internal/models"
)

// Timeline is the controller surface the presentation layer consumes. It is
// the only way handlers touch conversation state; they never reach into the
// transport or the store for messages.
type Timeline interface {
	SetIdentity(ctx context.Context, name string)
	SendUserMessage(ctx context.Context, text string) error
	SetLocalTyping(typing bool)
	SetFocused(focused bool)
	Snapshot() models.Snapshot
}
