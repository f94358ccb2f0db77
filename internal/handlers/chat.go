package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-simulator/internal/timeline"
)

// ChatHandler exposes the conversation endpoints.
type ChatHandler struct {
	timeline Timeline
}

// NewChatHandler builds a ChatHandler.
func NewChatHandler(timeline Timeline) *ChatHandler {
	return &ChatHandler{timeline: timeline}
}

// GetSnapshot returns the full presentation snapshot.
func (h *ChatHandler) GetSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"snapshot": h.timeline.Snapshot()})
}

// PostMessage submits a user message. Blank input is accepted and ignored; a
// transport failure is not surfaced as an HTTP error, the message simply does
// not appear in the returned snapshot.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.timeline.SendUserMessage(c.Request.Context(), req.Text); err != nil {
		if errors.Is(err, timeline.ErrNoSession) {
			c.JSON(http.StatusConflict, gin.H{"error": "no active identity"})
			return
		}
		log.Printf("send failed: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"snapshot": h.timeline.Snapshot()})
}

// PostTyping reports whether the local user has non-blank input pending.
func (h *ChatHandler) PostTyping(c *gin.Context) {
	var req struct {
		Typing *bool `json:"typing" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.timeline.SetLocalTyping(*req.Typing)
	c.Status(http.StatusNoContent)
}

// PostFocus reports whether the client tab is focused.
func (h *ChatHandler) PostFocus(c *gin.Context) {
	var req struct {
		Focused *bool `json:"focused" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.timeline.SetFocused(*req.Focused)
	c.Status(http.StatusNoContent)
}
