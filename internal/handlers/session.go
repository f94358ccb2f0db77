package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SessionHandler manages the local identity endpoints.
type SessionHandler struct {
	timeline Timeline
}

// NewSessionHandler builds a SessionHandler.
func NewSessionHandler(timeline Timeline) *SessionHandler {
	return &SessionHandler{timeline: timeline}
}

// GetSession returns the active identity, empty when no session is running.
func (h *SessionHandler) GetSession(c *gin.Context) {
	snap := h.timeline.Snapshot()
	c.JSON(http.StatusOK, gin.H{"identity": snap.Identity, "state": snap.State})
}

// SetSession starts a session for the supplied display name. Setting a new
// name while a session runs restarts everything under the new identity.
func (h *SessionHandler) SetSession(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name must not be blank"})
		return
	}

	h.timeline.SetIdentity(c.Request.Context(), name)
	c.JSON(http.StatusOK, gin.H{"identity": name})
}

// ClearSession tears the session down, returning the client to name entry.
func (h *SessionHandler) ClearSession(c *gin.Context) {
	h.timeline.SetIdentity(c.Request.Context(), "")
	c.Status(http.StatusNoContent)
}
