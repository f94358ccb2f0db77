package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-simulator/internal/models"
	"chat-simulator/internal/store"
)

// Preference defaults, used whenever the store has no usable value.
const (
	DefaultNotificationsEnabled = true
	DefaultSoundEnabled         = true
	DefaultTheme                = "light"
)

// PreferencesHandler reads and writes the persisted user toggles. They feed
// the side-effect emitters only; the timeline never consults them.
type PreferencesHandler struct {
	kv store.KV
}

// NewPreferencesHandler builds a PreferencesHandler.
func NewPreferencesHandler(kv store.KV) *PreferencesHandler {
	return &PreferencesHandler{kv: kv}
}

// GetPreferences returns the stored preferences, substituting defaults for
// absent or corrupt values.
func (h *PreferencesHandler) GetPreferences(c *gin.Context) {
	ctx := c.Request.Context()

	prefs := models.Preferences{
		NotificationsEnabled: DefaultNotificationsEnabled,
		SoundEnabled:         DefaultSoundEnabled,
		Theme:                DefaultTheme,
	}
	h.kv.ReadJSON(ctx, store.KeyNotificationsEnabled, &prefs.NotificationsEnabled)
	h.kv.ReadJSON(ctx, store.KeySoundEnabled, &prefs.SoundEnabled)
	h.kv.ReadJSON(ctx, store.KeyTheme, &prefs.Theme)

	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}

// PutPreferences stores the supplied preferences.
func (h *PreferencesHandler) PutPreferences(c *gin.Context) {
	var req models.Preferences
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Theme != "light" && req.Theme != "dark" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "theme must be light or dark"})
		return
	}

	ctx := c.Request.Context()
	writes := []struct {
		key   string
		value any
	}{
		{store.KeyNotificationsEnabled, req.NotificationsEnabled},
		{store.KeySoundEnabled, req.SoundEnabled},
		{store.KeyTheme, req.Theme},
	}
	for _, w := range writes {
		if err := h.kv.WriteJSON(ctx, w.key, w.value); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store preferences"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"preferences": req})
}
