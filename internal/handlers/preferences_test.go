package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chat-simulator/internal/mocks"
	"chat-simulator/internal/models"
	"chat-simulator/internal/store"
)

func setupPrefsRouter(handler *PreferencesHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/preferences", handler.GetPreferences)
	r.PUT("/preferences", handler.PutPreferences)
	return r
}

func TestGetPreferencesDefaults(t *testing.T) {
	kv := new(mocks.KVMock)
	handler := NewPreferencesHandler(kv)
	router := setupPrefsRouter(handler)

	// nothing stored: every read misses and defaults stand
	kv.On("ReadJSON", mock.Anything, store.KeyNotificationsEnabled, mock.Anything).Return(false).Once()
	kv.On("ReadJSON", mock.Anything, store.KeySoundEnabled, mock.Anything).Return(false).Once()
	kv.On("ReadJSON", mock.Anything, store.KeyTheme, mock.Anything).Return(false).Once()

	req := httptest.NewRequest(http.MethodGet, "/preferences", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Preferences models.Preferences `json:"preferences"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.True(t, resp.Preferences.NotificationsEnabled)
	require.True(t, resp.Preferences.SoundEnabled)
	require.Equal(t, "light", resp.Preferences.Theme)
	kv.AssertExpectations(t)
}

func TestPutPreferencesStoresAllKeys(t *testing.T) {
	kv := new(mocks.KVMock)
	handler := NewPreferencesHandler(kv)
	router := setupPrefsRouter(handler)

	kv.On("WriteJSON", mock.Anything, store.KeyNotificationsEnabled, false).Return(nil).Once()
	kv.On("WriteJSON", mock.Anything, store.KeySoundEnabled, true).Return(nil).Once()
	kv.On("WriteJSON", mock.Anything, store.KeyTheme, "dark").Return(nil).Once()

	body := bytes.NewBufferString(`{"notifications_enabled":false,"sound_enabled":true,"theme":"dark"}`)
	req := httptest.NewRequest(http.MethodPut, "/preferences", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	kv.AssertExpectations(t)
}

func TestPutPreferencesRejectsUnknownTheme(t *testing.T) {
	kv := new(mocks.KVMock)
	handler := NewPreferencesHandler(kv)
	router := setupPrefsRouter(handler)

	body := bytes.NewBufferString(`{"notifications_enabled":true,"sound_enabled":true,"theme":"sepia"}`)
	req := httptest.NewRequest(http.MethodPut, "/preferences", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	kv.AssertNotCalled(t, "WriteJSON", mock.Anything, mock.Anything, mock.Anything)
}
