package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chat-simulator/internal/mocks"
	"chat-simulator/internal/models"
)

func setupSessionRouter(handler *SessionHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/session", handler.GetSession)
	r.PUT("/session", handler.SetSession)
	r.DELETE("/session", handler.ClearSession)
	return r
}

func TestSetSessionStartsIdentity(t *testing.T) {
	tl := new(mocks.TimelineMock)
	handler := NewSessionHandler(tl)
	router := setupSessionRouter(handler)

	tl.On("SetIdentity", mock.Anything, "Alice").Once()

	req := httptest.NewRequest(http.MethodPut, "/session", bytes.NewBufferString(`{"name":"Alice"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	tl.AssertExpectations(t)
}

func TestSetSessionTrimsName(t *testing.T) {
	tl := new(mocks.TimelineMock)
	handler := NewSessionHandler(tl)
	router := setupSessionRouter(handler)

	tl.On("SetIdentity", mock.Anything, "Alice").Once()

	req := httptest.NewRequest(http.MethodPut, "/session", bytes.NewBufferString(`{"name":"  Alice  "}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	tl.AssertExpectations(t)
}

func TestSetSessionRejectsBlankName(t *testing.T) {
	tl := new(mocks.TimelineMock)
	handler := NewSessionHandler(tl)
	router := setupSessionRouter(handler)

	for _, body := range []string{`{"name":""}`, `{"name":"   "}`, `{}`} {
		req := httptest.NewRequest(http.MethodPut, "/session", bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
	}
	tl.AssertNotCalled(t, "SetIdentity", mock.Anything, mock.Anything)
}

func TestClearSession(t *testing.T) {
	tl := new(mocks.TimelineMock)
	handler := NewSessionHandler(tl)
	router := setupSessionRouter(handler)

	tl.On("SetIdentity", mock.Anything, "").Once()

	req := httptest.NewRequest(http.MethodDelete, "/session", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	tl.AssertExpectations(t)
}

func TestGetSession(t *testing.T) {
	tl := new(mocks.TimelineMock)
	handler := NewSessionHandler(tl)
	router := setupSessionRouter(handler)

	tl.On("Snapshot").Return(models.Snapshot{Identity: "Alice", State: "idle"}).Once()

	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Alice")
	tl.AssertExpectations(t)
}
