package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveHealth(h *HealthHandler, path string) (*httptest.ResponseRecorder, HealthResponse) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var resp HealthResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestHealthCheck_AllUp(t *testing.T) {
	h := NewHealthHandler("taskboard", "1.2.3",
		Check{Name: "db", Ping: func(context.Context) error { return nil }},
		Check{Name: "redis"},
	)

	for _, path := range []string{"/health", "/healthz"} {
		w, resp := serveHealth(h, path)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "taskboard", resp.Service)
		assert.Equal(t, "1.2.3", resp.Version)
		assert.Equal(t, map[string]string{"db": "up", "redis": "disabled"}, resp.Checks)
	}
}

func TestHealthCheck_Degraded(t *testing.T) {
	h := NewHealthHandler("taskboard", "1.2.3",
		Check{Name: "db", Ping: func(context.Context) error { return errors.New("connection refused") }},
	)

	w, resp := serveHealth(h, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "down", resp.Checks["db"])
}
