package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Check is a named dependency probe. A nil Ping reports "disabled".
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

type HealthHandler struct {
	serviceName string
	version     string
	checks      []Check
	timeout     time.Duration
}

func NewHealthHandler(serviceName, version string, checks ...Check) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		checks:      checks,
		timeout:     time.Second,
	}
}

// HealthCheck reports 200 when every enabled dependency answers, 503 otherwise.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status, code := "healthy", http.StatusOK
	results := make(map[string]string, len(h.checks))

	for _, chk := range h.checks {
		if chk.Ping == nil {
			results[chk.Name] = "disabled"
			continue
		}

		pingCtx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		err := chk.Ping(pingCtx)
		cancel()

		if err != nil {
			results[chk.Name] = "down"
			status, code = "degraded", http.StatusServiceUnavailable
		} else {
			results[chk.Name] = "up"
		}
	}

	c.JSON(code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Checks:    results,
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
