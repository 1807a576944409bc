package middleware

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/GoSim-25-26J-441/taskboard/internal/logger"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	return r
}

func TestRequestIDMiddleware(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(logger.NewWithWriter(&buf, "production", "info"))
	t.Cleanup(func() { slog.SetDefault(prev) })

	r := newEngine(RequestIDMiddleware())
	var seen string
	r.GET("/ping", func(c *gin.Context) {
		seen = GetRequestID(c.Request.Context())
		logger.FromContext(c.Request.Context()).Info("handler ran")
		c.Status(http.StatusTeapot)
	})

	t.Run("propagates incoming id", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "abc-123", seen)
		assert.Contains(t, buf.String(), `"msg":"handler ran"`)
		assert.Contains(t, buf.String(), `"request_id":"abc-123"`)
		assert.Contains(t, buf.String(), `"status":418`)
	})

	t.Run("generates id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		rid := w.Header().Get(RequestIDHeader)
		assert.Len(t, rid, 36)
		assert.Equal(t, rid, seen)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	r := newEngine(RateLimitMiddleware(1, 2))
	r.GET("/limited", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/limited", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("10.0.0.2"), "limits are per client")
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(rate.Every(time.Minute), 1)
	rl.now = func() time.Time { return now }
	rl.lastSweep = now

	for i := 0; i < 100; i++ {
		rl.getLimiter(fmt.Sprintf("10.0.%d.%d", i/256, i%256))
	}
	require.Len(t, rl.limiters, 100)

	now = now.Add(10 * time.Minute)
	active := rl.getLimiter("10.0.0.1")

	now = now.Add(limiterTTL - time.Minute)
	rl.getLimiter("10.0.0.1")
	assert.Len(t, rl.limiters, 1, "idle clients are swept")

	assert.Same(t, active, rl.getLimiter("10.0.0.1"), "a client seen within the ttl keeps its limiter")
}

func TestMetrics(t *testing.T) {
	r := newEngine(Metrics())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	counter := RequestTotal.WithLabelValues(http.MethodGet, "/items/:id", "200")
	before := counterValue(t, counter.Write)

	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, before+2, counterValue(t, counter.Write))
	unmatched := RequestTotal.WithLabelValues(http.MethodGet, "unmatched", "404")
	assert.GreaterOrEqual(t, counterValue(t, unmatched.Write), 1.0)
}

func counterValue(t *testing.T, write func(*dto.Metric) error) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, write(&m))
	return m.GetCounter().GetValue()
}
