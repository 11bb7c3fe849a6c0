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

func serveHealth(t *testing.T, h *HealthHandler, method, path string) (*httptest.ResponseRecorder, HealthResponse) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	h.RegisterRoutes(router)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(method, path, nil))

	var resp HealthResponse
	if rr.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	}
	return rr, resp
}

func TestHealthCheck(t *testing.T) {
	h := NewHealthHandler("test-service", "1.0.0", IndexStatus{Enabled: true, Chunks: 42, Embedder: "tfidf"}, nil)

	for _, path := range []string{"/health", "/healthz"} {
		rr, resp := serveHealth(t, h, http.MethodGet, path)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "test-service", resp.Service)
		assert.Equal(t, "1.0.0", resp.Version)
		assert.Equal(t, 42, resp.Index.Chunks)
		assert.Nil(t, resp.Checks)
	}
}

func TestHealthCheck_Dependencies(t *testing.T) {
	h := NewHealthHandler("svc", "1", IndexStatus{}, map[string]Check{
		"db":    func(context.Context) error { return nil },
		"redis": func(context.Context) error { return errors.New("connection refused") },
	})

	rr, resp := serveHealth(t, h, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, map[string]string{"db": "up", "redis": "down"}, resp.Checks)
	assert.False(t, resp.Index.Enabled)
}

func TestHealthCheckMethodNotAllowed(t *testing.T) {
	h := NewHealthHandler("svc", "1", IndexStatus{}, nil)

	rr, _ := serveHealth(t, h, http.MethodPost, "/health")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
