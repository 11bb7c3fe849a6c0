package http

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// Check reports whether an optional dependency is reachable.
type Check func(ctx context.Context) error

type IndexStatus struct {
	Enabled  bool   `json:"enabled"`
	Chunks   int    `json:"chunks,omitempty"`
	Embedder string `json:"embedder,omitempty"`
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Index     IndexStatus       `json:"index"`
	Checks    map[string]string `json:"checks,omitempty"`
}

type HealthHandler struct {
	serviceName string
	version     string
	index       IndexStatus
	checks      map[string]Check
}

// NewHealthHandler builds the handler. Checks are run on every request; a
// nil map means no optional dependencies are configured.
func NewHealthHandler(serviceName, version string, index IndexStatus, checks map[string]Check) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		index:       index,
		checks:      checks,
	}
}

// HealthCheck answers 200 while the process serves pages. Optional
// dependencies that are down degrade the status but not the code.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status := "healthy"

	var results map[string]string
	if len(h.checks) > 0 {
		results = make(map[string]string, len(h.checks))

		names := make([]string, 0, len(h.checks))
		for name := range h.checks {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
			err := h.checks[name](pingCtx)
			cancel()

			if err != nil {
				results[name] = "down"
				status = "degraded"
			} else {
				results[name] = "up"
			}
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Index:     h.index,
		Checks:    results,
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
