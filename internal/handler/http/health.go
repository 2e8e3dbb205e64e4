package http

import (
	"net/http"
	"sync/atomic"

	"github.com/windfall/readaloud_service/pkg/response"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	ready    atomic.Bool
	provider string
}

// NewHealthHandler creates a new health handler. Provider names the model
// gateway in use; empty means none is configured and the service is not ready.
func NewHealthHandler(provider string) *HealthHandler {
	h := &HealthHandler{provider: provider}
	h.ready.Store(provider != "")
	return h
}

// SetReady sets the ready state.
func (h *HealthHandler) SetReady(ready bool) {
	h.ready.Store(ready)
}

// Health checks if the service is healthy.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "readaloud_service",
	})
}

// Ready reports whether a model gateway is available to serve requests.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if !h.ready.Load() {
		response.JSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "not_ready",
		})
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ready",
		"provider": h.provider,
	})
}

// Live checks if the service is alive (for Kubernetes liveness probe).
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"status": "alive",
	})
}
