package http

import (
	"net/http"

	"istanbul-news/internal/handler/http/respond"
)

// HealthHandler reports service health for load balancers and monitoring.
type HealthHandler struct {
	Version string
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.Version,
	})
}

// Live handles GET /live. It answers as long as the process can serve
// requests at all.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{"status": "alive"})
}
