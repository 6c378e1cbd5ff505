package infra

import (
	"net/http"
	"time"

	"github.com/tutorgate/tutorgate/internal/transport/http/handler/shared"
)

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, map[string]any{
		"ok": true,
		"ts": time.Now().UnixMilli(),
	}, http.StatusOK)
}

// Root handles GET / with a JSON service status.
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, map[string]any{
		"service": "tutorgate",
		"version": h.Version,
		"status":  "ok",
	}, http.StatusOK)
}
