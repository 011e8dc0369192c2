package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

const healthTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the body of a successful health check
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// HealthHandler reports store reachability
type HealthHandler struct {
	store    Pinger
	database string
}

// NewHealthHandler creates a health handler; database labels the store in responses
func NewHealthHandler(store Pinger, database string) *HealthHandler {
	return &HealthHandler{store: store, database: database}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "database unavailable: "+err.Error())
		return
	}

	render.JSON(w, r, HealthResponse{Status: "healthy", Database: h.database})
}
