package api

import (
	"context"
	"net/http"

	service "github.com/okian/qualitydash/internal/app"
)

// SlopeDependencies defines the interface for slope chart reads.
type SlopeDependencies interface {
	Slopes(ctx context.Context, domain string) (service.SlopeChart, error)
}

// SlopesHandler handles slope chart requests.
type SlopesHandler struct {
	deps SlopeDependencies
}

// NewSlopesHandler creates a new slopes handler.
func NewSlopesHandler(deps SlopeDependencies) *SlopesHandler {
	return &SlopesHandler{deps: deps}
}

// HandleSlopes handles GET /slopes?domain=D requests.
func (h *SlopesHandler) HandleSlopes(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_slopes"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	chart, err := h.deps.Slopes(r.Context(), r.URL.Query().Get("domain"))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, chart)
}
