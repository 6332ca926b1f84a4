package api

import (
	"context"
	"net/http"

	service "github.com/okian/qualitydash/internal/app"
)

// MeasureDependencies defines the interface for measure reads.
type MeasureDependencies interface {
	Measures(ctx context.Context, domain string) ([]service.MeasureView, error)
	Measure(ctx context.Context, id string) (service.MeasureView, error)
}

// MeasuresHandler handles measure requests.
type MeasuresHandler struct {
	deps MeasureDependencies
}

// NewMeasuresHandler creates a new measures handler.
func NewMeasuresHandler(deps MeasureDependencies) *MeasuresHandler {
	return &MeasuresHandler{deps: deps}
}

// HandleListMeasures handles GET /measures?domain=D requests.
func (h *MeasuresHandler) HandleListMeasures(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_measures"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	views, err := h.deps.Measures(r.Context(), r.URL.Query().Get("domain"))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// HandleGetMeasure handles GET /measures/{measure_id} requests.
func (h *MeasuresHandler) HandleGetMeasure(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_measure"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id, ok := pathID(r, "/measures/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	view, err := h.deps.Measure(r.Context(), id)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
