package api

import (
	"context"
	"net/http"

	"github.com/okian/qualitydash/internal/domain/analysis"
)

// SummaryDependencies defines the interface for aggregate reads.
type SummaryDependencies interface {
	Summary(ctx context.Context, domain string) (analysis.Summary, error)
	Distribution(ctx context.Context, domain string) (analysis.Distribution, error)
}

// SummaryHandler handles summary and distribution requests.
type SummaryHandler struct {
	deps SummaryDependencies
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(deps SummaryDependencies) *SummaryHandler {
	return &SummaryHandler{deps: deps}
}

// HandleSummary handles GET /summary?domain=D requests.
func (h *SummaryHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_summary"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	domain := r.URL.Query().Get("domain")
	s, err := h.deps.Summary(r.Context(), domain)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	d, err := h.deps.Distribution(r.Context(), domain)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{Domain: domain, Summary: s, Distribution: d})
}

// HandleDistribution handles GET /distribution?domain=D requests.
func (h *SummaryHandler) HandleDistribution(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_distribution"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	d, err := h.deps.Distribution(r.Context(), r.URL.Query().Get("domain"))
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
