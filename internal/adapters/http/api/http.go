// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/okian/qualitydash/internal/adapters/repository"
	service "github.com/okian/qualitydash/internal/app"
	"github.com/okian/qualitydash/internal/domain/analysis"
)

const defaultMaxLimit = 100

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	MeasureDependencies
	PriorityDependencies
	RankDependencies
	SummaryDependencies
	SlopeDependencies
	ClassifyDependencies
}

// Entry mirrors the read shape returned by ranking queries.
type Entry = repository.Entry

// Server wires HTTP routes for the dashboard API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	measuresHandler *MeasuresHandler
	priorityHandler *PriorityHandler
	rankHandler     *RankHandler
	summaryHandler  *SummaryHandler
	slopesHandler   *SlopesHandler
	classifyHandler *ClassifyHandler
}

// NewServer creates a new API server with all handlers. A maxLimit below 1
// falls back to the default.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	if maxLimit < 1 {
		maxLimit = defaultMaxLimit
	}
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		measuresHandler: NewMeasuresHandler(deps),
		priorityHandler: NewPriorityHandler(deps, maxLimit),
		rankHandler:     NewRankHandler(deps),
		summaryHandler:  NewSummaryHandler(deps),
		slopesHandler:   NewSlopesHandler(deps),
		classifyHandler: NewClassifyHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/measures", MetricsMiddleware(s.measuresHandler.HandleListMeasures, "measures"))
	mux.HandleFunc("/measures/", MetricsMiddleware(s.measuresHandler.HandleGetMeasure, "measure"))
	mux.HandleFunc("/priorities", MetricsMiddleware(s.priorityHandler.HandleGetPriorities, "priorities"))
	mux.HandleFunc("/rank/", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
	mux.HandleFunc("/summary", MetricsMiddleware(s.summaryHandler.HandleSummary, "summary"))
	mux.HandleFunc("/distribution", MetricsMiddleware(s.summaryHandler.HandleDistribution, "distribution"))
	mux.HandleFunc("/slopes", MetricsMiddleware(s.slopesHandler.HandleSlopes, "slopes"))
	mux.HandleFunc("/classify", MetricsMiddleware(s.classifyHandler.HandleClassify, "classify"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// pathID returns the single path segment after prefix, unescaped. Ids may
// contain an escaped slash (%2F); a literal slash is rejected.
func pathID(r *http.Request, prefix string) (string, bool) {
	raw, ok := strings.CutPrefix(r.URL.EscapedPath(), prefix)
	if !ok || raw == "" || strings.Contains(raw, "/") {
		return "", false
	}
	id, err := url.PathUnescape(raw)
	if err != nil || id == "" {
		return "", false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates service and store errors to HTTP responses.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrMeasureNotFound), errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	case errors.Is(err, service.ErrUnknownDomain), errors.Is(err, repository.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

// summaryResponse pairs the headline counts with the distribution so the
// dashboard cards need one request.
type summaryResponse struct {
	Domain       string                `json:"domain,omitempty"`
	Summary      analysis.Summary      `json:"summary"`
	Distribution analysis.Distribution `json:"distribution"`
}
