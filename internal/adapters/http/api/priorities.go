package api

import (
	"context"
	"net/http"
	"strconv"
)

const defaultLimit = 10

// Ranking views accepted by /priorities.
const (
	viewPriority        = "priority"
	viewGap             = "gap"
	viewUnderperforming = "underperforming"
)

// PriorityDependencies defines the interface for ranking operations.
type PriorityDependencies interface {
	Priorities(ctx context.Context, n int) ([]Entry, error)
	GapRanking(ctx context.Context, n int) ([]Entry, error)
	Underperforming(ctx context.Context, n int) ([]Entry, error)
}

// PriorityHandler handles priority ranking requests.
type PriorityHandler struct {
	deps     PriorityDependencies
	maxLimit int
}

// NewPriorityHandler creates a new priority handler.
func NewPriorityHandler(deps PriorityDependencies, maxLimit int) *PriorityHandler {
	return &PriorityHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetPriorities handles GET /priorities?limit=N&view=V requests.
// limit defaults to 10 and view to priority.
func (h *PriorityHandler) HandleGetPriorities(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_priorities"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()

	n := defaultLimit
	if limitStr := q.Get("limit"); limitStr != "" {
		var err error
		n, err = strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}

	var fetch func(context.Context, int) ([]Entry, error)
	switch q.Get("view") {
	case "", viewPriority:
		fetch = h.deps.Priorities
	case viewGap:
		fetch = h.deps.GapRanking
	case viewUnderperforming:
		fetch = h.deps.Underperforming
	default:
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	entries, err := fetch(r.Context(), n)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
