package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	service "github.com/okian/qualitydash/internal/app"
	"github.com/okian/qualitydash/internal/domain/measure"
)

// ClassifyDependencies defines the interface for ad hoc classification.
type ClassifyDependencies interface {
	Classify(ctx context.Context, req service.ClassifyRequest) (service.ClassifyResult, error)
}

// ClassifyHandler handles ad hoc classification requests.
type ClassifyHandler struct {
	deps ClassifyDependencies
}

// NewClassifyHandler creates a new classify handler.
func NewClassifyHandler(deps ClassifyDependencies) *ClassifyHandler {
	return &ClassifyHandler{deps: deps}
}

// HandleClassify handles GET /classify?id=X&local=L&benchmark=B&slope=S.
// Missing values are absent and classify as no_data.
func (h *ClassifyHandler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	const op = "api.classify"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	req, err := parseClassifyRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.Classify(r.Context(), req)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func parseClassifyRequest(q url.Values) (service.ClassifyRequest, error) {
	req := service.ClassifyRequest{MeasureID: strings.TrimSpace(q.Get("id"))}
	if req.MeasureID == "" {
		return req, errors.New("missing id")
	}
	var err error
	if req.Local, err = optionalFloat(q, "local"); err != nil {
		return req, err
	}
	if req.Benchmark, err = optionalFloat(q, "benchmark"); err != nil {
		return req, err
	}
	slope, err := optionalFloat(q, "slope")
	if err != nil {
		return req, err
	}
	req.Slope, _ = slope.Get()
	return req, nil
}

func optionalFloat(q url.Values, key string) (measure.Value, error) {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return measure.None(), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return measure.None(), fmt.Errorf("invalid %s: %q", key, s)
	}
	return measure.Some(f), nil
}
