package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/qualitydash/internal/adapters/repository"
	"github.com/okian/qualitydash/internal/domain/analysis"
	"github.com/okian/qualitydash/internal/domain/display"
	"github.com/okian/qualitydash/internal/domain/measure"
	"github.com/okian/qualitydash/internal/domain/outlier"
	"github.com/okian/qualitydash/internal/domain/scoring"
	"github.com/okian/qualitydash/pkg/logger"
	"github.com/okian/qualitydash/pkg/metrics"
)

// parseDomain maps an optional domain name to a filter. Empty means all.
func parseDomain(name string) (measure.Domain, error) {
	if strings.TrimSpace(name) == "" {
		return "", nil
	}
	d, err := measure.ParseDomain(name)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownDomain, name)
	}
	return d, nil
}

func (snap *snapshot) filter(d measure.Domain) []MeasureView {
	if d == "" {
		return snap.views
	}
	out := make([]MeasureView, 0)
	for _, v := range snap.views {
		if v.Measure.Domain == d {
			out = append(out, v)
		}
	}
	return out
}

// Measures returns the measure views of a domain, or all when domain is empty.
func (s *Service) Measures(ctx context.Context, domain string) ([]MeasureView, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	d, err := parseDomain(domain)
	if err != nil {
		return nil, err
	}
	views := snap.filter(d)
	out := make([]MeasureView, len(views))
	copy(out, views)
	return out, nil
}

// Measure returns one measure view.
func (s *Service) Measure(ctx context.Context, id string) (MeasureView, error) {
	snap, err := s.current()
	if err != nil {
		return MeasureView{}, err
	}
	i, ok := snap.index[id]
	if !ok {
		return MeasureView{}, fmt.Errorf("%w: %s", ErrMeasureNotFound, id)
	}
	return snap.views[i], nil
}

// Priorities returns the top n measures by priority score.
func (s *Service) Priorities(ctx context.Context, n int) ([]repository.Entry, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.priority.TopN(ctx, n)
}

// GapRanking returns the top n measures by raw mean gap.
func (s *Service) GapRanking(ctx context.Context, n int) ([]repository.Entry, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.gap.TopN(ctx, n)
}

// Underperforming returns the top n measures whose mean status is worse,
// by priority score. Ranks are positions within the filtered list.
func (s *Service) Underperforming(ctx context.Context, n int) ([]repository.Entry, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, repository.ErrInvalidLimit
	}
	all, err := snap.priority.TopN(ctx, max(snap.priority.Count(ctx), 1))
	if err != nil {
		return nil, err
	}
	out := make([]repository.Entry, 0, n)
	for _, e := range all {
		if e.Status != scoring.StatusWorse {
			continue
		}
		e.Rank = len(out) + 1
		out = append(out, e)
		if len(out) == n {
			break
		}
	}
	return out, nil
}

// Rank returns the priority rank of one measure.
func (s *Service) Rank(ctx context.Context, id string) (repository.Entry, error) {
	snap, err := s.current()
	if err != nil {
		return repository.Entry{}, err
	}
	return snap.priority.Rank(ctx, id)
}

func items(views []MeasureView) []analysis.Item {
	out := make([]analysis.Item, 0, len(views))
	for _, v := range views {
		out = append(out, analysis.Item{
			MeasureID: v.Measure.ID,
			Domain:    v.Measure.Domain,
			Weight:    v.Measure.Weight,
			Status:    v.CurrentStatus,
			Trend:     v.Trend,
		})
	}
	return out
}

// Summary returns the headline counts of a domain, or of all measures.
func (s *Service) Summary(ctx context.Context, domain string) (analysis.Summary, error) {
	snap, err := s.current()
	if err != nil {
		return analysis.Summary{}, err
	}
	d, err := parseDomain(domain)
	if err != nil {
		return analysis.Summary{}, err
	}
	return analysis.Summarize(items(snap.filter(d))), nil
}

// Distribution returns the weighted status distribution of a domain.
func (s *Service) Distribution(ctx context.Context, domain string) (analysis.Distribution, error) {
	snap, err := s.current()
	if err != nil {
		return analysis.Distribution{}, err
	}
	d, err := parseDomain(domain)
	if err != nil {
		return analysis.Distribution{}, err
	}
	return analysis.Distribute(items(snap.filter(d))), nil
}

// Slopes returns the slope chart of a domain, or of all measures.
func (s *Service) Slopes(ctx context.Context, domain string) (SlopeChart, error) {
	snap, err := s.current()
	if err != nil {
		return SlopeChart{}, err
	}
	d, err := parseDomain(domain)
	if err != nil {
		return SlopeChart{}, err
	}
	return s.slopeChart(snap, d), nil
}

// slopeChart partitions on true slopes, then attaches plotted values.
func (s *Service) slopeChart(snap *snapshot, d measure.Domain) SlopeChart {
	views := snap.filter(d)
	records := make([]outlier.SlopeRecord, 0, len(views))
	for _, v := range views {
		records = append(records, slopeRecord(v))
	}
	p := outlier.Separate(records, outlier.WithFactor(s.outlierFactor))
	return SlopeChart{
		Domain:    d,
		Q3:        p.Q3,
		Threshold: p.Threshold,
		Regular:   display.Apply(p.Regular, snap.overrides),
		Outliers:  display.Apply(p.Outliers, snap.overrides),
	}
}

// Classify evaluates ad hoc values under the polarity of req.MeasureID.
// Unknown ids use the default polarity; the fallback is logged and counted.
func (s *Service) Classify(ctx context.Context, req ClassifyRequest) (ClassifyResult, error) {
	snap, err := s.current()
	if err != nil {
		return ClassifyResult{}, err
	}
	p, known := snap.catalog.Polarity(req.MeasureID)
	if !known {
		metrics.RecordPolarityFallback()
		s.logger.Warn(ctx, "unknown measure id; using default polarity",
			logger.String("measure_id", req.MeasureID),
			logger.String("polarity", p.String()))
	}
	res := ClassifyResult{
		MeasureID: req.MeasureID,
		Polarity:  p,
		Fallback:  !known,
		Status:    s.classifier.Evaluate(req.Local, req.Benchmark, p),
		Trend:     s.classifier.Trend(req.Slope, p),
	}
	metrics.RecordClassification(string(res.Status.Status))
	return res, nil
}
