// Package service builds the dashboard snapshot and answers the read
// operations required by the HTTP API and the terminal report.
package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/qualitydash/internal/adapters/repository"
	"github.com/okian/qualitydash/internal/dataset"
	"github.com/okian/qualitydash/internal/domain/analysis"
	"github.com/okian/qualitydash/internal/domain/display"
	"github.com/okian/qualitydash/internal/domain/measure"
	"github.com/okian/qualitydash/internal/domain/scoring"
	"github.com/okian/qualitydash/pkg/logger"
	"github.com/okian/qualitydash/pkg/metrics"
)

const defaultOutlierFactor = 3.0

// snapshot is an immutable, fully derived view of one dataset load.
type snapshot struct {
	id        string
	builtAt   time.Time
	sources   []string
	catalog   *measure.Catalog
	views     []MeasureView
	index     map[string]int
	overrides display.Overrides
	priority  *repository.TreapStore
	gap       *repository.TreapStore
}

// Service implements the API dependencies for the dashboard.
type Service struct {
	mu sync.RWMutex

	classifier      *scoring.Classifier
	defaultPolarity measure.Polarity
	outlierFactor   float64
	datasetOpts     []dataset.Option

	snap    atomic.Pointer[snapshot]
	started bool

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		classifier:      scoring.NewClassifier(),
		defaultPolarity: measure.HigherIsBetter,
		outlierFactor:   defaultOutlierFactor,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the dataset and builds the snapshot. Calling Start on a
// started service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}

	s.logger.Info(ctx, "starting dashboard service...")

	start := time.Now()
	ds, err := dataset.Load(ctx, s.datasetOpts...)
	if err != nil {
		metrics.RecordErrorByComponent("service", "dataset")
		return fmt.Errorf("load dataset: %w", err)
	}

	snap, err := s.build(ctx, ds)
	if err != nil {
		metrics.RecordErrorByComponent("service", "build")
		return err
	}
	s.snap.Store(snap)
	s.started = true

	took := time.Since(start)
	metrics.RecordSnapshotBuild(float64(took.Microseconds())/1000, snap.builtAt.Unix())
	s.logger.Info(ctx, "dashboard service started",
		logger.String("snapshot_id", snap.id),
		logger.Int("measures", len(snap.views)),
		logger.Int("ranked", snap.priority.Count(ctx)),
		logger.Duration("took", took),
	)
	return nil
}

// Stop releases the snapshot.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.snap.Store(nil)
	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

func (s *Service) current() (*snapshot, error) {
	snap := s.snap.Load()
	if snap == nil {
		return nil, ErrNotStarted
	}
	return snap, nil
}

// build derives every view from the dataset.
func (s *Service) build(ctx context.Context, ds *dataset.Dataset) (*snapshot, error) {
	catalog, err := measure.NewCatalog(ds.Measures(), measure.WithDefaultPolarity(s.defaultPolarity))
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}

	snap := &snapshot{
		id:        uuid.NewString(),
		builtAt:   time.Now().UTC(),
		sources:   ds.Sources,
		catalog:   catalog,
		views:     make([]MeasureView, 0, len(ds.Entries)),
		index:     make(map[string]int, len(ds.Entries)),
		overrides: ds.Overrides,
		priority:  repository.NewTreapStore(repository.WithName("priority")),
		gap:       repository.NewTreapStore(repository.WithName("gap")),
	}

	metrics.ResetMeasuresClassified()
	excluded := 0
	for _, e := range ds.Entries {
		v := s.view(ctx, e)
		if v.Measure.Excluded() {
			excluded++
		}
		snap.index[v.Measure.ID] = len(snap.views)
		snap.views = append(snap.views, v)
		metrics.IncMeasuresClassified(string(v.Measure.Domain), string(v.CurrentStatus), string(v.Trend))

		if !v.Ranked {
			continue
		}
		entry := repository.Entry{
			MeasureID: v.Measure.ID,
			Score:     v.Priority.Score,
			Domain:    v.Measure.Domain,
			Status:    v.Status.Status,
			Trend:     v.Trend,
			Gap:       v.Priority.Gap,
			Weight:    v.Measure.Weight,
		}
		if err := snap.priority.Put(ctx, entry); err != nil {
			return nil, fmt.Errorf("rank %s: %w", v.Measure.ID, err)
		}
		entry.Score = v.Priority.Gap
		if err := snap.gap.Put(ctx, entry); err != nil {
			return nil, fmt.Errorf("rank %s by gap: %w", v.Measure.ID, err)
		}
	}
	metrics.UpdateMeasureCounts(len(snap.views), excluded)

	for _, d := range catalog.Domains() {
		chart := s.slopeChart(snap, d)
		metrics.UpdateSlopeOutliers(string(d), len(chart.Outliers))
	}
	return snap, nil
}

// view classifies one dataset entry.
func (s *Service) view(ctx context.Context, e dataset.Entry) MeasureView {
	m := e.Measure
	v := MeasureView{
		Measure:        m,
		Observations:   make([]PeriodView, 0, len(e.Observations)),
		Summary:        e.Summary,
		SummaryDerived: e.Derived,
	}

	zeroBenchmark := false
	for _, o := range e.Observations {
		pv := s.period(o, m.Polarity)
		zeroBenchmark = zeroBenchmark || pv.Status.ZeroBenchmark
		v.Observations = append(v.Observations, pv)
	}

	v.Status = s.classifier.Evaluate(e.Summary.LocalMean, e.Summary.BenchmarkMean, m.Polarity)
	zeroBenchmark = zeroBenchmark || v.Status.ZeroBenchmark
	v.Trend = s.classifier.Trend(e.Summary.LocalSlope, m.Polarity)
	v.BenchmarkTrend = s.classifier.Trend(e.Summary.BenchmarkSlope, m.Polarity)

	if zeroBenchmark {
		metrics.RecordZeroBenchmark(string(m.Domain))
		s.logger.Warn(ctx, "zero benchmark; percent difference undefined",
			logger.String("measure_id", m.ID))
	}

	v.CurrentStatus = v.Status.Status
	if latest, ok := analysis.LatestObservation(e.Observations); ok {
		lv := s.period(latest, m.Polarity)
		v.Latest = &lv
		v.CurrentStatus = lv.Status.Status
		if prev, ok := analysis.PreviousObservation(e.Observations); ok {
			pv := s.period(prev, m.Polarity)
			v.Previous = &pv
			v.ChangePercent = analysis.PercentChange(prev.Local, latest.Local)
		}
	}

	gap, ok := scoring.Gap(e.Summary.LocalMean, e.Summary.BenchmarkMean)
	v.Priority = s.classifier.Priority(scoring.PriorityInput{
		MeasureID: m.ID,
		Gap:       gap,
		Weight:    m.Weight,
		Trend:     v.Trend,
	})
	v.Ranked = ok && !m.Excluded()
	return v
}

// period classifies one observation. Forecast rows carry no status.
func (s *Service) period(o measure.Observation, p measure.Polarity) PeriodView {
	if o.Forecast {
		return PeriodView{Observation: o, Status: scoring.StatusResult{Status: scoring.StatusNoData}}
	}
	return PeriodView{Observation: o, Status: s.classifier.Evaluate(o.Local, o.Benchmark, p)}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":            s.started,
		"similarity_percent": s.classifier.SimilarityPercent(),
		"slope_threshold":    s.classifier.SlopeThreshold(),
		"outlier_factor":     s.outlierFactor,
		"default_polarity":   s.defaultPolarity.String(),
	}

	snap := s.snap.Load()
	if snap == nil {
		return stats
	}

	ctx := context.Background()
	excluded := 0
	for _, v := range snap.views {
		if v.Measure.Excluded() {
			excluded++
		}
	}
	domains := make([]string, 0)
	for _, d := range snap.catalog.Domains() {
		domains = append(domains, string(d))
	}
	stats["snapshot_id"] = snap.id
	stats["built_at"] = snap.builtAt.Format(time.RFC3339)
	stats["sources"] = snap.sources
	stats["measures"] = len(snap.views)
	stats["excluded"] = excluded
	stats["ranked"] = snap.priority.Count(ctx)
	stats["domains"] = domains
	stats["display_overrides"] = snap.overrides.Len()
	return stats
}
