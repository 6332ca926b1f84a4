package service

import (
	"github.com/okian/qualitydash/internal/domain/display"
	"github.com/okian/qualitydash/internal/domain/measure"
	"github.com/okian/qualitydash/internal/domain/outlier"
	"github.com/okian/qualitydash/internal/domain/scoring"
)

// PeriodView is one observation with its derived status.
type PeriodView struct {
	measure.Observation
	Status scoring.StatusResult `json:"status"`
}

// MeasureView is everything the dashboard shows for one measure. All
// derived fields are recomputed from the inputs on every snapshot build.
type MeasureView struct {
	Measure      measure.Measure      `json:"measure"`
	Observations []PeriodView         `json:"observations"`
	Summary      measure.TrendSummary `json:"summary"`
	// SummaryDerived is true when the summary was fitted from the series.
	SummaryDerived bool `json:"summary_derived,omitempty"`

	// Status compares the period means.
	Status scoring.StatusResult `json:"status"`
	// CurrentStatus is the latest period's status, or Status when the
	// measure has no series.
	CurrentStatus  scoring.Status         `json:"current_status"`
	Trend          scoring.Trend          `json:"trend"`
	BenchmarkTrend scoring.Trend          `json:"benchmark_trend"`
	Priority       scoring.PriorityResult `json:"priority"`
	// Ranked is false for excluded measures and measures without both means.
	Ranked bool `json:"ranked"`

	Latest        *PeriodView   `json:"latest,omitempty"`
	Previous      *PeriodView   `json:"previous,omitempty"`
	ChangePercent measure.Value `json:"change_percent"`
}

// SlopeChart is the slope bar chart for one domain.
type SlopeChart struct {
	Domain    measure.Domain     `json:"domain,omitempty"`
	Q3        float64            `json:"q3"`
	Threshold float64            `json:"threshold"`
	Regular   []display.SlopeBar `json:"regular"`
	Outliers  []display.SlopeBar `json:"outliers"`
}

// ClassifyRequest is an ad hoc classification input.
type ClassifyRequest struct {
	MeasureID string        `json:"measure_id"`
	Local     measure.Value `json:"local"`
	Benchmark measure.Value `json:"benchmark"`
	Slope     float64       `json:"slope"`
}

// ClassifyResult is the outcome of Classify.
type ClassifyResult struct {
	MeasureID string               `json:"measure_id"`
	Polarity  measure.Polarity     `json:"polarity"`
	Fallback  bool                 `json:"polarity_fallback"`
	Status    scoring.StatusResult `json:"status"`
	Trend     scoring.Trend        `json:"trend"`
}

func slopeRecord(v MeasureView) outlier.SlopeRecord {
	return outlier.SlopeRecord{
		ID:             v.Measure.ID,
		LocalSlope:     v.Summary.LocalSlope,
		BenchmarkSlope: v.Summary.BenchmarkSlope,
	}
}
