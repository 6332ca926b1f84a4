// Package display holds chart-only slope adjustments. Analytical slopes are
// never replaced; callers get both the true and the plotted values.
package display

import "github.com/okian/qualitydash/internal/domain/outlier"

// Override replaces the plotted slopes of one measure.
type Override struct {
	LocalSlope     float64 `yaml:"local_slope" toml:"local_slope" json:"local_slope"`
	BenchmarkSlope float64 `yaml:"benchmark_slope" toml:"benchmark_slope" json:"benchmark_slope"`
}

// Overrides maps measure id to its plotted slopes.
type Overrides map[string]Override

// SlopeBar is one bar pair on the slope chart.
type SlopeBar struct {
	ID                    string  `json:"id"`
	LocalSlope            float64 `json:"local_slope"`
	BenchmarkSlope        float64 `json:"benchmark_slope"`
	DisplayLocalSlope     float64 `json:"display_local_slope"`
	DisplayBenchmarkSlope float64 `json:"display_benchmark_slope"`
	Adjusted              bool    `json:"adjusted"`
}

// Apply pairs every record with its plotted slopes, in input order.
func Apply(records []outlier.SlopeRecord, overrides Overrides) []SlopeBar {
	bars := make([]SlopeBar, 0, len(records))
	for _, r := range records {
		bar := SlopeBar{
			ID:                    r.ID,
			LocalSlope:            r.LocalSlope,
			BenchmarkSlope:        r.BenchmarkSlope,
			DisplayLocalSlope:     r.LocalSlope,
			DisplayBenchmarkSlope: r.BenchmarkSlope,
		}
		if o, ok := overrides[r.ID]; ok {
			bar.DisplayLocalSlope = o.LocalSlope
			bar.DisplayBenchmarkSlope = o.BenchmarkSlope
			bar.Adjusted = true
		}
		bars = append(bars, bar)
	}
	return bars
}

// Len returns the number of overrides.
func (o Overrides) Len() int { return len(o) }
