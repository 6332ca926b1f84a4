package scoring

import (
	"math"
	"sort"

	"github.com/okian/qualitydash/internal/domain/measure"
)

// PriorityInput abstracts the fields needed to score a measure.
type PriorityInput struct {
	MeasureID string
	// Gap is |local_mean - benchmark_mean| in the measure's native unit.
	Gap    float64
	Weight float64
	Trend  Trend
}

// PriorityResult contains the computed priority for a measure.
type PriorityResult struct {
	MeasureID      string  `json:"measure_id"`
	Gap            float64 `json:"gap"`
	Weight         float64 `json:"weight"`
	Trend          Trend   `json:"trend"`
	WeightedImpact float64 `json:"weighted_impact"`
	Multiplier     float64 `json:"trend_multiplier"`
	Score          float64 `json:"priority_score"`
}

// Priority computes gap x weight x trend multiplier.
// Gaps across measures stay in their native units; no normalization.
func (c *Classifier) Priority(in PriorityInput) PriorityResult {
	gap := in.Gap
	if math.IsNaN(gap) {
		gap = 0
	}
	mult := c.Multiplier(in.Trend)
	impact := gap * in.Weight
	return PriorityResult{
		MeasureID:      in.MeasureID,
		Gap:            gap,
		Weight:         in.Weight,
		Trend:          in.Trend,
		WeightedImpact: impact,
		Multiplier:     mult,
		Score:          impact * mult,
	}
}

// Gap returns |localMean - benchmarkMean|, or false if either is absent.
func Gap(localMean, benchmarkMean measure.Value) (float64, bool) {
	l, lok := localMean.Get()
	b, bok := benchmarkMean.Get()
	if !lok || !bok {
		return 0, false
	}
	return math.Abs(l - b), true
}

// RankByPriority sorts results by score desc, then id asc.
func RankByPriority(results []PriorityResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].MeasureID < results[j].MeasureID
	})
}

// RankByGap sorts results by raw gap desc, then id asc.
func RankByGap(results []PriorityResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Gap != results[j].Gap {
			return results[i].Gap > results[j].Gap
		}
		return results[i].MeasureID < results[j].MeasureID
	})
}
