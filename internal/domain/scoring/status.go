package scoring

import (
	"math"

	"github.com/okian/qualitydash/internal/domain/measure"
)

// Status compares a local value with its benchmark.
type Status string

// Status labels.
const (
	StatusBetter  Status = "better"
	StatusSimilar Status = "similar"
	StatusWorse   Status = "worse"
	StatusNoData  Status = "no_data"
)

// StatusResult carries the status together with the numbers it came from.
type StatusResult struct {
	Status            Status        `json:"status"`
	PercentDifference measure.Value `json:"percent_difference"`
	// ZeroBenchmark marks a data-quality condition: the percent difference
	// is undefined and the status was decided without it.
	ZeroBenchmark bool `json:"zero_benchmark,omitempty"`
}

// Status classifies local against benchmark under polarity p.
func (c *Classifier) Status(local, benchmark measure.Value, p measure.Polarity) Status {
	return c.Evaluate(local, benchmark, p).Status
}

// Evaluate classifies local against benchmark and reports how.
//
// With a zero benchmark an equal local value is similar and any other value
// counts as a full-magnitude difference decided by polarity.
func (c *Classifier) Evaluate(local, benchmark measure.Value, p measure.Polarity) StatusResult {
	l, lok := local.Get()
	b, bok := benchmark.Get()
	if !lok || !bok || math.IsInf(l, 0) || math.IsInf(b, 0) {
		return StatusResult{Status: StatusNoData}
	}

	if b == 0 {
		if math.Abs(l) <= zeroBenchmarkEqualTolerance {
			return StatusResult{Status: StatusSimilar, ZeroBenchmark: true}
		}
		return StatusResult{Status: directional(l, b, p), ZeroBenchmark: true}
	}

	pd := PercentDifference(l, b)
	if pd <= c.similarityPercent {
		return StatusResult{Status: StatusSimilar, PercentDifference: measure.Some(pd)}
	}
	return StatusResult{Status: directional(l, b, p), PercentDifference: measure.Some(pd)}
}

// PercentDifference returns |local - benchmark| / |benchmark| * 100.
// The caller must ensure benchmark is non-zero.
func PercentDifference(local, benchmark float64) float64 {
	return math.Abs(local-benchmark) / math.Abs(benchmark) * percentScale
}

func directional(local, benchmark float64, p measure.Polarity) Status {
	if p == measure.LowerIsBetter {
		if local < benchmark {
			return StatusBetter
		}
		return StatusWorse
	}
	if local > benchmark {
		return StatusBetter
	}
	return StatusWorse
}
