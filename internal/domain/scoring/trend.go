package scoring

import (
	"math"

	"github.com/okian/qualitydash/internal/domain/measure"
)

// Trend is the direction of a slope relative to a measure's polarity.
type Trend string

// Trend labels.
const (
	TrendImproving Trend = "improving"
	TrendWorsening Trend = "worsening"
	TrendStable    Trend = "stable"
)

// Trend classifies slope under polarity p.
func (c *Classifier) Trend(slope float64, p measure.Polarity) Trend {
	if math.IsNaN(slope) || math.Abs(slope) <= c.slopeThreshold {
		return TrendStable
	}
	rising := slope > 0
	if p == measure.LowerIsBetter {
		rising = !rising
	}
	if rising {
		return TrendImproving
	}
	return TrendWorsening
}

// Multiplier returns the priority multiplier for t.
func (c *Classifier) Multiplier(t Trend) float64 {
	if m, ok := c.multipliers[t]; ok {
		return m
	}
	return c.multipliers[TrendStable]
}
