// Package scoring derives status, trend and priority labels from measure
// values. All functions are pure and total over finite inputs.
package scoring

// Default classification constants.
const (
	defaultSimilarityPercent    = 5.0
	defaultSlopeThreshold       = 0.01
	defaultWorseningMultiplier  = 1.5
	defaultImprovingMultiplier  = 0.7
	defaultStableMultiplier     = 1.0
	percentScale                = 100.0
	zeroBenchmarkEqualTolerance = 1e-12
)

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithSimilarityPercent sets the symmetric equivalence band, in percent.
func WithSimilarityPercent(pct float64) Option {
	return func(c *Classifier) {
		if pct >= 0 {
			c.similarityPercent = pct
		}
	}
}

// WithSlopeThreshold sets the magnitude at or below which a slope is stable.
func WithSlopeThreshold(threshold float64) Option {
	return func(c *Classifier) {
		if threshold >= 0 {
			c.slopeThreshold = threshold
		}
	}
}

// WithTrendMultipliers sets the priority multipliers per trend.
func WithTrendMultipliers(worsening, improving, stable float64) Option {
	return func(c *Classifier) {
		if worsening > 0 && improving > 0 && stable > 0 {
			c.multipliers = map[Trend]float64{
				TrendWorsening: worsening,
				TrendImproving: improving,
				TrendStable:    stable,
			}
		}
	}
}

// Classifier holds the one rule set used for every status, trend and
// priority computation.
type Classifier struct {
	similarityPercent float64
	slopeThreshold    float64
	multipliers       map[Trend]float64
}

// NewClassifier creates a classifier with configuration options.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{
		similarityPercent: defaultSimilarityPercent,
		slopeThreshold:    defaultSlopeThreshold,
		multipliers: map[Trend]float64{
			TrendWorsening: defaultWorseningMultiplier,
			TrendImproving: defaultImprovingMultiplier,
			TrendStable:    defaultStableMultiplier,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SimilarityPercent returns the configured equivalence band.
func (c *Classifier) SimilarityPercent() float64 { return c.similarityPercent }

// SlopeThreshold returns the configured trend significance threshold.
func (c *Classifier) SlopeThreshold() float64 { return c.slopeThreshold }
