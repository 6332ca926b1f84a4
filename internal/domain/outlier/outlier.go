// Package outlier separates slope records whose magnitude would crush a
// shared chart axis. It only changes how records are grouped for display;
// it never alters a slope.
package outlier

import (
	"math"
	"sort"
)

const (
	defaultFactor  = 3.0
	quartileWeight = 0.75
)

// SlopeRecord is one measure's pair of slopes.
type SlopeRecord struct {
	ID             string  `json:"id"`
	LocalSlope     float64 `json:"local_slope"`
	BenchmarkSlope float64 `json:"benchmark_slope"`
}

// Partition is the result of Separate.
type Partition struct {
	Q3        float64       `json:"q3"`
	Threshold float64       `json:"threshold"`
	Regular   []SlopeRecord `json:"regular"`
	Outliers  []SlopeRecord `json:"outliers"`
}

// Option configures Separate.
type Option func(*separator)

type separator struct {
	factor float64
}

// WithFactor sets the multiple of Q3 above which a magnitude is an outlier.
func WithFactor(f float64) Option {
	return func(s *separator) {
		if f > 0 && !math.IsInf(f, 0) {
			s.factor = f
		}
	}
}

// Q3 returns the element at index floor(n*0.75) of the ascending-sorted
// magnitudes. This is an index pick, not an interpolated quartile.
func Q3(magnitudes []float64) float64 {
	n := len(magnitudes)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, magnitudes)
	sort.Float64s(sorted)
	return sorted[int(math.Floor(float64(n)*quartileWeight))]
}

// Separate splits records into regular and outlier groups.
// Both slopes of every record feed a single magnitude pool.
func Separate(records []SlopeRecord, opts ...Option) Partition {
	s := separator{factor: defaultFactor}
	for _, opt := range opts {
		opt(&s)
	}

	mags := make([]float64, 0, len(records)*2)
	for _, r := range records {
		mags = append(mags, magnitude(r.LocalSlope), magnitude(r.BenchmarkSlope))
	}

	q3 := Q3(mags)
	p := Partition{
		Q3:        q3,
		Threshold: s.factor * q3,
		Regular:   make([]SlopeRecord, 0, len(records)),
		Outliers:  []SlopeRecord{},
	}
	for _, r := range records {
		if magnitude(r.LocalSlope) > p.Threshold || magnitude(r.BenchmarkSlope) > p.Threshold {
			p.Outliers = append(p.Outliers, r)
			continue
		}
		p.Regular = append(p.Regular, r)
	}
	return p
}

// magnitude maps NaN to 0 so it sorts and compares deterministically.
func magnitude(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Abs(v)
}
