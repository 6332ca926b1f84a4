// Package measure contains the quality-measure domain model shared by the
// classifiers, the dataset loader and the presentation adapters.
package measure

import (
	"fmt"
	"strings"
)

// Domain groups measures the way the reporting programs publish them.
type Domain string

// Known measure domains.
const (
	DomainMortality         Domain = "Mortality"
	DomainReadmission       Domain = "Readmission"
	DomainSafetyOfCare      Domain = "Safety of Care"
	DomainPatientExperience Domain = "Patient Experience"
	DomainTimelyEffective   Domain = "Timely & Effective Care"
	DomainProcessStructural Domain = "Process/Structural"
	DomainOutcome           Domain = "Outcome"
)

var knownDomains = []Domain{ //nolint:gochecknoglobals // fixed enumeration
	DomainMortality,
	DomainReadmission,
	DomainSafetyOfCare,
	DomainPatientExperience,
	DomainTimelyEffective,
	DomainProcessStructural,
	DomainOutcome,
}

// KnownDomains returns every domain in display order.
func KnownDomains() []Domain {
	out := make([]Domain, len(knownDomains))
	copy(out, knownDomains)
	return out
}

// ParseDomain resolves a display name case-insensitively.
func ParseDomain(s string) (Domain, error) {
	want := strings.TrimSpace(s)
	for _, d := range knownDomains {
		if strings.EqualFold(string(d), want) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown domain %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty text means no domain.
func (d *Domain) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = ""
		return nil
	}
	parsed, err := ParseDomain(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Polarity says which direction of a measure's value is favorable.
type Polarity int

// A measure is either higher-is-better or lower-is-better, never both.
const (
	HigherIsBetter Polarity = iota
	LowerIsBetter
)

// ParsePolarity accepts "higher", "lower" and their *_is_better spellings.
func ParsePolarity(s string) (Polarity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "higher", "higher_is_better", "higher-is-better", "high":
		return HigherIsBetter, nil
	case "lower", "lower_is_better", "lower-is-better", "low":
		return LowerIsBetter, nil
	default:
		return HigherIsBetter, fmt.Errorf("unknown polarity %q", s)
	}
}

// String returns the short form used in data files.
func (p Polarity) String() string {
	if p == LowerIsBetter {
		return "lower"
	}
	return "higher"
}

// Flip returns the opposite polarity.
func (p Polarity) Flip() Polarity {
	if p == LowerIsBetter {
		return HigherIsBetter
	}
	return LowerIsBetter
}

// MarshalText implements encoding.TextMarshaler.
func (p Polarity) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Polarity) UnmarshalText(b []byte) error {
	parsed, err := ParsePolarity(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Measure is a static measure definition.
type Measure struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Domain   Domain   `json:"domain"`
	Weight   float64  `json:"weight"`
	Polarity Polarity `json:"polarity"`
}

// Excluded reports whether the measure is left out of aggregate scoring.
// A zero weight marks insufficient recent data, not zero importance.
func (m Measure) Excluded() bool {
	return m.Weight == 0
}

// Observation is one (measure, period) pair.
type Observation struct {
	MeasureID string `json:"measure_id"`
	Period    string `json:"period"`
	Local     Value  `json:"local"`
	Benchmark Value  `json:"benchmark"`
	Forecast  bool   `json:"forecast,omitempty"`
}

// TrendSummary aggregates a measure over its observed window.
type TrendSummary struct {
	MeasureID      string  `json:"measure_id"`
	LocalMean      Value   `json:"local_mean"`
	BenchmarkMean  Value   `json:"benchmark_mean"`
	LocalSlope     float64 `json:"local_slope"`
	BenchmarkSlope float64 `json:"benchmark_slope"`
}
