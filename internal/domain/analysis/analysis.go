// Package analysis aggregates classified measures into dashboard summaries.
package analysis

import (
	"math"

	"github.com/okian/qualitydash/internal/domain/measure"
	"github.com/okian/qualitydash/internal/domain/scoring"
)

const percentScale = 100.0

// Item is the classified slice of a measure that the aggregates need.
type Item struct {
	MeasureID string
	Domain    measure.Domain
	Weight    float64
	Status    scoring.Status
	Trend     scoring.Trend
}

// Excluded reports whether the item carries no aggregate weight.
func (i Item) Excluded() bool { return i.Weight == 0 }

// StatusCounts counts items per status.
type StatusCounts struct {
	Better  int `json:"better"`
	Similar int `json:"similar"`
	Worse   int `json:"worse"`
	NoData  int `json:"no_data"`
}

func (c *StatusCounts) add(s scoring.Status) {
	switch s {
	case scoring.StatusBetter:
		c.Better++
	case scoring.StatusSimilar:
		c.Similar++
	case scoring.StatusWorse:
		c.Worse++
	default:
		c.NoData++
	}
}

// TrendCounts counts items per trend.
type TrendCounts struct {
	Improving int `json:"improving"`
	Worsening int `json:"worsening"`
	Stable    int `json:"stable"`
}

func (c *TrendCounts) add(t scoring.Trend) {
	switch t {
	case scoring.TrendImproving:
		c.Improving++
	case scoring.TrendWorsening:
		c.Worsening++
	default:
		c.Stable++
	}
}

// Summary is the headline card data.
type Summary struct {
	Total    int                    `json:"total"`
	Excluded int                    `json:"excluded"`
	ByDomain map[measure.Domain]int `json:"by_domain"`
	Trends   TrendCounts            `json:"trends"`
	Statuses StatusCounts           `json:"statuses"`
}

// Summarize counts every item, then tallies trends and statuses over the
// items that carry weight.
func Summarize(items []Item) Summary {
	s := Summary{ByDomain: make(map[measure.Domain]int)}
	for _, it := range items {
		s.Total++
		s.ByDomain[it.Domain]++
		if it.Excluded() {
			s.Excluded++
			continue
		}
		s.Trends.add(it.Trend)
		s.Statuses.add(it.Status)
	}
	return s
}

// Distribution is the weighted share of each status.
type Distribution struct {
	Counts      StatusCounts `json:"counts"`
	TotalWeight float64      `json:"total_weight"`
	Better      float64      `json:"better_percent"`
	Similar     float64      `json:"similar_percent"`
	Worse       float64      `json:"worse_percent"`
}

// Distribute computes weight-normalised status percentages. Items with no
// data, or with zero weight, do not contribute to the total weight.
func Distribute(items []Item) Distribution {
	var d Distribution
	var better, similar, worse float64
	for _, it := range items {
		if it.Excluded() {
			continue
		}
		d.Counts.add(it.Status)
		switch it.Status {
		case scoring.StatusBetter:
			better += it.Weight
		case scoring.StatusSimilar:
			similar += it.Weight
		case scoring.StatusWorse:
			worse += it.Weight
		default:
			continue
		}
		d.TotalWeight += it.Weight
	}
	if d.TotalWeight > 0 {
		d.Better = better / d.TotalWeight * percentScale
		d.Similar = similar / d.TotalWeight * percentScale
		d.Worse = worse / d.TotalWeight * percentScale
	}
	return d
}

// LatestObservation returns the last non-forecast observation with a local
// value. Observations are expected in period order.
func LatestObservation(obs []measure.Observation) (measure.Observation, bool) {
	i := latestIndex(obs, len(obs))
	if i < 0 {
		return measure.Observation{}, false
	}
	return obs[i], true
}

// PreviousObservation returns the observation before the latest one, with
// the same rules.
func PreviousObservation(obs []measure.Observation) (measure.Observation, bool) {
	latest := latestIndex(obs, len(obs))
	if latest < 0 {
		return measure.Observation{}, false
	}
	i := latestIndex(obs, latest)
	if i < 0 {
		return measure.Observation{}, false
	}
	return obs[i], true
}

func latestIndex(obs []measure.Observation, before int) int {
	for i := before - 1; i >= 0; i-- {
		if obs[i].Forecast || !obs[i].Local.Valid() {
			continue
		}
		return i
	}
	return -1
}

// PercentChange returns (cur - prev) / |prev| * 100, absent when either
// value is missing or prev is zero.
func PercentChange(prev, cur measure.Value) measure.Value {
	p, pok := prev.Get()
	c, cok := cur.Get()
	if !pok || !cok || p == 0 {
		return measure.None()
	}
	return measure.Some((c - p) / math.Abs(p) * percentScale)
}
