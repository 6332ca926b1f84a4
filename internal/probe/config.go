// Package probe verifies a running dashboard over HTTP: ranking order,
// rank lookups, the underperforming filter and summary arithmetic.
package probe

import (
	"runtime"
	"time"
)

// Default probe configuration.
const (
	defaultBaseURL = "http://localhost:9080"
	defaultTimeout = 10 * time.Second
	defaultLimit   = 50
	percentTotal   = 100.0
	percentSlack   = 1e-6
)

// Config holds configuration for a probe run.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// Limit is the number of ranked entries fetched per view.
	Limit int
	// Workers bounds concurrent rank lookups.
	Workers int
}

// Option applies a configuration option to Config.
type Option func(*Config)

// WithBaseURL sets the dashboard base URL.
func WithBaseURL(u string) Option {
	return func(c *Config) {
		if u != "" {
			c.BaseURL = u
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.Timeout = d
		}
	}
}

// WithLimit sets how many ranked entries are fetched.
func WithLimit(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.Limit = n
		}
	}
}

// WithWorkers sets the number of concurrent rank lookups.
func WithWorkers(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.Workers = n
		}
	}
}

// NewConfig creates a Config with defaults.
func NewConfig(opts ...Option) *Config {
	c := &Config{
		BaseURL: defaultBaseURL,
		Timeout: defaultTimeout,
		Limit:   defaultLimit,
		Workers: runtime.NumCPU() * 2,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Entry is the ranked entry shape served by /priorities and /rank.
type Entry struct {
	Rank      int     `json:"rank"`
	MeasureID string  `json:"measure_id"`
	Score     float64 `json:"score"`
	Status    string  `json:"status"`
	Trend     string  `json:"trend"`
	Gap       float64 `json:"gap"`
	Weight    float64 `json:"weight"`
}

type statusCounts struct {
	Better  int `json:"better"`
	Similar int `json:"similar"`
	Worse   int `json:"worse"`
	NoData  int `json:"no_data"`
}

type summaryDoc struct {
	Summary struct {
		Total    int          `json:"total"`
		Excluded int          `json:"excluded"`
		Statuses statusCounts `json:"statuses"`
		Trends   struct {
			Improving int `json:"improving"`
			Worsening int `json:"worsening"`
			Stable    int `json:"stable"`
		} `json:"trends"`
	} `json:"summary"`
	Distribution struct {
		TotalWeight float64 `json:"total_weight"`
		Better      float64 `json:"better_percent"`
		Similar     float64 `json:"similar_percent"`
		Worse       float64 `json:"worse_percent"`
	} `json:"distribution"`
}

// Result is one named check outcome.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// Report is the outcome of a probe run.
type Report struct {
	Results  []Result      `json:"results"`
	Duration time.Duration `json:"duration"`
}

// Failed returns the failing results.
func (r Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Passed {
			out = append(out, res)
		}
	}
	return out
}
