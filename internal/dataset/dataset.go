// Package dataset loads measure definitions, their period series and the
// chart overrides from YAML or TOML files.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strings"

	"github.com/okian/qualitydash/internal/domain/display"
	"github.com/okian/qualitydash/internal/domain/measure"
	"github.com/okian/qualitydash/pkg/logger"
)

// Entry is one measure with its data.
type Entry struct {
	Measure      measure.Measure
	Observations []measure.Observation
	Summary      measure.TrendSummary
	// Derived is true when Summary was computed from Observations.
	Derived bool
}

// Dataset is the full static input of the dashboard.
type Dataset struct {
	Entries   []Entry
	Overrides display.Overrides
	Sources   []string
}

// Measures returns the measure definitions in load order.
func (d *Dataset) Measures() []measure.Measure {
	out := make([]measure.Measure, 0, len(d.Entries))
	for _, e := range d.Entries {
		out = append(out, e.Measure)
	}
	return out
}

// Option configures Load.
type Option func(*loader)

// A nil fs.FS means the OS filesystem.
type loader struct {
	measureFS    fs.FS
	measureFiles []string
	displayFS    fs.FS
	displayFile  string
}

// WithFiles loads measures from the given OS paths instead of the embedded set.
func WithFiles(paths ...string) Option {
	return func(l *loader) {
		var clean []string
		for _, p := range paths {
			if p = strings.TrimSpace(p); p != "" {
				clean = append(clean, p)
			}
		}
		if len(clean) > 0 {
			l.measureFiles = clean
			l.measureFS = nil
		}
	}
}

// WithDisplayFile loads chart overrides from an OS path.
func WithDisplayFile(path string) Option {
	return func(l *loader) {
		if path = strings.TrimSpace(path); path != "" {
			l.displayFile = path
			l.displayFS = nil
		}
	}
}

// WithFS reads every file from fsys. Used by tests.
func WithFS(fsys fs.FS, measureFiles []string, displayFile string) Option {
	return func(l *loader) {
		l.measureFS = fsys
		l.measureFiles = measureFiles
		l.displayFS = fsys
		l.displayFile = displayFile
	}
}

// Load reads and validates a dataset. With no options it returns the
// embedded data.
func Load(ctx context.Context, opts ...Option) (*Dataset, error) {
	l := &loader{
		measureFS:    embedded,
		measureFiles: defaultMeasureFiles,
		displayFS:    embedded,
		displayFile:  defaultDisplayFile,
	}
	for _, opt := range opts {
		opt(l)
	}

	ds := &Dataset{Overrides: display.Overrides{}}
	seen := make(map[string]string)
	for _, name := range l.measureFiles {
		data, err := read(l.measureFS, name)
		if err != nil {
			return nil, err
		}
		var mf measureFile
		if err := decode(name, data, &mf); err != nil {
			return nil, err
		}
		for i, rec := range mf.Measures {
			e, err := rec.entry()
			if err != nil {
				return nil, fmt.Errorf("%w: %s: measure %d: %w", ErrInvalidDataset, name, i, err)
			}
			if prev, dup := seen[e.Measure.ID]; dup {
				return nil, fmt.Errorf("%w: %s: duplicate id %q (first in %s)", ErrInvalidDataset, name, e.Measure.ID, prev)
			}
			seen[e.Measure.ID] = name
			ds.Entries = append(ds.Entries, e)
		}
		ds.Sources = append(ds.Sources, name)
	}

	if l.displayFile != "" {
		data, err := read(l.displayFS, l.displayFile)
		if err != nil {
			return nil, err
		}
		var df displayFile
		if err := decode(l.displayFile, data, &df); err != nil {
			return nil, err
		}
		for id, o := range df.Overrides {
			if _, ok := seen[id]; !ok {
				logger.Get().Warn(ctx, "display override for unknown measure",
					logger.String("measure_id", id),
					logger.String("file", l.displayFile))
			}
			ds.Overrides[id] = o
		}
	}

	logger.Get().Debug(ctx, "dataset loaded",
		logger.Int("measures", len(ds.Entries)),
		logger.Int("overrides", len(ds.Overrides)))
	return ds, nil
}

func read(fsys fs.FS, name string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if fsys != nil {
		data, err = fs.ReadFile(fsys, name)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrDecode, name, err)
	}
	return data, nil
}

func (r measureRecord) entry() (Entry, error) {
	id := strings.TrimSpace(r.ID)
	if id == "" {
		return Entry{}, errors.New("empty id")
	}
	domain, err := measure.ParseDomain(r.Domain)
	if err != nil {
		return Entry{}, fmt.Errorf("%s: %w", id, err)
	}
	polarity, err := measure.ParsePolarity(r.Polarity)
	if err != nil {
		return Entry{}, fmt.Errorf("%s: %w", id, err)
	}
	if r.Weight == nil {
		return Entry{}, fmt.Errorf("%s: missing weight", id)
	}
	if math.IsNaN(*r.Weight) || math.IsInf(*r.Weight, 0) {
		return Entry{}, fmt.Errorf("%s: weight %v is not finite", id, *r.Weight)
	}
	if *r.Weight < 0 {
		return Entry{}, fmt.Errorf("%s: negative weight %v", id, *r.Weight)
	}

	e := Entry{
		Measure: measure.Measure{
			ID:       id,
			Name:     r.Name,
			Domain:   domain,
			Weight:   *r.Weight,
			Polarity: polarity,
		},
		Observations: make([]measure.Observation, 0, len(r.Observations)),
	}
	for _, o := range r.Observations {
		e.Observations = append(e.Observations, measure.Observation{
			MeasureID: id,
			Period:    o.Period,
			Local:     measure.FromPtr(o.Local),
			Benchmark: measure.FromPtr(o.Benchmark),
			Forecast:  o.Forecast,
		})
	}

	if r.Summary == nil {
		e.Summary = measure.Summarize(id, e.Observations)
		e.Derived = true
		return e, nil
	}
	e.Summary = measure.TrendSummary{
		MeasureID:      id,
		LocalMean:      measure.FromPtr(r.Summary.LocalMean),
		BenchmarkMean:  measure.FromPtr(r.Summary.BenchmarkMean),
		LocalSlope:     r.Summary.LocalSlope,
		BenchmarkSlope: r.Summary.BenchmarkSlope,
	}
	return e, nil
}
