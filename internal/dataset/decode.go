package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/okian/qualitydash/internal/domain/display"
)

type measureFile struct {
	Measures []measureRecord `yaml:"measures" toml:"measures"`
}

type measureRecord struct {
	ID           string              `yaml:"id" toml:"id"`
	Name         string              `yaml:"name" toml:"name"`
	Domain       string              `yaml:"domain" toml:"domain"`
	Weight       *float64            `yaml:"weight" toml:"weight"`
	Polarity     string              `yaml:"polarity" toml:"polarity"`
	Observations []observationRecord `yaml:"observations" toml:"observations"`
	Summary      *summaryRecord      `yaml:"summary" toml:"summary"`
}

type observationRecord struct {
	Period    string   `yaml:"period" toml:"period"`
	Local     *float64 `yaml:"local" toml:"local"`
	Benchmark *float64 `yaml:"benchmark" toml:"benchmark"`
	Forecast  bool     `yaml:"forecast" toml:"forecast"`
}

type summaryRecord struct {
	LocalMean      *float64 `yaml:"local_mean" toml:"local_mean"`
	BenchmarkMean  *float64 `yaml:"benchmark_mean" toml:"benchmark_mean"`
	LocalSlope     float64  `yaml:"local_slope" toml:"local_slope"`
	BenchmarkSlope float64  `yaml:"benchmark_slope" toml:"benchmark_slope"`
}

type displayFile struct {
	Overrides display.Overrides `yaml:"overrides" toml:"overrides"`
}

type format int

const (
	formatYAML format = iota
	formatTOML
)

func formatOf(name string) (format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".toml":
		return formatTOML, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupported, name)
	}
}

// decode unmarshals data into v using the format implied by name.
func decode(name string, data []byte, v any) error {
	f, err := formatOf(name)
	if err != nil {
		return err
	}
	switch f {
	case formatTOML:
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrDecode, name, err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %s: %w", ErrDecode, name, err)
		}
	}
	return nil
}
