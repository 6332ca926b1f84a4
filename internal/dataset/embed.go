package dataset

import "embed"

// embedded holds the datasets shipped with the binary.
//
//go:embed data/*.yaml data/*.toml
var embedded embed.FS

//nolint:gochecknoglobals // fixed file names
var (
	defaultMeasureFiles = []string{"data/measures.yaml", "data/leapfrog.toml"}
	defaultDisplayFile  = "data/display.yaml"
)
