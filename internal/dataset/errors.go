package dataset

import "errors"

// Sentinel errors for dataset loading. Callers match them with errors.Is.
var (
	ErrInvalidDataset = errors.New("invalid dataset")
	ErrDecode         = errors.New("decode dataset failed")
	ErrUnsupported    = errors.New("unsupported dataset format")
)
