package config

import "errors"

// Errors returned by Load, Validate and Polarity.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
