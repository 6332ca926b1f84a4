package service

import "errors"

// Sentinel errors returned by Service.
var (
	ErrNotStarted      = errors.New("service not started")
	ErrMeasureNotFound = errors.New("measure not found")
	ErrUnknownDomain   = errors.New("unknown domain")
)
