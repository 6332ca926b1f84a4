package probe

import "errors"

// Sentinel errors for probe runs.
var (
	ErrUnreachable = errors.New("dashboard unreachable")
	ErrStatus      = errors.New("unexpected status")
	ErrChecks      = errors.New("checks failed")
)
