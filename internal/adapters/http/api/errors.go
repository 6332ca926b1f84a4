package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("service unavailable")
)

// Kind is an API error tagged with the operation that produced it.
type Kind struct {
	Op   string
	Kind error
	Err  error
}

// NewKind returns a Kind error without an underlying cause.
func NewKind(op string, kind error) *Kind {
	return &Kind{Op: op, Kind: kind}
}

// WrapKind returns a Kind error carrying cause.
func WrapKind(op string, kind, cause error) *Kind {
	return &Kind{Op: op, Kind: kind, Err: cause}
}

// Wrap tags err with op. A nil err stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (k *Kind) Error() string {
	if k.Err != nil {
		return fmt.Sprintf("%s: %v: %v", k.Op, k.Kind, k.Err)
	}
	return fmt.Sprintf("%s: %v", k.Op, k.Kind)
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (k *Kind) Unwrap() []error {
	if k.Err != nil {
		return []error{k.Kind, k.Err}
	}
	return []error{k.Kind}
}
