package api

import (
	"errors"
	"strings"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// Error is an API error scoped to the operation that raised it. Both Kind
// and Err are visible to errors.Is and errors.As.
type Error struct {
	Op   string
	Kind error
	Err  error
}

// NewKind returns an error of kind raised by op.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// Wrap scopes err to op.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// WrapKind scopes err to op and classifies it as kind.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

func (e *Error) Error() string {
	parts := make([]string, 0, 3)
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	if e.Kind != nil {
		parts = append(parts, e.Kind.Error())
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap exposes the kind and the cause.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}
