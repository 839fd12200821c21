package engine

import (
	"errors"
	"fmt"
)

// Error classes reported by the grid pipeline. Use errors.Is to test for
// them; InputError and GeometryError carry the details.
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrGeometryEngine = errors.New("geometry engine failure")
	ErrCancelled      = errors.New("cancelled")
)

// InputError names the parameter that was rejected.
type InputError struct {
	Param  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

func invalid(param, format string, args ...any) error {
	return &InputError{Param: param, Reason: fmt.Sprintf(format, args...)}
}

// GeometryError names the geometry engine operation that failed.
type GeometryError struct {
	Op  string
	Err error
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("geometry engine: %s: %v", e.Op, e.Err)
}

func (e *GeometryError) Unwrap() []error { return []error{ErrGeometryEngine, e.Err} }

func geomErr(op string, err error) error {
	return &GeometryError{Op: op, Err: err}
}
