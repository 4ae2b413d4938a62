// Package calcerr defines the error taxonomy shared by the calculation
// packages. Callers match on the sentinels with errors.Is, or pull the
// details out with errors.As.
package calcerr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks a missing, non-numeric or out-of-range field.
	// It is always correctable by the caller and never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidStationOrder marks a survey whose measured depth does not
	// strictly increase along its chain.
	ErrInvalidStationOrder = errors.New("invalid station order")

	// ErrDegenerateGeometry marks geometry the minimum curvature method cannot
	// integrate (zero-length course, non-finite trig results).
	ErrDegenerateGeometry = errors.New("degenerate geometry")

	// ErrNotFound marks a lookup of a well, run or station that does not exist.
	ErrNotFound = errors.New("not found")
)

// InvalidInputError names the offending field and why it was rejected.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// InvalidInput returns an *InvalidInputError for field.
func InvalidInput(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

// InvalidInputf is InvalidInput with a formatted reason.
func InvalidInputf(field, format string, args ...any) error {
	return &InvalidInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// StationOrderError reports a survey at MeasuredDepth that does not come
// after PreviousDepth.
type StationOrderError struct {
	MeasuredDepth float64
	PreviousDepth float64
}

func (e *StationOrderError) Error() string {
	return fmt.Sprintf("invalid station order: md %g must be greater than %g", e.MeasuredDepth, e.PreviousDepth)
}

func (e *StationOrderError) Is(target error) bool {
	return target == ErrInvalidStationOrder
}

// InvalidStationOrder returns a *StationOrderError.
func InvalidStationOrder(md, prevMD float64) error {
	return &StationOrderError{MeasuredDepth: md, PreviousDepth: prevMD}
}

// DegenerateGeometry wraps ErrDegenerateGeometry with detail.
func DegenerateGeometry(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDegenerateGeometry, fmt.Sprintf(format, args...))
}

// IsInvalidInput reports whether err is, or wraps, an invalid input error.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
