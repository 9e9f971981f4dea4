package weather

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no stored or upstream data matches a query.
var ErrNotFound = errors.New("no matching weather data")

// ValidationError reports malformed client input (missing dates for a range
// query, forecast horizon out of bounds, and so on).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// UpstreamError reports a failure of the outbound weather/geocoding service.
type UpstreamError struct {
	Service string
	Cause   error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s service error: %v", e.Service, e.Cause)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}
