package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a state vector with invalid dimensions or values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrUnstable indicates constants that would make the explicit integrator diverge.
	ErrUnstable = errors.New("dynamo: constants outside the stable range")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownParam indicates SetParam was called with a name the field does not expose.
	ErrUnknownParam = errors.New("dynamo: unknown parameter")

	// ErrInvalidConfig indicates a configuration rejected at construction.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrNotReady indicates an asynchronous resource has not finished loading.
	ErrNotReady = errors.New("dynamo: resource not ready")
)

// ParamError wraps an error with the offending parameter.
type ParamError struct {
	Name    string
	Value   float64
	Wrapped error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s=%g: %v", e.Name, e.Value, e.Wrapped)
}

func (e *ParamError) Unwrap() error {
	return e.Wrapped
}

// Bounds returns a ParamError wrapping ErrParameterBounds.
func Bounds(name string, value float64) error {
	return &ParamError{Name: name, Value: value, Wrapped: ErrParameterBounds}
}
