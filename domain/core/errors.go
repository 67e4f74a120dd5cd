package core

import (
	"errors"
	"fmt"
)

// Domain errors - the five failure kinds of the estimation core
var (
	// ErrInvalidParameter is returned for out-of-domain numeric arguments (p outside (0,1), df <= 0, ...)
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrInsufficientData is returned when a sample is too small for the requested estimator
	ErrInsufficientData = errors.New("insufficient data for analysis")
	// ErrInsufficientStudies is returned when meta-analysis has fewer than two usable studies
	ErrInsufficientStudies = errors.New("insufficient studies for meta-analysis")
	// ErrUnsupportedMethod is returned for an unrecognized method tag
	ErrUnsupportedMethod = errors.New("unsupported method")
	// ErrDegenerateInput is returned where a formula has no well-defined value (e.g. zero spread in a regressor)
	ErrDegenerateInput = errors.New("degenerate input")
)

// Error constructors with context
func NewInvalidParameterError(name string, value float64, reason string) error {
	return fmt.Errorf("%w: %s=%v %s", ErrInvalidParameter, name, value, reason)
}

func NewInsufficientDataError(estimator string, n, minimum int) error {
	return fmt.Errorf("%w: %s needs n >= %d, got %d", ErrInsufficientData, estimator, minimum, n)
}

func NewInsufficientStudiesError(usable, minimum int) error {
	return fmt.Errorf("%w: need at least %d usable studies, got %d", ErrInsufficientStudies, minimum, usable)
}

func NewUnsupportedMethodError(method string) error {
	return fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
}

func NewDegenerateInputError(what string) error {
	return fmt.Errorf("%w: %s", ErrDegenerateInput, what)
}

// Error checking helpers
func IsInvalidParameter(err error) bool {
	return errors.Is(err, ErrInvalidParameter)
}

func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData) || errors.Is(err, ErrInsufficientStudies)
}

func IsUnsupportedMethod(err error) bool {
	return errors.Is(err, ErrUnsupportedMethod)
}

func IsDegenerateInput(err error) bool {
	return errors.Is(err, ErrDegenerateInput)
}
