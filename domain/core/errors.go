package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// ErrInvalidParameter covers out-of-domain inputs: rates or probabilities
	// outside (0,1), negative counts, successes exceeding trials.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrDegenerateInput covers mathematically undefined operations, such as
	// a chi-square expected count of zero or a pooled rate of 0 or 1.
	ErrDegenerateInput = errors.New("degenerate input")

	// ErrUndefinedRatio covers division by a zero control rate when
	// computing relative uplift.
	ErrUndefinedRatio = errors.New("undefined ratio")
)

// Error constructors with context
func NewInvalidParameterError(field string, value interface{}, reason string) error {
	return fmt.Errorf("%w: %s=%v (%s)", ErrInvalidParameter, field, value, reason)
}

func NewDegenerateInputError(operation string, reason string) error {
	return fmt.Errorf("%w in %s: %s", ErrDegenerateInput, operation, reason)
}

func NewUndefinedRatioError(numerator string, denominator string) error {
	return fmt.Errorf("%w: %s divided by zero %s", ErrUndefinedRatio, numerator, denominator)
}

// Error checking helpers
func IsInvalidParameterError(err error) bool {
	return errors.Is(err, ErrInvalidParameter)
}

func IsDegenerateInputError(err error) bool {
	return errors.Is(err, ErrDegenerateInput)
}

func IsUndefinedRatioError(err error) bool {
	return errors.Is(err, ErrUndefinedRatio)
}

// IsDomainError reports whether err belongs to the engine's error taxonomy,
// as opposed to an infrastructure failure.
func IsDomainError(err error) bool {
	return IsInvalidParameterError(err) ||
		IsDegenerateInputError(err) ||
		IsUndefinedRatioError(err)
}
