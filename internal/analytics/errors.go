package analytics

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData is returned when a series is too short for a meaningful result.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrLengthMismatch is returned when paired series differ in length.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrUnknownMethod is returned for unregistered forecast methods.
	ErrUnknownMethod = errors.New("unknown method")
)

// InsufficientData wraps ErrInsufficientData with the required and actual counts.
func InsufficientData(need, have int) error {
	return fmt.Errorf("%w: need %d data points, have %d", ErrInsufficientData, need, have)
}

// LengthMismatch wraps ErrLengthMismatch with both lengths.
func LengthMismatch(a, b int) error {
	return fmt.Errorf("%w: %d != %d", ErrLengthMismatch, a, b)
}
