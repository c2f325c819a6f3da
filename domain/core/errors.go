package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrInvalidSeries    = errors.New("series contains non-finite values")
	ErrInvalidConfig    = errors.New("invalid test configuration")

	// Estimation errors
	ErrLagInfeasible  = errors.New("no candidate lag yields a solvable regression")
	ErrSingularDesign = errors.New("design matrix is rank deficient")
)

// Error constructors with context
func NewInsufficientDataError(have, need int) error {
	return fmt.Errorf("%w: have %d observations, need at least %d", ErrInsufficientData, have, need)
}

func NewInvalidSeriesError(index int, value float64) error {
	return fmt.Errorf("%w: value %v at index %d", ErrInvalidSeries, value, index)
}

func NewDifferenceOverflowError(index int, from, to float64) error {
	return fmt.Errorf("%w: difference %v - %v at index %d overflows", ErrInvalidSeries, to, from, index)
}

func NewConfigError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, field, reason)
}

func NewSingularDesignError(column int, rows, cols int) error {
	return fmt.Errorf("%w: column %d is collinear (%dx%d design)", ErrSingularDesign, column, rows, cols)
}

// Error checking helpers
func IsInputError(err error) bool {
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrInvalidSeries) ||
		errors.Is(err, ErrInvalidConfig)
}

func IsEstimationError(err error) bool {
	return errors.Is(err, ErrLagInfeasible) ||
		errors.Is(err, ErrSingularDesign)
}
