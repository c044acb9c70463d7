package classify

import "errors"

// Classification errors.
var (
	// ErrNotInteger is returned by ClassifyValue when the input is not a Go
	// integer type. No modulo is computed for such input.
	ErrNotInteger = errors.New("count must be an integer")

	// ErrNegativeCount is returned when the count is below zero.
	// Element counts are never negative.
	ErrNegativeCount = errors.New("count must be non-negative")

	// ErrInvalidDivisor is returned by New for zero or negative divisors.
	ErrInvalidDivisor = errors.New("divisor must be positive")
)
