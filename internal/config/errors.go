package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrEmptyOutputPath is returned when the log file path is empty.
	ErrEmptyOutputPath = errors.New("output path is empty")

	// ErrInvalidParser is returned for an unknown parser strategy.
	ErrInvalidParser = errors.New("invalid parser: must be one of tree, tokenizer, selector")

	// ErrInvalidDivisors is returned when a divisor is not a positive integer.
	ErrInvalidDivisors = errors.New("invalid divisors: must be positive integers")

	// ErrConflictingTransports is returned when both --proxy and --tor are set.
	ErrConflictingTransports = errors.New("conflicting transports: --proxy and --tor cannot be used together")

	// ErrInvalidTorTimeout is returned when the Tor startup timeout is not positive.
	ErrInvalidTorTimeout = errors.New("invalid tor startup timeout: must be positive")

	// ErrNoDBDir is returned when recording is enabled without a database directory.
	ErrNoDBDir = errors.New("recording enabled but no database directory is set")
)
