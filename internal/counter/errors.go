package counter

import (
	"errors"
	"fmt"
)

// Counting errors.
var (
	// ErrUnknownStrategy is returned for a Strategy that is not one of Strategies().
	ErrUnknownStrategy = errors.New("unknown parser strategy")

	// ErrEmptyTag is returned when the tag name is empty or only whitespace.
	ErrEmptyTag = errors.New("tag name is empty")

	// ErrInvalidTag is returned when the tag name is not a plain element name.
	ErrInvalidTag = errors.New("invalid tag name")
)

// ParseError is returned when a document cannot be parsed at all.
// It wraps the underlying reader or tokenizer error.
type ParseError struct {
	// Strategy is the strategy that failed.
	Strategy Strategy

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse html (%s): %v", e.Strategy, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
