package database

import "errors"

var (
	// ErrNotFound is returned when no run matches the query.
	ErrNotFound = errors.New("run not found")

	// ErrUnsuccessfulResult is returned when saving a run that ended in an error.
	ErrUnsuccessfulResult = errors.New("cannot record a failed run")
)
