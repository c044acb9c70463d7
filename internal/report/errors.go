package report

import "fmt"

// IOError is returned when the log file cannot be opened, written or closed,
// or the line cannot be printed.
type IOError struct {
	// Op is the failed operation: "open", "write", "close" or "print".
	Op string

	// Path is the log file path, or "stdout" for Op "print".
	Path string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}
