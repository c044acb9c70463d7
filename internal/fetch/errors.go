package fetch

import "fmt"

// TransportError is returned when the request could not be completed or
// the body could not be read. Err is the untouched net/http error.
type TransportError struct {
	// URL is the requested URL.
	URL string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}
