package input

import "errors"

// Input errors. All of them are usage errors: the run never reaches the network.
var (
	// ErrArgCount is returned when the number of positional arguments is neither 0 nor 2.
	ErrArgCount = errors.New("expected a URL and a tag, or no arguments to be prompted")

	// ErrEmptyURL is returned when the URL is empty or only whitespace.
	ErrEmptyURL = errors.New("url is empty")

	// ErrInvalidURL is returned when the URL is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid url: expected an absolute http or https URL")

	// ErrEmptyTag is returned when the tag is empty or only whitespace.
	ErrEmptyTag = errors.New("tag is empty")

	// ErrInvalidTag is returned when the tag is not a plain HTML element name.
	ErrInvalidTag = errors.New("invalid tag: expected an element name such as 'a' or 'div'")
)
