package model

// Target is the caller-supplied input of a run.
// Both fields are required; there are no defaults.
type Target struct {
	// URL is the absolute http(s) URL of the page to fetch.
	URL string `json:"url"`

	// Tag is the HTML element name to count, e.g. "a" or "div".
	// It keeps the caller's spelling; counting folds case.
	Tag string `json:"tag"`
}

// IsZero reports whether neither field is set.
func (t Target) IsZero() bool {
	return t.URL == "" && t.Tag == ""
}
