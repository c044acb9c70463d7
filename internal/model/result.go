package model

import (
	"time"
)

// Result holds everything produced by a single run.
// The pipeline steps fill it in order: fetch, count, classify, report.
type Result struct {
	// ID is the database identifier. Zero until the result is recorded.
	ID int64 `json:"id,omitempty"`

	// URL is the fetched page.
	URL string `json:"url"`

	// Tag is the element name as the caller gave it, trimmed.
	// Matching is case-insensitive; the tag is reported as given.
	Tag string `json:"tag"`

	// Parser is the name of the counting strategy used for this run.
	// Stored so that recorded counts can be compared like for like.
	Parser string `json:"parser"`

	// StatusCode is the HTTP status of the response.
	// Non-2xx pages are still counted.
	StatusCode int `json:"status_code,omitempty"`

	// ContentType is the Content-Type header of the response.
	ContentType string `json:"content_type,omitempty"`

	// Body is the response body decoded to UTF-8.
	Body string `json:"-"`

	// BodyDigest is the SHA3-256 hex digest of Body.
	BodyDigest string `json:"body_digest,omitempty"`

	// Count is the number of matching elements.
	Count int `json:"count"`

	// Divisors are the configured divisors that evenly divide Count,
	// in ascending order.
	Divisors []int `json:"divisors"`

	// Label is the fizz/buzz word for Divisors. Empty when neither 3 nor 5 divides Count.
	Label string `json:"label"`

	// DateRun is when the run started.
	DateRun time.Time `json:"date_run"`

	// PerformedSteps lists the pipeline steps that completed.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error is the error that stopped the run, if any.
	Error error `json:"-"`

	// ErrorMessage is Error as a string for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewResult creates a Result for the given target and parser strategy name.
func NewResult(target Target, parser string) *Result {
	return &Result{
		URL:            target.URL,
		Tag:            target.Tag,
		Parser:         parser,
		Divisors:       make([]int, 0),
		DateRun:        time.Now(),
		PerformedSteps: make([]string, 0),
	}
}

// Target returns the (URL, tag) pair of the result.
func (r *Result) Target() Target {
	return Target{URL: r.URL, Tag: r.Tag}
}

// Succeeded reports whether the run completed without error.
func (r *Result) Succeeded() bool {
	return r.Error == nil && r.ErrorMessage == ""
}
