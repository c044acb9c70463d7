// Package main provides the entry point for the tagcount CLI.
//
// tagcount fetches a web page, counts the occurrences of one HTML element,
// classifies the count by its divisors, and appends a one-line report to a
// log file.
//
// Usage:
//
//	tagcount https://example.com/ a
//	tagcount                          # prompts for Url and Tag
//	tagcount history --markdown
//
// See --help for all available options.
package main

func main() {
	Execute()
}
