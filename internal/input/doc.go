// Package input turns command-line arguments or interactive answers into a
// validated target: the URL to fetch and the tag to count.
package input
