package report

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatLine returns the report line for a run:
//
//	URL: '<url>', tag: '<tag>', count: <count>, divisors: [<d1>, <d2>, ...]
//
// The line has no trailing newline.
func FormatLine(url, tag string, count int, divisors []int) string {
	return fmt.Sprintf("URL: '%s', tag: '%s', count: %d, divisors: %s",
		url, tag, count, FormatDivisors(divisors))
}

// FormatDivisors renders divisors as "[a, b]". An empty list is "[]".
func FormatDivisors(divisors []int) string {
	parts := make([]string, len(divisors))
	for i, d := range divisors {
		parts[i] = strconv.Itoa(d)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
