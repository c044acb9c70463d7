package classify

import (
	"slices"
	"strconv"
	"strings"
)

// Set is the ascending list of divisors that evenly divide a count.
type Set []int

// labels maps divisors to their FizzBuzz words.
var labels = map[int]string{
	3: "fizz",
	5: "buzz",
}

// Contains reports whether d is in the set.
func (s Set) Contains(d int) bool {
	return slices.Contains(s, d)
}

// Ints returns the set as a plain slice. Never nil.
func (s Set) Ints() []int {
	if s == nil {
		return []int{}
	}
	return slices.Clone(s)
}

// Label returns "fizz", "buzz", "fizzbuzz" or "" for the 3 and 5 members.
// Divisors without a word are ignored.
func (s Set) Label() string {
	var sb strings.Builder
	for _, d := range s {
		sb.WriteString(labels[d])
	}
	return sb.String()
}

// String returns the divisors separated by ", ".
func (s Set) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ", ")
}
