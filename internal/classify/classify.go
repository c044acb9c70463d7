package classify

import (
	"fmt"
	"math"
	"slices"
)

// DefaultDivisors are used when New is called without divisors.
var DefaultDivisors = []int{3, 5}

// Classifier tests a count against a fixed, sorted list of divisors.
type Classifier struct {
	divisors []int
}

// New creates a Classifier for the given divisors.
// With no divisors, DefaultDivisors is used. Duplicates are removed and the
// list is sorted so that results are always in ascending order.
func New(divisors ...int) (*Classifier, error) {
	if len(divisors) == 0 {
		divisors = DefaultDivisors
	}

	ds := make([]int, 0, len(divisors))
	for _, d := range divisors {
		if d <= 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidDivisor, d)
		}
		ds = append(ds, d)
	}
	slices.Sort(ds)

	return &Classifier{divisors: slices.Compact(ds)}, nil
}

// Divisors returns a copy of the divisors the classifier tests.
func (c *Classifier) Divisors() []int {
	return slices.Clone(c.divisors)
}

// Classify returns the divisors d for which count % d == 0.
func (c *Classifier) Classify(count int) (Set, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeCount, count)
	}

	set := make(Set, 0, len(c.divisors))
	for _, d := range c.divisors {
		if count%d == 0 {
			set = append(set, d)
		}
	}
	return set, nil
}

// ClassifyValue validates that v holds a Go integer and classifies it.
// Strings, floats, nil and every other non-integer type are rejected with
// ErrNotInteger before any arithmetic takes place.
func (c *Classifier) ClassifyValue(v any) (Set, error) {
	n, err := toInt(v)
	if err != nil {
		return nil, err
	}
	return c.Classify(n)
}

// toInt converts any integer type to int.
func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		if n > math.MaxInt || n < math.MinInt {
			return 0, fmt.Errorf("%w: %d overflows int", ErrNotInteger, n)
		}
		return int(n), nil
	case uint:
		if n > math.MaxInt {
			return 0, fmt.Errorf("%w: %d overflows int", ErrNotInteger, n)
		}
		return int(n), nil
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return int(n), nil
	case uint64:
		if n > math.MaxInt {
			return 0, fmt.Errorf("%w: %d overflows int", ErrNotInteger, n)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("%w: got %T", ErrNotInteger, v)
	}
}
