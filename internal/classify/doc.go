// Package classify decides which divisors evenly divide an element count.
//
// The default divisors are 3 and 5, which gives the classic FizzBuzz
// classification: a count divisible by 3 is "fizz", by 5 is "buzz", by both
// is "fizzbuzz". Zero is divisible by every divisor and is not special-cased.
//
// Usage:
//
//	c, _ := classify.New() // 3 and 5
//	set, err := c.ClassifyValue(count)
//	fmt.Println(set.Ints(), set.Label())
package classify
