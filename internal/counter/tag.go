package counter

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// tagPattern matches a case-folded element name as the tokenizer reads it:
// an ASCII letter followed by anything up to whitespace, '/' or '>'.
var tagPattern = regexp.MustCompile(`^[a-z][^\s/>]*$`)

// NormalizeTag trims and case-folds a tag name and checks that it is a
// name an element can have.
func NormalizeTag(tag string) (string, error) {
	trimmed := strings.TrimSpace(tag)
	if trimmed == "" {
		return "", ErrEmptyTag
	}

	folded := foldName(trimmed)
	if !tagPattern.MatchString(folded) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTag, tag)
	}
	return folded, nil
}

// foldName case-folds an element name.
// A new Caser is created per call because Casers are not safe for concurrent use.
func foldName(name string) string {
	return cases.Fold().String(name)
}
