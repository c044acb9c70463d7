package input

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/nao1215/tagcount/internal/counter"
	"github.com/nao1215/tagcount/internal/model"
)

// Resolve builds a Target from positional arguments.
// Two arguments are taken as URL and tag. With no arguments the prompter is
// asked for both. Any other count returns ErrArgCount without prompting.
func Resolve(args []string, p Prompter) (model.Target, error) {
	var rawURL, rawTag string

	switch len(args) {
	case 2:
		rawURL, rawTag = args[0], args[1]
	case 0:
		if p == nil {
			return model.Target{}, ErrArgCount
		}
		var err error
		if rawURL, err = p.Prompt("Url: "); err != nil {
			return model.Target{}, fmt.Errorf("read url: %w", err)
		}
		if rawTag, err = p.Prompt("Tag: "); err != nil {
			return model.Target{}, fmt.Errorf("read tag: %w", err)
		}
	default:
		return model.Target{}, fmt.Errorf("%w: got %d argument(s)", ErrArgCount, len(args))
	}

	u, err := ValidateURL(rawURL)
	if err != nil {
		return model.Target{}, err
	}
	tag, err := ValidateTag(rawTag)
	if err != nil {
		return model.Target{}, err
	}
	return model.Target{URL: u, Tag: tag}, nil
}

// ValidateURL trims raw and checks that it is an absolute http or https URL
// with a host.
func ValidateURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrEmptyURL
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	scheme := strings.ToLower(u.Scheme)
	if (scheme != "http" && scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, trimmed)
	}
	return trimmed, nil
}

// ValidateTag checks that raw is an element name and returns it trimmed,
// in the caller's spelling.
func ValidateTag(raw string) (string, error) {
	_, err := counter.NormalizeTag(raw)
	switch {
	case errors.Is(err, counter.ErrEmptyTag):
		return "", ErrEmptyTag
	case err != nil:
		return "", fmt.Errorf("%w: %q", ErrInvalidTag, strings.TrimSpace(raw))
	}
	return strings.TrimSpace(raw), nil
}

// IsUsageError reports whether err is one of the input errors.
func IsUsageError(err error) bool {
	for _, target := range []error{ErrArgCount, ErrEmptyURL, ErrInvalidURL, ErrEmptyTag, ErrInvalidTag} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
