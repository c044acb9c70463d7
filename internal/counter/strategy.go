package counter

import (
	"fmt"
	"strings"
)

// Strategy selects how a document is parsed before counting.
type Strategy string

const (
	// StrategyTree builds the HTML5 tree and walks it.
	StrategyTree Strategy = "tree"

	// StrategyTokenizer counts tags straight from the token stream.
	StrategyTokenizer Strategy = "tokenizer"

	// StrategySelector runs a goquery type selector over the HTML5 tree.
	StrategySelector Strategy = "selector"

	// DefaultStrategy is used when none is configured.
	DefaultStrategy = StrategyTree
)

// Strategies returns every supported strategy.
func Strategies() []Strategy {
	return []Strategy{StrategyTree, StrategyTokenizer, StrategySelector}
}

// ParseStrategy converts a name such as "tree" into a Strategy.
// Matching is case-insensitive; an empty name gives DefaultStrategy.
func ParseStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultStrategy, nil
	}

	s := Strategy(name)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnknownStrategy, name, strategyNames())
	}
	return s, nil
}

// Valid reports whether s is a supported strategy.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyTree, StrategyTokenizer, StrategySelector:
		return true
	default:
		return false
	}
}

// String returns the strategy name.
func (s Strategy) String() string {
	return string(s)
}

// strategyNames returns the supported names joined for messages.
func strategyNames() string {
	names := make([]string, 0, len(Strategies()))
	for _, s := range Strategies() {
		names = append(names, s.String())
	}
	return strings.Join(names, ", ")
}
