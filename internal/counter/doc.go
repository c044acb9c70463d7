// Package counter counts HTML elements by tag name.
//
// # Strategies
//
// Every call takes an explicit Strategy. There is no "best available" parser
// selection: the same document and strategy always give the same count, on
// every machine.
//
//   - StrategyTree: HTML5 tree construction via golang.org/x/net/html.
//     Elements implied by the HTML5 algorithm (html, head, body, tbody) exist
//     in the tree and are counted. This is the default.
//   - StrategyTokenizer: golang.org/x/net/html tokenizer. Only start and
//     self-closing tags literally present in the source are counted.
//   - StrategySelector: goquery selection over the HTML5 tree, filtered by
//     folded element name. Counts agree with StrategyTree.
//
// All strategies are lenient: unclosed or misnested tags are recovered from,
// never rejected. Only an unreadable document yields a *ParseError.
//
// # Tag names
//
// Tag names are matched case-insensitively, as HTML element names are.
// NormalizeTag folds the name and rejects anything the tokenizer could not
// read as a tag name.
//
// # Usage
//
//	n, err := counter.Count(body, "br", counter.StrategyTree)
package counter
