package counter

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Count returns the number of elements named tag in doc.
// Nested elements are all counted.
func Count(doc, tag string, strategy Strategy) (int, error) {
	return CountReader(strings.NewReader(doc), tag, strategy)
}

// CountReader is Count over an io.Reader.
// A reader error is reported as *ParseError.
func CountReader(r io.Reader, tag string, strategy Strategy) (int, error) {
	name, err := NormalizeTag(tag)
	if err != nil {
		return 0, err
	}

	switch strategy {
	case StrategyTree:
		return countTree(r, name)
	case StrategyTokenizer:
		return countTokens(r, name)
	case StrategySelector:
		return countSelector(r, name)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

// countTree parses r into an HTML5 tree and counts matching element nodes.
func countTree(r io.Reader, name string) (int, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return 0, &ParseError{Strategy: StrategyTree, Err: err}
	}

	count := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && foldName(n.Data) == name {
			count++
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return count, nil
}

// countTokens counts start and self-closing tags in the token stream.
// End tags, including the stray </br> that tree construction turns into a
// <br> element, are not counted.
func countTokens(r io.Reader, name string) (int, error) {
	z := html.NewTokenizer(r)

	count := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return count, nil
			}
			return 0, &ParseError{Strategy: StrategyTokenizer, Err: z.Err()}
		case html.StartTagToken, html.SelfClosingTagToken:
			tn, _ := z.TagName()
			if foldName(string(tn)) == name {
				count++
			}
		}
	}
}

// countSelector selects every element and keeps those whose folded name is
// name. A CSS type selector compares names exactly, which misses camelCase
// SVG elements such as foreignObject.
func countSelector(r io.Reader, name string) (int, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return 0, &ParseError{Strategy: StrategySelector, Err: err}
	}
	return doc.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return foldName(goquery.NodeName(s)) == name
	}).Length(), nil
}
