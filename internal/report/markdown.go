package report

import (
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/tagcount/internal/model"
)

// noLabel is shown for counts divisible by neither 3 nor 5.
const noLabel = "none"

// MarkdownWriter outputs results as GitHub Flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs a results table preceded by a label summary.
func (w *MarkdownWriter) Write(results []*model.Result) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("tagcount history")
	md.PlainText("")

	if len(results) == 0 {
		md.Note("No runs recorded. Use `tagcount --record URL TAG` to record one.")
		return len(md.String()), md.Build()
	}

	w.writeSummary(md, results)
	w.writeResults(md, results)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// labelCounts tallies results per label in a fixed order.
func labelCounts(results []*model.Result) ([]string, map[string]int) {
	order := []string{"fizzbuzz", "fizz", "buzz", noLabel}
	counts := make(map[string]int, len(order))
	for _, r := range results {
		label := r.Label
		if label == "" {
			label = noLabel
		}
		counts[label]++
	}
	return order, counts
}

// writeSummary writes the label table and pie chart.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, results []*model.Result) {
	md.H2("Summary")
	md.PlainText("")

	order, counts := labelCounts(results)

	rows := make([][]string, 0, len(order)+1)
	for _, label := range order {
		rows = append(rows, []string{label, strconv.Itoa(counts[label])})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(len(results)) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Label", "Runs"},
		Rows:   rows,
	})
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Runs by label"),
		piechart.WithShowData(true),
	)
	for _, label := range order {
		if counts[label] > 0 {
			chart.LabelAndIntValue(label, uint64(counts[label])) //nolint:gosec // counts are non-negative
		}
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeResults writes one table row per result.
func (w *MarkdownWriter) writeResults(md *markdown.Markdown, results []*model.Result) {
	md.H2("Runs")
	md.PlainText("")

	rows := make([][]string, len(results))
	for i, r := range results {
		label := r.Label
		if label == "" {
			label = "-"
		}
		rows[i] = []string{
			r.DateRun.Format(dateLayout),
			"`" + truncateString(r.URL, 60) + "`",
			r.Tag,
			r.Parser,
			strconv.Itoa(r.Count),
			FormatDivisors(r.Divisors),
			label,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Date", "URL", "Tag", "Parser", "Count", "Divisors", "Label"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Generated by tagcount*")
}

// truncateString truncates a string to at most maxLen bytes with ellipsis.
// The cut never splits a UTF-8 sequence.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:runeBoundary(s, maxLen)]
	}
	return s[:runeBoundary(s, maxLen-3)] + "..."
}

// runeBoundary steps i back to the start of the rune containing s[i].
func runeBoundary(s string, i int) int {
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}
