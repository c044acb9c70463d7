// Package report formats run results.
//
// Reporter appends the one-line summary of a run to the log file and echoes
// it to standard output. The history writers render stored results:
//   - SimpleWriter: one report line per result
//   - JSONWriter: structured JSON for tool integration
//   - MarkdownWriter: GitHub Flavored Markdown with a label distribution chart
package report
