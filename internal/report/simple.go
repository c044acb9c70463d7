package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/tagcount/internal/model"
)

// dateLayout is used for run dates in every history format.
const dateLayout = "2006-01-02 15:04:05 MST"

// SimpleWriter outputs one report line per result, in the same format as
// the log file.
type SimpleWriter struct {
	baseWriter

	// verbose prefixes each line with the run date and parser.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose prefixes each line with the run date and parser strategy.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the results, oldest first as given.
func (w *SimpleWriter) Write(results []*model.Result) (int, error) {
	var sb strings.Builder
	for _, r := range results {
		if w.verbose {
			sb.WriteString(fmt.Sprintf("%s [%s] ", r.DateRun.Format(dateLayout), r.Parser))
		}
		sb.WriteString(FormatLine(r.URL, r.Tag, r.Count, r.Divisors))
		sb.WriteString("\n")
	}
	return io.WriteString(w.output, sb.String())
}
