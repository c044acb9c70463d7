package report

import (
	"io"

	"github.com/nao1215/tagcount/internal/model"
)

// Writer renders a list of recorded results.
type Writer interface {
	// Write outputs the results and returns the number of bytes written.
	Write(results []*model.Result) (int, error)
}

// baseWriter provides common functionality for history writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
