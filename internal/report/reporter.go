package report

import (
	"fmt"
	"io"
	"os"

	"github.com/nao1215/tagcount/internal/model"
)

// OpenFunc opens the log file for appending.
type OpenFunc func(path string) (io.WriteCloser, error)

// AppendFile opens path in append mode, creating it if needed.
// The file is not locked; concurrent runs may interleave lines.
func AppendFile(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600) //nolint:gosec // user-chosen log path
}

// Reporter appends report lines to a log file and echoes them.
type Reporter struct {
	path   string
	open   OpenFunc
	stdout io.Writer
}

// ReporterOption configures a Reporter.
type ReporterOption func(*Reporter)

// WithOpener replaces the function used to open the log file.
func WithOpener(open OpenFunc) ReporterOption {
	return func(r *Reporter) {
		r.open = open
	}
}

// WithStdout replaces the writer the line is echoed to.
func WithStdout(w io.Writer) ReporterOption {
	return func(r *Reporter) {
		r.stdout = w
	}
}

// NewReporter creates a Reporter that appends to the file at path.
func NewReporter(path string, opts ...ReporterOption) *Reporter {
	r := &Reporter{
		path:   path,
		open:   AppendFile,
		stdout: os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Path returns the log file path.
func (r *Reporter) Path() string {
	return r.path
}

// Report appends the line for (url, tag, count, divisors) to the log file and
// then prints it. The file is always closed, even when the write fails.
// Nothing is printed unless both the write and the close succeed.
func (r *Reporter) Report(url, tag string, count int, divisors []int) error {
	line := FormatLine(url, tag, count, divisors)

	f, err := r.open(r.path)
	if err != nil {
		return &IOError{Op: "open", Path: r.path, Err: err}
	}

	_, writeErr := io.WriteString(f, line+"\n")
	closeErr := f.Close()

	if writeErr != nil {
		return &IOError{Op: "write", Path: r.path, Err: writeErr}
	}
	if closeErr != nil {
		return &IOError{Op: "close", Path: r.path, Err: closeErr}
	}

	if _, err := fmt.Fprintln(r.stdout, line); err != nil {
		return &IOError{Op: "print", Path: "stdout", Err: err}
	}
	return nil
}

// ReportResult reports a completed run.
func (r *Reporter) ReportResult(res *model.Result) error {
	return r.Report(res.URL, res.Tag, res.Count, res.Divisors)
}
