package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nao1215/tagcount/internal/input"
	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// usageError marks an error caused by how the command was invoked.
type usageError struct {
	err error
}

func (e *usageError) Error() string {
	return e.err.Error()
}

func (e *usageError) Unwrap() error {
	return e.err
}

// isUsageError reports whether err should exit with exitUsage.
func isUsageError(err error) bool {
	var ue *usageError
	return errors.As(err, &ue) || input.IsUsageError(err)
}

// NewRootCmd creates the root command. Run without a subcommand it counts
// one tag on one page.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tagcount [flags] [URL TAG]",
		Short: "Count HTML tags on a web page",
		Long: `tagcount fetches a web page, counts the elements with the given tag name,
and classifies the count by the divisors 3 and 5 (fizz, buzz, fizzbuzz).

The result is appended to a log file (output.txt by default) and printed:

  URL: 'https://example.com/', tag: 'a', count: 15, divisors: [3, 5]

With no arguments tagcount prompts for the URL and the tag.

Examples:
  # Count links on a page
  tagcount https://example.com/ a

  # Use the tokenizer parser and a custom log file
  tagcount -P tokenizer -o counts.txt https://example.com/ div

  # Fetch through a SOCKS5 proxy and record the run
  tagcount --proxy 127.0.0.1:9050 --record https://example.com/ p

  # Fetch through an embedded Tor daemon
  tagcount --tor http://example.onion/ img`,
		Args:          rootArgs,
		RunE:          runCountCmd,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("db-dir", "", "Directory of the history database (default: XDG data directory)")
	_ = cmd.PersistentFlags().MarkHidden("db-dir") //nolint:errcheck // flag is defined above

	addCountFlags(cmd)

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// rootArgs accepts a URL and a tag, or nothing.
func rootArgs(_ *cobra.Command, args []string) error {
	if n := len(args); n != 0 && n != 2 {
		return &usageError{err: fmt.Errorf("%w: got %d argument(s)", input.ErrArgCount, n)}
	}
	return nil
}

// noArgs rejects positional arguments as a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return &usageError{err: err}
	}
	return nil
}

// execute runs the command tree with args and returns the exit code.
func execute(args []string, in io.Reader, out, errOut io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	cmd, err := root.ExecuteC()
	if err == nil {
		return exitOK
	}

	fmt.Fprintf(errOut, "Error: %v\n", err)
	if isUsageError(err) {
		fmt.Fprint(errOut, cmd.UsageString())
		return exitUsage
	}
	return exitFailure
}

// Execute runs the root command and exits the process.
func Execute() {
	os.Exit(execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
