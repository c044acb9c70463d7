package main

import (
	"errors"
	"fmt"

	"github.com/nao1215/tagcount/internal/database"
	"github.com/nao1215/tagcount/internal/input"
	"github.com/nao1215/tagcount/internal/model"
	"github.com/nao1215/tagcount/internal/report"
	"github.com/spf13/cobra"
)

// errConflictingFormats is returned when both --json and --markdown are set.
var errConflictingFormats = errors.New("--json and --markdown are mutually exclusive")

// errNegativeLimit is returned for --limit below zero.
var errNegativeLimit = errors.New("--limit must not be negative")

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `History lists the runs saved with --record, oldest first.

Runs are read from the history database in the XDG data directory
($XDG_DATA_HOME/tagcount/tagcount.db). Nothing is created when the
database does not exist yet.

Examples:
  # List every recorded run
  tagcount history

  # Show the last 10 runs for one page
  tagcount history --url https://example.com/ --limit 10

  # Export as JSON or Markdown
  tagcount history --json
  tagcount history --markdown > history.md`,
		Args: noArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown with a label chart (mutually exclusive with --json)")
	cmd.Flags().String("url", "", "Only list runs for this URL")
	cmd.Flags().String("tag", "", "Only list runs for this tag")
	cmd.Flags().IntP("limit", "n", 0, "Only list the most recent N runs (0 lists all)")

	return cmd
}

// historyOptions are the parsed flags of the history command.
type historyOptions struct {
	json     bool
	markdown bool
	verbose  bool
	list     database.ListOptions
}

// parseHistoryFlags reads and checks the history flags.
func parseHistoryFlags(cmd *cobra.Command) (historyOptions, error) {
	var opts historyOptions
	var err error
	flags := cmd.Flags()

	if opts.json, err = flags.GetBool("json"); err != nil {
		return opts, err
	}
	if opts.markdown, err = flags.GetBool("markdown"); err != nil {
		return opts, err
	}
	if opts.json && opts.markdown {
		return opts, &usageError{err: errConflictingFormats}
	}

	if opts.list.URL, err = flags.GetString("url"); err != nil {
		return opts, err
	}
	if opts.list.URL != "" {
		if opts.list.URL, err = input.ValidateURL(opts.list.URL); err != nil {
			return opts, err
		}
	}

	tag, err := flags.GetString("tag")
	if err != nil {
		return opts, err
	}
	if tag != "" {
		if opts.list.Tag, err = input.ValidateTag(tag); err != nil {
			return opts, err
		}
	}

	if opts.list.Limit, err = flags.GetInt("limit"); err != nil {
		return opts, err
	}
	if opts.list.Limit < 0 {
		return opts, &usageError{err: errNegativeLimit}
	}

	opts.verbose = getVerboseFlag(cmd)
	return opts, nil
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	opts, err := parseHistoryFlags(cmd)
	if err != nil {
		return err
	}

	results, err := loadHistory(cmd, opts.list)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var w report.Writer
	switch {
	case opts.json:
		w = report.NewJSONWriter(out, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case opts.markdown:
		w = report.NewMarkdownWriter(out)
	default:
		if len(results) == 0 {
			fmt.Fprintln(out, "No runs recorded.")
			return nil
		}
		w = report.NewSimpleWriter(out, report.WithVerbose(opts.verbose))
	}

	if _, err := w.Write(results); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

// loadHistory reads the matching runs. A missing database yields no runs.
func loadHistory(cmd *cobra.Command, list database.ListOptions) ([]*model.Result, error) {
	db, err := database.Open(getDBDir(cmd), database.ReadOnlyOptions())
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	results, err := db.ListResults(cmd.Context(), list)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return results, nil
}
