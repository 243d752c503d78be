package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/namerelay/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit  int
	Format string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent relay runs from the run journal",
		Long: `Show the most recent relay runs recorded in the run journal.

The journal is only written when history_db (or NAMERELAY_HISTORY_DB) is set.

Example:
  namerelay history
  namerelay history --limit 5 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistory(opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "number of runs to show")
	cmd.Flags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	return cmd
}

// runTable renders runs in text mode.
type runTable []store.Run

func (t runTable) String() string {
	if len(t) == 0 {
		return "No runs recorded."
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tRUN\tOUTCOME\tFETCHED\tNEW\tSTATUS\tDURATION")
	for _, r := range t {
		status := "-"
		if r.StatusCode != 0 {
			status = fmt.Sprint(r.StatusCode)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.ID,
			r.Outcome,
			r.Fetched,
			r.Candidates,
			status,
			r.Duration(),
		)
	}
	w.Flush()
	return strings.TrimRight(sb.String(), "\n")
}

func showHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	if err := validateFormat(opts.Format); err != nil {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	}
	if opts.Limit <= 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--limit must be positive, got %d", opts.Limit))
	}

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if cfg.HistoryDB == "" {
		_ = out.Error("E001", "run journal disabled: set history_db")
		return NewExitError(ExitCommandError, "run journal disabled")
	}

	st, err := store.Open(cfg.HistoryDB)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to open run journal", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	runs, err := st.RecentRuns(ctx, opts.Limit)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read run journal", err)
	}

	if opts.Format == "json" {
		return out.Success(runs)
	}
	return out.Success(runTable(runs))
}
