package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/meteofetch/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit int
}

// HistoryReport is the JSON shape of the history command.
type HistoryReport struct {
	Cycles []store.Cycle  `json:"cycles"`
	Counts map[string]int `json:"counts"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent cycles from the ledger",
		Long: `List the most recent ingestion cycles recorded in the SQLite ledger,
oldest first, with per-outcome totals.

Example:
  meteofetch history --limit 20
  meteofetch history --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "number of cycles to show (0 for all)")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := openApp(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.ledger == nil {
		return NewExitError(ExitCommandError, "ledger disabled: set ledger_path in the config file")
	}

	cycles, err := a.ledger.RecentCycles(ctx, opts.Limit)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read ledger", err)
	}
	counts, err := a.ledger.CountByOutcome(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read ledger", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if opts.Format == "json" {
		return formatter.Success(HistoryReport{Cycles: cycles, Counts: counts})
	}
	writeCycleTable(cmd.OutOrStdout(), cycles, counts)
	return nil
}
