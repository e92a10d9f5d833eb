package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/meteofetch/internal/ingest"
)

// CycleReport is the JSON shape of a single cycle result.
type CycleReport struct {
	ID          string `json:"id"`
	Seq         int64  `json:"seq"`
	Outcome     string `json:"outcome"`
	RawPath     string `json:"raw_path,omitempty"`
	CleanedPath string `json:"cleaned_path,omitempty"`
	RowsFetched int    `json:"rows_fetched"`
	RowsAdded   int    `json:"rows_added"`
	MasterRows  int    `json:"master_rows"`
	DurationMS  int64  `json:"duration_ms"`
}

// NewOnceCommand creates the once command.
func NewOnceCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "once",
		Short: "Run a single fetch-clean-merge cycle",
		Long: `Initialize the master file and run exactly one cycle.

Exit code 0 means the master file was updated, 1 means the cycle failed
(the failure is also written to the log file).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd, rootOpts)
		},
	}

	return cmd
}

func runOnce(cmd *cobra.Command, opts *RootOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := openApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.initialize(); err != nil {
		return err
	}

	res := a.loop.RunCycle(ctx)

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if !res.OK() {
		code := ErrCodeDataError
		if res.Outcome == ingest.OutcomeTransportError {
			code = ErrCodeTransportError
		}
		if err := formatter.Error(code, res.LogMessage(), reportFor(res)); err != nil {
			return err
		}
		return WrapExitError(ExitFailure, "cycle failed", res.Err)
	}

	if opts.Format == "json" {
		return formatter.Success(reportFor(res))
	}
	return formatter.Success(fmt.Sprintf("Fetched %s: %d rows, %d new, master has %d rows.",
		res.Snapshot.Raw, res.RowsFetched, res.RowsAdded, res.MasterRows))
}

func reportFor(res ingest.Result) CycleReport {
	r := CycleReport{
		ID:          res.ID,
		Seq:         res.Seq,
		Outcome:     res.Outcome.String(),
		RowsFetched: res.RowsFetched,
		RowsAdded:   res.RowsAdded,
		MasterRows:  res.MasterRows,
		DurationMS:  res.Duration().Milliseconds(),
	}
	if res.Outcome != ingest.OutcomeTransportError {
		r.RawPath = res.Snapshot.Raw
		r.CleanedPath = res.Snapshot.Cleaned
	}
	return r
}
