package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the ingestion loop until interrupted",
		Long: `Initialize the master file, then fetch, clean, and merge on a fixed
interval until SIGINT or SIGTERM. A failed cycle is logged and the loop
carries on with the next one.

Example:
  meteofetch run
  meteofetch run --config ./meteofetch.yaml --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoop(cmd, rootOpts)
		},
	}

	return cmd
}

func runLoop(cmd *cobra.Command, opts *RootOptions) error {
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	a, err := openApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.initialize(); err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			a.logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Fetching %s every %s. Logging to %s.\n", a.cfg.URL, a.cfg.Interval, a.cfg.LogPath)
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl-C to stop.")

	err = a.loop.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return WrapExitError(ExitFailure, "ingestion loop error", err)
	}

	a.logger.Info("ingestion loop stopped")
	return nil
}
