package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the input directory and an empty master file",
		Long: `Create the input directory and an empty master file if none exists.
An existing master file is never modified.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			a, err := openApp(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.initialize(); err != nil {
				return err
			}

			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			if rootOpts.Format == "json" {
				return formatter.Success(map[string]string{"master_path": a.cfg.MasterPath})
			}
			return formatter.Success(fmt.Sprintf("Master file ready: %s", a.cfg.MasterPath))
		},
	}

	return cmd
}
