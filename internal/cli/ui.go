package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tasktrackr/internal/tui"
)

func (a *app) newUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive task list",
		Args:  usageArgs(cobra.NoArgs, "tasktrackr ui"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			if err := tui.Run(cmd.Context(), c); err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			return nil
		},
	}
}
