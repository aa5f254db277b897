package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewTUICommand creates the tui command.
func NewTUICommand(launch Launcher) *cobra.Command {
	return &cobra.Command{
		Use:   "tui <file.mat>",
		Short: "Browse a file in the terminal",
		Long: `Open a file in an interactive terminal view.

Keys: [ and ] switch variable, up/down select a row, / edits the row filter,
y copies the details, q quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if launch == nil {
				return fmt.Errorf("terminal view is not available in this build")
			}
			return launch(cmd.Context(), ConfigFrom(cmd.Context()), LoggerFrom(cmd.Context()), args[0])
		},
	}
}
