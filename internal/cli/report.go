package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/ai-dev-team/internal/core"
	"github.com/valter-silva-au/ai-dev-team/internal/storage"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the completion report of the last run",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Summaries == nil {
			return fmt.Errorf("summary store not initialized")
		}
		summary, err := Summaries.Load()
		if errors.Is(err, storage.ErrNoSummary) {
			return fmt.Errorf("no runs yet: %w", err)
		}
		if err != nil {
			return fmt.Errorf("loading summary: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), core.RenderReport(*summary))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
