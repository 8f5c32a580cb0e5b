package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/ai-dev-team/internal/core"
	"github.com/valter-silva-au/ai-dev-team/pkg/models"
)

var logRole string

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the team communication log of the last run",
	Long: `Show the communication log written by the last run, one line per
agent action. Use --role to show a single team member.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Transcripts == nil {
			return fmt.Errorf("transcript store not initialized")
		}
		entries, err := Transcripts.Read()
		if err != nil {
			return fmt.Errorf("reading communication log: %w", err)
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No communication log yet.")
			return nil
		}

		out := cmd.OutOrStdout()
		shown := 0
		for _, e := range entries {
			if logRole != "" && string(e.Role) != logRole {
				continue
			}
			shown++
			task := e.TaskID
			if task == "" {
				task = "-"
			}
			fmt.Fprintf(out, "%s  %-16s %-10s %-11s %s\n",
				e.Time.Format("15:04:05"), e.Role.DisplayName(), e.Action, task, e.Message)
		}

		replay := core.ReplayLog(entries)
		fmt.Fprintf(out, "\n%d entries shown; replay: %d planned, %d completed, %d failed\n",
			shown, replay.Planned, replay.Completed, replay.Failed)
		return nil
	},
}

func init() {
	logCmd.Flags().StringVar(&logRole, "role", "", fmt.Sprintf("Only show one role (%s, %s, %s)",
		models.RoleProjectManager, models.RoleCoder, models.RoleQA))
	rootCmd.AddCommand(logCmd)
}
