package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	adtmcp "github.com/valter-silva-au/ai-dev-team/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  "Commands for running the adt MCP (Model Context Protocol) server.",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the adt MCP server on stdio",
	Long: `Start the adt MCP server on stdio transport.

The server exposes adt as MCP tools that AI coding assistants can call:
develop_project, get_summary, list_tasks, list_bugs, get_metrics, get_alerts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Projects == nil {
			return fmt.Errorf("project service not initialized")
		}

		var summaries adtmcp.SummaryLoader
		if Summaries != nil {
			summaries = Summaries
		}
		srv := adtmcp.NewServer(Projects, summaries, MetricsCalc, AlertEngine, appVersion)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("running MCP server: %w", err)
		}

		return nil
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
