// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs the stdio-based MCP server until interrupted.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harperreed/energy/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve energy tools over MCP (stdio)",
	Long: `Run a Model Context Protocol server on stdin/stdout so an assistant can
read readiness, plan the day and log activities.

Register it with your MCP client, for example:

  {
    "mcpServers": {
      "energy": {
        "command": "energy",
        "args": ["mcp"]
      }
    }
  }

TOOLS:

  get_assessment       Readiness state and budget for a day
  get_plan             Daily plan from a reference day
  get_recommendations  Sleep and exercise recommendations
  add_metric           Record a metric sample
  list_metrics         List recent metric samples
  delete_metric        Delete a metric sample
  add_goal             Create a goal
  list_goals           List goals
  update_goal          Change a goal's name, priority or cost
  archive_goal         Archive a goal
  log_event            Log an activity and get guidance
  list_events          List logged activities
  get_weekly_report    Weekly report
  get_trend            Daily physiology next to key-state hours

RESOURCES:

  energy://today           Today's assessment, metrics and events
  energy://report/weekly   Weekly report
  energy://goals           Active goals`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(repo, log)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
