// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server acting for the session user.
package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harperreed/fitness/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout and acts for the session user.

CONFIGURATION:

  {
    "mcpServers": {
      "fitness": {
        "command": "fitness",
        "args": ["mcp", "--user", "1"]
      }
    }
  }

AVAILABLE TOOLS:

  get_profile, list_users, create_user, update_profile
  add_friend, list_friends, remove_friend
  log_workout, add_exercise, workout_history
  create_goal, list_goals, update_goal, delete_goal
  get_insights, leaderboard

AVAILABLE RESOURCES:

  fitness://profile           Profile, friends and goals
  fitness://workouts/recent   Last 10 workouts
  fitness://insights          Reports and leaderboard`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(repo, session(), version)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

