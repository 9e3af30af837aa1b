// ABOUTME: Root Cobra command for fitness CLI.
// ABOUTME: Loads config, sets up logging and opens storage via PersistentPre/PostRunE.
package main

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/harperreed/fitness/internal/config"
	"github.com/harperreed/fitness/internal/logging"
	"github.com/harperreed/fitness/internal/models"
	"github.com/harperreed/fitness/internal/storage"
)

var (
	cfg  *config.Config
	repo *storage.DB

	userFlag int64
	verbose  int
)

var rootCmd = &cobra.Command{
	Use:   "fitness",
	Short: "Personal fitness tracker",
	Long: `Fitness is a CLI tool for tracking workouts, goals and friendly competition.

QUICK START:

  $ fitness profile create Alice alice@example.com --weight 60
  $ fitness workout log -d 45 -e "squat:3:5:100" -e "lunge:2:10:20"
  $ fitness workout history
  $ fitness goal add "run 100 km" --target 100 --end 2025-06-30
  $ fitness insights

FRIENDS:

  $ fitness friend add 2          # Follow user 2
  $ fitness leaderboard           # This week's minutes per friend

SESSION USER:

  Commands act for the user set with --user, FITNESS_USER_ID or the
  user_id field of ~/.config/fitness/config.json (default 1).

STORAGE:

  SQLite at ~/.local/share/fitness/fitness.db by default. Set backend to
  "postgres" or "mysql" in the config file or FITNESS_BACKEND to use a
  database server.

MCP INTEGRATION:

  Run 'fitness mcp' to start the Model Context Protocol server.

  {
    "mcpServers": {
      "fitness": { "command": "fitness", "args": ["mcp"] }
    }
  }`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logging.Setup(logging.VerbosityLevel(cfg.GetLogLevel(), verbose), cfg.GetLogFile())

		// Skip storage for commands that don't need it
		if !needsStorage(cmd) {
			return nil
		}

		repo, err = cfg.OpenStorage(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
		}
		log.Debug().Str("driver", repo.Driver()).Int64("user_id", sessionUserID()).Msg("Storage ready")
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStorage()
	},
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if closeErr := closeStorage(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

func closeStorage() error {
	if repo == nil {
		return nil
	}
	err := repo.Close()
	repo = nil
	return err
}

func needsStorage(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "version", "help", "completion", "config":
			return false
		}
	}
	return true
}

// sessionUserID is --user when given, otherwise the configured user.
func sessionUserID() int64 {
	if userFlag > 0 {
		return userFlag
	}
	if cfg == nil {
		return 0
	}
	return cfg.GetUserID()
}

func session() models.Session {
	return models.NewSession(sessionUserID())
}

// describe rewrites storage failures into short CLI messages.
func describe(action string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%s: %w", action, storage.ErrNotFound)
	case errors.Is(err, storage.ErrConstraint):
		return fmt.Errorf("%s: rejected (duplicate or unknown reference): %w", action, err)
	case errors.Is(err, storage.ErrUnavailable):
		return fmt.Errorf("%s: database unavailable: %w", action, err)
	default:
		return fmt.Errorf("failed to %s: %w", action, err)
	}
}

func init() {
	rootCmd.PersistentFlags().Int64VarP(&userFlag, "user", "u", 0, "act as this user id (default from config)")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase log verbosity (-v debug, -vv trace)")
}
