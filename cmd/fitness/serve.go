// ABOUTME: CLI command for starting the HTTP JSON API.
// ABOUTME: Serves until interrupted, then shuts down gracefully.
package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harperreed/fitness/internal/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start a JSON API acting for the session user.

ROUTES:

  GET  /healthz
  GET  POST        /api/users
  GET  PUT DELETE  /api/users/{id}
  GET  POST        /api/friends
  DELETE           /api/friends/{id}
  GET  POST        /api/workouts
  POST             /api/workouts/{id}/exercises
  GET  POST        /api/goals
  PUT  DELETE      /api/goals/{id}
  GET              /api/insights
  GET              /api/leaderboard

The listen address defaults to http_addr in config (127.0.0.1:8080).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := serveAddr
		if addr == "" {
			addr = cfg.GetHTTPAddr()
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return web.NewServer(repo, session()).Start(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}
