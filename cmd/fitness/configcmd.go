// ABOUTME: CLI commands for inspecting and editing the config file.
// ABOUTME: Shows the effective settings and persists the default session user.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harperreed/fitness/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Config file: %s\n", config.GetConfigPath())
		fmt.Fprintf(out, "Backend:     %s\n", cfg.GetBackend())

		opts, err := cfg.StorageOptions()
		if err != nil {
			return err
		}
		if opts.Path != "" {
			fmt.Fprintf(out, "Database:    %s\n", opts.Path)
		} else {
			fmt.Fprintf(out, "Database:    %s@%s:%d/%s\n", opts.User, opts.Host, opts.Port, opts.Name)
		}
		fmt.Fprintf(out, "User ID:     %d\n", sessionUserID())
		fmt.Fprintf(out, "Log level:   %s\n", cfg.GetLogLevel())
		if f := cfg.GetLogFile(); f != "" {
			fmt.Fprintf(out, "Log file:    %s\n", f)
		}
		fmt.Fprintf(out, "HTTP addr:   %s\n", cfg.GetHTTPAddr())
		return nil
	},
}

var configUseCmd = &cobra.Command{
	Use:   "use <user-id>",
	Short: "Set the default session user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		// Save the file contents only, not values that came from the environment.
		fileCfg, err := config.LoadFile(config.GetConfigPath())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		fileCfg.UserID = id
		if err := fileCfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		success(cmd.OutOrStdout(), "Default user is now %d", id)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configUseCmd)
	rootCmd.AddCommand(configCmd)
}
