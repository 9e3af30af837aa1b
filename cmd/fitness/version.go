// ABOUTME: CLI command printing the build version.
// ABOUTME: version is set at build time with -ldflags "-X main.version=...".
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "fitness %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
