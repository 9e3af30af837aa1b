// ABOUTME: CLI commands for friend edges of the session user.
// ABOUTME: Supports add, list and remove subcommands.
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var friendCmd = &cobra.Command{
	Use:     "friend",
	Aliases: []string{"friends", "f"},
	Short:   "Manage friends",
	Long: `Follow other users to compare weekly minutes on the leaderboard.

Friendship is one-way: adding Bob as your friend does not add you to Bob's
list.`,
}

var friendAddCmd = &cobra.Command{
	Use:   "add <user-id>",
	Short: "Add a friend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		friendID, err := parseID(args[0])
		if err != nil {
			return err
		}

		if err := repo.AddFriend(cmd.Context(), sessionUserID(), friendID); err != nil {
			return describe("add friend", err)
		}

		success(cmd.OutOrStdout(), "Added friend %d", friendID)
		return nil
	},
}

var friendListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List friends",
	RunE: func(cmd *cobra.Command, args []string) error {
		friends, err := repo.ListFriends(cmd.Context(), sessionUserID())
		if err != nil {
			return describe("list friends", err)
		}

		out := cmd.OutOrStdout()
		if len(friends) == 0 {
			fmt.Fprintln(out, "No friends yet.")
			return nil
		}

		for _, f := range friends {
			fmt.Fprintf(out, "%s %s %s\n",
				faint.Sprint(padRight(strconv.FormatInt(f.ID, 10), 4)),
				padRight(f.Name, 16),
				faint.Sprint(f.Email))
		}
		return nil
	},
}

var friendRemoveCmd = &cobra.Command{
	Use:     "remove <user-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a friend",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		friendID, err := parseID(args[0])
		if err != nil {
			return err
		}

		if err := repo.RemoveFriend(cmd.Context(), sessionUserID(), friendID); err != nil {
			return describe("remove friend", err)
		}

		removed(cmd.OutOrStdout(), "Removed friend %d", friendID)
		return nil
	},
}

func init() {
	friendCmd.AddCommand(friendAddCmd)
	friendCmd.AddCommand(friendListCmd)
	friendCmd.AddCommand(friendRemoveCmd)
	rootCmd.AddCommand(friendCmd)
}
