// ABOUTME: CLI commands for user profiles.
// ABOUTME: Supports create, show, list, update and delete subcommands.
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	profileWeight float64
	profileName   string
	profileEmail  string
)

var profileCmd = &cobra.Command{
	Use:     "profile",
	Aliases: []string{"user", "p"},
	Short:   "Manage user profiles",
	Long: `Create and maintain user profiles.

Every workout, goal and friend edge belongs to a user. Commands that work on
"your" data act for the session user (--user or user_id in config).

COMMANDS:

  create   Register a new user
  show     Show a profile (default: session user)
  list     List all users
  update   Change the session user's name, email or weight
  delete   Delete a user and everything they own`,
}

var profileCreateCmd = &cobra.Command{
	Use:   "create <name> <email>",
	Short: "Create a user",
	Long: `Create a user profile.

Examples:
  fitness profile create Alice alice@example.com --weight 60.5`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if profileWeight < 0 {
			return fmt.Errorf("weight must not be negative")
		}

		id, err := repo.CreateUser(cmd.Context(), args[0], profileWeight, args[1])
		if err != nil {
			return describe("create user", err)
		}

		out := cmd.OutOrStdout()
		success(out, "Created user %s", args[0])
		fmt.Fprintf(out, "  ID: %d\n", id)
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a user profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := sessionUserID()
		if len(args) == 1 {
			var err error
			if id, err = parseID(args[0]); err != nil {
				return err
			}
		}

		u, err := repo.GetUser(cmd.Context(), id)
		if err != nil {
			return describe(fmt.Sprintf("get user %d", id), err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "User: %s\n", bold.Sprint(u.Name))
		fmt.Fprintf(out, "ID: %d\n", u.ID)
		fmt.Fprintf(out, "Email: %s\n", u.Email)
		fmt.Fprintf(out, "Weight: %s\n", formatWeight(u.WeightKg))
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := repo.ListUsers(cmd.Context())
		if err != nil {
			return describe("list users", err)
		}

		out := cmd.OutOrStdout()
		if len(users) == 0 {
			fmt.Fprintln(out, "No users found.")
			return nil
		}

		current := sessionUserID()
		for _, u := range users {
			marker := " "
			if u.ID == current {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %s %s %s\n",
				marker,
				faint.Sprint(padRight(strconv.FormatInt(u.ID, 10), 4)),
				padRight(u.Name, 16),
				faint.Sprint(u.Email))
		}
		return nil
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the session user's profile",
	Long: `Update the session user's profile. Only the given flags change.

Examples:
  fitness profile update --weight 61.2
  fitness profile update --name "Alice B" --email alice.b@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if !flags.Changed("name") && !flags.Changed("email") && !flags.Changed("weight") {
			return fmt.Errorf("nothing to update: use --name, --email or --weight")
		}

		id := sessionUserID()
		u, err := repo.GetUser(cmd.Context(), id)
		if err != nil {
			return describe(fmt.Sprintf("get user %d", id), err)
		}

		if flags.Changed("name") {
			u.Name = profileName
		}
		if flags.Changed("email") {
			u.Email = profileEmail
		}
		if flags.Changed("weight") {
			if profileWeight < 0 {
				return fmt.Errorf("weight must not be negative")
			}
			u.WeightKg = profileWeight
		}

		if err := repo.UpdateUser(cmd.Context(), u); err != nil {
			return describe("update user", err)
		}

		success(cmd.OutOrStdout(), "Updated %s", u.Name)
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a user",
	Long: `Delete a user by ID.

CAUTION:

  This permanently deletes the user together with their workouts,
  exercises, goals and friend edges. There is no undo.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		u, err := repo.GetUser(cmd.Context(), id)
		if err != nil {
			return describe(fmt.Sprintf("get user %d", id), err)
		}
		if err := repo.DeleteUser(cmd.Context(), id); err != nil {
			return describe("delete user", err)
		}

		removed(cmd.OutOrStdout(), "Deleted user %s (ID: %d)", u.Name, u.ID)
		return nil
	},
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %s", s)
	}
	return id, nil
}

func init() {
	profileCreateCmd.Flags().Float64VarP(&profileWeight, "weight", "w", 0, "body weight in kg")

	profileUpdateCmd.Flags().StringVar(&profileName, "name", "", "new name")
	profileUpdateCmd.Flags().StringVar(&profileEmail, "email", "", "new email")
	profileUpdateCmd.Flags().Float64VarP(&profileWeight, "weight", "w", 0, "new body weight in kg")

	profileCmd.AddCommand(profileCreateCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileUpdateCmd)
	profileCmd.AddCommand(profileDeleteCmd)
	rootCmd.AddCommand(profileCmd)
}
