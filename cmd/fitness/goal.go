// ABOUTME: CLI commands for the session user's goals.
// ABOUTME: Supports add, list, update, complete and delete subcommands.
package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/harperreed/fitness/internal/models"
	"github.com/harperreed/fitness/internal/storage"
)

var (
	goalTarget      float64
	goalStart       string
	goalEnd         string
	goalDescription string
	goalShowAll     bool
)

var goalCmd = &cobra.Command{
	Use:     "goal",
	Aliases: []string{"goals", "g"},
	Short:   "Manage goals",
	Long: `Set targets with a start and end date and mark them complete.

Examples:
  fitness goal add "run 100 km" --target 100 --end 2025-06-30
  fitness goal list
  fitness goal complete 3`,
}

var goalAddCmd = &cobra.Command{
	Use:   "add <description>",
	Short: "Add a goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if goalEnd == "" {
			return fmt.Errorf("--end is required")
		}

		start := models.Today()
		if goalStart != "" {
			d, err := models.ParseDate(goalStart)
			if err != nil {
				return err
			}
			start = d
		}
		end, err := models.ParseDate(goalEnd)
		if err != nil {
			return err
		}

		g := models.NewGoal(sessionUserID(), args[0], goalTarget, start, end)
		if _, err := repo.CreateGoal(cmd.Context(), g); err != nil {
			return describe("create goal", err)
		}

		out := cmd.OutOrStdout()
		success(out, "Added goal %q", g.Description)
		fmt.Fprintf(out, "  ID: %d  %s → %s\n", g.ID, models.FormatDate(g.StartDate), models.FormatDate(g.EndDate))
		return nil
	},
}

var goalListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		goals, err := repo.ListGoals(cmd.Context(), sessionUserID())
		if err != nil {
			return describe("list goals", err)
		}

		out := cmd.OutOrStdout()
		shown := 0
		for _, g := range goals {
			if g.Completed && !goalShowAll {
				continue
			}
			status := "[ ]"
			if g.Completed {
				status = green.Sprint("[✓]")
			}
			fmt.Fprintf(out, "%s %s %s %s %s\n",
				faint.Sprint(padRight(strconv.FormatInt(g.ID, 10), 4)),
				status,
				padRight(truncate(g.Description, 30), 30),
				padRight(strconv.FormatFloat(g.TargetValue, 'g', -1, 64), 8),
				faint.Sprintf("%s → %s", models.FormatDate(g.StartDate), models.FormatDate(g.EndDate)))
			shown++
		}

		if shown == 0 {
			fmt.Fprintln(out, "No goals found.")
		}
		return nil
	},
}

var goalUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a goal",
	Long: `Update a goal. Only the given flags change.

Examples:
  fitness goal update 3 --target 120
  fitness goal update 3 --end 2025-07-31 --description "run 120 km"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if !flags.Changed("description") && !flags.Changed("target") && !flags.Changed("start") && !flags.Changed("end") {
			return fmt.Errorf("nothing to update: use --description, --target, --start or --end")
		}

		g, err := ownGoal(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if flags.Changed("description") {
			g.Description = goalDescription
		}
		if flags.Changed("target") {
			g.TargetValue = goalTarget
		}
		if flags.Changed("start") {
			if g.StartDate, err = models.ParseDate(goalStart); err != nil {
				return err
			}
		}
		if flags.Changed("end") {
			if g.EndDate, err = models.ParseDate(goalEnd); err != nil {
				return err
			}
		}

		if err := repo.UpdateGoal(cmd.Context(), g); err != nil {
			return describe("update goal", err)
		}
		success(cmd.OutOrStdout(), "Updated goal %d", g.ID)
		return nil
	},
}

var goalCompleteCmd = &cobra.Command{
	Use:     "complete <id>",
	Aliases: []string{"done"},
	Short:   "Mark a goal complete",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := ownGoal(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		g.Completed = true
		if err := repo.UpdateGoal(cmd.Context(), g); err != nil {
			return describe("complete goal", err)
		}
		success(cmd.OutOrStdout(), "Completed %q", g.Description)
		return nil
	},
}

var goalDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a goal",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := ownGoal(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if err := repo.DeleteGoal(cmd.Context(), g.ID); err != nil {
			return describe("delete goal", err)
		}
		removed(cmd.OutOrStdout(), "Deleted goal %q", g.Description)
		return nil
	},
}

// ownGoal loads a goal of the session user; other users' goals are not found.
func ownGoal(ctx context.Context, arg string) (*models.Goal, error) {
	id, err := parseID(arg)
	if err != nil {
		return nil, err
	}

	g, err := repo.GetGoal(ctx, id)
	if err == nil && g.UserID != sessionUserID() {
		err = fmt.Errorf("goal %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, describe(fmt.Sprintf("get goal %d", id), err)
	}
	return g, nil
}

func init() {
	goalAddCmd.Flags().Float64VarP(&goalTarget, "target", "t", 0, "target value")
	goalAddCmd.Flags().StringVar(&goalStart, "start", "", "start date (YYYY-MM-DD, default today)")
	goalAddCmd.Flags().StringVar(&goalEnd, "end", "", "end date (YYYY-MM-DD)")

	goalListCmd.Flags().BoolVarP(&goalShowAll, "all", "a", false, "include completed goals")

	goalUpdateCmd.Flags().StringVar(&goalDescription, "description", "", "new description")
	goalUpdateCmd.Flags().Float64VarP(&goalTarget, "target", "t", 0, "new target value")
	goalUpdateCmd.Flags().StringVar(&goalStart, "start", "", "new start date (YYYY-MM-DD)")
	goalUpdateCmd.Flags().StringVar(&goalEnd, "end", "", "new end date (YYYY-MM-DD)")

	goalCmd.AddCommand(goalAddCmd)
	goalCmd.AddCommand(goalListCmd)
	goalCmd.AddCommand(goalUpdateCmd)
	goalCmd.AddCommand(goalCompleteCmd)
	goalCmd.AddCommand(goalDeleteCmd)
	rootCmd.AddCommand(goalCmd)
}
