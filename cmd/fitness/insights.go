// ABOUTME: CLI commands for reports on the session user.
// ABOUTME: Shows combined insights and this week's friend leaderboard.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var insightsCmd = &cobra.Command{
	Use:     "insights",
	Aliases: []string{"stats"},
	Short:   "Show workout insights",
	Long: `Show reports computed from your workouts:

  Weekly minutes   Total minutes in the week of your latest workout
  Average          Mean workout duration
  Total            Number of workouts logged
  Max lift         Heaviest weight lifted and its exercise`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ins, err := repo.Insights(cmd.Context(), sessionUserID())
		if err != nil {
			return describe("get insights", err)
		}

		out := cmd.OutOrStdout()
		if ins.TotalWorkouts == 0 {
			fmt.Fprintln(out, "No workouts logged yet.")
			return nil
		}

		if wm := ins.WeeklyMinutes; wm != nil {
			fmt.Fprintf(out, "%s %d min (%d-W%02d)\n", padRight("Weekly minutes:", 17), wm.TotalMinutes, wm.Year, wm.Week)
		}
		if ins.AverageDuration != nil {
			fmt.Fprintf(out, "%s %.1f min\n", padRight("Average:", 17), *ins.AverageDuration)
		}
		fmt.Fprintf(out, "%s %d\n", padRight("Total workouts:", 17), ins.TotalWorkouts)
		if ml := ins.MaxLift; ml != nil {
			fmt.Fprintf(out, "%s %s (%s)\n", padRight("Max lift:", 17), formatWeight(ml.WeightKg), ml.ExerciseName)
		}
		return nil
	},
}

var leaderboardCmd = &cobra.Command{
	Use:     "leaderboard",
	Aliases: []string{"lb"},
	Short:   "Rank friends by minutes this week",
	Long: `Rank your friends by total workout minutes in the current week
(Monday to Sunday). Friends without workouts this week are not listed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		board, err := repo.FriendsLeaderboard(cmd.Context(), sessionUserID())
		if err != nil {
			return describe("get leaderboard", err)
		}

		out := cmd.OutOrStdout()
		if len(board) == 0 {
			fmt.Fprintln(out, "No friend workouts this week.")
			return nil
		}

		for i, row := range board {
			rank := fmt.Sprintf("%d.", i+1)
			if i == 0 {
				rank = bold.Sprint(rank)
			}
			fmt.Fprintf(out, "%s %s %d min\n", padRight(rank, 3), padRight(row.Name, 16), row.TotalMinutes)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(leaderboardCmd)
}
