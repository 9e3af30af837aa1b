// ABOUTME: CLI commands for logging workouts and browsing history.
// ABOUTME: Supports log, exercise and history subcommands.
package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harperreed/fitness/internal/models"
	"github.com/harperreed/fitness/internal/storage"
)

var (
	workoutDuration  int
	workoutDate      string
	workoutNotes     string
	workoutExercises []string
	workoutLimit     int
)

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"w"},
	Short:   "Manage workouts",
	Long: `Log workout sessions and the exercises performed in them.

A workout has a date, a duration in minutes and optional notes. Exercises
record sets, reps and weight. Logging a workout with its exercises stores
everything together or nothing at all.

COMMANDS:

  log        Log a workout, optionally with exercises
  exercise   Add an exercise to an existing workout
  history    Show recent workouts with their exercises`,
}

var workoutLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Log a workout",
	Long: `Log a workout for the session user.

Exercises are given as name:sets:reps:weight_kg and may be repeated.

Examples:
  fitness workout log -d 45
  fitness workout log -d 60 --date 2024-03-04 -n "leg day" \
    -e "squat:3:5:100" -e "lunge:2:10:20"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if workoutDuration <= 0 {
			return fmt.Errorf("--duration must be a positive number of minutes")
		}

		w := models.NewWorkout(sessionUserID(), workoutDuration)
		if workoutDate != "" {
			d, err := models.ParseDate(workoutDate)
			if err != nil {
				return err
			}
			w.WithDate(d)
		}
		if workoutNotes != "" {
			w.WithNotes(workoutNotes)
		}
		for _, arg := range workoutExercises {
			e, err := parseExercise(arg)
			if err != nil {
				return err
			}
			w.AddExercise(e.Name, e.Sets, e.Reps, e.WeightKg)
		}

		if _, err := repo.LogWorkout(cmd.Context(), w); err != nil {
			return describe("log workout", err)
		}

		out := cmd.OutOrStdout()
		success(out, "Logged %d min workout on %s", w.DurationMinutes, models.FormatDate(w.Date))
		fmt.Fprintf(out, "  ID: %d\n", w.ID)
		for _, e := range w.Exercises {
			fmt.Fprintf(out, "  %s %dx%d @ %s\n", e.Name, e.Sets, e.Reps, formatWeight(e.WeightKg))
		}
		return nil
	},
}

var workoutExerciseCmd = &cobra.Command{
	Use:   "exercise <workout-id> <name> <sets> <reps> [weight_kg]",
	Short: "Add an exercise to a workout",
	Long: `Add an exercise to one of your workouts.

Examples:
  fitness workout exercise 12 deadlift 3 5 140
  fitness workout exercise 12 pushup 3 20`,
	Args: cobra.RangeArgs(4, 5),
	RunE: func(cmd *cobra.Command, args []string) error {
		workoutID, err := parseID(args[0])
		if err != nil {
			return err
		}

		weight := "0"
		if len(args) == 5 {
			weight = args[4]
		}
		e, err := parseExercise(strings.Join([]string{args[1], args[2], args[3], weight}, ":"))
		if err != nil {
			return err
		}
		if err := ownWorkout(cmd.Context(), workoutID); err != nil {
			return err
		}

		id, err := repo.CreateExercise(cmd.Context(), workoutID, e.Name, e.Sets, e.Reps, e.WeightKg)
		if err != nil {
			return describe("add exercise", err)
		}

		out := cmd.OutOrStdout()
		success(out, "Added %s to workout %d", e.Name, workoutID)
		fmt.Fprintf(out, "  ID: %d  %dx%d @ %s\n", id, e.Sets, e.Reps, formatWeight(e.WeightKg))
		return nil
	},
}

var workoutHistoryCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"list", "ls"},
	Short:   "Show workout history",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := repo.ListWorkoutEntries(cmd.Context(), sessionUserID())
		if err != nil {
			return describe("list workouts", err)
		}

		out := cmd.OutOrStdout()
		workouts := models.GroupWorkouts(entries)
		if len(workouts) == 0 {
			fmt.Fprintln(out, "No workouts found.")
			return nil
		}
		if workoutLimit > 0 && len(workouts) > workoutLimit {
			workouts = workouts[:workoutLimit]
		}

		for _, w := range workouts {
			notes := ""
			if w.Notes != "" {
				notes = faint.Sprintf(" (%s)", truncate(w.Notes, 30))
			}
			fmt.Fprintf(out, "%s %s %d min%s\n",
				faint.Sprint(padRight(strconv.FormatInt(w.ID, 10), 4)),
				models.FormatDate(w.Date),
				w.DurationMinutes,
				notes)
			for _, e := range w.Exercises {
				fmt.Fprintf(out, "       %s %dx%d @ %s\n", padRight(e.Name, 14), e.Sets, e.Reps, formatWeight(e.WeightKg))
			}
		}
		return nil
	},
}

// ownWorkout checks that the workout belongs to the session user; other users' workouts are not found.
func ownWorkout(ctx context.Context, id int64) error {
	w, err := repo.GetWorkout(ctx, id)
	if err == nil && w.UserID != sessionUserID() {
		err = fmt.Errorf("workout %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return describe(fmt.Sprintf("get workout %d", id), err)
	}
	return nil
}

// parseExercise reads name:sets:reps:weight_kg. The name may itself contain colons.
func parseExercise(arg string) (models.Exercise, error) {
	parts := strings.Split(arg, ":")
	if len(parts) < 4 {
		return models.Exercise{}, fmt.Errorf("invalid exercise %q: want name:sets:reps:weight_kg", arg)
	}

	n := len(parts)
	name := strings.TrimSpace(strings.Join(parts[:n-3], ":"))
	if name == "" {
		return models.Exercise{}, fmt.Errorf("invalid exercise %q: name is required", arg)
	}

	sets, err := strconv.Atoi(strings.TrimSpace(parts[n-3]))
	if err != nil || sets < 0 {
		return models.Exercise{}, fmt.Errorf("invalid sets in %q", arg)
	}
	reps, err := strconv.Atoi(strings.TrimSpace(parts[n-2]))
	if err != nil || reps < 0 {
		return models.Exercise{}, fmt.Errorf("invalid reps in %q", arg)
	}
	weight, err := strconv.ParseFloat(strings.TrimSpace(parts[n-1]), 64)
	if err != nil || weight < 0 {
		return models.Exercise{}, fmt.Errorf("invalid weight in %q", arg)
	}

	return models.Exercise{Name: name, Sets: sets, Reps: reps, WeightKg: weight}, nil
}

func init() {
	workoutLogCmd.Flags().IntVarP(&workoutDuration, "duration", "d", 0, "duration in minutes")
	workoutLogCmd.Flags().StringVar(&workoutDate, "date", "", "workout date (YYYY-MM-DD, default today)")
	workoutLogCmd.Flags().StringVarP(&workoutNotes, "notes", "n", "", "workout notes")
	workoutLogCmd.Flags().StringArrayVarP(&workoutExercises, "exercise", "e", nil, "exercise as name:sets:reps:weight_kg (repeatable)")

	workoutHistoryCmd.Flags().IntVarP(&workoutLimit, "limit", "n", 20, "max number of workouts")

	workoutCmd.AddCommand(workoutLogCmd)
	workoutCmd.AddCommand(workoutExerciseCmd)
	workoutCmd.AddCommand(workoutHistoryCmd)
	rootCmd.AddCommand(workoutCmd)
}
