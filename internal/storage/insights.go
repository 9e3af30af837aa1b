// ABOUTME: Aggregate reports over a user's workouts and exercises.
// ABOUTME: Week boundaries are computed in Go so the SQL stays portable across backends.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/fitness/internal/models"
)

// WeeklyMinutes returns the total minutes of the ISO week holding the user's
// most recent workout. Returns ErrNotFound if the user has no workouts.
func (d *DB) WeeklyMinutes(ctx context.Context, userID int64) (*models.WeeklyMinutes, error) {
	var latest time.Time
	err := d.row(ctx, `SELECT MAX(workout_date) FROM workouts WHERE user_id = ?`, userID).
		Scan(scanDate(&latest))
	if err != nil {
		return nil, d.fail("weekly minutes", err)
	}
	if latest.IsZero() {
		return nil, d.fail("weekly minutes", ErrNotFound)
	}

	start := models.WeekStart(latest)
	end := start.AddDate(0, 0, 7)

	var total int
	err = d.row(ctx, `
		SELECT COALESCE(SUM(duration_minutes), 0)
		FROM workouts
		WHERE user_id = ? AND workout_date >= ? AND workout_date < ?
	`, userID, dateArg(start), dateArg(end)).Scan(&total)
	if err != nil {
		return nil, d.fail("weekly minutes", err)
	}

	year, week := start.ISOWeek()
	return &models.WeeklyMinutes{Year: year, Week: week, TotalMinutes: total}, nil
}

// AverageDuration returns the mean workout length in minutes.
// Returns ErrNotFound if the user has no workouts.
func (d *DB) AverageDuration(ctx context.Context, userID int64) (float64, error) {
	count, total, err := d.workoutTotals(ctx, userID)
	if err != nil {
		return 0, d.fail("average duration", err)
	}
	if count == 0 {
		return 0, d.fail("average duration", ErrNotFound)
	}
	return float64(total) / float64(count), nil
}

// TotalWorkouts returns how many workouts the user has logged.
func (d *DB) TotalWorkouts(ctx context.Context, userID int64) (int, error) {
	count, _, err := d.workoutTotals(ctx, userID)
	if err != nil {
		return 0, d.fail("total workouts", err)
	}
	return count, nil
}

// workoutTotals returns the workout count and summed minutes in one round-trip.
func (d *DB) workoutTotals(ctx context.Context, userID int64) (count int, total int64, err error) {
	err = d.row(ctx, `
		SELECT COUNT(*), COALESCE(SUM(duration_minutes), 0)
		FROM workouts
		WHERE user_id = ?
	`, userID).Scan(&count, &total)
	return count, total, err
}

// MaxWeightLifted returns the heaviest single lift across all of the user's
// workouts and the exercise it was recorded under. Ties go to the
// alphabetically first exercise name. Returns ErrNotFound if there are no
// exercises.
func (d *DB) MaxWeightLifted(ctx context.Context, userID int64) (*models.MaxLift, error) {
	lift := &models.MaxLift{}
	err := d.row(ctx, `
		SELECT e.exercise_name, MAX(e.weight_lifted_kg) AS max_weight
		FROM exercises e
		JOIN workouts w ON w.workout_id = e.workout_id
		WHERE w.user_id = ?
		GROUP BY e.exercise_name
		ORDER BY max_weight DESC, e.exercise_name ASC
		LIMIT 1
	`, userID).Scan(&lift.ExerciseName, &lift.WeightKg)
	if err != nil {
		return nil, d.fail("max weight lifted", err)
	}
	return lift, nil
}

// FriendsLeaderboard ranks the users userID points to by their workout
// minutes in the current calendar week (Monday start). Friends without a
// workout this week are left out.
func (d *DB) FriendsLeaderboard(ctx context.Context, userID int64) ([]*models.LeaderboardEntry, error) {
	start := models.WeekStart(d.now())
	end := start.AddDate(0, 0, 7)

	rows, err := d.query(ctx, `
		SELECT u.user_id, u.name, SUM(w.duration_minutes) AS total_minutes
		FROM friends f
		JOIN users u ON u.user_id = f.friend_id
		JOIN workouts w ON w.user_id = f.friend_id
		WHERE f.user_id = ? AND w.workout_date >= ? AND w.workout_date < ?
		GROUP BY u.user_id, u.name
		ORDER BY total_minutes DESC, u.name ASC
	`, userID, dateArg(start), dateArg(end))
	if err != nil {
		return nil, d.fail("friends leaderboard", err)
	}
	defer func() { _ = rows.Close() }()

	var board []*models.LeaderboardEntry
	for rows.Next() {
		e := &models.LeaderboardEntry{}
		if err := rows.Scan(&e.FriendID, &e.Name, &e.TotalMinutes); err != nil {
			return nil, d.fail("friends leaderboard", err)
		}
		board = append(board, e)
	}
	if err := rows.Err(); err != nil {
		return nil, d.fail("friends leaderboard", err)
	}
	return board, nil
}

// Insights runs every single-value report for the user. Reports without
// data are left nil rather than failing the bundle.
func (d *DB) Insights(ctx context.Context, userID int64) (*models.Insights, error) {
	ins := &models.Insights{}

	weekly, err := d.WeeklyMinutes(ctx, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("insights: %w", err)
	}
	ins.WeeklyMinutes = weekly

	avg, err := d.AverageDuration(ctx, userID)
	switch {
	case err == nil:
		ins.AverageDuration = &avg
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("insights: %w", err)
	}

	total, err := d.TotalWorkouts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("insights: %w", err)
	}
	ins.TotalWorkouts = total

	lift, err := d.MaxWeightLifted(ctx, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("insights: %w", err)
	}
	ins.MaxLift = lift

	return ins, nil
}
