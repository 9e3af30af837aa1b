// ABOUTME: Workout and exercise logging plus workout history.
// ABOUTME: LogWorkout stores a workout and its exercises in one transaction.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/fitness/internal/models"
)

const (
	insertWorkoutSQL  = `INSERT INTO workouts (user_id, workout_date, duration_minutes, notes) VALUES (?, ?, ?, ?)`
	insertExerciseSQL = `INSERT INTO exercises (workout_id, exercise_name, sets, reps, weight_lifted_kg) VALUES (?, ?, ?, ?, ?)`
)

// CreateWorkout stores a workout without exercises and returns its id.
func (d *DB) CreateWorkout(ctx context.Context, userID int64, date time.Time, durationMinutes int, notes string) (int64, error) {
	conn, err := d.conn(ctx)
	if err != nil {
		return 0, d.fail("create workout", err)
	}

	id, err := d.insert(ctx, conn, insertWorkoutSQL, "workout_id",
		userID, dateArg(date), durationMinutes, nullString(notes))
	if err != nil {
		return 0, d.fail("create workout", err)
	}
	return id, nil
}

// CreateExercise attaches an exercise to an existing workout and returns its id.
func (d *DB) CreateExercise(ctx context.Context, workoutID int64, name string, sets, reps int, weightKg float64) (int64, error) {
	conn, err := d.conn(ctx)
	if err != nil {
		return 0, d.fail("create exercise", err)
	}

	id, err := d.insert(ctx, conn, insertExerciseSQL, "exercise_id",
		workoutID, name, sets, reps, weightKg)
	if err != nil {
		return 0, d.fail("create exercise", err)
	}
	return id, nil
}

// LogWorkout stores w and every named exercise on it atomically. On success
// the generated ids are written back to w and its exercises. Exercises with
// a blank name are skipped and dropped from w.Exercises.
func (d *DB) LogWorkout(ctx context.Context, w *models.Workout) (int64, error) {
	var workoutID int64
	exerciseIDs := make([]int64, len(w.Exercises))

	err := d.transaction(ctx, func(tx *sql.Tx) error {
		id, err := d.insert(ctx, tx, insertWorkoutSQL, "workout_id",
			w.UserID, dateArg(w.Date), w.DurationMinutes, nullString(w.Notes))
		if err != nil {
			return fmt.Errorf("insert workout: %w", err)
		}
		workoutID = id

		for i, e := range w.Exercises {
			if strings.TrimSpace(e.Name) == "" {
				continue
			}
			eid, err := d.insert(ctx, tx, insertExerciseSQL, "exercise_id",
				workoutID, e.Name, e.Sets, e.Reps, e.WeightKg)
			if err != nil {
				return fmt.Errorf("insert exercise %q: %w", e.Name, err)
			}
			exerciseIDs[i] = eid
		}
		return nil
	})
	if err != nil {
		return 0, d.fail("log workout", err)
	}

	w.ID = workoutID
	stored := w.Exercises[:0]
	for i, e := range w.Exercises {
		if exerciseIDs[i] == 0 {
			continue
		}
		e.WorkoutID = workoutID
		e.ID = exerciseIDs[i]
		stored = append(stored, e)
	}
	w.Exercises = stored
	return workoutID, nil
}

// GetWorkout returns a workout without its exercises.
func (d *DB) GetWorkout(ctx context.Context, id int64) (*models.Workout, error) {
	w := &models.Workout{}
	var notes sql.NullString
	err := d.row(ctx, `
		SELECT workout_id, user_id, workout_date, duration_minutes, notes
		FROM workouts
		WHERE workout_id = ?
	`, id).Scan(&w.ID, &w.UserID, scanDate(&w.Date), &w.DurationMinutes, &notes)
	if err != nil {
		return nil, d.fail("get workout", err)
	}
	w.Notes = notes.String
	return w, nil
}

// ListWorkoutEntries returns the user's workout history: one row per
// exercise, or one row with a nil Exercise for a workout without any.
// Newest workouts come first; exercises keep insertion order.
func (d *DB) ListWorkoutEntries(ctx context.Context, userID int64) ([]*models.WorkoutEntry, error) {
	rows, err := d.query(ctx, `
		SELECT w.workout_id, w.workout_date, w.duration_minutes, w.notes,
		       e.exercise_id, e.exercise_name, e.sets, e.reps, e.weight_lifted_kg
		FROM workouts w
		LEFT JOIN exercises e ON e.workout_id = w.workout_id
		WHERE w.user_id = ?
		ORDER BY w.workout_date DESC, w.workout_id DESC, e.exercise_id ASC
	`, userID)
	if err != nil {
		return nil, d.fail("list workouts", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*models.WorkoutEntry
	for rows.Next() {
		entry, err := scanWorkoutEntry(rows)
		if err != nil {
			return nil, d.fail("list workouts", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, d.fail("list workouts", err)
	}
	return entries, nil
}

func scanWorkoutEntry(row rowScanner) (*models.WorkoutEntry, error) {
	var (
		entry      models.WorkoutEntry
		notes      sql.NullString
		exerciseID sql.NullInt64
		name       sql.NullString
		sets, reps sql.NullInt64
		weight     sql.NullFloat64
	)

	err := row.Scan(
		&entry.WorkoutID, scanDate(&entry.Date), &entry.DurationMinutes, &notes,
		&exerciseID, &name, &sets, &reps, &weight,
	)
	if err != nil {
		return nil, err
	}

	entry.Notes = notes.String
	if exerciseID.Valid {
		entry.Exercise = &models.Exercise{
			ID:        exerciseID.Int64,
			WorkoutID: entry.WorkoutID,
			Name:      name.String,
			Sets:      int(sets.Int64),
			Reps:      int(reps.Int64),
			WeightKg:  weight.Float64,
		}
	}
	return &entry, nil
}
