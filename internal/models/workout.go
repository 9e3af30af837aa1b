// ABOUTME: Workout and Exercise models for session logging.
// ABOUTME: WorkoutEntry is the denormalized history row; GroupWorkouts folds entries back.
package models

import (
	"time"
)

// Workout represents a logged training session.
type Workout struct {
	ID              int64      `json:"id" yaml:"id"`
	UserID          int64      `json:"user_id" yaml:"user_id"`
	Date            time.Time  `json:"date" yaml:"date"`
	DurationMinutes int        `json:"duration_minutes" yaml:"duration_minutes"`
	Notes           string     `json:"notes,omitempty" yaml:"notes,omitempty"`
	Exercises       []Exercise `json:"exercises,omitempty" yaml:"exercises,omitempty"` // Populated when logging or grouping
}

// NewWorkout creates a Workout for today.
func NewWorkout(userID int64, durationMinutes int) *Workout {
	return &Workout{
		UserID:          userID,
		Date:            Today(),
		DurationMinutes: durationMinutes,
	}
}

// WithDate sets the workout date.
func (w *Workout) WithDate(t time.Time) *Workout {
	w.Date = Date(t)
	return w
}

// WithNotes sets notes on the workout.
func (w *Workout) WithNotes(notes string) *Workout {
	w.Notes = notes
	return w
}

// AddExercise appends an exercise to be stored with the workout.
func (w *Workout) AddExercise(name string, sets, reps int, weightKg float64) *Workout {
	w.Exercises = append(w.Exercises, Exercise{
		WorkoutID: w.ID,
		Name:      name,
		Sets:      sets,
		Reps:      reps,
		WeightKg:  weightKg,
	})
	return w
}

// Exercise is one movement performed during a workout.
type Exercise struct {
	ID        int64   `json:"id" yaml:"id"`
	WorkoutID int64   `json:"workout_id" yaml:"workout_id"`
	Name      string  `json:"name" yaml:"name"`
	Sets      int     `json:"sets" yaml:"sets"`
	Reps      int     `json:"reps" yaml:"reps"`
	WeightKg  float64 `json:"weight_kg" yaml:"weight_kg"`
}

// WorkoutEntry is one row of workout history: a workout joined with at most
// one of its exercises. Exercise is nil for a workout without exercises.
type WorkoutEntry struct {
	WorkoutID       int64     `json:"workout_id"`
	Date            time.Time `json:"date"`
	DurationMinutes int       `json:"duration_minutes"`
	Notes           string    `json:"notes,omitempty"`
	Exercise        *Exercise `json:"exercise,omitempty"`
}

// GroupWorkouts folds history entries into workouts, keeping the entry order.
func GroupWorkouts(entries []*WorkoutEntry) []*Workout {
	var workouts []*Workout
	byID := make(map[int64]*Workout)

	for _, e := range entries {
		w, ok := byID[e.WorkoutID]
		if !ok {
			w = &Workout{
				ID:              e.WorkoutID,
				Date:            e.Date,
				DurationMinutes: e.DurationMinutes,
				Notes:           e.Notes,
			}
			byID[e.WorkoutID] = w
			workouts = append(workouts, w)
		}
		if e.Exercise != nil {
			w.Exercises = append(w.Exercises, *e.Exercise)
		}
	}

	return workouts
}
