// ABOUTME: Per-user export of profile, friends, workouts, goals and insights.
// ABOUTME: Supports JSON and YAML output formats.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/fitness/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for one user.
type ExportData struct {
	Version    string            `json:"version" yaml:"version"`
	ExportedAt time.Time         `json:"exported_at" yaml:"exported_at"`
	Tool       string            `json:"tool" yaml:"tool"`
	User       *models.User      `json:"user" yaml:"user"`
	Friends    []*models.Friend  `json:"friends" yaml:"friends"`
	Workouts   []*models.Workout `json:"workouts" yaml:"workouts"`
	Goals      []*models.Goal    `json:"goals" yaml:"goals"`
	Insights   *models.Insights  `json:"insights" yaml:"insights"`
}

// Snapshot collects everything stored for userID.
func (d *DB) Snapshot(ctx context.Context, userID int64) (*ExportData, error) {
	user, err := d.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	friends, err := d.ListFriends(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	entries, err := d.ListWorkoutEntries(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	workouts := models.GroupWorkouts(entries)
	for _, w := range workouts {
		w.UserID = userID
	}

	goals, err := d.ListGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	insights, err := d.Insights(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	return &ExportData{
		Version:    "1.0",
		ExportedAt: d.now(),
		Tool:       "fitness",
		User:       user,
		Friends:    friends,
		Workouts:   workouts,
		Goals:      goals,
		Insights:   insights,
	}, nil
}

// ExportJSON exports one user's data as JSON.
func (d *DB) ExportJSON(ctx context.Context, userID int64) ([]byte, error) {
	data, err := d.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports one user's data as YAML, with dates as YYYY-MM-DD.
func (d *DB) ExportYAML(ctx context.Context, userID int64) ([]byte, error) {
	data, err := d.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version    string           `yaml:"version"`
		ExportedAt string           `yaml:"exported_at"`
		Tool       string           `yaml:"tool"`
		User       *models.User     `yaml:"user"`
		Friends    []*models.Friend `yaml:"friends"`
		Workouts   []yamlWorkout    `yaml:"workouts"`
		Goals      []yamlGoal       `yaml:"goals"`
		Insights   yamlInsights     `yaml:"insights"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		User:       data.User,
		Friends:    data.Friends,
		Workouts:   make([]yamlWorkout, 0, len(data.Workouts)),
		Goals:      make([]yamlGoal, 0, len(data.Goals)),
	}

	for _, w := range data.Workouts {
		yw := yamlWorkout{
			ID:              w.ID,
			Date:            models.FormatDate(w.Date),
			DurationMinutes: w.DurationMinutes,
			Notes:           w.Notes,
		}
		for _, e := range w.Exercises {
			yw.Exercises = append(yw.Exercises, yamlExercise{
				Name:     e.Name,
				Sets:     e.Sets,
				Reps:     e.Reps,
				WeightKg: e.WeightKg,
			})
		}
		yamlData.Workouts = append(yamlData.Workouts, yw)
	}

	for _, g := range data.Goals {
		yamlData.Goals = append(yamlData.Goals, yamlGoal{
			ID:          g.ID,
			Description: g.Description,
			TargetValue: g.TargetValue,
			StartDate:   models.FormatDate(g.StartDate),
			EndDate:     models.FormatDate(g.EndDate),
			Completed:   g.Completed,
		})
	}

	ins := data.Insights
	yamlData.Insights.TotalWorkouts = ins.TotalWorkouts
	yamlData.Insights.AverageDuration = ins.AverageDuration
	if ins.WeeklyMinutes != nil {
		yamlData.Insights.Week = fmt.Sprintf("%d-W%02d", ins.WeeklyMinutes.Year, ins.WeeklyMinutes.Week)
		yamlData.Insights.WeeklyMinutes = ins.WeeklyMinutes.TotalMinutes
	}
	if ins.MaxLift != nil {
		yamlData.Insights.MaxLift = &yamlExercise{Name: ins.MaxLift.ExerciseName, WeightKg: ins.MaxLift.WeightKg}
	}

	return yaml.Marshal(yamlData)
}

type yamlWorkout struct {
	ID              int64          `yaml:"id"`
	Date            string         `yaml:"date"`
	DurationMinutes int            `yaml:"duration_minutes"`
	Notes           string         `yaml:"notes,omitempty"`
	Exercises       []yamlExercise `yaml:"exercises,omitempty"`
}

type yamlExercise struct {
	Name     string  `yaml:"name"`
	Sets     int     `yaml:"sets,omitempty"`
	Reps     int     `yaml:"reps,omitempty"`
	WeightKg float64 `yaml:"weight_kg"`
}

type yamlGoal struct {
	ID          int64   `yaml:"id"`
	Description string  `yaml:"description"`
	TargetValue float64 `yaml:"target_value"`
	StartDate   string  `yaml:"start_date"`
	EndDate     string  `yaml:"end_date"`
	Completed   bool    `yaml:"completed"`
}

type yamlInsights struct {
	Week            string        `yaml:"week,omitempty"`
	WeeklyMinutes   int           `yaml:"weekly_minutes,omitempty"`
	AverageDuration *float64      `yaml:"average_duration_minutes,omitempty"`
	TotalWorkouts   int           `yaml:"total_workouts"`
	MaxLift         *yamlExercise `yaml:"max_lift,omitempty"`
}
