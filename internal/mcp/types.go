// ABOUTME: Tool input/output shapes and conversions from domain models.
// ABOUTME: Dates cross the MCP boundary as YYYY-MM-DD strings.
package mcp

import (
	"errors"
	"fmt"

	"github.com/harperreed/fitness/internal/models"
	"github.com/harperreed/fitness/internal/storage"
)

type userDTO struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	WeightKg float64 `json:"weight_kg"`
	Email    string  `json:"email"`
}

type friendDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type exerciseDTO struct {
	ID       int64   `json:"id,omitempty"`
	Name     string  `json:"name"`
	Sets     int     `json:"sets"`
	Reps     int     `json:"reps"`
	WeightKg float64 `json:"weight_kg"`
}

type workoutDTO struct {
	ID              int64         `json:"id"`
	Date            string        `json:"date"`
	DurationMinutes int           `json:"duration_minutes"`
	Notes           string        `json:"notes,omitempty"`
	Exercises       []exerciseDTO `json:"exercises,omitempty"`
}

type goalDTO struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	TargetValue float64 `json:"target_value"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Completed   bool    `json:"completed"`
}

type weeklyDTO struct {
	Year         int `json:"year"`
	Week         int `json:"week"`
	TotalMinutes int `json:"total_minutes"`
}

type maxLiftDTO struct {
	ExerciseName string  `json:"exercise_name"`
	WeightKg     float64 `json:"weight_kg"`
}

type leaderboardRowDTO struct {
	Rank         int    `json:"rank"`
	FriendID     int64  `json:"friend_id"`
	Name         string `json:"name"`
	TotalMinutes int    `json:"total_minutes"`
}

type insightsDTO struct {
	WeeklyMinutes   *weeklyDTO  `json:"weekly_minutes,omitempty"`
	AverageDuration *float64    `json:"average_duration_minutes,omitempty"`
	TotalWorkouts   int         `json:"total_workouts"`
	MaxLift         *maxLiftDTO `json:"max_lift,omitempty"`
}

func toUserDTO(u *models.User) userDTO {
	return userDTO{ID: u.ID, Name: u.Name, WeightKg: u.WeightKg, Email: u.Email}
}

func toWorkoutDTO(w *models.Workout) workoutDTO {
	dto := workoutDTO{
		ID:              w.ID,
		Date:            models.FormatDate(w.Date),
		DurationMinutes: w.DurationMinutes,
		Notes:           w.Notes,
	}
	for _, e := range w.Exercises {
		dto.Exercises = append(dto.Exercises, exerciseDTO{
			ID:       e.ID,
			Name:     e.Name,
			Sets:     e.Sets,
			Reps:     e.Reps,
			WeightKg: e.WeightKg,
		})
	}
	return dto
}

func toGoalDTO(g *models.Goal) goalDTO {
	return goalDTO{
		ID:          g.ID,
		Description: g.Description,
		TargetValue: g.TargetValue,
		StartDate:   models.FormatDate(g.StartDate),
		EndDate:     models.FormatDate(g.EndDate),
		Completed:   g.Completed,
	}
}

func toInsightsDTO(ins *models.Insights) insightsDTO {
	dto := insightsDTO{
		AverageDuration: ins.AverageDuration,
		TotalWorkouts:   ins.TotalWorkouts,
	}
	if ins.WeeklyMinutes != nil {
		dto.WeeklyMinutes = &weeklyDTO{
			Year:         ins.WeeklyMinutes.Year,
			Week:         ins.WeeklyMinutes.Week,
			TotalMinutes: ins.WeeklyMinutes.TotalMinutes,
		}
	}
	if ins.MaxLift != nil {
		dto.MaxLift = &maxLiftDTO{ExerciseName: ins.MaxLift.ExerciseName, WeightKg: ins.MaxLift.WeightKg}
	}
	return dto
}

// toolError turns a storage failure into a message an assistant can act on.
func toolError(action string, err error) error {
	switch {
	case errors.Is(err, storage.ErrConstraint):
		return fmt.Errorf("failed to %s: rejected by the database (duplicate or unknown reference): %w", action, err)
	case errors.Is(err, storage.ErrUnavailable):
		return fmt.Errorf("failed to %s: database unavailable, try again: %w", action, err)
	default:
		return fmt.Errorf("failed to %s: %w", action, err)
	}
}
