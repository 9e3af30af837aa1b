// ABOUTME: HTTP handlers for workout logging and history.
// ABOUTME: A posted workout and its exercises are stored in one transaction.
package web

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/harperreed/fitness/internal/models"
	"github.com/harperreed/fitness/internal/storage"
)

type exerciseRequest struct {
	Name     string  `json:"name"`
	Sets     int     `json:"sets"`
	Reps     int     `json:"reps"`
	WeightKg float64 `json:"weight_kg"`
}

type workoutRequest struct {
	Date            string            `json:"date,omitempty"`
	DurationMinutes int               `json:"duration_minutes"`
	Notes           string            `json:"notes,omitempty"`
	Exercises       []exerciseRequest `json:"exercises,omitempty"`
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := s.repo.ListWorkoutEntries(r.Context(), s.session.UserID)
	if err != nil {
		storageError(w, r, err)
		return
	}

	workouts := models.GroupWorkouts(entries)
	if workouts == nil {
		workouts = []*models.Workout{}
	}
	if limit > 0 && len(workouts) > limit {
		workouts = workouts[:limit]
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleLogWorkout(w http.ResponseWriter, r *http.Request) {
	var req workoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.DurationMinutes <= 0 {
		jsonError(w, "duration_minutes must be positive", http.StatusBadRequest)
		return
	}

	workout := models.NewWorkout(s.session.UserID, req.DurationMinutes).WithNotes(req.Notes)
	if req.Date != "" {
		d, err := models.ParseDate(req.Date)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		workout.WithDate(d)
	}
	for _, e := range req.Exercises {
		workout.AddExercise(e.Name, e.Sets, e.Reps, e.WeightKg)
	}

	if _, err := s.repo.LogWorkout(r.Context(), workout); err != nil {
		storageError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, workout)
}

func (s *Server) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	workoutID, err := pathID(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req exerciseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		jsonError(w, "exercise name is required", http.StatusBadRequest)
		return
	}
	if _, err := s.ownWorkout(r.Context(), workoutID); err != nil {
		storageError(w, r, err)
		return
	}

	id, err := s.repo.CreateExercise(r.Context(), workoutID, req.Name, req.Sets, req.Reps, req.WeightKg)
	if err != nil {
		storageError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

// ownWorkout fetches a workout of the session user; other users' workouts are not found.
func (s *Server) ownWorkout(ctx context.Context, id int64) (*models.Workout, error) {
	w, err := s.repo.GetWorkout(ctx, id)
	if err != nil {
		return nil, err
	}
	if w.UserID != s.session.UserID {
		return nil, fmt.Errorf("workout %d: %w", id, storage.ErrNotFound)
	}
	return w, nil
}
