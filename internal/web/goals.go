// ABOUTME: HTTP handlers for goals owned by the session user.
// ABOUTME: Goals of other users are reported as not found.
package web

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/harperreed/fitness/internal/models"
	"github.com/harperreed/fitness/internal/storage"
)

type goalRequest struct {
	Description string   `json:"description"`
	TargetValue *float64 `json:"target_value"`
	StartDate   string   `json:"start_date,omitempty"`
	EndDate     string   `json:"end_date"`
	Completed   *bool    `json:"completed,omitempty"`
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.repo.ListGoals(r.Context(), s.session.UserID)
	if err != nil {
		storageError(w, r, err)
		return
	}
	if goals == nil {
		goals = []*models.Goal{}
	}
	writeJSON(w, http.StatusOK, goals)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Description) == "" || req.TargetValue == nil || req.EndDate == "" {
		jsonError(w, "description, target_value and end_date are required", http.StatusBadRequest)
		return
	}

	start := models.Today()
	if req.StartDate != "" {
		d, err := models.ParseDate(req.StartDate)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		start = d
	}
	end, err := models.ParseDate(req.EndDate)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	g := models.NewGoal(s.session.UserID, req.Description, *req.TargetValue, start, end)
	if req.Completed != nil {
		g.Completed = *req.Completed
	}
	if _, err := s.repo.CreateGoal(r.Context(), g); err != nil {
		storageError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

// handleUpdateGoal applies the fields present in the body to the stored goal.
func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	g, err := s.ownGoal(r.Context(), id)
	if err != nil {
		storageError(w, r, err)
		return
	}

	if strings.TrimSpace(req.Description) != "" {
		g.Description = req.Description
	}
	if req.TargetValue != nil {
		g.TargetValue = *req.TargetValue
	}
	if req.StartDate != "" {
		if g.StartDate, err = models.ParseDate(req.StartDate); err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if req.EndDate != "" {
		if g.EndDate, err = models.ParseDate(req.EndDate); err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if req.Completed != nil {
		g.Completed = *req.Completed
	}

	if err := s.repo.UpdateGoal(r.Context(), g); err != nil {
		storageError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := s.ownGoal(r.Context(), id); err != nil {
		storageError(w, r, err)
		return
	}
	if err := s.repo.DeleteGoal(r.Context(), id); err != nil {
		storageError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) ownGoal(ctx context.Context, id int64) (*models.Goal, error) {
	g, err := s.repo.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.UserID != s.session.UserID {
		return nil, fmt.Errorf("goal %d: %w", id, storage.ErrNotFound)
	}
	return g, nil
}
