// ABOUTME: HTTP handlers for user profiles and friend edges.
// ABOUTME: Friend routes act for the session user.
package web

import (
	"net/http"
	"strings"

	"github.com/harperreed/fitness/internal/models"
)

type userRequest struct {
	Name     string  `json:"name"`
	WeightKg float64 `json:"weight_kg"`
	Email    string  `json:"email"`
}

func (req userRequest) validate() string {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		return "name and email are required"
	}
	if req.WeightKg < 0 {
		return "weight_kg must not be negative"
	}
	return ""
}

type friendRequest struct {
	FriendID int64 `json:"friend_id"`
}

type createdResponse struct {
	ID int64 `json:"id"`
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.repo.ListUsers(r.Context())
	if err != nil {
		storageError(w, r, err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if msg := req.validate(); msg != "" {
		jsonError(w, msg, http.StatusBadRequest)
		return
	}

	id, err := s.repo.CreateUser(r.Context(), req.Name, req.WeightKg, req.Email)
	if err != nil {
		storageError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	u, err := s.repo.GetUser(r.Context(), id)
	if err != nil {
		storageError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req userRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if msg := req.validate(); msg != "" {
		jsonError(w, msg, http.StatusBadRequest)
		return
	}

	u := &models.User{ID: id, Name: req.Name, WeightKg: req.WeightKg, Email: req.Email}
	if err := s.repo.UpdateUser(r.Context(), u); err != nil {
		storageError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.repo.DeleteUser(r.Context(), id); err != nil {
		storageError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := s.repo.ListFriends(r.Context(), s.session.UserID)
	if err != nil {
		storageError(w, r, err)
		return
	}
	if friends == nil {
		friends = []*models.Friend{}
	}
	writeJSON(w, http.StatusOK, friends)
}

func (s *Server) handleAddFriend(w http.ResponseWriter, r *http.Request) {
	var req friendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.FriendID <= 0 {
		jsonError(w, "friend_id is required", http.StatusBadRequest)
		return
	}

	if err := s.repo.AddFriend(r.Context(), s.session.UserID, req.FriendID); err != nil {
		storageError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleRemoveFriend(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.repo.RemoveFriend(r.Context(), s.session.UserID, id); err != nil {
		storageError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
