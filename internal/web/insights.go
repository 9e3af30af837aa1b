// ABOUTME: HTTP handlers for reports on the session user.
// ABOUTME: Serves combined insights and this week's friend leaderboard.
package web

import (
	"net/http"

	"github.com/harperreed/fitness/internal/models"
)

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	ins, err := s.repo.Insights(r.Context(), s.session.UserID)
	if err != nil {
		storageError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ins)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := s.repo.FriendsLeaderboard(r.Context(), s.session.UserID)
	if err != nil {
		storageError(w, r, err)
		return
	}
	if board == nil {
		board = []*models.LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, board)
}
