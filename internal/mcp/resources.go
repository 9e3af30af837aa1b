// ABOUTME: MCP resource implementations for the fitness tracker.
// ABOUTME: Provides fitness://profile, fitness://workouts/recent and fitness://insights.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/fitness/internal/models"
)

const recentWorkoutLimit = 10

func (s *Server) registerResources() {
	// fitness://profile - Session user with friends and goals
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "fitness://profile",
		Name:        "Profile",
		Description: "Current user's profile, friends and goals",
		MIMEType:    "application/json",
	}, s.handleProfileResource)

	// fitness://workouts/recent - Last workouts with exercises
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "fitness://workouts/recent",
		Name:        "Recent Workouts",
		Description: "Last 10 workouts with their exercises",
		MIMEType:    "application/json",
	}, s.handleRecentWorkoutsResource)

	// fitness://insights - Reports and leaderboard
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "fitness://insights",
		Name:        "Fitness Insights",
		Description: "Weekly minutes, averages, heaviest lift and this week's friend leaderboard",
		MIMEType:    "application/json",
	}, s.handleInsightsResource)
}

// Resource handlers

func (s *Server) handleProfileResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	u, err := s.repo.GetUser(ctx, s.session.UserID)
	if err != nil {
		return nil, toolError("get profile", err)
	}

	friends, err := s.repo.ListFriends(ctx, s.session.UserID)
	if err != nil {
		return nil, toolError("list friends", err)
	}

	goals, err := s.repo.ListGoals(ctx, s.session.UserID)
	if err != nil {
		return nil, toolError("list goals", err)
	}

	goalDTOs := make([]goalDTO, 0, len(goals))
	for _, g := range goals {
		goalDTOs = append(goalDTOs, toGoalDTO(g))
	}

	result := map[string]interface{}{
		"user":    toUserDTO(u),
		"friends": friends,
		"goals":   goalDTOs,
	}
	return jsonResource("fitness://profile", result)
}

func (s *Server) handleRecentWorkoutsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	entries, err := s.repo.ListWorkoutEntries(ctx, s.session.UserID)
	if err != nil {
		return nil, toolError("list workouts", err)
	}

	workouts := models.GroupWorkouts(entries)
	if len(workouts) > recentWorkoutLimit {
		workouts = workouts[:recentWorkoutLimit]
	}

	dtos := make([]workoutDTO, 0, len(workouts))
	for _, w := range workouts {
		dtos = append(dtos, toWorkoutDTO(w))
	}

	result := map[string]interface{}{
		"workouts": dtos,
		"count":    len(dtos),
	}
	return jsonResource("fitness://workouts/recent", result)
}

func (s *Server) handleInsightsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	ins, err := s.repo.Insights(ctx, s.session.UserID)
	if err != nil {
		return nil, toolError("get insights", err)
	}

	board, err := s.repo.FriendsLeaderboard(ctx, s.session.UserID)
	if err != nil {
		return nil, toolError("get leaderboard", err)
	}

	result := map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"insights":     toInsightsDTO(ins),
		"leaderboard":  board,
	}
	return jsonResource("fitness://insights", result)
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
