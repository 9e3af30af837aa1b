// ABOUTME: MCP tool implementations for the fitness tracker.
// ABOUTME: Profiles, friends, workouts, goals and insights for the session user.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/fitness/internal/models"
	"github.com/harperreed/fitness/internal/storage"
)

func (s *Server) registerTools() {
	// Profiles
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_profile",
		Description: "Get the current user's profile, or another user's by id",
	}, s.handleGetProfile)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_users",
		Description: "List every user profile",
	}, s.handleListUsers)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_user",
		Description: "Create a new user profile",
	}, s.handleCreateUser)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_profile",
		Description: "Update name, weight or email of the current user",
	}, s.handleUpdateProfile)

	// Friends
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_friend",
		Description: "Add another user to the current user's friend list",
	}, s.handleAddFriend)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_friends",
		Description: "List the current user's friends",
	}, s.handleListFriends)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "remove_friend",
		Description: "Remove a user from the current user's friend list",
	}, s.handleRemoveFriend)

	// Workouts
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_workout",
		Description: "Log a workout with its exercises in one step",
	}, s.handleLogWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_exercise",
		Description: "Add an exercise to one of the current user's workouts",
	}, s.handleAddExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "workout_history",
		Description: "List the current user's workouts with exercises, newest first",
	}, s.handleWorkoutHistory)

	// Goals
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_goal",
		Description: "Create a goal with a target value and date range",
	}, s.handleCreateGoal)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_goals",
		Description: "List the current user's goals by end date",
	}, s.handleListGoals)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_goal",
		Description: "Update a goal or mark it completed",
	}, s.handleUpdateGoal)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_goal",
		Description: "Delete a goal",
	}, s.handleDeleteGoal)

	// Reports
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_insights",
		Description: "Weekly minutes, average duration, total workouts and heaviest lift",
	}, s.handleGetInsights)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "leaderboard",
		Description: "Rank friends by workout minutes this week",
	}, s.handleLeaderboard)
}

// Tool input/output types

type emptyInput struct{}

type simpleOutput struct {
	Message string `json:"message"`
}

type createdOutput struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

type getProfileInput struct {
	UserID int64 `json:"user_id,omitempty" jsonschema:"User id; defaults to the current user"`
}

type profileOutput struct {
	User userDTO `json:"user"`
}

type usersOutput struct {
	Users []userDTO `json:"users"`
	Count int       `json:"count"`
}

type createUserInput struct {
	Name     string  `json:"name" jsonschema:"Display name"`
	WeightKg float64 `json:"weight_kg" jsonschema:"Body weight in kilograms"`
	Email    string  `json:"email" jsonschema:"Email address; must be unique"`
}

type updateProfileInput struct {
	Name     string   `json:"name,omitempty" jsonschema:"New display name"`
	WeightKg *float64 `json:"weight_kg,omitempty" jsonschema:"New body weight in kilograms"`
	Email    string   `json:"email,omitempty" jsonschema:"New email address"`
}

type friendInput struct {
	FriendID int64 `json:"friend_id" jsonschema:"User id of the friend"`
}

type friendsOutput struct {
	Friends []friendDTO `json:"friends"`
	Count   int         `json:"count"`
}

type exerciseInput struct {
	Name     string  `json:"name" jsonschema:"Exercise name such as squat or bench press"`
	Sets     int     `json:"sets,omitempty" jsonschema:"Number of sets"`
	Reps     int     `json:"reps,omitempty" jsonschema:"Repetitions per set"`
	WeightKg float64 `json:"weight_kg,omitempty" jsonschema:"Weight lifted in kilograms"`
}

type logWorkoutInput struct {
	Date            string          `json:"date,omitempty" jsonschema:"Workout date as YYYY-MM-DD; defaults to today"`
	DurationMinutes int             `json:"duration_minutes" jsonschema:"Duration in minutes"`
	Notes           string          `json:"notes,omitempty" jsonschema:"Workout notes"`
	Exercises       []exerciseInput `json:"exercises,omitempty" jsonschema:"Exercises performed"`
}

type workoutOutput struct {
	Workout workoutDTO `json:"workout"`
	Message string     `json:"message"`
}

type addExerciseInput struct {
	WorkoutID int64   `json:"workout_id" jsonschema:"Workout id"`
	Name      string  `json:"name" jsonschema:"Exercise name such as squat or bench press"`
	Sets      int     `json:"sets,omitempty" jsonschema:"Number of sets"`
	Reps      int     `json:"reps,omitempty" jsonschema:"Repetitions per set"`
	WeightKg  float64 `json:"weight_kg,omitempty" jsonschema:"Weight lifted in kilograms"`
}

type historyInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max workouts (default 20)"`
}

type historyOutput struct {
	Workouts []workoutDTO `json:"workouts"`
	Count    int          `json:"count"`
}

type createGoalInput struct {
	Description string  `json:"description" jsonschema:"What the goal is"`
	TargetValue float64 `json:"target_value" jsonschema:"Numeric target"`
	StartDate   string  `json:"start_date,omitempty" jsonschema:"Start date as YYYY-MM-DD; defaults to today"`
	EndDate     string  `json:"end_date" jsonschema:"End date as YYYY-MM-DD"`
}

type goalOutput struct {
	Goal    goalDTO `json:"goal"`
	Message string  `json:"message"`
}

type goalsOutput struct {
	Goals []goalDTO `json:"goals"`
	Count int       `json:"count"`
}

type updateGoalInput struct {
	GoalID      int64    `json:"goal_id" jsonschema:"Goal id"`
	Description string   `json:"description,omitempty" jsonschema:"New description"`
	TargetValue *float64 `json:"target_value,omitempty" jsonschema:"New target value"`
	StartDate   string   `json:"start_date,omitempty" jsonschema:"New start date as YYYY-MM-DD"`
	EndDate     string   `json:"end_date,omitempty" jsonschema:"New end date as YYYY-MM-DD"`
	Completed   *bool    `json:"completed,omitempty" jsonschema:"Completion flag"`
}

type goalIDInput struct {
	GoalID int64 `json:"goal_id" jsonschema:"Goal id"`
}

type insightsOutput struct {
	Insights insightsDTO `json:"insights"`
}

type leaderboardOutput struct {
	Entries []leaderboardRowDTO `json:"entries"`
	Count   int                 `json:"count"`
}

// Tool handlers

func (s *Server) handleGetProfile(ctx context.Context, req *mcp.CallToolRequest, input getProfileInput) (*mcp.CallToolResult, profileOutput, error) {
	id := input.UserID
	if id == 0 {
		id = s.session.UserID
	}

	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, profileOutput{}, toolError("get profile", err)
	}
	return nil, profileOutput{User: toUserDTO(u)}, nil
}

func (s *Server) handleListUsers(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, usersOutput, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, usersOutput{}, toolError("list users", err)
	}

	out := usersOutput{Users: make([]userDTO, 0, len(users)), Count: len(users)}
	for _, u := range users {
		out.Users = append(out.Users, toUserDTO(u))
	}
	return nil, out, nil
}

func (s *Server) handleCreateUser(ctx context.Context, req *mcp.CallToolRequest, input createUserInput) (*mcp.CallToolResult, createdOutput, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" {
		return nil, createdOutput{}, fmt.Errorf("name and email are required")
	}

	id, err := s.repo.CreateUser(ctx, input.Name, input.WeightKg, input.Email)
	if err != nil {
		return nil, createdOutput{}, toolError("create user", err)
	}
	return nil, createdOutput{
		ID:      id,
		Message: fmt.Sprintf("Created user %s (ID: %d)", input.Name, id),
	}, nil
}

func (s *Server) handleUpdateProfile(ctx context.Context, req *mcp.CallToolRequest, input updateProfileInput) (*mcp.CallToolResult, profileOutput, error) {
	u, err := s.repo.GetUser(ctx, s.session.UserID)
	if err != nil {
		return nil, profileOutput{}, toolError("update profile", err)
	}

	if input.Name != "" {
		u.Name = input.Name
	}
	if input.WeightKg != nil {
		u.WeightKg = *input.WeightKg
	}
	if input.Email != "" {
		u.Email = input.Email
	}

	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return nil, profileOutput{}, toolError("update profile", err)
	}
	return nil, profileOutput{User: toUserDTO(u)}, nil
}

func (s *Server) handleAddFriend(ctx context.Context, req *mcp.CallToolRequest, input friendInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.repo.AddFriend(ctx, s.session.UserID, input.FriendID); err != nil {
		return nil, simpleOutput{}, toolError("add friend", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Added friend %d", input.FriendID)}, nil
}

func (s *Server) handleListFriends(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, friendsOutput, error) {
	friends, err := s.repo.ListFriends(ctx, s.session.UserID)
	if err != nil {
		return nil, friendsOutput{}, toolError("list friends", err)
	}

	out := friendsOutput{Friends: make([]friendDTO, 0, len(friends)), Count: len(friends)}
	for _, f := range friends {
		out.Friends = append(out.Friends, friendDTO{ID: f.ID, Name: f.Name, Email: f.Email})
	}
	return nil, out, nil
}

func (s *Server) handleRemoveFriend(ctx context.Context, req *mcp.CallToolRequest, input friendInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.repo.RemoveFriend(ctx, s.session.UserID, input.FriendID); err != nil {
		return nil, simpleOutput{}, toolError("remove friend", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Removed friend %d", input.FriendID)}, nil
}

func (s *Server) handleLogWorkout(ctx context.Context, req *mcp.CallToolRequest, input logWorkoutInput) (*mcp.CallToolResult, workoutOutput, error) {
	if input.DurationMinutes <= 0 {
		return nil, workoutOutput{}, fmt.Errorf("duration_minutes must be positive")
	}

	w := models.NewWorkout(s.session.UserID, input.DurationMinutes).WithNotes(input.Notes)
	if input.Date != "" {
		d, err := models.ParseDate(input.Date)
		if err != nil {
			return nil, workoutOutput{}, err
		}
		w.WithDate(d)
	}
	for _, e := range input.Exercises {
		w.AddExercise(e.Name, e.Sets, e.Reps, e.WeightKg)
	}

	id, err := s.repo.LogWorkout(ctx, w)
	if err != nil {
		return nil, workoutOutput{}, toolError("log workout", err)
	}

	return nil, workoutOutput{
		Workout: toWorkoutDTO(w),
		Message: fmt.Sprintf("Logged %d min workout on %s with %d exercises (ID: %d)",
			w.DurationMinutes, models.FormatDate(w.Date), len(w.Exercises), id),
	}, nil
}

func (s *Server) handleAddExercise(ctx context.Context, req *mcp.CallToolRequest, input addExerciseInput) (*mcp.CallToolResult, createdOutput, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, createdOutput{}, fmt.Errorf("exercise name is required")
	}
	if _, err := s.ownWorkout(ctx, input.WorkoutID); err != nil {
		return nil, createdOutput{}, toolError("add exercise", err)
	}

	id, err := s.repo.CreateExercise(ctx, input.WorkoutID, input.Name, input.Sets, input.Reps, input.WeightKg)
	if err != nil {
		return nil, createdOutput{}, toolError("add exercise", err)
	}
	return nil, createdOutput{
		ID:      id,
		Message: fmt.Sprintf("Added %s to workout %d (ID: %d)", input.Name, input.WorkoutID, id),
	}, nil
}

func (s *Server) handleWorkoutHistory(ctx context.Context, req *mcp.CallToolRequest, input historyInput) (*mcp.CallToolResult, historyOutput, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	entries, err := s.repo.ListWorkoutEntries(ctx, s.session.UserID)
	if err != nil {
		return nil, historyOutput{}, toolError("list workouts", err)
	}

	workouts := models.GroupWorkouts(entries)
	if len(workouts) > input.Limit {
		workouts = workouts[:input.Limit]
	}

	out := historyOutput{Workouts: make([]workoutDTO, 0, len(workouts)), Count: len(workouts)}
	for _, w := range workouts {
		out.Workouts = append(out.Workouts, toWorkoutDTO(w))
	}
	return nil, out, nil
}

func (s *Server) handleCreateGoal(ctx context.Context, req *mcp.CallToolRequest, input createGoalInput) (*mcp.CallToolResult, goalOutput, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, goalOutput{}, fmt.Errorf("description is required")
	}

	start := models.Today()
	if input.StartDate != "" {
		d, err := models.ParseDate(input.StartDate)
		if err != nil {
			return nil, goalOutput{}, err
		}
		start = d
	}
	end, err := models.ParseDate(input.EndDate)
	if err != nil {
		return nil, goalOutput{}, err
	}

	g := models.NewGoal(s.session.UserID, input.Description, input.TargetValue, start, end)
	if _, err := s.repo.CreateGoal(ctx, g); err != nil {
		return nil, goalOutput{}, toolError("create goal", err)
	}
	return nil, goalOutput{
		Goal:    toGoalDTO(g),
		Message: fmt.Sprintf("Created goal %q (ID: %d)", g.Description, g.ID),
	}, nil
}

func (s *Server) handleListGoals(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, goalsOutput, error) {
	goals, err := s.repo.ListGoals(ctx, s.session.UserID)
	if err != nil {
		return nil, goalsOutput{}, toolError("list goals", err)
	}

	out := goalsOutput{Goals: make([]goalDTO, 0, len(goals)), Count: len(goals)}
	for _, g := range goals {
		out.Goals = append(out.Goals, toGoalDTO(g))
	}
	return nil, out, nil
}

func (s *Server) handleUpdateGoal(ctx context.Context, req *mcp.CallToolRequest, input updateGoalInput) (*mcp.CallToolResult, goalOutput, error) {
	g, err := s.ownGoal(ctx, input.GoalID)
	if err != nil {
		return nil, goalOutput{}, toolError("update goal", err)
	}

	if input.Description != "" {
		g.Description = input.Description
	}
	if input.TargetValue != nil {
		g.TargetValue = *input.TargetValue
	}
	if input.StartDate != "" {
		if g.StartDate, err = models.ParseDate(input.StartDate); err != nil {
			return nil, goalOutput{}, err
		}
	}
	if input.EndDate != "" {
		if g.EndDate, err = models.ParseDate(input.EndDate); err != nil {
			return nil, goalOutput{}, err
		}
	}
	if input.Completed != nil {
		g.Completed = *input.Completed
	}

	if err := s.repo.UpdateGoal(ctx, g); err != nil {
		return nil, goalOutput{}, toolError("update goal", err)
	}
	return nil, goalOutput{
		Goal:    toGoalDTO(g),
		Message: fmt.Sprintf("Updated goal %d", g.ID),
	}, nil
}

func (s *Server) handleDeleteGoal(ctx context.Context, req *mcp.CallToolRequest, input goalIDInput) (*mcp.CallToolResult, simpleOutput, error) {
	if _, err := s.ownGoal(ctx, input.GoalID); err != nil {
		return nil, simpleOutput{}, toolError("delete goal", err)
	}
	if err := s.repo.DeleteGoal(ctx, input.GoalID); err != nil {
		return nil, simpleOutput{}, toolError("delete goal", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted goal %d", input.GoalID)}, nil
}

// ownGoal fetches a goal and hides goals of other users behind ErrNotFound.
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

// ownWorkout fetches a workout and hides workouts of other users behind ErrNotFound.
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

func (s *Server) handleGetInsights(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, insightsOutput, error) {
	ins, err := s.repo.Insights(ctx, s.session.UserID)
	if err != nil {
		return nil, insightsOutput{}, toolError("get insights", err)
	}
	return nil, insightsOutput{Insights: toInsightsDTO(ins)}, nil
}

func (s *Server) handleLeaderboard(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, leaderboardOutput, error) {
	board, err := s.repo.FriendsLeaderboard(ctx, s.session.UserID)
	if err != nil {
		return nil, leaderboardOutput{}, toolError("get leaderboard", err)
	}

	out := leaderboardOutput{Entries: make([]leaderboardRowDTO, 0, len(board)), Count: len(board)}
	for i, e := range board {
		out.Entries = append(out.Entries, leaderboardRowDTO{
			Rank:         i + 1,
			FriendID:     e.FriendID,
			Name:         e.Name,
			TotalMinutes: e.TotalMinutes,
		})
	}
	return nil, out, nil
}
