// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Calls tool and resource handlers directly against a temporary SQLite database.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/fitness/internal/models"
	"github.com/harperreed/fitness/internal/storage"
)

// setupTestDB creates a test database in a temp directory.
func setupTestDB(t *testing.T) *storage.DB {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "fitness-mcp-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

	dbPath := filepath.Join(tmpDir, "fitness.db")
	db, err := storage.Open(context.Background(), storage.Options{Path: dbPath})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// setupServer creates a server acting for a freshly created user.
func setupServer(t *testing.T) (*Server, *storage.DB, int64) {
	t.Helper()

	db := setupTestDB(t)
	id, err := db.CreateUser(context.Background(), "Alice", 60, "a@x.com")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	server, err := NewServer(db, models.NewSession(id), "test")
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server, db, id
}

func TestNewServer(t *testing.T) {
	db := setupTestDB(t)

	server, err := NewServer(db, models.NewSession(1), "")
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}

	if server == nil {
		t.Fatal("Expected non-nil server")
	}
	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.repo == nil {
		t.Error("Expected non-nil repo")
	}
	if server.session.UserID != 1 {
		t.Errorf("session user = %d, want 1", server.session.UserID)
	}
}

func TestNewServerRequiresRepo(t *testing.T) {
	if _, err := NewServer(nil, models.NewSession(1), "test"); err == nil {
		t.Error("Expected error without repository")
	}
}

func TestHandleGetProfile(t *testing.T) {
	server, _, id := setupServer(t)
	ctx := context.Background()

	_, out, err := server.handleGetProfile(ctx, &mcp.CallToolRequest{}, getProfileInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.User.ID != id || out.User.Name != "Alice" {
		t.Errorf("Unexpected profile: %+v", out.User)
	}

	_, _, err = server.handleGetProfile(ctx, &mcp.CallToolRequest{}, getProfileInput{UserID: 999})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestHandleCreateAndListUsers(t *testing.T) {
	server, _, _ := setupServer(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     createUserInput
		wantErr   bool
		errSubstr string
	}{
		{
			name:  "valid user",
			input: createUserInput{Name: "Bob", WeightKg: 80, Email: "b@x.com"},
		},
		{
			name:      "duplicate email",
			input:     createUserInput{Name: "Other", WeightKg: 70, Email: "a@x.com"},
			wantErr:   true,
			errSubstr: "rejected by the database",
		},
		{
			name:      "missing email",
			input:     createUserInput{Name: "Nobody"},
			wantErr:   true,
			errSubstr: "required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := server.handleCreateUser(ctx, &mcp.CallToolRequest{}, tt.input)

			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("Error %q should contain %q", err.Error(), tt.errSubstr)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if out.ID == 0 || out.Message == "" {
				t.Errorf("Unexpected output: %+v", out)
			}
		})
	}

	_, list, err := server.handleListUsers(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if list.Count != 2 {
		t.Errorf("Expected 2 users, got %d", list.Count)
	}
}

func TestHandleUpdateProfile(t *testing.T) {
	server, db, id := setupServer(t)
	ctx := context.Background()

	weight := 58.0
	_, out, err := server.handleUpdateProfile(ctx, &mcp.CallToolRequest{}, updateProfileInput{WeightKg: &weight})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.User.WeightKg != 58.0 || out.User.Name != "Alice" {
		t.Errorf("Unexpected profile: %+v", out.User)
	}

	u, err := db.GetUser(ctx, id)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if u.WeightKg != 58.0 || u.Email != "a@x.com" {
		t.Errorf("Stored profile not updated correctly: %+v", u)
	}
}

func TestHandleFriends(t *testing.T) {
	server, db, _ := setupServer(t)
	ctx := context.Background()

	bob, err := db.CreateUser(ctx, "Bob", 80, "b@x.com")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if _, _, err := server.handleAddFriend(ctx, &mcp.CallToolRequest{}, friendInput{FriendID: bob}); err != nil {
		t.Fatalf("add friend failed: %v", err)
	}

	_, list, err := server.handleListFriends(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("list friends failed: %v", err)
	}
	if list.Count != 1 || list.Friends[0].Name != "Bob" {
		t.Errorf("Unexpected friends: %+v", list)
	}

	if _, _, err := server.handleRemoveFriend(ctx, &mcp.CallToolRequest{}, friendInput{FriendID: bob}); err != nil {
		t.Fatalf("remove friend failed: %v", err)
	}
	_, _, err = server.handleRemoveFriend(ctx, &mcp.CallToolRequest{}, friendInput{FriendID: bob})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected not found removing twice, got %v", err)
	}
}

func TestHandleLogWorkout(t *testing.T) {
	server, _, _ := setupServer(t)
	ctx := context.Background()

	input := logWorkoutInput{
		Date:            "2024-03-04",
		DurationMinutes: 45,
		Notes:           "leg day",
		Exercises: []exerciseInput{
			{Name: "squat", Sets: 3, Reps: 5, WeightKg: 100},
			{Name: ""},
		},
	}

	_, out, err := server.handleLogWorkout(ctx, &mcp.CallToolRequest{}, input)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.Workout.ID == 0 || out.Workout.Date != "2024-03-04" {
		t.Errorf("Unexpected workout: %+v", out.Workout)
	}
	if len(out.Workout.Exercises) != 1 {
		t.Errorf("Expected 1 stored exercise, got %d", len(out.Workout.Exercises))
	}

	_, history, err := server.handleWorkoutHistory(ctx, &mcp.CallToolRequest{}, historyInput{})
	if err != nil {
		t.Fatalf("workout history failed: %v", err)
	}
	if history.Count != 1 || history.Workouts[0].Notes != "leg day" {
		t.Errorf("Unexpected history: %+v", history)
	}
}

func TestHandleLogWorkoutInvalid(t *testing.T) {
	server, _, _ := setupServer(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input logWorkoutInput
	}{
		{"zero duration", logWorkoutInput{DurationMinutes: 0}},
		{"bad date", logWorkoutInput{DurationMinutes: 30, Date: "yesterday"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := server.handleLogWorkout(ctx, &mcp.CallToolRequest{}, tt.input); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestHandleAddExercise(t *testing.T) {
	server, db, id := setupServer(t)
	ctx := context.Background()

	workoutID, err := db.CreateWorkout(ctx, id, models.Today(), 30, "")
	if err != nil {
		t.Fatalf("CreateWorkout failed: %v", err)
	}

	_, out, err := server.handleAddExercise(ctx, &mcp.CallToolRequest{}, addExerciseInput{
		WorkoutID: workoutID, Name: "bench", Sets: 3, Reps: 8, WeightKg: 60,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.ID == 0 {
		t.Error("Expected exercise id")
	}

	_, _, err = server.handleAddExercise(ctx, &mcp.CallToolRequest{}, addExerciseInput{WorkoutID: 999, Name: "bench"})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected not found error for unknown workout, got %v", err)
	}
}

func TestHandleAddExerciseToOtherUsersWorkout(t *testing.T) {
	server, db, _ := setupServer(t)
	ctx := context.Background()

	bobID, err := db.CreateUser(ctx, "Bob", 80, "b@x.com")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	bobWorkout, err := db.CreateWorkout(ctx, bobID, models.Today(), 30, "")
	if err != nil {
		t.Fatalf("CreateWorkout failed: %v", err)
	}

	_, _, err = server.handleAddExercise(ctx, &mcp.CallToolRequest{}, addExerciseInput{
		WorkoutID: bobWorkout, Name: "squat", Sets: 1, Reps: 1, WeightKg: 999,
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected not found error for another user's workout, got %v", err)
	}

	if _, err := db.MaxWeightLifted(ctx, bobID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected no exercises stored for Bob, got %v", err)
	}
}

func TestHandleWorkoutHistoryLimit(t *testing.T) {
	server, db, id := setupServer(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := db.CreateWorkout(ctx, id, models.Today(), 10+i, ""); err != nil {
			t.Fatalf("CreateWorkout failed: %v", err)
		}
	}

	_, out, err := server.handleWorkoutHistory(ctx, &mcp.CallToolRequest{}, historyInput{Limit: 3})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.Count != 3 {
		t.Errorf("Expected 3 workouts, got %d", out.Count)
	}
}

func TestHandleGoals(t *testing.T) {
	server, _, _ := setupServer(t)
	ctx := context.Background()

	_, created, err := server.handleCreateGoal(ctx, &mcp.CallToolRequest{}, createGoalInput{
		Description: "run 100km",
		TargetValue: 100,
		StartDate:   "2024-01-01",
		EndDate:     "2024-03-31",
	})
	if err != nil {
		t.Fatalf("create goal failed: %v", err)
	}
	goalID := created.Goal.ID

	done := true
	_, updated, err := server.handleUpdateGoal(ctx, &mcp.CallToolRequest{}, updateGoalInput{GoalID: goalID, Completed: &done})
	if err != nil {
		t.Fatalf("update goal failed: %v", err)
	}
	if !updated.Goal.Completed || updated.Goal.Description != "run 100km" || updated.Goal.EndDate != "2024-03-31" {
		t.Errorf("Unexpected updated goal: %+v", updated.Goal)
	}

	_, list, err := server.handleListGoals(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("list goals failed: %v", err)
	}
	if list.Count != 1 || !list.Goals[0].Completed {
		t.Errorf("Unexpected goals: %+v", list)
	}

	if _, _, err := server.handleDeleteGoal(ctx, &mcp.CallToolRequest{}, goalIDInput{GoalID: goalID}); err != nil {
		t.Fatalf("delete goal failed: %v", err)
	}
	_, _, err = server.handleDeleteGoal(ctx, &mcp.CallToolRequest{}, goalIDInput{GoalID: goalID})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected not found deleting twice, got %v", err)
	}
}

func TestHandleGoalOfAnotherUser(t *testing.T) {
	server, db, _ := setupServer(t)
	ctx := context.Background()

	bob, err := db.CreateUser(ctx, "Bob", 80, "b@x.com")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	g := models.NewGoal(bob, "bench 100kg", 100, models.Today(), models.Today().AddDate(0, 1, 0))
	if _, err := db.CreateGoal(ctx, g); err != nil {
		t.Fatalf("CreateGoal failed: %v", err)
	}

	_, _, err = server.handleDeleteGoal(ctx, &mcp.CallToolRequest{}, goalIDInput{GoalID: g.ID})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected not found for another user's goal, got %v", err)
	}
	if _, err := db.GetGoal(ctx, g.ID); err != nil {
		t.Errorf("Goal should still exist: %v", err)
	}
}

func TestHandleInsightsAndLeaderboard(t *testing.T) {
	server, db, id := setupServer(t)
	ctx := context.Background()

	_, empty, err := server.handleGetInsights(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("get insights failed: %v", err)
	}
	if empty.Insights.TotalWorkouts != 0 || empty.Insights.WeeklyMinutes != nil {
		t.Errorf("Expected empty insights, got %+v", empty.Insights)
	}

	bob, err := db.CreateUser(ctx, "B", 80, "b@x.com")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if err := db.AddFriend(ctx, id, bob); err != nil {
		t.Fatalf("AddFriend failed: %v", err)
	}
	if _, err := db.CreateWorkout(ctx, bob, models.Today(), 30, ""); err != nil {
		t.Fatalf("CreateWorkout failed: %v", err)
	}
	if _, err := db.CreateWorkout(ctx, id, models.Today(), 40, ""); err != nil {
		t.Fatalf("CreateWorkout failed: %v", err)
	}

	_, ins, err := server.handleGetInsights(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("get insights failed: %v", err)
	}
	if ins.Insights.TotalWorkouts != 1 || ins.Insights.WeeklyMinutes == nil || ins.Insights.WeeklyMinutes.TotalMinutes != 40 {
		t.Errorf("Unexpected insights: %+v", ins.Insights)
	}

	_, board, err := server.handleLeaderboard(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if board.Count != 1 || board.Entries[0].Name != "B" || board.Entries[0].TotalMinutes != 30 || board.Entries[0].Rank != 1 {
		t.Errorf("Unexpected leaderboard: %+v", board)
	}
}

func TestHandleToolsWhenDatabaseClosed(t *testing.T) {
	server, db, _ := setupServer(t)
	ctx := context.Background()

	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	_, _, err := server.handleListGoals(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if !errors.Is(err, storage.ErrUnavailable) {
		t.Fatalf("Expected unavailable error, got %v", err)
	}
	if !strings.Contains(err.Error(), "try again") {
		t.Errorf("Expected retry hint in %q", err.Error())
	}
}

func TestHandleResources(t *testing.T) {
	server, db, id := setupServer(t)
	ctx := context.Background()

	w := models.NewWorkout(id, 45).AddExercise("squat", 3, 5, 100)
	if _, err := db.LogWorkout(ctx, w); err != nil {
		t.Fatalf("LogWorkout failed: %v", err)
	}

	handlers := map[string]func(context.Context, *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error){
		"fitness://profile":         server.handleProfileResource,
		"fitness://workouts/recent": server.handleRecentWorkoutsResource,
		"fitness://insights":        server.handleInsightsResource,
	}

	for uri, handle := range handlers {
		t.Run(uri, func(t *testing.T) {
			result, err := handle(ctx, &mcp.ReadResourceRequest{})
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if result == nil || len(result.Contents) == 0 {
				t.Fatal("Expected non-empty contents")
			}
			if result.Contents[0].URI != uri {
				t.Errorf("URI = %s, want %s", result.Contents[0].URI, uri)
			}
			if result.Contents[0].MIMEType != "application/json" {
				t.Errorf("MIMEType = %s, want application/json", result.Contents[0].MIMEType)
			}

			var decoded map[string]interface{}
			if err := json.Unmarshal([]byte(result.Contents[0].Text), &decoded); err != nil {
				t.Errorf("Resource text is not JSON: %v", err)
			}
		})
	}
}

func TestHandleRecentWorkoutsResourceContent(t *testing.T) {
	server, db, id := setupServer(t)
	ctx := context.Background()

	d, _ := models.ParseDate("2024-03-04")
	w := models.NewWorkout(id, 45).WithDate(d).AddExercise("squat", 3, 5, 100)
	if _, err := db.LogWorkout(ctx, w); err != nil {
		t.Fatalf("LogWorkout failed: %v", err)
	}

	result, err := server.handleRecentWorkoutsResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var decoded struct {
		Workouts []workoutDTO `json:"workouts"`
		Count    int          `json:"count"`
	}
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &decoded); err != nil {
		t.Fatalf("Resource text is not JSON: %v", err)
	}
	if decoded.Count != 1 || decoded.Workouts[0].Date != "2024-03-04" || len(decoded.Workouts[0].Exercises) != 1 {
		t.Errorf("Unexpected resource content: %+v", decoded)
	}
}
