// ABOUTME: Tests for the HTTP JSON API.
// ABOUTME: Drives the chi router with httptest against a temporary SQLite database.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/fitness/internal/models"
	"github.com/harperreed/fitness/internal/storage"
)

func setupServer(t *testing.T) (*Server, *storage.DB, int64) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "fitness.db")
	db, err := storage.Open(context.Background(), storage.Options{Path: dbPath})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	id, err := db.CreateUser(context.Background(), "Alice", 60, "a@x.com")
	require.NoError(t, err)

	return NewServer(db, models.NewSession(id)), db, id
}

func doRequest(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s, db, _ := setupServer(t)

	rec := doRequest(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, storage.DriverSQLite, body["driver"])

	require.NoError(t, db.Close())
	rec = doRequest(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUserRoutes(t *testing.T) {
	s, _, aliceID := setupServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/users", userRequest{Name: "Bob", WeightKg: 80, Email: "b@x.com"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[createdResponse](t, rec)
	assert.Greater(t, created.ID, aliceID)

	rec = doRequest(t, s, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decode[[]models.User](t, rec)
	require.Len(t, users, 2)
	assert.Equal(t, "Alice", users[0].Name)
	assert.Equal(t, "Bob", users[1].Name)

	path := "/api/users/" + itoa(created.ID)
	rec = doRequest(t, s, http.MethodPut, path, userRequest{Name: "Robert", WeightKg: 78.5, Email: "b@x.com"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(t, s, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	u := decode[models.User](t, rec)
	assert.Equal(t, "Robert", u.Name)
	assert.InDelta(t, 78.5, u.WeightKg, 0.001)

	rec = doRequest(t, s, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, s, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserRouteErrors(t *testing.T) {
	s, _, _ := setupServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"duplicate email", http.MethodPost, "/api/users", userRequest{Name: "Eve", Email: "a@x.com"}, http.StatusConflict},
		{"missing name", http.MethodPost, "/api/users", userRequest{Email: "e@x.com"}, http.StatusBadRequest},
		{"negative weight", http.MethodPost, "/api/users", userRequest{Name: "Eve", WeightKg: -1, Email: "e@x.com"}, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/api/users", map[string]any{"name": "Eve", "email": "e@x.com", "age": 3}, http.StatusBadRequest},
		{"bad id", http.MethodGet, "/api/users/abc", nil, http.StatusBadRequest},
		{"unknown user", http.MethodGet, "/api/users/999", nil, http.StatusNotFound},
		{"update unknown", http.MethodPut, "/api/users/999", userRequest{Name: "X", Email: "x@x.com"}, http.StatusNotFound},
		{"delete unknown", http.MethodDelete, "/api/users/999", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode[errorResponse](t, rec).Error)
		})
	}
}

func TestFriendRoutes(t *testing.T) {
	s, db, _ := setupServer(t)
	ctx := context.Background()

	bobID, err := db.CreateUser(ctx, "Bob", 80, "b@x.com")
	require.NoError(t, err)

	rec := doRequest(t, s, http.MethodPost, "/api/friends", friendRequest{FriendID: bobID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(t, s, http.MethodPost, "/api/friends", friendRequest{FriendID: bobID})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/api/friends", friendRequest{FriendID: 999})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/friends", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	friends := decode[[]models.Friend](t, rec)
	require.Len(t, friends, 1)
	assert.Equal(t, "Bob", friends[0].Name)

	rec = doRequest(t, s, http.MethodDelete, "/api/friends/"+itoa(bobID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, s, http.MethodDelete, "/api/friends/"+itoa(bobID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/friends", nil)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestWorkoutRoutes(t *testing.T) {
	s, _, aliceID := setupServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/workouts", workoutRequest{
		Date:            "2024-03-04",
		DurationMinutes: 45,
		Notes:           "legs",
		Exercises: []exerciseRequest{
			{Name: "squat", Sets: 3, Reps: 5, WeightKg: 100},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	logged := decode[models.Workout](t, rec)
	assert.NotZero(t, logged.ID)
	assert.Equal(t, aliceID, logged.UserID)
	require.Len(t, logged.Exercises, 1)
	assert.NotZero(t, logged.Exercises[0].ID)

	rec = doRequest(t, s, http.MethodPost, "/api/workouts/"+itoa(logged.ID)+"/exercises",
		exerciseRequest{Name: "lunge", Sets: 2, Reps: 10, WeightKg: 20})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(t, s, http.MethodPost, "/api/workouts", workoutRequest{Date: "2024-03-05", DurationMinutes: 20})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/workouts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	workouts := decode[[]models.Workout](t, rec)
	require.Len(t, workouts, 2)
	assert.Equal(t, "2024-03-05", models.FormatDate(workouts[0].Date))
	assert.Empty(t, workouts[0].Exercises)
	require.Len(t, workouts[1].Exercises, 2)
	assert.Equal(t, "squat", workouts[1].Exercises[0].Name)
	assert.Equal(t, "lunge", workouts[1].Exercises[1].Name)

	rec = doRequest(t, s, http.MethodGet, "/api/workouts?limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Workout](t, rec), 1)
}

func TestWorkoutRouteErrors(t *testing.T) {
	s, _, _ := setupServer(t)

	tests := []struct {
		name string
		path string
		body any
		want int
	}{
		{"zero duration", "/api/workouts", workoutRequest{DurationMinutes: 0}, http.StatusBadRequest},
		{"bad date", "/api/workouts", workoutRequest{Date: "03/04/2024", DurationMinutes: 10}, http.StatusBadRequest},
		{"exercise without name", "/api/workouts/1/exercises", exerciseRequest{Sets: 1}, http.StatusBadRequest},
		{"exercise on unknown workout", "/api/workouts/999/exercises", exerciseRequest{Name: "curl"}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}

	rec := doRequest(t, s, http.MethodGet, "/api/workouts?limit=-2", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogWorkoutDropsBlankExercises(t *testing.T) {
	s, _, _ := setupServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/workouts", workoutRequest{
		DurationMinutes: 30,
		Exercises:       []exerciseRequest{{Name: ""}, {Name: "row", Sets: 3, Reps: 10, WeightKg: 40}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	logged := decode[models.Workout](t, rec)
	require.Len(t, logged.Exercises, 1)
	assert.Equal(t, "row", logged.Exercises[0].Name)
	assert.NotZero(t, logged.Exercises[0].ID)
}

func TestAddExerciseToOtherUsersWorkout(t *testing.T) {
	s, db, _ := setupServer(t)
	ctx := context.Background()

	bobID, err := db.CreateUser(ctx, "Bob", 80, "b@x.com")
	require.NoError(t, err)
	bobWorkout, err := db.CreateWorkout(ctx, bobID, models.Today(), 30, "")
	require.NoError(t, err)

	rec := doRequest(t, s, http.MethodPost, "/api/workouts/"+itoa(bobWorkout)+"/exercises",
		exerciseRequest{Name: "squat", Sets: 1, Reps: 1, WeightKg: 999})
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())

	_, err = db.MaxWeightLifted(ctx, bobID)
	assert.ErrorIs(t, err, storage.ErrNotFound, "no exercise may be stored on Bob's workout")
}

func TestGoalRoutes(t *testing.T) {
	s, db, _ := setupServer(t)
	target := 100.0

	rec := doRequest(t, s, http.MethodPost, "/api/goals", goalRequest{
		Description: "run 100 km",
		TargetValue: &target,
		StartDate:   "2024-01-01",
		EndDate:     "2024-06-30",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	goal := decode[models.Goal](t, rec)
	assert.NotZero(t, goal.ID)
	assert.False(t, goal.Completed)

	done := true
	path := "/api/goals/" + itoa(goal.ID)
	rec = doRequest(t, s, http.MethodPut, path, goalRequest{Completed: &done})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(t, s, http.MethodGet, "/api/goals", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	goals := decode[[]models.Goal](t, rec)
	require.Len(t, goals, 1)
	assert.True(t, goals[0].Completed)
	assert.Equal(t, "run 100 km", goals[0].Description)
	assert.Equal(t, "2024-06-30", models.FormatDate(goals[0].EndDate))

	// Goals of other users are invisible
	ctx := context.Background()
	bobID, err := db.CreateUser(ctx, "Bob", 80, "b@x.com")
	require.NoError(t, err)
	bobGoal := models.NewGoal(bobID, "swim", 10, time.Now(), time.Now().AddDate(0, 1, 0))
	_, err = db.CreateGoal(ctx, bobGoal)
	require.NoError(t, err)

	rec = doRequest(t, s, http.MethodDelete, "/api/goals/"+itoa(bobGoal.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	_, err = db.GetGoal(ctx, bobGoal.ID)
	assert.NoError(t, err)

	rec = doRequest(t, s, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = doRequest(t, s, http.MethodPut, path, goalRequest{Completed: &done})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateGoalRequiresFields(t *testing.T) {
	s, _, _ := setupServer(t)
	target := 5.0

	rec := doRequest(t, s, http.MethodPost, "/api/goals", goalRequest{Description: "x", TargetValue: &target})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/api/goals", goalRequest{Description: "x", TargetValue: &target, EndDate: "June"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInsightsAndLeaderboard(t *testing.T) {
	s, db, aliceID := setupServer(t)
	ctx := context.Background()

	rec := doRequest(t, s, http.MethodGet, "/api/insights", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	empty := decode[models.Insights](t, rec)
	assert.Zero(t, empty.TotalWorkouts)
	assert.Nil(t, empty.WeeklyMinutes)

	bobID, err := db.CreateUser(ctx, "Bob", 80, "b@x.com")
	require.NoError(t, err)
	require.NoError(t, db.AddFriend(ctx, aliceID, bobID))

	_, err = db.LogWorkout(ctx, models.NewWorkout(bobID, 30).AddExercise("row", 1, 1, 0))
	require.NoError(t, err)
	_, err = db.LogWorkout(ctx, models.NewWorkout(aliceID, 40).AddExercise("bench", 3, 5, 70))
	require.NoError(t, err)

	rec = doRequest(t, s, http.MethodGet, "/api/insights", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ins := decode[models.Insights](t, rec)
	assert.Equal(t, 1, ins.TotalWorkouts)
	require.NotNil(t, ins.MaxLift)
	assert.Equal(t, "bench", ins.MaxLift.ExerciseName)

	rec = doRequest(t, s, http.MethodGet, "/api/leaderboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	board := decode[[]models.LeaderboardEntry](t, rec)
	require.Len(t, board, 1)
	assert.Equal(t, bobID, board[0].FriendID)
	assert.Equal(t, 30, board[0].TotalMinutes)
}

func TestClosedDatabaseIsServiceUnavailable(t *testing.T) {
	s, db, _ := setupServer(t)
	require.NoError(t, db.Close())

	for _, path := range []string{"/api/users", "/api/workouts", "/api/goals", "/api/insights", "/api/leaderboard"} {
		t.Run(path, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodGet, path, nil)
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code, rec.Body.String())
		})
	}
}

func TestStartShutsDownOnCancel(t *testing.T) {
	s, _, _ := setupServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
