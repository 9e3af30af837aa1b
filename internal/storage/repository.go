// ABOUTME: Repository interface for fitness data storage.
// ABOUTME: Defines the contract for users, friends, workouts, goals and reports.
package storage

import (
	"context"
	"time"

	"github.com/harperreed/fitness/internal/models"
)

// Repository defines the storage interface for fitness data.
// Presentation layers depend on this rather than on *DB.
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, name string, weightKg float64, email string) (int64, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id int64) error

	// Friend operations
	AddFriend(ctx context.Context, userID, friendID int64) error
	ListFriends(ctx context.Context, userID int64) ([]*models.Friend, error)
	RemoveFriend(ctx context.Context, userID, friendID int64) error

	// Workout and exercise operations
	CreateWorkout(ctx context.Context, userID int64, date time.Time, durationMinutes int, notes string) (int64, error)
	CreateExercise(ctx context.Context, workoutID int64, name string, sets, reps int, weightKg float64) (int64, error)
	LogWorkout(ctx context.Context, w *models.Workout) (int64, error)
	GetWorkout(ctx context.Context, id int64) (*models.Workout, error)
	ListWorkoutEntries(ctx context.Context, userID int64) ([]*models.WorkoutEntry, error)

	// Goal operations
	CreateGoal(ctx context.Context, g *models.Goal) (int64, error)
	GetGoal(ctx context.Context, id int64) (*models.Goal, error)
	ListGoals(ctx context.Context, userID int64) ([]*models.Goal, error)
	UpdateGoal(ctx context.Context, g *models.Goal) error
	DeleteGoal(ctx context.Context, id int64) error

	// Reports
	WeeklyMinutes(ctx context.Context, userID int64) (*models.WeeklyMinutes, error)
	AverageDuration(ctx context.Context, userID int64) (float64, error)
	TotalWorkouts(ctx context.Context, userID int64) (int, error)
	MaxWeightLifted(ctx context.Context, userID int64) (*models.MaxLift, error)
	FriendsLeaderboard(ctx context.Context, userID int64) ([]*models.LeaderboardEntry, error)
	Insights(ctx context.Context, userID int64) (*models.Insights, error)

	// Export
	Snapshot(ctx context.Context, userID int64) (*ExportData, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Driver() string
	Close() error
}
