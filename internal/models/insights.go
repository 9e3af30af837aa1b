// ABOUTME: Aggregate report models computed from workouts and exercises.
// ABOUTME: Weekly minutes, max lift, leaderboard rows and the combined insights view.
package models

// WeeklyMinutes is the total workout time of one ISO week.
type WeeklyMinutes struct {
	Year         int `json:"year"`
	Week         int `json:"week"`
	TotalMinutes int `json:"total_minutes"`
}

// MaxLift is the heaviest single weight lifted and the exercise it belongs to.
type MaxLift struct {
	ExerciseName string  `json:"exercise_name"`
	WeightKg     float64 `json:"weight_kg"`
}

// LeaderboardEntry is a friend's total workout minutes this week.
type LeaderboardEntry struct {
	FriendID     int64  `json:"friend_id"`
	Name         string `json:"name"`
	TotalMinutes int    `json:"total_minutes"`
}

// Insights bundles the single-value reports for one user.
// Nil fields mean the report had no data.
type Insights struct {
	WeeklyMinutes   *WeeklyMinutes `json:"weekly_minutes,omitempty"`
	AverageDuration *float64       `json:"average_duration_minutes,omitempty"`
	TotalWorkouts   int            `json:"total_workouts"`
	MaxLift         *MaxLift       `json:"max_lift,omitempty"`
}
