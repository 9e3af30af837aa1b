// ABOUTME: Goal model with a target value and a date window.
// ABOUTME: Goals have a full create/read/update/delete lifecycle.
package models

import "time"

// Goal is a user target such as "run 100 km" between two dates.
type Goal struct {
	ID          int64     `json:"id" yaml:"id"`
	UserID      int64     `json:"user_id" yaml:"user_id"`
	Description string    `json:"description" yaml:"description"`
	TargetValue float64   `json:"target_value" yaml:"target_value"`
	StartDate   time.Time `json:"start_date" yaml:"start_date"`
	EndDate     time.Time `json:"end_date" yaml:"end_date"`
	Completed   bool      `json:"completed" yaml:"completed"`
}

// NewGoal creates an open goal between start and end.
func NewGoal(userID int64, description string, target float64, start, end time.Time) *Goal {
	return &Goal{
		UserID:      userID,
		Description: description,
		TargetValue: target,
		StartDate:   Date(start),
		EndDate:     Date(end),
	}
}
