// ABOUTME: User profile and friend models.
// ABOUTME: Users are the root entity; friend edges point from a user to another user.
package models

// User is a tracker profile.
type User struct {
	ID       int64   `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	WeightKg float64 `json:"weight_kg" yaml:"weight_kg"`
	Email    string  `json:"email" yaml:"email"`
}

// NewUser creates a User that has not been stored yet.
func NewUser(name string, weightKg float64, email string) *User {
	return &User{
		Name:     name,
		WeightKg: weightKg,
		Email:    email,
	}
}

// Friend is the target side of a directed friend edge as shown in listings.
type Friend struct {
	ID    int64  `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

// Session carries the identity a presentation layer acts for.
type Session struct {
	UserID int64
}

// NewSession returns a session for the given user id.
func NewSession(userID int64) Session {
	return Session{UserID: userID}
}
