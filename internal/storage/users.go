// ABOUTME: User profile CRUD operations.
// ABOUTME: Deleting a user cascades to friends, workouts, exercises and goals.
package storage

import (
	"context"

	"github.com/harperreed/fitness/internal/models"
)

// CreateUser stores a new profile and returns its id.
func (d *DB) CreateUser(ctx context.Context, name string, weightKg float64, email string) (int64, error) {
	conn, err := d.conn(ctx)
	if err != nil {
		return 0, d.fail("create user", err)
	}

	id, err := d.insert(ctx, conn,
		`INSERT INTO users (name, weight_kg, email) VALUES (?, ?, ?)`,
		"user_id", name, weightKg, email)
	if err != nil {
		return 0, d.fail("create user", err)
	}
	return id, nil
}

// GetUser retrieves a profile by id.
func (d *DB) GetUser(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(d.row(ctx, `SELECT user_id, name, weight_kg, email FROM users WHERE user_id = ?`, id))
	if err != nil {
		return nil, d.fail("get user", err)
	}
	return u, nil
}

// ListUsers returns every profile ordered by id.
func (d *DB) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := d.query(ctx, `SELECT user_id, name, weight_kg, email FROM users ORDER BY user_id`)
	if err != nil {
		return nil, d.fail("list users", err)
	}
	defer func() { _ = rows.Close() }()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, d.fail("list users", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, d.fail("list users", err)
	}
	return users, nil
}

// UpdateUser overwrites name, weight and email of an existing profile.
func (d *DB) UpdateUser(ctx context.Context, u *models.User) error {
	err := d.execAffecting(ctx,
		`UPDATE users SET name = ?, weight_kg = ?, email = ? WHERE user_id = ?`,
		u.Name, u.WeightKg, u.Email, u.ID)
	if err != nil {
		return d.fail("update user", err)
	}
	return nil
}

// DeleteUser removes a profile and everything that references it.
func (d *DB) DeleteUser(ctx context.Context, id int64) error {
	if err := d.execAffecting(ctx, `DELETE FROM users WHERE user_id = ?`, id); err != nil {
		return d.fail("delete user", err)
	}
	return nil
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(&u.ID, &u.Name, &u.WeightKg, &u.Email); err != nil {
		return nil, err
	}
	return u, nil
}
