// ABOUTME: Goal CRUD operations.
// ABOUTME: Goals are listed by end date so the next deadline comes first.
package storage

import (
	"context"

	"github.com/harperreed/fitness/internal/models"
)

const goalColumns = `goal_id, user_id, description, target_value, start_date, end_date, is_completed`

// CreateGoal stores g and returns its id. The id is also written back to g.
func (d *DB) CreateGoal(ctx context.Context, g *models.Goal) (int64, error) {
	conn, err := d.conn(ctx)
	if err != nil {
		return 0, d.fail("create goal", err)
	}

	id, err := d.insert(ctx, conn, `
		INSERT INTO goals (user_id, description, target_value, start_date, end_date, is_completed)
		VALUES (?, ?, ?, ?, ?, ?)`,
		"goal_id",
		g.UserID, g.Description, g.TargetValue, dateArg(g.StartDate), dateArg(g.EndDate), g.Completed)
	if err != nil {
		return 0, d.fail("create goal", err)
	}
	g.ID = id
	return id, nil
}

// GetGoal retrieves a goal by id.
func (d *DB) GetGoal(ctx context.Context, id int64) (*models.Goal, error) {
	g, err := scanGoal(d.row(ctx, `SELECT `+goalColumns+` FROM goals WHERE goal_id = ?`, id))
	if err != nil {
		return nil, d.fail("get goal", err)
	}
	return g, nil
}

// ListGoals returns the user's goals ordered by end date, then id.
func (d *DB) ListGoals(ctx context.Context, userID int64) ([]*models.Goal, error) {
	rows, err := d.query(ctx, `
		SELECT `+goalColumns+`
		FROM goals
		WHERE user_id = ?
		ORDER BY end_date ASC, goal_id ASC
	`, userID)
	if err != nil {
		return nil, d.fail("list goals", err)
	}
	defer func() { _ = rows.Close() }()

	var goals []*models.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, d.fail("list goals", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, d.fail("list goals", err)
	}
	return goals, nil
}

// UpdateGoal overwrites every editable field of an existing goal.
func (d *DB) UpdateGoal(ctx context.Context, g *models.Goal) error {
	err := d.execAffecting(ctx, `
		UPDATE goals
		SET description = ?, target_value = ?, start_date = ?, end_date = ?, is_completed = ?
		WHERE goal_id = ?`,
		g.Description, g.TargetValue, dateArg(g.StartDate), dateArg(g.EndDate), g.Completed, g.ID)
	if err != nil {
		return d.fail("update goal", err)
	}
	return nil
}

// DeleteGoal removes a goal.
func (d *DB) DeleteGoal(ctx context.Context, id int64) error {
	if err := d.execAffecting(ctx, `DELETE FROM goals WHERE goal_id = ?`, id); err != nil {
		return d.fail("delete goal", err)
	}
	return nil
}

func scanGoal(row rowScanner) (*models.Goal, error) {
	g := &models.Goal{}
	err := row.Scan(&g.ID, &g.UserID, &g.Description, &g.TargetValue,
		scanDate(&g.StartDate), scanDate(&g.EndDate), &g.Completed)
	if err != nil {
		return nil, err
	}
	return g, nil
}
