// ABOUTME: Directed friend edges between users.
// ABOUTME: An edge (a, b) means b appears in a's friend list; no reverse edge is implied.
package storage

import (
	"context"

	"github.com/harperreed/fitness/internal/models"
)

// AddFriend records that userID follows friendID.
func (d *DB) AddFriend(ctx context.Context, userID, friendID int64) error {
	if _, err := d.exec(ctx, `INSERT INTO friends (user_id, friend_id) VALUES (?, ?)`, userID, friendID); err != nil {
		return d.fail("add friend", err)
	}
	return nil
}

// ListFriends returns the users userID points to, ordered by name.
func (d *DB) ListFriends(ctx context.Context, userID int64) ([]*models.Friend, error) {
	rows, err := d.query(ctx, `
		SELECT u.user_id, u.name, u.email
		FROM friends f
		JOIN users u ON u.user_id = f.friend_id
		WHERE f.user_id = ?
		ORDER BY u.name, u.user_id
	`, userID)
	if err != nil {
		return nil, d.fail("list friends", err)
	}
	defer func() { _ = rows.Close() }()

	var friends []*models.Friend
	for rows.Next() {
		f := &models.Friend{}
		if err := rows.Scan(&f.ID, &f.Name, &f.Email); err != nil {
			return nil, d.fail("list friends", err)
		}
		friends = append(friends, f)
	}
	if err := rows.Err(); err != nil {
		return nil, d.fail("list friends", err)
	}
	return friends, nil
}

// RemoveFriend deletes the edge from userID to friendID.
func (d *DB) RemoveFriend(ctx context.Context, userID, friendID int64) error {
	err := d.execAffecting(ctx, `DELETE FROM friends WHERE user_id = ? AND friend_id = ?`, userID, friendID)
	if err != nil {
		return d.fail("remove friend", err)
	}
	return nil
}
