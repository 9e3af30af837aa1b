// ABOUTME: Schema definitions for users, friends, workouts, exercises and goals.
// ABOUTME: One DDL list per backend, applied with CREATE ... IF NOT EXISTS on open.
package storage

import (
	"context"
	"fmt"
)

// initSchema creates any missing tables and indexes.
func (d *DB) initSchema(ctx context.Context) error {
	for _, stmt := range d.dialect.schema() {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		weight_kg REAL NOT NULL DEFAULT 0,
		email TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS friends (
		user_id INTEGER NOT NULL,
		friend_id INTEGER NOT NULL,
		PRIMARY KEY (user_id, friend_id),
		FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE,
		FOREIGN KEY (friend_id) REFERENCES users(user_id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS workouts (
		workout_id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		workout_date DATE NOT NULL,
		duration_minutes INTEGER NOT NULL,
		notes TEXT,
		FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS exercises (
		exercise_id INTEGER PRIMARY KEY AUTOINCREMENT,
		workout_id INTEGER NOT NULL,
		exercise_name TEXT NOT NULL,
		sets INTEGER NOT NULL DEFAULT 0,
		reps INTEGER NOT NULL DEFAULT 0,
		weight_lifted_kg REAL NOT NULL DEFAULT 0,
		FOREIGN KEY (workout_id) REFERENCES workouts(workout_id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS goals (
		goal_id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		description TEXT NOT NULL,
		target_value REAL NOT NULL DEFAULT 0,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		is_completed BOOLEAN NOT NULL DEFAULT 0,
		FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_friends_friend ON friends(friend_id)`,
	`CREATE INDEX IF NOT EXISTS idx_workouts_user_date ON workouts(user_id, workout_date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_exercises_workout ON exercises(workout_id)`,
	`CREATE INDEX IF NOT EXISTS idx_goals_user_end ON goals(user_id, end_date)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		weight_kg DOUBLE PRECISION NOT NULL DEFAULT 0,
		email TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS friends (
		user_id BIGINT NOT NULL,
		friend_id BIGINT NOT NULL,
		PRIMARY KEY (user_id, friend_id),
		FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE,
		FOREIGN KEY (friend_id) REFERENCES users(user_id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS workouts (
		workout_id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		workout_date DATE NOT NULL,
		duration_minutes INTEGER NOT NULL,
		notes TEXT,
		FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS exercises (
		exercise_id BIGSERIAL PRIMARY KEY,
		workout_id BIGINT NOT NULL,
		exercise_name TEXT NOT NULL,
		sets INTEGER NOT NULL DEFAULT 0,
		reps INTEGER NOT NULL DEFAULT 0,
		weight_lifted_kg DOUBLE PRECISION NOT NULL DEFAULT 0,
		FOREIGN KEY (workout_id) REFERENCES workouts(workout_id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS goals (
		goal_id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		description TEXT NOT NULL,
		target_value DOUBLE PRECISION NOT NULL DEFAULT 0,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		is_completed BOOLEAN NOT NULL DEFAULT FALSE,
		FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_friends_friend ON friends(friend_id)`,
	`CREATE INDEX IF NOT EXISTS idx_workouts_user_date ON workouts(user_id, workout_date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_exercises_workout ON exercises(workout_id)`,
	`CREATE INDEX IF NOT EXISTS idx_goals_user_end ON goals(user_id, end_date)`,
}

// MySQL has no CREATE INDEX IF NOT EXISTS, so indexes live in the table DDL.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		weight_kg DOUBLE NOT NULL DEFAULT 0,
		email VARCHAR(255) NOT NULL,
		UNIQUE KEY uk_users_email (email)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS friends (
		user_id BIGINT NOT NULL,
		friend_id BIGINT NOT NULL,
		PRIMARY KEY (user_id, friend_id),
		INDEX idx_friends_friend (friend_id),
		FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE,
		FOREIGN KEY (friend_id) REFERENCES users(user_id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS workouts (
		workout_id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		workout_date DATE NOT NULL,
		duration_minutes INT NOT NULL,
		notes TEXT,
		INDEX idx_workouts_user_date (user_id, workout_date),
		FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS exercises (
		exercise_id BIGINT AUTO_INCREMENT PRIMARY KEY,
		workout_id BIGINT NOT NULL,
		exercise_name VARCHAR(255) NOT NULL,
		sets INT NOT NULL DEFAULT 0,
		reps INT NOT NULL DEFAULT 0,
		weight_lifted_kg DOUBLE NOT NULL DEFAULT 0,
		INDEX idx_exercises_workout (workout_id),
		FOREIGN KEY (workout_id) REFERENCES workouts(workout_id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS goals (
		goal_id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		description TEXT NOT NULL,
		target_value DOUBLE NOT NULL DEFAULT 0,
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		is_completed BOOLEAN NOT NULL DEFAULT FALSE,
		INDEX idx_goals_user_end (user_id, end_date),
		FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
}
