package sqlite

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      string
}

// migrations contains all database migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "initial_schema",
		Up: `
			CREATE TABLE IF NOT EXISTS videos (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				tracking BOOLEAN NOT NULL DEFAULT 1,
				targetable BOOLEAN NOT NULL DEFAULT 0,
				comparison_video_id TEXT NOT NULL DEFAULT '',
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			);

			CREATE TABLE IF NOT EXISTS samples (
				id TEXT PRIMARY KEY,
				video_id TEXT NOT NULL,
				date TEXT NOT NULL,
				timestamp DATETIME NOT NULL,
				views INTEGER NOT NULL,
				likes INTEGER NOT NULL DEFAULT 0,
				UNIQUE (video_id, timestamp)
			);

			CREATE INDEX IF NOT EXISTS idx_samples_video_date ON samples(video_id, date);
			CREATE INDEX IF NOT EXISTS idx_samples_date ON samples(date);

			CREATE TABLE IF NOT EXISTS targets (
				video_id TEXT PRIMARY KEY,
				target_views INTEGER NOT NULL,
				target_time DATETIME NOT NULL,
				created_at DATETIME NOT NULL,
				FOREIGN KEY (video_id) REFERENCES videos(id) ON DELETE CASCADE
			);
		`,
	},
}

// Migrate runs all pending migrations
func Migrate(db *sql.DB) error {
	// Get current version
	currentVersion, err := getCurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	// Run pending migrations
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}

		// Execute migration
		if _, err := tx.Exec(migration.Up); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute migration %d (%s): %w", migration.Version, migration.Name, err)
		}

		// Record migration
		if _, err := tx.Exec(
			"INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)",
			migration.Version,
			migration.Name,
			sql.NullTime{Time: timeNow(), Valid: true},
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// getCurrentVersion returns the current schema version
func getCurrentVersion(db *sql.DB) (int, error) {
	// First, ensure the schema_migrations table exists
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME NOT NULL
		)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	var version int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		// If table doesn't exist, version is 0
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to query version: %w", err)
	}
	return version, nil
}
