// Package store is the SQLite persistence layer. It backs every collaborator
// interface the matching and auto-apply engines consume.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps the SQLite database
type Store struct {
	db *sql.DB
}

// Open opens the SQLite database at path with proper pragmas and runs
// migrations. _txlock=immediate makes write transactions take the database
// lock up front, so count-then-insert sequences serialize instead of racing.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// runMigrations creates all necessary tables
func runMigrations(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS job_postings (
		id TEXT PRIMARY KEY,
		external_id TEXT NOT NULL,
		source TEXT NOT NULL DEFAULT 'manual',
		title TEXT NOT NULL,
		company TEXT NOT NULL,
		company_logo_url TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		required_skills TEXT NOT NULL DEFAULT '[]',
		location TEXT NOT NULL DEFAULT '',
		work_type TEXT NOT NULL DEFAULT '',
		salary_min INTEGER,
		salary_max INTEGER,
		salary_currency TEXT NOT NULL DEFAULT '',
		employment_type TEXT NOT NULL DEFAULT '',
		experience_level TEXT NOT NULL DEFAULT '',
		apply_url TEXT NOT NULL DEFAULT '',
		posted_at DATETIME,
		expires_at DATETIME,
		created_at DATETIME NOT NULL,
		UNIQUE(external_id, source)
	);

	CREATE TABLE IF NOT EXISTS resume_analysis (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		skills TEXT NOT NULL DEFAULT '[]',
		experience_years INTEGER,
		summary TEXT NOT NULL DEFAULT '',
		analyzed_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS job_preferences (
		user_id TEXT PRIMARY KEY,
		desired_roles TEXT NOT NULL DEFAULT '[]',
		locations TEXT NOT NULL DEFAULT '[]',
		remote_preference TEXT NOT NULL DEFAULT 'any',
		min_salary INTEGER,
		max_salary INTEGER,
		auto_apply_enabled BOOLEAN NOT NULL DEFAULT 0,
		auto_apply_threshold INTEGER NOT NULL DEFAULT 75,
		auto_apply_daily_limit INTEGER NOT NULL DEFAULT 10,
		auto_apply_schedule TEXT NOT NULL DEFAULT 'manual',
		auto_apply_email_notifications BOOLEAN NOT NULL DEFAULT 1,
		updated_at DATETIME NOT NULL,
		CHECK(remote_preference IN ('remote', 'hybrid', 'onsite', 'any')),
		CHECK(auto_apply_schedule IN ('now', 'after_1hr', 'daily_automatic', 'manual'))
	);

	CREATE TABLE IF NOT EXISTS applications (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		job_posting_id TEXT NOT NULL,
		job_title TEXT NOT NULL DEFAULT '',
		company_name TEXT NOT NULL DEFAULT '',
		company_logo_url TEXT NOT NULL DEFAULT '',
		job_url TEXT NOT NULL DEFAULT '',
		job_description TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		work_type TEXT NOT NULL DEFAULT '',
		salary_range TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'saved',
		applied_at DATETIME,
		match_score INTEGER,
		match_reasons TEXT,
		created_at DATETIME NOT NULL,
		UNIQUE(user_id, job_posting_id),
		FOREIGN KEY (job_posting_id) REFERENCES job_postings(id) ON DELETE CASCADE,
		CHECK(status IN ('saved', 'applied', 'auto_applied', 'screening', 'interviewing',
			'offer', 'rejected', 'withdrawn', 'manual_required', 'failed'))
	);

	CREATE TABLE IF NOT EXISTS job_analytics (
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		jobs_viewed INTEGER NOT NULL DEFAULT 0,
		jobs_auto_applied INTEGER NOT NULL DEFAULT 0,
		jobs_manual_required INTEGER NOT NULL DEFAULT 0,
		applications_sent INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (user_id, date)
	);

	CREATE TABLE IF NOT EXISTS scheduled_runs (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		fire_at DATETIME NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at DATETIME NOT NULL,
		CHECK(status IN ('pending', 'completed', 'failed'))
	);

	CREATE INDEX IF NOT EXISTS idx_job_postings_source ON job_postings(source);
	CREATE INDEX IF NOT EXISTS idx_job_postings_created_at ON job_postings(created_at);
	CREATE INDEX IF NOT EXISTS idx_resume_analysis_user ON resume_analysis(user_id, analyzed_at);
	CREATE INDEX IF NOT EXISTS idx_applications_user_status ON applications(user_id, status, created_at);
	CREATE INDEX IF NOT EXISTS idx_scheduled_runs_due ON scheduled_runs(status, fire_at);
	`

	_, err := db.Exec(schema)
	return err
}

// marshalJSON encodes a value for a TEXT column, defaulting to "[]" for nil slices
func marshalStrings(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func unmarshalStrings(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var v []string
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}
	return v, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
