package store

import (
	"context"
	"database/sql"

	"github.com/oluwadami/jobpilot/pkg/models"
)

// AnalyticsDelta is the set of counter increments applied in one upsert
type AnalyticsDelta struct {
	JobsViewed         int
	JobsAutoApplied    int
	JobsManualRequired int
	ApplicationsSent   int
}

// UpsertDailyAnalytics increments the user's counters for the given UTC day
// (date formatted as YYYY-MM-DD), creating the row when absent.
func (s *Store) UpsertDailyAnalytics(ctx context.Context, userID, date string, delta AnalyticsDelta) error {
	query := `INSERT INTO job_analytics
			  (user_id, date, jobs_viewed, jobs_auto_applied, jobs_manual_required, applications_sent)
			  VALUES (?, ?, ?, ?, ?, ?)
			  ON CONFLICT(user_id, date) DO UPDATE SET
			  jobs_viewed = jobs_viewed + excluded.jobs_viewed,
			  jobs_auto_applied = jobs_auto_applied + excluded.jobs_auto_applied,
			  jobs_manual_required = jobs_manual_required + excluded.jobs_manual_required,
			  applications_sent = applications_sent + excluded.applications_sent`
	_, err := s.db.ExecContext(ctx, query, userID, date,
		delta.JobsViewed, delta.JobsAutoApplied, delta.JobsManualRequired, delta.ApplicationsSent)
	return err
}

// GetDailyAnalytics returns the user's counters for a day, or (nil, nil)
func (s *Store) GetDailyAnalytics(ctx context.Context, userID, date string) (*models.DailyAnalytics, error) {
	query := `SELECT user_id, date, jobs_viewed, jobs_auto_applied, jobs_manual_required, applications_sent
			  FROM job_analytics WHERE user_id=? AND date=?`

	a := &models.DailyAnalytics{}
	err := s.db.QueryRowContext(ctx, query, userID, date).Scan(&a.UserID, &a.Date,
		&a.JobsViewed, &a.JobsAutoApplied, &a.JobsManualRequired, &a.ApplicationsSent)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListAnalytics returns all of the user's daily counters, newest first
func (s *Store) ListAnalytics(ctx context.Context, userID string) ([]*models.DailyAnalytics, error) {
	query := `SELECT user_id, date, jobs_viewed, jobs_auto_applied, jobs_manual_required, applications_sent
			  FROM job_analytics WHERE user_id=? ORDER BY date DESC`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*models.DailyAnalytics{}
	for rows.Next() {
		a := &models.DailyAnalytics{}
		if err := rows.Scan(&a.UserID, &a.Date, &a.JobsViewed, &a.JobsAutoApplied,
			&a.JobsManualRequired, &a.ApplicationsSent); err != nil {
			return nil, err
		}
		entries = append(entries, a)
	}
	return entries, rows.Err()
}
