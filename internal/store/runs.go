package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/oluwadami/jobpilot/pkg/models"
)

// ScheduleRun records a deferred auto-apply invocation. The scheduler picks
// it up once fire_at passes; the record survives process restarts.
func (s *Store) ScheduleRun(ctx context.Context, userID string, fireAt time.Time) (*models.ScheduledRun, error) {
	run := &models.ScheduledRun{
		ID:        uuid.NewString(),
		UserID:    userID,
		FireAt:    fireAt.UTC(),
		Status:    models.RunPending,
		CreatedAt: time.Now().UTC(),
	}

	query := `INSERT INTO scheduled_runs (id, user_id, fire_at, status, created_at)
			  VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, run.ID, run.UserID, run.FireAt, run.Status, run.CreatedAt)
	if err != nil {
		return nil, err
	}
	return run, nil
}

// DueRuns returns pending runs with fire_at at or before now
func (s *Store) DueRuns(ctx context.Context, now time.Time) ([]*models.ScheduledRun, error) {
	query := `SELECT id, user_id, fire_at, status, created_at FROM scheduled_runs
			  WHERE status=? AND fire_at <= ? ORDER BY fire_at`
	rows, err := s.db.QueryContext(ctx, query, models.RunPending, now.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []*models.ScheduledRun{}
	for rows.Next() {
		run := &models.ScheduledRun{}
		if err := rows.Scan(&run.ID, &run.UserID, &run.FireAt, &run.Status, &run.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// CompleteRun marks a scheduled run as completed or failed
func (s *Store) CompleteRun(ctx context.Context, id, status string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE scheduled_runs SET status=? WHERE id=?`, status, id)
	return err
}
