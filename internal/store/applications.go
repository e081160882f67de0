package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oluwadami/jobpilot/internal/apperrors"
	"github.com/oluwadami/jobpilot/pkg/models"
)

const applicationColumns = `id, user_id, job_posting_id, job_title, company_name, company_logo_url,
	job_url, job_description, location, work_type, salary_range, status, applied_at,
	match_score, match_reasons, created_at`

// FindExistingApplications returns the subset of jobIDs the user already has
// an application for.
func (s *Store) FindExistingApplications(ctx context.Context, userID string, jobIDs []string) (map[string]bool, error) {
	applied := map[string]bool{}
	if len(jobIDs) == 0 {
		return applied, nil
	}

	placeholders := strings.Repeat("?,", len(jobIDs)-1) + "?"
	args := make([]any, 0, len(jobIDs)+1)
	args = append(args, userID)
	for _, id := range jobIDs {
		args = append(args, id)
	}

	query := `SELECT job_posting_id FROM applications WHERE user_id=? AND job_posting_id IN (` + placeholders + `)`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		applied[id] = true
	}
	return applied, rows.Err()
}

// CountAutoAppliedOn counts the user's auto_applied applications created on
// the given UTC calendar day. This is the daily quota counter; it resets
// naturally at the day boundary because it is a query over timestamped rows.
func (s *Store) CountAutoAppliedOn(ctx context.Context, userID string, day time.Time) (int, error) {
	start := dayStartUTC(day)
	end := start.Add(24 * time.Hour)

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applications
		 WHERE user_id=? AND status=? AND created_at >= ? AND created_at < ?`,
		userID, models.StatusAutoApplied, start, end).Scan(&count)
	return count, err
}

// InsertApplication inserts an application record. Returns
// apperrors.ErrDuplicateApplication when the user already applied to the job.
func (s *Store) InsertApplication(ctx context.Context, application *models.Application) error {
	prepareApplication(application)

	reasons, err := marshalReasons(application.MatchReasons)
	if err != nil {
		return err
	}

	query := `INSERT INTO applications (` + applicationColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query, application.ID, application.UserID,
		application.JobPostingID, application.JobTitle, application.CompanyName,
		application.CompanyLogoURL, application.JobURL, application.JobDescription,
		application.Location, application.WorkType, application.SalaryRange,
		application.Status, application.AppliedAt, nullInt(application.MatchScore),
		reasons, application.CreatedAt)
	if isUniqueViolation(err) {
		return apperrors.ErrDuplicateApplication
	}
	return err
}

// InsertAutoApplication inserts an auto_applied application only if the
// user's daily quota still has room. The count and the insert run in one
// immediate transaction, so two concurrent runs cannot both consume the last
// slot. Returns apperrors.ErrQuotaExhausted or apperrors.ErrDuplicateApplication.
func (s *Store) InsertAutoApplication(ctx context.Context, application *models.Application, dailyLimit int) error {
	prepareApplication(application)

	reasons, err := marshalReasons(application.MatchReasons)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	start := dayStartUTC(application.CreatedAt)
	end := start.Add(24 * time.Hour)

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applications
		 WHERE user_id=? AND status=? AND created_at >= ? AND created_at < ?`,
		application.UserID, models.StatusAutoApplied, start, end).Scan(&count)
	if err != nil {
		return err
	}
	if count >= dailyLimit {
		return apperrors.ErrQuotaExhausted
	}

	query := `INSERT INTO applications (` + applicationColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, query, application.ID, application.UserID,
		application.JobPostingID, application.JobTitle, application.CompanyName,
		application.CompanyLogoURL, application.JobURL, application.JobDescription,
		application.Location, application.WorkType, application.SalaryRange,
		application.Status, application.AppliedAt, nullInt(application.MatchScore),
		reasons, application.CreatedAt)
	if isUniqueViolation(err) {
		return apperrors.ErrDuplicateApplication
	}
	if err != nil {
		return err
	}

	return tx.Commit()
}

// ListApplications returns the user's applications, newest first
func (s *Store) ListApplications(ctx context.Context, userID string) ([]*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE user_id=? ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applications := []*models.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		applications = append(applications, a)
	}
	return applications, rows.Err()
}

// GetApplicationByJob returns the user's application for a job, or (nil, nil)
func (s *Store) GetApplicationByJob(ctx context.Context, userID, jobID string) (*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications
			  WHERE user_id=? AND job_posting_id=? LIMIT 1`
	a, err := scanApplication(s.db.QueryRowContext(ctx, query, userID, jobID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

// UpdateApplicationStatus transitions an application's status. applied_at is
// stamped when the transition lands on applied or auto_applied.
func (s *Store) UpdateApplicationStatus(ctx context.Context, id, status string) error {
	if status == models.StatusApplied || status == models.StatusAutoApplied {
		_, err := s.db.ExecContext(ctx,
			`UPDATE applications SET status=?, applied_at=? WHERE id=?`, status, time.Now().UTC(), id)
		return err
	}
	_, err := s.db.ExecContext(ctx, `UPDATE applications SET status=? WHERE id=?`, status, id)
	return err
}

func prepareApplication(a *models.Application) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
}

func marshalReasons(r *models.SubScores) (sql.NullString, error) {
	if r == nil {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode match reasons: %w", err)
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

func scanApplication(row rowScanner) (*models.Application, error) {
	a := &models.Application{}
	var appliedAt sql.NullTime
	var score sql.NullInt64
	var reasons sql.NullString

	err := row.Scan(&a.ID, &a.UserID, &a.JobPostingID, &a.JobTitle, &a.CompanyName,
		&a.CompanyLogoURL, &a.JobURL, &a.JobDescription, &a.Location, &a.WorkType,
		&a.SalaryRange, &a.Status, &appliedAt, &score, &reasons, &a.CreatedAt)
	if err != nil {
		return nil, err
	}

	if appliedAt.Valid {
		t := appliedAt.Time
		a.AppliedAt = &t
	}
	a.MatchScore = intPtr(score)
	if reasons.Valid && reasons.String != "" {
		var r models.SubScores
		if err := json.Unmarshal([]byte(reasons.String), &r); err != nil {
			return nil, fmt.Errorf("decode match reasons: %w", err)
		}
		a.MatchReasons = &r
	}
	return a, nil
}

func dayStartUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
