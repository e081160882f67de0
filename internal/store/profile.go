package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oluwadami/jobpilot/pkg/models"
)

// Auto-apply defaults applied when preferences are missing or malformed
const (
	DefaultThreshold  = 75
	DefaultDailyLimit = 10
)

// SaveResumeAnalysis stores a new analysis snapshot for the user. The
// external extraction service writes these; the CLI also accepts them for
// local setups.
func (s *Store) SaveResumeAnalysis(ctx context.Context, analysis *models.ResumeAnalysis) error {
	if analysis.ID == "" {
		analysis.ID = uuid.NewString()
	}
	if analysis.AnalyzedAt.IsZero() {
		analysis.AnalyzedAt = time.Now().UTC()
	}

	skills, err := marshalStrings(analysis.Skills)
	if err != nil {
		return fmt.Errorf("encode skills: %w", err)
	}

	query := `INSERT INTO resume_analysis (id, user_id, skills, experience_years, summary, analyzed_at)
			  VALUES (?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query, analysis.ID, analysis.UserID, skills,
		nullInt(analysis.ExperienceYears), analysis.Summary, analysis.AnalyzedAt)
	return err
}

// GetResumeAnalysis returns the most recent analysis for the user, or
// (nil, nil) when the user has none.
func (s *Store) GetResumeAnalysis(ctx context.Context, userID string) (*models.ResumeAnalysis, error) {
	query := `SELECT id, user_id, skills, experience_years, summary, analyzed_at
			  FROM resume_analysis WHERE user_id=? ORDER BY analyzed_at DESC LIMIT 1`

	analysis := &models.ResumeAnalysis{}
	var skills string
	var years sql.NullInt64
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&analysis.ID, &analysis.UserID,
		&skills, &years, &analysis.Summary, &analysis.AnalyzedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	analysis.Skills, err = unmarshalStrings(skills)
	if err != nil {
		return nil, fmt.Errorf("decode skills: %w", err)
	}
	analysis.ExperienceYears = intPtr(years)
	return analysis, nil
}

// SaveJobPreferences creates or replaces the user's preferences
func (s *Store) SaveJobPreferences(ctx context.Context, prefs *models.JobPreferences) error {
	roles, err := marshalStrings(prefs.DesiredRoles)
	if err != nil {
		return fmt.Errorf("encode desired roles: %w", err)
	}
	locations, err := marshalStrings(prefs.Locations)
	if err != nil {
		return fmt.Errorf("encode locations: %w", err)
	}
	if prefs.RemotePreference == "" {
		prefs.RemotePreference = models.RemotePrefAny
	}
	if prefs.AutoApply.Schedule == "" {
		prefs.AutoApply.Schedule = models.ScheduleManual
	}
	prefs.UpdatedAt = time.Now().UTC()

	query := `INSERT OR REPLACE INTO job_preferences
			  (user_id, desired_roles, locations, remote_preference, min_salary, max_salary,
			   auto_apply_enabled, auto_apply_threshold, auto_apply_daily_limit,
			   auto_apply_schedule, auto_apply_email_notifications, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query, prefs.UserID, roles, locations, prefs.RemotePreference,
		nullInt(prefs.MinSalary), nullInt(prefs.MaxSalary), prefs.AutoApply.Enabled,
		prefs.AutoApply.Threshold, prefs.AutoApply.DailyLimit, prefs.AutoApply.Schedule,
		prefs.AutoApply.EmailNotifications, prefs.UpdatedAt)
	return err
}

// GetJobPreferences returns the user's preferences, or (nil, nil) when unset.
// Threshold and daily limit are clamped here: preferences are user-editable
// external state, so out-of-range values fall back to defaults instead of
// failing the call.
func (s *Store) GetJobPreferences(ctx context.Context, userID string) (*models.JobPreferences, error) {
	query := `SELECT user_id, desired_roles, locations, remote_preference, min_salary, max_salary,
			  auto_apply_enabled, auto_apply_threshold, auto_apply_daily_limit,
			  auto_apply_schedule, auto_apply_email_notifications, updated_at
			  FROM job_preferences WHERE user_id=?`

	prefs := &models.JobPreferences{}
	var roles, locations string
	var minSalary, maxSalary sql.NullInt64
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&prefs.UserID, &roles, &locations,
		&prefs.RemotePreference, &minSalary, &maxSalary, &prefs.AutoApply.Enabled,
		&prefs.AutoApply.Threshold, &prefs.AutoApply.DailyLimit, &prefs.AutoApply.Schedule,
		&prefs.AutoApply.EmailNotifications, &prefs.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	prefs.DesiredRoles, err = unmarshalStrings(roles)
	if err != nil {
		return nil, fmt.Errorf("decode desired roles: %w", err)
	}
	prefs.Locations, err = unmarshalStrings(locations)
	if err != nil {
		return nil, fmt.Errorf("decode locations: %w", err)
	}
	prefs.MinSalary = intPtr(minSalary)
	prefs.MaxSalary = intPtr(maxSalary)

	if prefs.AutoApply.Threshold < 0 || prefs.AutoApply.Threshold > 100 {
		prefs.AutoApply.Threshold = DefaultThreshold
	}
	if prefs.AutoApply.DailyLimit <= 0 {
		prefs.AutoApply.DailyLimit = DefaultDailyLimit
	}
	return prefs, nil
}

// ListUsersWithPreferences returns the ids of all users that have saved
// preferences. The daily batch matcher iterates these.
func (s *Store) ListUsersWithPreferences(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT user_id FROM job_preferences ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		users = append(users, id)
	}
	return users, rows.Err()
}
