package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/oluwadami/jobpilot/internal/apperrors"
	"github.com/oluwadami/jobpilot/pkg/models"
)

const jobColumns = `id, external_id, source, title, company, company_logo_url, description,
	required_skills, location, work_type, salary_min, salary_max, salary_currency,
	employment_type, experience_level, apply_url, posted_at, expires_at, created_at`

// CreateJobPosting inserts a job posting. (external_id, source) is the dedup
// key; inserting a duplicate returns apperrors.ErrDuplicateJob.
func (s *Store) CreateJobPosting(ctx context.Context, job *models.JobPosting) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	// Manually added jobs have no upstream identifier to dedup on
	if job.ExternalID == "" {
		job.ExternalID = job.ID
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}

	skills, err := marshalStrings(job.RequiredSkills)
	if err != nil {
		return fmt.Errorf("encode required skills: %w", err)
	}

	query := `INSERT INTO job_postings (` + jobColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query, job.ID, job.ExternalID, job.Source, job.Title,
		job.Company, job.CompanyLogoURL, job.Description, skills, job.Location, job.WorkType,
		nullInt(job.SalaryMin), nullInt(job.SalaryMax), job.SalaryCurrency, job.EmploymentType,
		job.ExperienceLevel, job.ApplyURL, job.PostedAt, job.ExpiresAt, job.CreatedAt)
	if isUniqueViolation(err) {
		return apperrors.ErrDuplicateJob
	}
	return err
}

// UpsertJobPostings saves a batch of ingested postings, skipping ones already
// present. Returns the number of newly stored postings.
func (s *Store) UpsertJobPostings(ctx context.Context, jobs []*models.JobPosting) (int, error) {
	saved := 0
	for _, job := range jobs {
		err := s.CreateJobPosting(ctx, job)
		if errors.Is(err, apperrors.ErrDuplicateJob) {
			continue
		}
		if err != nil {
			return saved, err
		}
		saved++
	}
	return saved, nil
}

// GetJobPosting returns the posting with the given id, or (nil, nil)
func (s *Store) GetJobPosting(ctx context.Context, id string) (*models.JobPosting, error) {
	query := `SELECT ` + jobColumns + ` FROM job_postings WHERE id=?`
	job, err := scanJob(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return job, err
}

// GetJobPostings returns the postings with the given ids. Unknown ids are
// silently absent from the result.
func (s *Store) GetJobPostings(ctx context.Context, ids []string) ([]*models.JobPosting, error) {
	if len(ids) == 0 {
		return []*models.JobPosting{}, nil
	}

	placeholders := strings.Repeat("?,", len(ids)-1) + "?"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := `SELECT ` + jobColumns + ` FROM job_postings WHERE id IN (` + placeholders + `)`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectJobs(rows)
}

// ListRecentJobPostings returns postings created since the given time,
// newest first.
func (s *Store) ListRecentJobPostings(ctx context.Context, since time.Time) ([]*models.JobPosting, error) {
	query := `SELECT ` + jobColumns + ` FROM job_postings WHERE created_at >= ? ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectJobs(rows)
}

// DeleteJobPosting removes a posting and, via cascade, its applications
func (s *Store) DeleteJobPosting(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM job_postings WHERE id=?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*models.JobPosting, error) {
	job := &models.JobPosting{}
	var skills string
	var salaryMin, salaryMax sql.NullInt64
	var postedAt, expiresAt sql.NullTime

	err := row.Scan(&job.ID, &job.ExternalID, &job.Source, &job.Title, &job.Company,
		&job.CompanyLogoURL, &job.Description, &skills, &job.Location, &job.WorkType,
		&salaryMin, &salaryMax, &job.SalaryCurrency, &job.EmploymentType,
		&job.ExperienceLevel, &job.ApplyURL, &postedAt, &expiresAt, &job.CreatedAt)
	if err != nil {
		return nil, err
	}

	job.RequiredSkills, err = unmarshalStrings(skills)
	if err != nil {
		return nil, fmt.Errorf("decode required skills: %w", err)
	}
	job.SalaryMin = intPtr(salaryMin)
	job.SalaryMax = intPtr(salaryMax)
	if postedAt.Valid {
		t := postedAt.Time
		job.PostedAt = &t
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		job.ExpiresAt = &t
	}
	return job, nil
}

func collectJobs(rows *sql.Rows) ([]*models.JobPosting, error) {
	jobs := []*models.JobPosting{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// isUniqueViolation reports whether err is a SQLite unique constraint failure
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
