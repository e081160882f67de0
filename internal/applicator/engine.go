// Package applicator is the auto-apply policy engine. It consumes scored
// matches, enforces the user's threshold and daily quota, skips jobs already
// applied to, and records one application per surviving candidate.
package applicator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/oluwadami/jobpilot/internal/app"
	"github.com/oluwadami/jobpilot/internal/store"
	"github.com/oluwadami/jobpilot/pkg/models"
	"go.uber.org/zap"
)

// Store is the persistence surface the engine needs
type Store interface {
	GetJobPreferences(ctx context.Context, userID string) (*models.JobPreferences, error)
	GetJobPostings(ctx context.Context, ids []string) ([]*models.JobPosting, error)
	FindExistingApplications(ctx context.Context, userID string, jobIDs []string) (map[string]bool, error)
	CountAutoAppliedOn(ctx context.Context, userID string, day time.Time) (int, error)
	InsertApplication(ctx context.Context, application *models.Application) error
	InsertAutoApplication(ctx context.Context, application *models.Application, dailyLimit int) error
	UpsertDailyAnalytics(ctx context.Context, userID, date string, delta store.AnalyticsDelta) error
}

// Notifier dispatches run summaries to the user. Best effort: failures are
// logged by the engine and never fail the run.
type Notifier interface {
	SendAutoApplySummary(ctx context.Context, userID string, results []models.AutoApplyResult) error
}

// RunOutcome is the result of one auto-apply run. Message is informational
// (disabled, quota reached, nothing eligible) and never an error.
type RunOutcome struct {
	Results []models.AutoApplyResult `json:"results"`
	Summary models.RunSummary        `json:"summary"`
	Message string                   `json:"message,omitempty"`
}

// Engine runs the auto-apply policy for one user at a time
type Engine struct {
	store      Store
	classifier Classifier
	notifier   Notifier
	logger     *zap.Logger
	now        func() time.Time
}

// NewEngine creates an auto-apply engine. notifier may be nil.
func NewEngine(st Store, classifier Classifier, notifier Notifier, logger *zap.Logger) *Engine {
	if classifier == nil {
		classifier = NewPatternClassifier(nil)
	}
	return &Engine{
		store:      st,
		classifier: classifier,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

// Run processes scored candidates for the user and decides a disposition for
// each. Candidates below the threshold or beyond the remaining daily quota
// are silently excluded; a per-candidate insert failure is recorded as a
// failed disposition and never aborts the batch.
func (e *Engine) Run(ctx context.Context, userID string, candidates []models.MatchResult) (*RunOutcome, error) {
	if len(candidates) == 0 {
		return &RunOutcome{Results: []models.AutoApplyResult{}, Message: "No matches provided"}, nil
	}

	prefs, err := e.store.GetJobPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get job preferences: %w", err)
	}

	enabled := false
	threshold := store.DefaultThreshold
	dailyLimit := store.DefaultDailyLimit
	notify := false
	if prefs != nil {
		enabled = prefs.AutoApply.Enabled
		threshold = prefs.AutoApply.Threshold
		dailyLimit = prefs.AutoApply.DailyLimit
		notify = prefs.AutoApply.EmailNotifications
	}

	if !enabled {
		return &RunOutcome{Results: []models.AutoApplyResult{}, Message: "Auto-apply is disabled"}, nil
	}

	now := e.now().UTC()
	todayCount, err := e.store.CountAutoAppliedOn(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("count today's auto-applications: %w", err)
	}
	remaining := dailyLimit - todayCount
	if remaining <= 0 {
		return &RunOutcome{Results: []models.AutoApplyResult{}, Message: "Daily auto-apply limit reached"}, nil
	}

	jobIDs := make([]string, len(candidates))
	for i, c := range candidates {
		jobIDs[i] = c.JobID
	}
	existing, err := e.store.FindExistingApplications(ctx, userID, jobIDs)
	if err != nil {
		return nil, fmt.Errorf("find existing applications: %w", err)
	}

	// Threshold is inclusive; duplicates above it are reported as
	// already_applied, below it everything drops silently.
	eligible := make([]models.MatchResult, 0, len(candidates))
	duplicates := make([]models.MatchResult, 0)
	for _, c := range candidates {
		if c.Score < threshold {
			continue
		}
		if existing[c.JobID] {
			duplicates = append(duplicates, c)
			continue
		}
		eligible = append(eligible, c)
	}

	// Highest scores win the remaining quota slots; stable order breaks ties
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Score > eligible[j].Score
	})
	if len(eligible) > remaining {
		eligible = eligible[:remaining]
	}

	results := []models.AutoApplyResult{}
	for _, dup := range duplicates {
		results = append(results, models.AutoApplyResult{
			JobID:      dup.JobID,
			Status:     models.StatusAlreadyApplied,
			MatchScore: dup.Score,
		})
	}

	if len(eligible) == 0 {
		return &RunOutcome{Results: results, Message: "No eligible jobs for auto-apply"}, nil
	}

	eligibleIDs := make([]string, len(eligible))
	for i, c := range eligible {
		eligibleIDs[i] = c.JobID
	}
	jobs, err := e.store.GetJobPostings(ctx, eligibleIDs)
	if err != nil {
		return nil, fmt.Errorf("get job postings: %w", err)
	}
	jobsByID := make(map[string]*models.JobPosting, len(jobs))
	for _, job := range jobs {
		jobsByID[job.ID] = job
	}

	summary := models.RunSummary{}
	for _, candidate := range eligible {
		job, ok := jobsByID[candidate.JobID]
		if !ok {
			continue
		}
		result := e.applyToJob(ctx, userID, job, candidate, dailyLimit, now)
		if result == nil {
			continue
		}
		results = append(results, *result)

		switch result.Status {
		case models.StatusAutoApplied:
			summary.AutoApplied++
		case models.StatusManualRequired:
			summary.ManualRequired++
		case models.StatusFailed:
			summary.Failed++
		}
	}

	if summary.AutoApplied > 0 || summary.ManualRequired > 0 {
		delta := store.AnalyticsDelta{
			JobsAutoApplied:    summary.AutoApplied,
			JobsManualRequired: summary.ManualRequired,
			ApplicationsSent:   summary.AutoApplied,
		}
		if err := e.store.UpsertDailyAnalytics(ctx, userID, now.Format("2006-01-02"), delta); err != nil {
			e.logger.Warn("failed to update analytics",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}
	}

	e.logger.Info("auto-apply completed",
		zap.String("user_id", userID),
		zap.Int("candidates", len(candidates)),
		zap.Int("auto_applied", summary.AutoApplied),
		zap.Int("manual_required", summary.ManualRequired),
		zap.Int("failed", summary.Failed),
	)

	if notify && e.notifier != nil && (summary.AutoApplied > 0 || summary.ManualRequired > 0) {
		if err := e.notifier.SendAutoApplySummary(ctx, userID, results); err != nil {
			e.logger.Warn("failed to send notification",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}
	}

	return &RunOutcome{Results: results, Summary: summary}, nil
}

// applyToJob decides and records the disposition for one candidate. A nil
// return means the candidate was consumed elsewhere (quota taken by a
// concurrent run) and is silently excluded.
func (e *Engine) applyToJob(ctx context.Context, userID string, job *models.JobPosting, candidate models.MatchResult, dailyLimit int, now time.Time) *models.AutoApplyResult {
	canAuto := e.classifier.CanAutoApply(job)

	status := models.StatusManualRequired
	var appliedAt *time.Time
	if canAuto {
		status = models.StatusAutoApplied
		appliedAt = &now
	}

	score := candidate.Score
	reasons := candidate.Reasons
	application := &models.Application{
		UserID:         userID,
		JobPostingID:   job.ID,
		JobTitle:       job.Title,
		CompanyName:    job.Company,
		CompanyLogoURL: job.CompanyLogoURL,
		JobURL:         job.ApplyURL,
		JobDescription: job.Description,
		Location:       job.Location,
		WorkType:       job.WorkType,
		SalaryRange:    job.SalaryRangeLabel(),
		Status:         status,
		AppliedAt:      appliedAt,
		MatchScore:     &score,
		MatchReasons:   &reasons,
		CreatedAt:      now,
	}

	var err error
	if canAuto {
		err = e.store.InsertAutoApplication(ctx, application, dailyLimit)
	} else {
		err = e.store.InsertApplication(ctx, application)
	}

	switch {
	case errors.Is(err, app.ErrQuotaExhausted):
		// A concurrent run took the slot between our count and this insert
		e.logger.Info("quota consumed concurrently, skipping candidate",
			zap.String("user_id", userID),
			zap.String("job_id", job.ID),
		)
		return nil
	case errors.Is(err, app.ErrDuplicateApplication):
		return &models.AutoApplyResult{
			JobID:       job.ID,
			JobTitle:    job.Title,
			CompanyName: job.Company,
			Status:      models.StatusAlreadyApplied,
			MatchScore:  candidate.Score,
		}
	case err != nil:
		e.logger.Error("failed to insert application",
			zap.String("user_id", userID),
			zap.String("job_id", job.ID),
			zap.Error(err),
		)
		return &models.AutoApplyResult{
			JobID:       job.ID,
			JobTitle:    job.Title,
			CompanyName: job.Company,
			Status:      models.StatusFailed,
			MatchScore:  candidate.Score,
			Reason:      err.Error(),
		}
	}

	result := &models.AutoApplyResult{
		JobID:       job.ID,
		JobTitle:    job.Title,
		CompanyName: job.Company,
		Status:      status,
		MatchScore:  candidate.Score,
	}
	if status == models.StatusManualRequired {
		result.ApplyURL = job.ApplyURL
	}
	return result
}
