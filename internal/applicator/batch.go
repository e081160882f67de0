package applicator

import (
	"context"
	"time"

	"github.com/oluwadami/jobpilot/internal/matcher"
	"github.com/oluwadami/jobpilot/pkg/models"
	"go.uber.org/zap"
)

// recentWindow bounds which postings a batch run considers
const recentWindow = 24 * time.Hour

// BatchStore extends the engine's store with the queries the batch runner
// needs to discover users and fresh postings.
type BatchStore interface {
	Store
	ListUsersWithPreferences(ctx context.Context) ([]string, error)
	ListRecentJobPostings(ctx context.Context, since time.Time) ([]*models.JobPosting, error)
}

// Matcher scores a set of postings against a user's profile
type Matcher interface {
	ComputeMatches(ctx context.Context, userID string, jobIDs []string) (*matcher.MatchesResponse, error)
}

// Batch runs the match-then-apply pipeline over recently ingested postings,
// for one user or for every user with saved preferences.
type Batch struct {
	store   BatchStore
	matcher Matcher
	engine  *Engine
	logger  *zap.Logger
	now     func() time.Time
}

func NewBatch(st BatchStore, m Matcher, engine *Engine, logger *zap.Logger) *Batch {
	return &Batch{
		store:   st,
		matcher: m,
		engine:  engine,
		logger:  logger,
		now:     time.Now,
	}
}

// RunForUser scores postings ingested in the last day and feeds them through
// the auto-apply engine for one user.
func (b *Batch) RunForUser(ctx context.Context, userID string) (*RunOutcome, error) {
	since := b.now().UTC().Add(-recentWindow)
	jobs, err := b.store.ListRecentJobPostings(ctx, since)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return &RunOutcome{Results: []models.AutoApplyResult{}, Message: "No recent jobs to process"}, nil
	}

	jobIDs := make([]string, len(jobs))
	for i, job := range jobs {
		jobIDs[i] = job.ID
	}

	matches, err := b.matcher.ComputeMatches(ctx, userID, jobIDs)
	if err != nil {
		return nil, err
	}

	return b.engine.Run(ctx, userID, matches.Matches)
}

// RunAll runs the pipeline for every user with saved preferences. One user's
// failure is logged and does not stop the sweep.
func (b *Batch) RunAll(ctx context.Context) error {
	users, err := b.store.ListUsersWithPreferences(ctx)
	if err != nil {
		return err
	}

	for _, userID := range users {
		outcome, err := b.RunForUser(ctx, userID)
		if err != nil {
			b.logger.Error("batch run failed for user",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			continue
		}
		b.logger.Info("batch run finished",
			zap.String("user_id", userID),
			zap.Int("auto_applied", outcome.Summary.AutoApplied),
			zap.Int("manual_required", outcome.Summary.ManualRequired),
		)
	}
	return nil
}
