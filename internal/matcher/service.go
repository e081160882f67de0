package matcher

import (
	"context"
	"fmt"
	"sort"

	"github.com/oluwadami/jobpilot/pkg/models"
	"go.uber.org/zap"
)

// Store is the persistence surface ComputeMatches needs
type Store interface {
	GetResumeAnalysis(ctx context.Context, userID string) (*models.ResumeAnalysis, error)
	GetJobPreferences(ctx context.Context, userID string) (*models.JobPreferences, error)
	GetJobPostings(ctx context.Context, ids []string) ([]*models.JobPosting, error)
}

// MatchesResponse is the result of a ComputeMatches call. The profile flags
// let the caller prompt the user to finish setting up their account; missing
// profile data is not an error.
type MatchesResponse struct {
	Matches            []models.MatchResult `json:"matches"`
	UserHasAnalysis    bool                 `json:"user_has_analysis"`
	UserHasPreferences bool                 `json:"user_has_preferences"`
}

// Service scores stored job postings against a stored user profile
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService creates a matching service
func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// ComputeMatches scores the given postings for the user and returns them
// sorted by score descending. Failing to load the postings is fatal for the
// whole call; a missing resume analysis or preferences is not.
func (s *Service) ComputeMatches(ctx context.Context, userID string, jobIDs []string) (*MatchesResponse, error) {
	analysis, err := s.store.GetResumeAnalysis(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get resume analysis: %w", err)
	}

	preferences, err := s.store.GetJobPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get job preferences: %w", err)
	}

	jobs, err := s.store.GetJobPostings(ctx, jobIDs)
	if err != nil {
		return nil, fmt.Errorf("get job postings: %w", err)
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("no jobs found to match")
	}

	profile := Profile{Analysis: analysis, Preferences: preferences}
	matches := make([]models.MatchResult, 0, len(jobs))
	for _, job := range jobs {
		matches = append(matches, Score(job, profile))
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if s.logger != nil {
		s.logger.Info("computed matches",
			zap.String("user_id", userID),
			zap.Int("jobs", len(jobs)),
			zap.Int("top_score", matches[0].Score),
			zap.Bool("has_analysis", analysis != nil),
			zap.Bool("has_preferences", preferences != nil),
		)
	}

	return &MatchesResponse{
		Matches:            matches,
		UserHasAnalysis:    analysis != nil,
		UserHasPreferences: preferences != nil,
	}, nil
}
