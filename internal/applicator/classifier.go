package applicator

import (
	"strings"

	"github.com/oluwadami/jobpilot/pkg/models"
)

// Classifier decides whether a job can be applied to through an internally
// handled channel. Jobs that fail the check need the user to act on an
// external ATS and are recorded as manual_required.
type Classifier interface {
	CanAutoApply(job *models.JobPosting) bool
}

// PatternClassifier treats a job as internally handled when it has no
// external apply URL, or when the URL contains one of the configured
// channel substrings.
type PatternClassifier struct {
	patterns []string
}

// DefaultChannelPatterns are the apply-URL substrings handled internally
var DefaultChannelPatterns = []string{"linkedin.com/jobs/view"}

// NewPatternClassifier creates a classifier for the given channel patterns.
// A nil or empty slice falls back to the defaults.
func NewPatternClassifier(patterns []string) *PatternClassifier {
	if len(patterns) == 0 {
		patterns = DefaultChannelPatterns
	}
	return &PatternClassifier{patterns: patterns}
}

// CanAutoApply implements Classifier
func (c *PatternClassifier) CanAutoApply(job *models.JobPosting) bool {
	if job.ApplyURL == "" {
		return true
	}
	url := strings.ToLower(job.ApplyURL)
	for _, pattern := range c.patterns {
		if strings.Contains(url, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}
