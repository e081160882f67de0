package applicator

import (
	"testing"

	"github.com/oluwadami/jobpilot/pkg/models"
)

func TestPatternClassifier(t *testing.T) {
	tests := []struct {
		name     string
		applyURL string
		patterns []string
		want     bool
	}{
		{
			name:     "no apply url always auto",
			applyURL: "",
			want:     true,
		},
		{
			name:     "linkedin view page is handled internally",
			applyURL: "https://www.linkedin.com/jobs/view/4012345678",
			want:     true,
		},
		{
			name:     "linkedin url is matched case-insensitively",
			applyURL: "https://WWW.LinkedIn.com/Jobs/View/99",
			want:     true,
		},
		{
			name:     "external ats requires manual action",
			applyURL: "https://jobs.example.com/postings/123/apply",
			want:     false,
		},
		{
			name:     "custom patterns replace defaults",
			applyURL: "https://www.linkedin.com/jobs/view/1",
			patterns: []string{"greenhouse.io"},
			want:     false,
		},
		{
			name:     "custom pattern admits its own channel",
			applyURL: "https://boards.greenhouse.io/acme/jobs/1",
			patterns: []string{"greenhouse.io"},
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewPatternClassifier(tt.patterns)
			job := &models.JobPosting{ApplyURL: tt.applyURL}
			if got := c.CanAutoApply(job); got != tt.want {
				t.Errorf("CanAutoApply(%q) = %v, want %v", tt.applyURL, got, tt.want)
			}
		})
	}
}
