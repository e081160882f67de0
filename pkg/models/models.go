package models

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Remote preference values for job preferences
const (
	RemotePrefRemote = "remote"
	RemotePrefHybrid = "hybrid"
	RemotePrefOnsite = "onsite"
	RemotePrefAny    = "any"
)

// Auto-apply schedule modes
const (
	ScheduleNow      = "now"
	ScheduleAfter1hr = "after_1hr"
	ScheduleDaily    = "daily_automatic"
	ScheduleManual   = "manual"
)

// Application statuses
const (
	StatusSaved          = "saved"
	StatusApplied        = "applied"
	StatusAutoApplied    = "auto_applied"
	StatusScreening      = "screening"
	StatusInterviewing   = "interviewing"
	StatusOffer          = "offer"
	StatusRejected       = "rejected"
	StatusWithdrawn      = "withdrawn"
	StatusManualRequired = "manual_required"
	StatusFailed         = "failed"
	StatusAlreadyApplied = "already_applied"
)

// Scheduled run statuses
const (
	RunPending   = "pending"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// JobPosting represents an aggregated job posting
type JobPosting struct {
	ID              string     `json:"id"`
	ExternalID      string     `json:"external_id"`
	Source          string     `json:"source"` // jsearch, manual
	Title           string     `json:"title"`
	Company         string     `json:"company"`
	CompanyLogoURL  string     `json:"company_logo_url"`
	Description     string     `json:"description"`
	RequiredSkills  []string   `json:"required_skills"`
	Location        string     `json:"location"`
	WorkType        string     `json:"work_type"` // remote, onsite, hybrid
	SalaryMin       *int       `json:"salary_min"`
	SalaryMax       *int       `json:"salary_max"`
	SalaryCurrency  string     `json:"salary_currency"`
	EmploymentType  string     `json:"employment_type"`
	ExperienceLevel string     `json:"experience_level"` // entry, mid, senior, lead, executive
	ApplyURL        string     `json:"apply_url"`
	PostedAt        *time.Time `json:"posted_at"`
	ExpiresAt       *time.Time `json:"expires_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ResumeAnalysis holds the structured fields extracted from a resume
// by the external analysis service
type ResumeAnalysis struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Skills          []string  `json:"skills"`
	ExperienceYears *int      `json:"experience_years"` // nullable
	Summary         string    `json:"summary"`
	AnalyzedAt      time.Time `json:"analyzed_at"`
}

// AutoApplyConfig is the user's auto-apply configuration
type AutoApplyConfig struct {
	Enabled            bool   `json:"enabled"`
	Threshold          int    `json:"threshold"`   // 0-100, default 75
	DailyLimit         int    `json:"daily_limit"` // default 10
	Schedule           string `json:"schedule"`    // now, after_1hr, daily_automatic, manual
	EmailNotifications bool   `json:"email_notifications"`
}

// JobPreferences represents a user's job search preferences
type JobPreferences struct {
	UserID           string          `json:"user_id"`
	DesiredRoles     []string        `json:"desired_roles"`
	Locations        []string        `json:"locations"`
	RemotePreference string          `json:"remote_preference"`
	MinSalary        *int            `json:"min_salary"`
	MaxSalary        *int            `json:"max_salary"`
	AutoApply        AutoApplyConfig `json:"auto_apply"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// SubScores is the per-factor breakdown of a match score
type SubScores struct {
	SkillsMatch     int `json:"skills_match"`
	ExperienceMatch int `json:"experience_match"`
	LocationMatch   int `json:"location_match"`
	SalaryMatch     int `json:"salary_match"`
	RoleMatch       int `json:"role_match"`
}

// MatchResult is the scored compatibility between a job and a user profile
type MatchResult struct {
	JobID       string    `json:"job_id"`
	Score       int       `json:"score"`
	Reasons     SubScores `json:"reasons"`
	Explanation string    `json:"explanation"`
}

// Application represents a job application record
type Application struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	JobPostingID   string     `json:"job_posting_id"`
	JobTitle       string     `json:"job_title"`
	CompanyName    string     `json:"company_name"`
	CompanyLogoURL string     `json:"company_logo_url"`
	JobURL         string     `json:"job_url"`
	JobDescription string     `json:"job_description"`
	Location       string     `json:"location"`
	WorkType       string     `json:"work_type"`
	SalaryRange    string     `json:"salary_range"`
	Status         string     `json:"status"`
	AppliedAt      *time.Time `json:"applied_at"` // set only on applied/auto_applied
	MatchScore     *int       `json:"match_score"`
	MatchReasons   *SubScores `json:"match_reasons"`
	CreatedAt      time.Time  `json:"created_at"`
}

// AutoApplyResult is the per-job disposition of an auto-apply run
type AutoApplyResult struct {
	JobID       string `json:"job_id"`
	JobTitle    string `json:"job_title"`
	CompanyName string `json:"company_name"`
	Status      string `json:"status"` // auto_applied, manual_required, already_applied, failed
	MatchScore  int    `json:"match_score"`
	ApplyURL    string `json:"apply_url,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// RunSummary tallies the dispositions of an auto-apply run
type RunSummary struct {
	AutoApplied    int `json:"auto_applied"`
	ManualRequired int `json:"manual_required"`
	Failed         int `json:"failed"`
}

// DailyAnalytics holds per-user per-day counters
type DailyAnalytics struct {
	UserID             string `json:"user_id"`
	Date               string `json:"date"` // YYYY-MM-DD, UTC
	JobsViewed         int    `json:"jobs_viewed"`
	JobsAutoApplied    int    `json:"jobs_auto_applied"`
	JobsManualRequired int    `json:"jobs_manual_required"`
	ApplicationsSent   int    `json:"applications_sent"`
}

// ScheduledRun is a durable record of a deferred auto-apply invocation
type ScheduledRun struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FireAt    time.Time `json:"fire_at"`
	Status    string    `json:"status"` // pending, completed, failed
	CreatedAt time.Time `json:"created_at"`
}

var salaryPrinter = message.NewPrinter(language.English)

// SalaryRangeLabel formats a posting's salary band for display and for the
// denormalized applications snapshot. Returns "" when the posting has no band.
func (j *JobPosting) SalaryRangeLabel() string {
	if j.SalaryMin == nil || j.SalaryMax == nil {
		return ""
	}
	currency := j.SalaryCurrency
	if currency == "" {
		currency = "USD"
	}
	return salaryPrinter.Sprintf("%s %d - %d", currency, *j.SalaryMin, *j.SalaryMax)
}

// IsRemote reports whether the posting is tagged or located as remote
func (j *JobPosting) IsRemote() bool {
	return strings.Contains(strings.ToLower(j.WorkType), "remote") ||
		strings.Contains(strings.ToLower(j.Location), "remote")
}

// String implements fmt.Stringer for compact log lines
func (m MatchResult) String() string {
	return fmt.Sprintf("%s score=%d", m.JobID, m.Score)
}
