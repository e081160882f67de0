// Package matcher implements the canonical job/profile scoring algorithm.
// Both the interactive match path and the auto-apply batch path consume this
// single implementation.
package matcher

import (
	"fmt"
	"math"
	"strings"

	"github.com/oluwadami/jobpilot/pkg/models"
)

// Canonical sub-score weights. These must sum to 1.0.
const (
	WeightRole       = 0.30
	WeightSkills     = 0.27
	WeightExperience = 0.15
	WeightLocation   = 0.15
	WeightSalary     = 0.13
)

// Neutral defaults used when a factor has no data to work with. A job is
// never scored to zero just because the profile is sparse.
const (
	roleNeutral       = 60 // no desired roles configured
	roleMiss          = 25 // desired roles configured, none match
	skillsNeutral     = 60 // job lists no required skills
	skillsNoProfile   = 50 // user has no extracted skills
	experienceNeutral = 55 // no level signal or unknown experience
	experienceClose   = 70 // within one year of the bar
	experienceLow     = 35 // further below the bar
	locationNeutral   = 70 // no location preference data
	locationRemoteOK  = 80 // remote job under a non-onsite preference
	locationMiss      = 30
	salaryNeutral     = 55 // missing band or no stated minimum
	salaryPartial     = 70 // band tops clear the user's minimum
	salaryLow         = 30
)

// explanationThreshold is the sub-score at which a factor is called out in
// the explanation string
const explanationThreshold = 70

// Years of experience implied by each experience-level tag
var levelRequirements = map[string]int{
	"entry":     0,
	"mid":       2,
	"senior":    5,
	"lead":      7,
	"executive": 10,
}

func init() {
	total := WeightRole + WeightSkills + WeightExperience + WeightLocation + WeightSalary
	if math.Abs(total-1.0) > 1e-9 {
		panic(fmt.Sprintf("matcher weights must sum to 1.0, got %v", total))
	}
}

// Profile is the user side of a match: resume-derived facts plus stated
// preferences. Either part may be nil.
type Profile struct {
	Analysis    *models.ResumeAnalysis
	Preferences *models.JobPreferences
}

// Score calculates how well a job matches a user's profile. It is a pure
// function: no I/O, deterministic for identical inputs, never fails for
// well-formed input.
func Score(job *models.JobPosting, profile Profile) models.MatchResult {
	var desiredRoles, locations []string
	remotePref := models.RemotePrefAny
	var minSalary, maxSalary *int
	if profile.Preferences != nil {
		desiredRoles = profile.Preferences.DesiredRoles
		locations = profile.Preferences.Locations
		if profile.Preferences.RemotePreference != "" {
			remotePref = profile.Preferences.RemotePreference
		}
		minSalary = profile.Preferences.MinSalary
		maxSalary = profile.Preferences.MaxSalary
	}

	var userSkills []string
	var experienceYears *int
	if profile.Analysis != nil {
		userSkills = profile.Analysis.Skills
		experienceYears = profile.Analysis.ExperienceYears
	}

	skillsScore, matchedSkills := matchSkills(job.RequiredSkills, userSkills)
	reasons := models.SubScores{
		RoleMatch:       matchRole(job.Title, desiredRoles),
		SkillsMatch:     skillsScore,
		ExperienceMatch: matchExperience(job, experienceYears),
		LocationMatch:   matchLocation(job, remotePref, locations),
		SalaryMatch:     matchSalary(job, minSalary, maxSalary),
	}

	score := int(math.Round(
		float64(reasons.RoleMatch)*WeightRole +
			float64(reasons.SkillsMatch)*WeightSkills +
			float64(reasons.ExperienceMatch)*WeightExperience +
			float64(reasons.LocationMatch)*WeightLocation +
			float64(reasons.SalaryMatch)*WeightSalary))

	return models.MatchResult{
		JobID:       job.ID,
		Score:       score,
		Reasons:     reasons,
		Explanation: buildExplanation(job, reasons, matchedSkills),
	}
}

// matchRole checks the job title against the user's desired role phrases
func matchRole(title string, desiredRoles []string) int {
	if len(desiredRoles) == 0 {
		return roleNeutral
	}

	titleLower := strings.ToLower(title)
	titleWords := strings.Fields(titleLower)

	for _, role := range desiredRoles {
		roleLower := strings.ToLower(role)
		if strings.Contains(titleLower, roleLower) {
			return 100
		}
		// "Engineer, Backend" still matches a desired role of
		// "backend engineer" through the leading title token
		if len(titleWords) > 0 && strings.Contains(roleLower, strings.Trim(titleWords[0], ".,")) {
			return 100
		}
	}
	return roleMiss
}

// matchSkills counts required job skills covered by the user's skill list.
// Tokens overlap when either side contains the other, case-insensitively.
// Returns the score and the list of matched job skills.
func matchSkills(requiredSkills, userSkills []string) (int, []string) {
	if len(requiredSkills) == 0 {
		return skillsNeutral, nil
	}
	if len(userSkills) == 0 {
		return skillsNoProfile, nil
	}

	userLower := make([]string, len(userSkills))
	for i, s := range userSkills {
		userLower[i] = strings.ToLower(s)
	}

	matched := []string{}
	for _, required := range requiredSkills {
		requiredLower := strings.ToLower(required)
		for _, user := range userLower {
			if strings.Contains(user, requiredLower) || strings.Contains(requiredLower, user) {
				matched = append(matched, required)
				break
			}
		}
	}

	score := math.Round(float64(len(matched)) / float64(len(requiredSkills)) * 100)
	return int(score), matched
}

// matchExperience compares the user's years of experience against the bar
// implied by the job's experience level or title keywords
func matchExperience(job *models.JobPosting, experienceYears *int) int {
	required, ok := requiredYears(job)
	if !ok || experienceYears == nil {
		return experienceNeutral
	}

	years := *experienceYears
	switch {
	case years >= required:
		return 100
	case years >= required-1:
		return experienceClose
	default:
		return experienceLow
	}
}

// requiredYears derives the minimum-years bar from the experience-level tag,
// falling back to title keywords
func requiredYears(job *models.JobPosting) (int, bool) {
	if years, ok := levelRequirements[strings.ToLower(job.ExperienceLevel)]; ok {
		return years, true
	}

	title := strings.ToLower(job.Title)
	switch {
	case strings.Contains(title, "senior") || strings.Contains(title, "lead"):
		return levelRequirements["senior"], true
	case strings.Contains(title, "junior") || strings.Contains(title, "entry"):
		return levelRequirements["entry"], true
	}
	return 0, false
}

// matchLocation scores the job's location against the remote preference and
// preferred location list
func matchLocation(job *models.JobPosting, remotePref string, locations []string) int {
	isRemote := job.IsRemote()

	if remotePref == models.RemotePrefRemote && isRemote {
		return 100
	}
	if remotePref == models.RemotePrefAny {
		return locationNeutral
	}
	if len(locations) == 0 {
		if isRemote && remotePref != models.RemotePrefOnsite {
			return locationRemoteOK
		}
		return locationNeutral
	}

	jobLocation := strings.ToLower(job.Location)
	for _, loc := range locations {
		if strings.Contains(jobLocation, strings.ToLower(loc)) {
			return 100
		}
	}
	if isRemote && remotePref != models.RemotePrefOnsite {
		return locationRemoteOK
	}
	return locationMiss
}

// matchSalary scores the job's salary band against the user's desired range
func matchSalary(job *models.JobPosting, minSalary, maxSalary *int) int {
	if job.SalaryMin == nil || job.SalaryMax == nil || minSalary == nil {
		return salaryNeutral
	}

	withinMax := maxSalary == nil || *job.SalaryMax <= *maxSalary
	switch {
	case *job.SalaryMin >= *minSalary && withinMax:
		return 100
	case *job.SalaryMax >= *minSalary:
		return salaryPartial
	default:
		return salaryLow
	}
}

// buildExplanation concatenates human-readable clauses for every factor that
// crossed the notable threshold
func buildExplanation(job *models.JobPosting, reasons models.SubScores, matchedSkills []string) string {
	parts := []string{}
	if reasons.SkillsMatch >= explanationThreshold && len(matchedSkills) > 0 {
		parts = append(parts, fmt.Sprintf("Strong skills match (%d skills)", len(matchedSkills)))
	}
	if reasons.RoleMatch >= explanationThreshold {
		parts = append(parts, "Matches your desired role")
	}
	if reasons.LocationMatch >= locationRemoteOK {
		if job.IsRemote() {
			parts = append(parts, "Remote position available")
		} else {
			parts = append(parts, "Good location match")
		}
	}
	if reasons.SalaryMatch >= explanationThreshold {
		parts = append(parts, "Salary within your range")
	}
	if reasons.ExperienceMatch >= explanationThreshold {
		parts = append(parts, "Experience level aligned")
	}

	if len(parts) == 0 {
		return "Potential match based on available data"
	}
	return strings.Join(parts, ". ")
}
