package matcher

import (
	"strings"
	"testing"

	"github.com/oluwadami/jobpilot/pkg/models"
)

func intp(v int) *int { return &v }

func profileWith(prefs *models.JobPreferences, analysis *models.ResumeAnalysis) Profile {
	return Profile{Analysis: analysis, Preferences: prefs}
}

func TestMatchSkills(t *testing.T) {
	tests := []struct {
		name     string
		required []string
		user     []string
		expected int
	}{
		{
			name:     "half of required skills covered",
			required: []string{"python", "sql"},
			user:     []string{"Python", "Go"},
			expected: 50,
		},
		{
			name:     "all covered via substring overlap",
			required: []string{"postgres", "go"},
			user:     []string{"PostgreSQL", "Golang"},
			expected: 100,
		},
		{
			name:     "no required skills is neutral",
			required: nil,
			user:     []string{"Python"},
			expected: skillsNeutral,
		},
		{
			name:     "no user skills is neutral",
			required: []string{"python"},
			user:     nil,
			expected: skillsNoProfile,
		},
		{
			name:     "one of three",
			required: []string{"rust", "kafka", "terraform"},
			user:     []string{"Terraform"},
			expected: 33,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, _ := matchSkills(tt.required, tt.user)
			if score != tt.expected {
				t.Errorf("matchSkills(%v, %v) = %d, expected %d", tt.required, tt.user, score, tt.expected)
			}
		})
	}
}

func TestMatchSkillsSubstringDirection(t *testing.T) {
	// "PostgreSQL" covers required "sql" because the required token is a
	// substring of the user skill
	score, matched := matchSkills([]string{"sql"}, []string{"PostgreSQL"})
	if score != 100 {
		t.Errorf("expected 100, got %d", score)
	}
	if len(matched) != 1 || matched[0] != "sql" {
		t.Errorf("unexpected matched list: %v", matched)
	}
}

func TestMatchExperience(t *testing.T) {
	tests := []struct {
		name     string
		job      models.JobPosting
		years    *int
		expected int
	}{
		{
			name:     "senior title with one year is the low band",
			job:      models.JobPosting{Title: "Senior Backend Engineer"},
			years:    intp(1),
			expected: experienceLow,
		},
		{
			name:     "senior level met",
			job:      models.JobPosting{Title: "Backend Engineer", ExperienceLevel: "senior"},
			years:    intp(6),
			expected: 100,
		},
		{
			name:     "one year below the bar",
			job:      models.JobPosting{ExperienceLevel: "senior"},
			years:    intp(4),
			expected: experienceClose,
		},
		{
			name:     "lead bar from title keyword",
			job:      models.JobPosting{Title: "Tech Lead"},
			years:    intp(2),
			expected: experienceLow,
		},
		{
			name:     "entry title always clears",
			job:      models.JobPosting{Title: "Junior Developer"},
			years:    intp(0),
			expected: 100,
		},
		{
			name:     "executive level",
			job:      models.JobPosting{ExperienceLevel: "executive"},
			years:    intp(12),
			expected: 100,
		},
		{
			name:     "no years is neutral",
			job:      models.JobPosting{ExperienceLevel: "senior"},
			years:    nil,
			expected: experienceNeutral,
		},
		{
			name:     "no level signal is neutral",
			job:      models.JobPosting{Title: "Software Engineer"},
			years:    intp(10),
			expected: experienceNeutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchExperience(&tt.job, tt.years)
			if got != tt.expected {
				t.Errorf("matchExperience() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestMatchLocation(t *testing.T) {
	remoteJob := models.JobPosting{Location: "Remote", WorkType: "remote"}
	berlinJob := models.JobPosting{Location: "Berlin, Germany", WorkType: "onsite"}

	tests := []struct {
		name       string
		job        models.JobPosting
		remotePref string
		locations  []string
		expected   int
	}{
		{"remote preference with remote job", remoteJob, models.RemotePrefRemote, nil, 100},
		{"any preference is flat neutral", berlinJob, models.RemotePrefAny, []string{"Berlin"}, locationNeutral},
		{"preferred location substring match", berlinJob, models.RemotePrefOnsite, []string{"berlin"}, 100},
		{"preferred location miss", berlinJob, models.RemotePrefOnsite, []string{"London"}, locationMiss},
		{"remote job under hybrid preference", remoteJob, models.RemotePrefHybrid, []string{"London"}, locationRemoteOK},
		{"no preference data", berlinJob, models.RemotePrefOnsite, nil, locationNeutral},
		{"no locations but remote-friendly", remoteJob, models.RemotePrefHybrid, nil, locationRemoteOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchLocation(&tt.job, tt.remotePref, tt.locations)
			if got != tt.expected {
				t.Errorf("matchLocation() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestMatchSalary(t *testing.T) {
	band := func(min, max int) models.JobPosting {
		return models.JobPosting{SalaryMin: intp(min), SalaryMax: intp(max)}
	}

	tests := []struct {
		name     string
		job      models.JobPosting
		min, max *int
		expected int
	}{
		{"band covers desired range", band(90000, 120000), intp(80000), intp(130000), 100},
		{"band top clears minimum", band(60000, 90000), intp(80000), nil, salaryPartial},
		{"band below minimum", band(40000, 60000), intp(80000), nil, salaryLow},
		{"no band is neutral", models.JobPosting{}, intp(80000), nil, salaryNeutral},
		{"no stated minimum is neutral", band(90000, 120000), nil, nil, salaryNeutral},
		{"no stated maximum still matches fully", band(90000, 200000), intp(80000), nil, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchSalary(&tt.job, tt.min, tt.max)
			if got != tt.expected {
				t.Errorf("matchSalary() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestMatchRole(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		roles    []string
		expected int
	}{
		{"desired role is substring of title", "Senior Backend Engineer", []string{"backend engineer"}, 100},
		{"leading title token inside role phrase", "Engineer, Platform", []string{"backend engineer"}, 100},
		{"no overlap", "Accountant", []string{"backend engineer"}, roleMiss},
		{"no desired roles", "Accountant", nil, roleNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchRole(tt.title, tt.roles)
			if got != tt.expected {
				t.Errorf("matchRole(%q, %v) = %d, expected %d", tt.title, tt.roles, got, tt.expected)
			}
		})
	}
}

func TestScoreRanges(t *testing.T) {
	jobs := []*models.JobPosting{
		{ID: "a", Title: "Senior Go Developer", RequiredSkills: []string{"go", "sql"},
			Location: "Remote", WorkType: "remote", SalaryMin: intp(100000), SalaryMax: intp(150000),
			ExperienceLevel: "senior"},
		{ID: "b", Title: "Marketing Intern"},
		{ID: "c", Title: "Lead Designer", RequiredSkills: []string{"figma"}, Location: "Paris"},
	}

	profiles := []Profile{
		{},
		profileWith(&models.JobPreferences{
			DesiredRoles:     []string{"go developer"},
			Locations:        []string{"Paris"},
			RemotePreference: models.RemotePrefRemote,
			MinSalary:        intp(90000),
		}, &models.ResumeAnalysis{Skills: []string{"Go", "PostgreSQL"}, ExperienceYears: intp(7)}),
	}

	for _, job := range jobs {
		for _, profile := range profiles {
			result := Score(job, profile)
			if result.Score < 0 || result.Score > 100 {
				t.Errorf("score out of range for %s: %d", job.ID, result.Score)
			}
			for name, sub := range map[string]int{
				"skills":     result.Reasons.SkillsMatch,
				"experience": result.Reasons.ExperienceMatch,
				"location":   result.Reasons.LocationMatch,
				"salary":     result.Reasons.SalaryMatch,
				"role":       result.Reasons.RoleMatch,
			} {
				if sub < 0 || sub > 100 {
					t.Errorf("%s sub-score out of range for %s: %d", name, job.ID, sub)
				}
			}
			if result.Explanation == "" {
				t.Errorf("empty explanation for %s", job.ID)
			}
		}
	}
}

func TestScoreDeterministic(t *testing.T) {
	job := &models.JobPosting{
		ID: "job-1", Title: "Senior Backend Engineer",
		RequiredSkills: []string{"go", "kubernetes", "postgres"},
		Location:       "Remote", WorkType: "remote",
		SalaryMin: intp(120000), SalaryMax: intp(160000),
	}
	profile := profileWith(&models.JobPreferences{
		DesiredRoles:     []string{"backend engineer"},
		RemotePreference: models.RemotePrefRemote,
		MinSalary:        intp(110000),
	}, &models.ResumeAnalysis{Skills: []string{"Go", "Postgres"}, ExperienceYears: intp(6)})

	first := Score(job, profile)
	for i := 0; i < 10; i++ {
		again := Score(job, profile)
		if again != first {
			t.Fatalf("Score is not deterministic: %+v vs %+v", first, again)
		}
	}
}

func TestScoreSparseProfileStaysNeutral(t *testing.T) {
	job := &models.JobPosting{ID: "job-1", Title: "Software Engineer"}
	result := Score(job, Profile{})

	// Empty profile data must land on neutral defaults, not zero
	if result.Score < 50 {
		t.Errorf("sparse profile scored too low: %d", result.Score)
	}
	if result.Explanation != "Potential match based on available data" {
		t.Errorf("unexpected fallback explanation: %q", result.Explanation)
	}
}

func TestExplanationClauses(t *testing.T) {
	job := &models.JobPosting{
		ID: "job-1", Title: "Senior Go Engineer",
		RequiredSkills: []string{"go", "sql"},
		Location:       "Remote", WorkType: "remote",
		SalaryMin: intp(120000), SalaryMax: intp(160000),
		ExperienceLevel: "senior",
	}
	profile := profileWith(&models.JobPreferences{
		DesiredRoles:     []string{"go engineer"},
		RemotePreference: models.RemotePrefRemote,
		MinSalary:        intp(100000),
	}, &models.ResumeAnalysis{Skills: []string{"Golang", "PostgreSQL"}, ExperienceYears: intp(8)})

	result := Score(job, profile)
	for _, clause := range []string{
		"Strong skills match (2 skills)",
		"Matches your desired role",
		"Remote position available",
		"Salary within your range",
		"Experience level aligned",
	} {
		if !strings.Contains(result.Explanation, clause) {
			t.Errorf("explanation missing %q: %q", clause, result.Explanation)
		}
	}
}

func TestWeightsSumToOne(t *testing.T) {
	total := WeightRole + WeightSkills + WeightExperience + WeightLocation + WeightSalary
	if total != 1.0 {
		t.Errorf("weights sum to %v, expected 1.0", total)
	}
}
