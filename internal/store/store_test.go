package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/oluwadami/jobpilot/internal/apperrors"
	"github.com/oluwadami/jobpilot/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func testJob(id string) *models.JobPosting {
	min, max := 120000, 160000
	return &models.JobPosting{
		ID:             id,
		ExternalID:     "ext-" + id,
		Source:         "jsearch",
		Title:          "Backend Engineer",
		Company:        "Acme",
		RequiredSkills: []string{"go", "sql"},
		Location:       "Austin, TX, US",
		WorkType:       models.RemotePrefRemote,
		SalaryMin:      &min,
		SalaryMax:      &max,
	}
}

func testApplication(userID, jobID string, status string) *models.Application {
	score := 82
	now := time.Now().UTC()
	a := &models.Application{
		UserID:       userID,
		JobPostingID: jobID,
		JobTitle:     "Backend Engineer",
		CompanyName:  "Acme",
		Status:       status,
		MatchScore:   &score,
		MatchReasons: &models.SubScores{SkillsMatch: 90, RoleMatch: 85},
	}
	if status == models.StatusAutoApplied {
		a.AppliedAt = &now
	}
	return a
}

func TestCreateJobPostingDuplicate(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.CreateJobPosting(ctx, testJob("job-1")); err != nil {
		t.Fatalf("create: %v", err)
	}

	dup := testJob("job-1-again")
	dup.ExternalID = "ext-job-1"
	err := st.CreateJobPosting(ctx, dup)
	if !errors.Is(err, apperrors.ErrDuplicateJob) {
		t.Fatalf("err = %v, want ErrDuplicateJob", err)
	}
}

func TestUpsertJobPostingsSkipsDuplicates(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.CreateJobPosting(ctx, testJob("job-1")); err != nil {
		t.Fatalf("create: %v", err)
	}

	dup := testJob("job-1-dup")
	dup.ExternalID = "ext-job-1"
	saved, err := st.UpsertJobPostings(ctx, []*models.JobPosting{dup, testJob("job-2")})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if saved != 1 {
		t.Errorf("saved = %d, want 1", saved)
	}
}

func TestGetJobPostingRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	want := testJob("job-1")
	if err := st.CreateJobPosting(ctx, want); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := st.GetJobPosting(ctx, "job-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("job not found")
	}
	if got.Title != want.Title || got.Company != want.Company {
		t.Errorf("got %q at %q", got.Title, got.Company)
	}
	if len(got.RequiredSkills) != 2 || got.RequiredSkills[0] != "go" {
		t.Errorf("skills = %v", got.RequiredSkills)
	}
	if got.SalaryMin == nil || *got.SalaryMin != 120000 {
		t.Errorf("salary min = %v", got.SalaryMin)
	}

	missing, err := st.GetJobPosting(ctx, "nope")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("missing job = %+v, want nil", missing)
	}
}

func TestJobPreferencesClamping(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	err := st.SaveJobPreferences(ctx, &models.JobPreferences{
		UserID:           "user-1",
		RemotePreference: models.RemotePrefAny,
		AutoApply: models.AutoApplyConfig{
			Enabled:    true,
			Threshold:  250,
			DailyLimit: -3,
			Schedule:   models.ScheduleManual,
		},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	prefs, err := st.GetJobPreferences(ctx, "user-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if prefs.AutoApply.Threshold != DefaultThreshold {
		t.Errorf("threshold = %d, want %d", prefs.AutoApply.Threshold, DefaultThreshold)
	}
	if prefs.AutoApply.DailyLimit != DefaultDailyLimit {
		t.Errorf("daily limit = %d, want %d", prefs.AutoApply.DailyLimit, DefaultDailyLimit)
	}
}

func TestGetJobPreferencesMissing(t *testing.T) {
	st := newTestStore(t)
	prefs, err := st.GetJobPreferences(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if prefs != nil {
		t.Errorf("prefs = %+v, want nil", prefs)
	}
}

func TestGetResumeAnalysisReturnsLatest(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	old := &models.ResumeAnalysis{
		UserID:     "user-1",
		Skills:     []string{"php"},
		AnalyzedAt: time.Now().UTC().Add(-48 * time.Hour),
	}
	if err := st.SaveResumeAnalysis(ctx, old); err != nil {
		t.Fatalf("save old: %v", err)
	}
	latest := &models.ResumeAnalysis{
		UserID: "user-1",
		Skills: []string{"go", "sql"},
	}
	if err := st.SaveResumeAnalysis(ctx, latest); err != nil {
		t.Fatalf("save latest: %v", err)
	}

	got, err := st.GetResumeAnalysis(ctx, "user-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || len(got.Skills) != 2 || got.Skills[0] != "go" {
		t.Errorf("got %+v, want the latest analysis", got)
	}
}

func TestInsertApplicationDuplicate(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.CreateJobPosting(ctx, testJob("job-1")); err != nil {
		t.Fatalf("create job: %v", err)
	}
	if err := st.InsertApplication(ctx, testApplication("user-1", "job-1", models.StatusManualRequired)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	err := st.InsertApplication(ctx, testApplication("user-1", "job-1", models.StatusManualRequired))
	if !errors.Is(err, apperrors.ErrDuplicateApplication) {
		t.Fatalf("err = %v, want ErrDuplicateApplication", err)
	}
}

func TestInsertAutoApplicationEnforcesQuota(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		if err := st.CreateJobPosting(ctx, testJob(fmt.Sprintf("job-%d", i))); err != nil {
			t.Fatalf("create job: %v", err)
		}
	}

	limit := 3
	for i := 1; i <= 3; i++ {
		appn := testApplication("user-1", fmt.Sprintf("job-%d", i), models.StatusAutoApplied)
		if err := st.InsertAutoApplication(ctx, appn, limit); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	over := testApplication("user-1", "job-4", models.StatusAutoApplied)
	err := st.InsertAutoApplication(ctx, over, limit)
	if !errors.Is(err, apperrors.ErrQuotaExhausted) {
		t.Fatalf("err = %v, want ErrQuotaExhausted", err)
	}

	count, err := st.CountAutoAppliedOn(ctx, "user-1", time.Now().UTC())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestInsertAutoApplicationConcurrentQuota(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	const attempts = 10
	const limit = 3
	for i := 0; i < attempts; i++ {
		if err := st.CreateJobPosting(ctx, testJob(fmt.Sprintf("job-%d", i))); err != nil {
			t.Fatalf("create job: %v", err)
		}
	}

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			appn := testApplication("user-1", fmt.Sprintf("job-%d", i), models.StatusAutoApplied)
			errs[i] = st.InsertAutoApplication(ctx, appn, limit)
		}(i)
	}
	wg.Wait()

	inserted := 0
	for i, err := range errs {
		switch {
		case err == nil:
			inserted++
		case errors.Is(err, apperrors.ErrQuotaExhausted):
		default:
			t.Errorf("attempt %d: unexpected error %v", i, err)
		}
	}
	if inserted != limit {
		t.Errorf("inserted = %d, want exactly %d under concurrency", inserted, limit)
	}

	count, err := st.CountAutoAppliedOn(ctx, "user-1", time.Now().UTC())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != limit {
		t.Errorf("persisted count = %d, want %d", count, limit)
	}
}

func TestCountAutoAppliedOnIgnoresOtherDaysAndStatuses(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"job-1", "job-2", "job-3"} {
		if err := st.CreateJobPosting(ctx, testJob(id)); err != nil {
			t.Fatalf("create job: %v", err)
		}
	}

	today := testApplication("user-1", "job-1", models.StatusAutoApplied)
	if err := st.InsertApplication(ctx, today); err != nil {
		t.Fatalf("insert today: %v", err)
	}

	yesterday := testApplication("user-1", "job-2", models.StatusAutoApplied)
	yesterday.CreatedAt = time.Now().UTC().Add(-26 * time.Hour)
	if err := st.InsertApplication(ctx, yesterday); err != nil {
		t.Fatalf("insert yesterday: %v", err)
	}

	manual := testApplication("user-1", "job-3", models.StatusManualRequired)
	if err := st.InsertApplication(ctx, manual); err != nil {
		t.Fatalf("insert manual: %v", err)
	}

	count, err := st.CountAutoAppliedOn(ctx, "user-1", time.Now().UTC())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestFindExistingApplications(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.CreateJobPosting(ctx, testJob("job-1")); err != nil {
		t.Fatalf("create job: %v", err)
	}
	if err := st.InsertApplication(ctx, testApplication("user-1", "job-1", models.StatusAutoApplied)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	existing, err := st.FindExistingApplications(ctx, "user-1", []string{"job-1", "job-2"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !existing["job-1"] || existing["job-2"] {
		t.Errorf("existing = %v", existing)
	}

	other, err := st.FindExistingApplications(ctx, "user-2", []string{"job-1"})
	if err != nil {
		t.Fatalf("find other user: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("other user's applications leaked: %v", other)
	}
}

func TestUpdateApplicationStatusStampsAppliedAt(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.CreateJobPosting(ctx, testJob("job-1")); err != nil {
		t.Fatalf("create job: %v", err)
	}
	appn := testApplication("user-1", "job-1", models.StatusManualRequired)
	if err := st.InsertApplication(ctx, appn); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := st.UpdateApplicationStatus(ctx, appn.ID, models.StatusApplied); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := st.GetApplicationByJob(ctx, "user-1", "job-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != models.StatusApplied {
		t.Errorf("status = %q", got.Status)
	}
	if got.AppliedAt == nil {
		t.Errorf("applied_at not stamped")
	}
	if got.MatchReasons == nil || got.MatchReasons.SkillsMatch != 90 {
		t.Errorf("match reasons = %+v", got.MatchReasons)
	}
}

func TestUpsertDailyAnalyticsAccumulates(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	date := "2025-06-15"

	if err := st.UpsertDailyAnalytics(ctx, "user-1", date, AnalyticsDelta{JobsViewed: 10, JobsAutoApplied: 2}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := st.UpsertDailyAnalytics(ctx, "user-1", date, AnalyticsDelta{JobsAutoApplied: 1, ApplicationsSent: 1}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := st.GetDailyAnalytics(ctx, "user-1", date)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.JobsViewed != 10 || got.JobsAutoApplied != 3 || got.ApplicationsSent != 1 {
		t.Errorf("analytics = %+v", got)
	}
}

func TestScheduledRunLifecycle(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	past, err := st.ScheduleRun(ctx, "user-1", now.Add(-time.Minute))
	if err != nil {
		t.Fatalf("schedule past: %v", err)
	}
	if _, err := st.ScheduleRun(ctx, "user-1", now.Add(time.Hour)); err != nil {
		t.Fatalf("schedule future: %v", err)
	}

	due, err := st.DueRuns(ctx, now)
	if err != nil {
		t.Fatalf("due runs: %v", err)
	}
	if len(due) != 1 || due[0].ID != past.ID {
		t.Fatalf("due = %+v, want only the past run", due)
	}

	if err := st.CompleteRun(ctx, past.ID, models.RunCompleted); err != nil {
		t.Fatalf("complete: %v", err)
	}

	due, err = st.DueRuns(ctx, now)
	if err != nil {
		t.Fatalf("due runs after complete: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("completed run still due: %+v", due)
	}
}
