package jsearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

const sampleResponse = `{
	"data": [
		{
			"job_id": "abc123",
			"job_title": "Senior Go Engineer",
			"employer_name": "Acme Corp",
			"employer_logo": "https://logo.example.com/acme.png",
			"job_description": "Build backend services in Go.",
			"job_city": "Austin",
			"job_state": "TX",
			"job_country": "US",
			"job_employment_type": "FULLTIME",
			"job_is_remote": true,
			"job_min_salary": 140000,
			"job_max_salary": 180000,
			"job_salary_currency": "USD",
			"job_required_skills": ["Go", "PostgreSQL"],
			"job_apply_link": "https://acme.example.com/jobs/1",
			"job_posted_at_datetime_utc": "2025-06-10T00:00:00Z"
		},
		{
			"job_id": "def456",
			"job_title": "Backend Developer",
			"employer_name": "Widget Inc",
			"job_description": "",
			"job_city": "",
			"job_state": "",
			"job_country": "GB",
			"job_is_remote": false,
			"job_apply_link": ""
		}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("test-key", strings.TrimPrefix(srv.URL, "http://"), srv.Client(), zap.NewNop())
	// httptest serves plain http
	c.scheme = "http"
	return c, srv
}

func TestSearchMapsFields(t *testing.T) {
	var gotQuery, gotKey string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		gotKey = r.Header.Get("X-RapidAPI-Key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleResponse))
	})

	jobs, err := c.Search(context.Background(), SearchOptions{Query: "go engineer", Location: "Austin"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotQuery != "go engineer in Austin" {
		t.Errorf("query = %q", gotQuery)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
	if len(jobs) != 2 {
		t.Fatalf("jobs = %d, want 2", len(jobs))
	}

	first := jobs[0]
	if first.ExternalID != "abc123" || first.Source != "jsearch" {
		t.Errorf("identity = %q/%q", first.ExternalID, first.Source)
	}
	if first.WorkType != "remote" {
		t.Errorf("work type = %q, want remote", first.WorkType)
	}
	if first.Location != "Austin, TX, US" {
		t.Errorf("location = %q", first.Location)
	}
	if first.SalaryMin == nil || *first.SalaryMin != 140000 {
		t.Errorf("salary min = %v", first.SalaryMin)
	}
	if first.PostedAt == nil {
		t.Errorf("posted at not parsed")
	}

	second := jobs[1]
	if second.WorkType != "onsite" {
		t.Errorf("work type = %q, want onsite", second.WorkType)
	}
	if second.Location != "GB" {
		t.Errorf("location = %q, empty parts must be dropped", second.Location)
	}
	if second.SalaryMin != nil {
		t.Errorf("salary min = %v, want nil", second.SalaryMin)
	}
}

func TestSearchDefaultsQueryAndPage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("query") != "software developer" {
			t.Errorf("query = %q", q.Get("query"))
		}
		if q.Get("page") != "1" {
			t.Errorf("page = %q", q.Get("page"))
		}
		if q.Get("remote_jobs_only") != "" {
			t.Errorf("remote_jobs_only sent without RemoteOnly")
		}
		w.Write([]byte(`{"data": []}`))
	})

	if _, err := c.Search(context.Background(), SearchOptions{}); err != nil {
		t.Fatalf("Search: %v", err)
	}
}

func TestSearchRemoteOnly(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("remote_jobs_only") != "true" {
			t.Errorf("remote_jobs_only not set")
		}
		w.Write([]byte(`{"data": []}`))
	})

	if _, err := c.Search(context.Background(), SearchOptions{RemoteOnly: true}); err != nil {
		t.Fatalf("Search: %v", err)
	}
}

func TestSearchAPIError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := c.Search(context.Background(), SearchOptions{})
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error = %v, want status code included", err)
	}
}

func TestSearchMissingAPIKey(t *testing.T) {
	c := NewClient("", "", nil, zap.NewNop())
	if _, err := c.Search(context.Background(), SearchOptions{}); err == nil {
		t.Fatal("expected error without api key")
	}
}
