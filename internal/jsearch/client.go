// Package jsearch is a thin client for the JSearch API on RapidAPI,
// used to ingest job postings.
package jsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/oluwadami/jobpilot/pkg/models"
	"go.uber.org/zap"
)

const (
	defaultHost = "jsearch.p.rapidapi.com"

	// The API can return very long descriptions; cap what we persist
	maxDescriptionLen = 10000
)

// Client calls the JSearch search endpoint and maps responses into postings
type Client struct {
	apiKey     string
	host       string
	scheme     string
	httpClient *http.Client
	logger     *zap.Logger
}

// SearchOptions shape one search request. Query defaults to
// "software developer" and Page to 1.
type SearchOptions struct {
	Query      string
	Location   string
	Page       int
	RemoteOnly bool
}

type searchResponse struct {
	Data []searchJob `json:"data"`
}

type searchJob struct {
	JobID             string   `json:"job_id"`
	JobTitle          string   `json:"job_title"`
	EmployerName      string   `json:"employer_name"`
	EmployerLogo      string   `json:"employer_logo"`
	JobDescription    string   `json:"job_description"`
	JobCity           string   `json:"job_city"`
	JobState          string   `json:"job_state"`
	JobCountry        string   `json:"job_country"`
	JobEmploymentType string   `json:"job_employment_type"`
	JobIsRemote       bool     `json:"job_is_remote"`
	JobMinSalary      *int     `json:"job_min_salary"`
	JobMaxSalary      *int     `json:"job_max_salary"`
	JobSalaryCurrency string   `json:"job_salary_currency"`
	JobRequiredSkills []string `json:"job_required_skills"`
	JobApplyLink      string   `json:"job_apply_link"`
	JobPostedAt       string   `json:"job_posted_at_datetime_utc"`
}

func NewClient(apiKey, host string, httpClient *http.Client, logger *zap.Logger) *Client {
	if host == "" {
		host = defaultHost
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		apiKey:     apiKey,
		host:       host,
		scheme:     "https",
		httpClient: httpClient,
		logger:     logger,
	}
}

// Search queries JSearch and returns the postings mapped into our model.
// Returned postings have no ID; the caller assigns one when persisting.
func (c *Client) Search(ctx context.Context, opts SearchOptions) ([]*models.JobPosting, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("jsearch api key not configured")
	}

	query := opts.Query
	if query == "" {
		query = "software developer"
	}
	if opts.Location != "" {
		query += " in " + opts.Location
	}
	page := opts.Page
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("num_pages", "1")
	params.Set("date_posted", "week")
	if opts.RemoteOnly {
		params.Set("remote_jobs_only", "true")
	}

	endpoint := fmt.Sprintf("%s://%s/search?%s", c.scheme, c.host, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)

	c.logger.Debug("searching jobs", zap.String("query", query), zap.Int("page", page))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("jsearch api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	jobs := make([]*models.JobPosting, 0, len(parsed.Data))
	for _, j := range parsed.Data {
		jobs = append(jobs, mapJob(j))
	}

	c.logger.Info("fetched jobs from jsearch", zap.Int("count", len(jobs)))
	return jobs, nil
}

func mapJob(j searchJob) *models.JobPosting {
	description := j.JobDescription
	if len(description) > maxDescriptionLen {
		description = description[:maxDescriptionLen]
	}

	workType := models.RemotePrefOnsite
	if j.JobIsRemote {
		workType = models.RemotePrefRemote
	}

	var postedAt *time.Time
	if j.JobPostedAt != "" {
		if t, err := time.Parse(time.RFC3339, j.JobPostedAt); err == nil {
			postedAt = &t
		}
	}

	return &models.JobPosting{
		ExternalID:      j.JobID,
		Source:          "jsearch",
		Title:           j.JobTitle,
		Company:         j.EmployerName,
		CompanyLogoURL:  j.EmployerLogo,
		Description:     description,
		RequiredSkills:  j.JobRequiredSkills,
		Location:        joinLocation(j.JobCity, j.JobState, j.JobCountry),
		WorkType:        workType,
		SalaryMin:       j.JobMinSalary,
		SalaryMax:       j.JobMaxSalary,
		SalaryCurrency:  j.JobSalaryCurrency,
		EmploymentType:  j.JobEmploymentType,
		ApplyURL:        j.JobApplyLink,
		PostedAt:        postedAt,
	}
}

func joinLocation(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
