// Package remotive fetches remote postings from the public Remotive API.
// No credentials, no pagination; the API returns one batch per search and
// the adapter truncates it to the per-source cap.
package remotive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"jobrank-engine/internal/domain"
	"jobrank-engine/internal/source"
	"jobrank-engine/internal/source/srcutil"
)

const defaultBaseURL = "https://remotive.com/api/remote-jobs"

type Config struct {
	BaseURL string // test override
}

type Client struct {
	cfg     Config
	hc      *http.Client
	limiter *srcutil.HostLimiter
}

func New(cfg Config, limiter *srcutil.HostLimiter) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Client{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: limiter,
	}
}

func (c *Client) Name() string { return "remotive" }

type apiResponse struct {
	Jobs []apiJob `json:"jobs"`
}

type apiJob struct {
	ID                        json.Number `json:"id"`
	Title                     string      `json:"title"`
	CompanyName               string      `json:"company_name"`
	CandidateRequiredLocation string      `json:"candidate_required_location"`
	PublicationDate           string      `json:"publication_date"`
	Category                  string      `json:"category"`
	URL                       string      `json:"url"`
	Description               string      `json:"description"` // HTML
}

func (c *Client) Fetch(ctx context.Context, q source.Query) ([]domain.JobPosting, error) {
	reqURL := c.cfg.BaseURL + "?search=" + url.QueryEscape(q.Text)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "jobrank/1.0 (+local)")
	req.Header.Set("Accept", "application/json")

	if err := c.limiter.WaitURL(ctx, reqURL); err != nil {
		return nil, err
	}
	res, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remotive get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("remotive status %d", res.StatusCode)
	}

	var ar apiResponse
	if err := json.NewDecoder(res.Body).Decode(&ar); err != nil {
		return nil, fmt.Errorf("remotive decode: %w", err)
	}

	jobs := ar.Jobs
	if q.PerPage > 0 && len(jobs) > q.PerPage {
		jobs = jobs[:q.PerPage]
	}

	out := make([]domain.JobPosting, 0, len(jobs))
	for _, it := range jobs {
		loc := it.CandidateRequiredLocation
		if loc == "" {
			loc = "Remote"
		}
		out = append(out, domain.JobPosting{
			Source:      domain.SourceRemotive,
			ID:          it.ID.String(),
			Title:       it.Title,
			Company:     it.CompanyName,
			Location:    loc,
			Description: srcutil.StripHTML(it.Description),
			Category:    it.Category,
			Created:     it.PublicationDate,
			RedirectURL: it.URL,
		})
	}
	return out, nil
}
