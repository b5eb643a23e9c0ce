// Package adzuna fetches postings from the Adzuna search API. It is the
// only paginated, credentialed source: the aggregator schedules one task per
// page and the adapter skips quietly when no API keys are configured.
package adzuna

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"context"

	"jobrank-engine/internal/domain"
	"jobrank-engine/internal/source"
	"jobrank-engine/internal/source/srcutil"
)

const defaultBaseURL = "https://api.adzuna.com/v1/api/jobs"

type Config struct {
	AppID   string
	AppKey  string
	Country string // default market when the query carries none
	BaseURL string // test override; empty = production endpoint
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

func (c *Client) Name() string { return "adzuna" }

// Pages implements source.Paginated: one page in fast mode, two otherwise.
func (c *Client) Pages(fast bool) int {
	if fast {
		return 1
	}
	return 2
}

type searchResponse struct {
	Results []result `json:"results"`
}

type result struct {
	ID          json.Number `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Created     string      `json:"created"`
	RedirectURL string      `json:"redirect_url"`
	SalaryMin   float64     `json:"salary_min"`
	SalaryMax   float64     `json:"salary_max"`
	Company     struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
	Category struct {
		Label string `json:"label"`
	} `json:"category"`
}

func (c *Client) Fetch(ctx context.Context, q source.Query) ([]domain.JobPosting, error) {
	if c.cfg.AppID == "" || c.cfg.AppKey == "" {
		log.Printf("[adzuna] no app_id/app_key configured, skipping")
		return nil, nil
	}

	country := strings.ToLower(strings.TrimSpace(q.Country))
	if country == "" {
		country = c.cfg.Country
	}
	if country == "" {
		country = "gb"
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	perPage := q.PerPage
	if perPage <= 0 {
		perPage = 50
	}

	params := url.Values{}
	params.Set("app_id", c.cfg.AppID)
	params.Set("app_key", c.cfg.AppKey)
	params.Set("results_per_page", strconv.Itoa(perPage))
	params.Set("content-type", "application/json")
	params.Set("what", q.Text)
	if q.Location != "" {
		params.Set("where", q.Location)
	}
	if q.MinSalary > 0 {
		params.Set("salary_min", strconv.Itoa(q.MinSalary))
	}
	if q.MaxDaysOld > 0 {
		params.Set("max_days_old", strconv.Itoa(q.MaxDaysOld))
	}

	reqURL := fmt.Sprintf("%s/%s/search/%d?%s", c.cfg.BaseURL, country, page, params.Encode())
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
		return nil, fmt.Errorf("adzuna get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("adzuna status %d", res.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("adzuna decode: %w", err)
	}

	out := make([]domain.JobPosting, 0, len(sr.Results))
	for _, it := range sr.Results {
		currency := ""
		if country == "gb" {
			currency = "GBP"
		}
		out = append(out, domain.JobPosting{
			Source:       domain.SourceAdzuna,
			ID:           it.ID.String(),
			Title:        it.Title,
			Company:      it.Company.DisplayName,
			Location:     it.Location.DisplayName,
			Description:  it.Description,
			Category:     it.Category.Label,
			Created:      it.Created,
			RedirectURL:  it.RedirectURL,
			SalaryMin:    optFloat(it.SalaryMin),
			SalaryMax:    optFloat(it.SalaryMax),
			SalaryPeriod: domain.PeriodYear,
			Currency:     currency,
			Country:      country,
		})
	}
	return out, nil
}

func optFloat(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return &v
}
