// Package greenhouse fetches postings from the Greenhouse job-board JSON
// API, one board slug at a time.
package greenhouse

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jobrank-engine/internal/domain"
	"jobrank-engine/internal/source"
	"jobrank-engine/internal/source/srcutil"
)

const defaultBaseURL = "https://boards-api.greenhouse.io/v1/boards"

type Board struct {
	Slug string // boards-api.greenhouse.io/v1/boards/<slug>/jobs
	Name string // display name; defaults to the slug
}

type Config struct {
	Boards  []Board
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

func (c *Client) Name() string { return "greenhouse" }

type boardResponse struct {
	Jobs []boardJob `json:"jobs"`
}

type boardJob struct {
	ID          json.Number `json:"id"`
	Title       string      `json:"title"`
	UpdatedAt   string      `json:"updated_at"`
	AbsoluteURL string      `json:"absolute_url"`
	Location    struct {
		Name string `json:"name"`
	} `json:"location"`
}

// Fetch collects postings across all configured boards, filtering by title
// against the query. One board being down never fails the whole source.
func (c *Client) Fetch(ctx context.Context, q source.Query) ([]domain.JobPosting, error) {
	var out []domain.JobPosting
	for _, b := range c.cfg.Boards {
		jobs, err := c.fetchBoard(ctx, b, q)
		if err != nil {
			log.Printf("[greenhouse] board=%q err=%v", b.Slug, err)
			continue
		}
		out = append(out, jobs...)
	}
	return out, nil
}

func (c *Client) fetchBoard(ctx context.Context, b Board, q source.Query) ([]domain.JobPosting, error) {
	slug := strings.TrimSpace(b.Slug)
	if slug == "" {
		return nil, fmt.Errorf("empty board slug")
	}
	name := strings.TrimSpace(b.Name)
	if name == "" {
		name = slug
	}

	reqURL := fmt.Sprintf("%s/%s/jobs", c.cfg.BaseURL, url.PathEscape(slug))
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
		return nil, fmt.Errorf("greenhouse get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("greenhouse status %d", res.StatusCode)
	}

	var br boardResponse
	if err := json.NewDecoder(res.Body).Decode(&br); err != nil {
		return nil, fmt.Errorf("greenhouse decode: %w", err)
	}

	query := strings.ToLower(strings.TrimSpace(q.Text))
	out := make([]domain.JobPosting, 0, len(br.Jobs))
	for _, j := range br.Jobs {
		if query != "" && !strings.Contains(strings.ToLower(j.Title), query) {
			continue
		}
		out = append(out, domain.JobPosting{
			Source:      domain.SourceGreenhouse,
			ID:          j.ID.String(),
			Title:       j.Title,
			Company:     name,
			Location:    j.Location.Name,
			Created:     j.UpdatedAt,
			RedirectURL: j.AbsoluteURL,
		})
	}
	return out, nil
}
