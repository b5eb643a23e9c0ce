// Package lever fetches postings from the Lever postings JSON API, one
// board slug at a time.
package lever

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

const defaultBaseURL = "https://api.lever.co/v0/postings"

type Board struct {
	Slug string // api.lever.co/v0/postings/<slug>
	Name string
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

func (c *Client) Name() string { return "lever" }

type posting struct {
	ID               string `json:"id"`
	Text             string `json:"text"` // title
	HostedURL        string `json:"hostedUrl"`
	CreatedAt        int64  `json:"createdAt"` // ms epoch
	Description      string `json:"description"` // HTML
	DescriptionPlain string `json:"descriptionPlain"`
	Categories       struct {
		Location string `json:"location"`
		Team     string `json:"team"`
	} `json:"categories"`
}

func (c *Client) Fetch(ctx context.Context, q source.Query) ([]domain.JobPosting, error) {
	var out []domain.JobPosting
	for _, b := range c.cfg.Boards {
		jobs, err := c.fetchBoard(ctx, b, q)
		if err != nil {
			log.Printf("[lever] board=%q err=%v", b.Slug, err)
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

	reqURL := fmt.Sprintf("%s/%s?mode=json", c.cfg.BaseURL, url.PathEscape(slug))
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
		return nil, fmt.Errorf("lever get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("lever status %d", res.StatusCode)
	}

	var postings []posting
	if err := json.NewDecoder(res.Body).Decode(&postings); err != nil {
		return nil, fmt.Errorf("lever decode: %w", err)
	}

	query := strings.ToLower(strings.TrimSpace(q.Text))
	out := make([]domain.JobPosting, 0, len(postings))
	for _, p := range postings {
		title := strings.TrimSpace(p.Text)
		if title == "" {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(title), query) {
			continue
		}

		created := ""
		if p.CreatedAt > 0 {
			created = time.UnixMilli(p.CreatedAt).UTC().Format(time.RFC3339)
		}
		desc := p.DescriptionPlain
		if desc == "" {
			desc = srcutil.StripHTML(p.Description)
		}

		out = append(out, domain.JobPosting{
			Source:      domain.SourceLever,
			ID:          p.ID,
			Title:       title,
			Company:     name,
			Location:    p.Categories.Location,
			Description: desc,
			Category:    p.Categories.Team,
			Created:     created,
			RedirectURL: p.HostedURL,
		})
	}
	return out, nil
}
