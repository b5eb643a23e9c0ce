package lever

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobrank-engine/internal/source"
)

const acmePostings = `[
  {
    "id": "abc-123",
    "text": "Data Analyst",
    "hostedUrl": "https://jobs.lever.co/acme/abc-123",
    "createdAt": 1749546000000,
    "description": "<p>Build <b>dashboards</b>.</p>",
    "descriptionPlain": "Build dashboards.",
    "categories": {"location": "London, UK", "team": "Data"}
  },
  {
    "id": "abc-124",
    "text": "Office Manager",
    "hostedUrl": "https://jobs.lever.co/acme/abc-124",
    "createdAt": 1749546000000,
    "description": "<p>Run the office.</p>",
    "descriptionPlain": "",
    "categories": {"location": "London, UK", "team": "Ops"}
  }
]`

func TestFetch_MapsPostings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/acme", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("mode"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(acmePostings))
	}))
	defer srv.Close()

	c := New(Config{Boards: []Board{{Slug: "acme"}}, BaseURL: srv.URL}, nil)
	jobs, err := c.Fetch(context.Background(), source.Query{Text: "analyst"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	j := jobs[0]
	assert.Equal(t, "Lever", j.Source)
	assert.Equal(t, "abc-123", j.ID)
	assert.Equal(t, "acme", j.Company)
	assert.Equal(t, "Data", j.Category)
	assert.Equal(t, "Build dashboards.", j.Description, "plain description preferred")
	assert.Equal(t, "2025-06-10T09:00:00Z", j.Created, "ms epoch rendered as RFC3339 UTC")
	assert.Equal(t, "https://jobs.lever.co/acme/abc-123", j.RedirectURL)
}

func TestFetch_StripsHTMLWhenNoPlainDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(acmePostings))
	}))
	defer srv.Close()

	c := New(Config{Boards: []Board{{Slug: "acme"}}, BaseURL: srv.URL}, nil)
	jobs, err := c.Fetch(context.Background(), source.Query{Text: "office"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Run the office.", jobs[0].Description)
}
