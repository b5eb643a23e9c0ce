package greenhouse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobrank-engine/internal/source"
)

const acmeJobs = `{
  "jobs": [
    {
      "id": 400123,
      "title": "Data Analyst",
      "updated_at": "2025-06-10T09:00:00Z",
      "absolute_url": "https://boards.greenhouse.io/acme/jobs/400123",
      "location": {"name": "London, UK"}
    },
    {
      "id": 400124,
      "title": "Account Executive",
      "updated_at": "2025-06-10T09:00:00Z",
      "absolute_url": "https://boards.greenhouse.io/acme/jobs/400124",
      "location": {"name": "London, UK"}
    }
  ]
}`

func TestFetch_TitleFilterAndBoardName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/acme/jobs", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(acmeJobs))
	}))
	defer srv.Close()

	c := New(Config{
		Boards:  []Board{{Slug: "acme", Name: "Acme Capital"}},
		BaseURL: srv.URL,
	}, nil)

	jobs, err := c.Fetch(context.Background(), source.Query{Text: "analyst"})
	require.NoError(t, err)
	require.Len(t, jobs, 1, "titles that miss the query are dropped")

	j := jobs[0]
	assert.Equal(t, "Greenhouse", j.Source)
	assert.Equal(t, "400123", j.ID)
	assert.Equal(t, "Acme Capital", j.Company)
	assert.Equal(t, "London, UK", j.Location)
	assert.Equal(t, "2025-06-10T09:00:00Z", j.Created)
	assert.Equal(t, "https://boards.greenhouse.io/acme/jobs/400123", j.RedirectURL)
}

func TestFetch_BoardFailureIsSoft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken/jobs" {
			http.Error(w, "nope", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(acmeJobs))
	}))
	defer srv.Close()

	c := New(Config{
		Boards:  []Board{{Slug: "broken"}, {Slug: "acme"}},
		BaseURL: srv.URL,
	}, nil)

	jobs, err := c.Fetch(context.Background(), source.Query{Text: "analyst"})
	require.NoError(t, err, "one board down never fails the source")
	require.Len(t, jobs, 1)
	assert.Equal(t, "acme", jobs[0].Company, "board name defaults to the slug")
}
