package adzuna

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobrank-engine/internal/source"
)

const sampleResponse = `{
  "results": [
    {
      "id": 5001234567,
      "title": "Data Analyst",
      "description": "Analyse trading data with Python and SQL.",
      "created": "2025-06-10T09:00:00Z",
      "redirect_url": "https://www.adzuna.co.uk/jobs/details/5001234567",
      "salary_min": 45000,
      "salary_max": 55000,
      "company": {"display_name": "Acme Capital"},
      "location": {"display_name": "London, UK"},
      "category": {"label": "Accounting & Finance Jobs"}
    },
    {
      "id": 5001234568,
      "title": "Junior Analyst",
      "description": "Entry level.",
      "created": "2025-06-11T09:00:00Z",
      "redirect_url": "https://www.adzuna.co.uk/jobs/details/5001234568",
      "salary_min": 0,
      "salary_max": 0,
      "company": {"display_name": "Beta Ltd"},
      "location": {"display_name": "Leeds, UK"},
      "category": {"label": "Accounting & Finance Jobs"}
    }
  ]
}`

func TestFetch_MapsResults(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	c := New(Config{AppID: "id", AppKey: "key", Country: "gb", BaseURL: srv.URL}, nil)
	jobs, err := c.Fetch(context.Background(), source.Query{
		Text:       "data analyst",
		Location:   "London",
		MinSalary:  40000,
		MaxDaysOld: 30,
		Page:       1,
		PerPage:    50,
	})
	require.NoError(t, err)

	assert.Equal(t, "/gb/search/1", gotPath)
	assert.Equal(t, "id", gotQuery["app_id"][0])
	assert.Equal(t, "key", gotQuery["app_key"][0])
	assert.Equal(t, "data analyst", gotQuery["what"][0])
	assert.Equal(t, "London", gotQuery["where"][0])
	assert.Equal(t, "40000", gotQuery["salary_min"][0])
	assert.Equal(t, "30", gotQuery["max_days_old"][0])
	assert.Equal(t, "50", gotQuery["results_per_page"][0])

	require.Len(t, jobs, 2)

	j := jobs[0]
	assert.Equal(t, "Adzuna", j.Source)
	assert.Equal(t, "5001234567", j.ID)
	assert.Equal(t, "Data Analyst", j.Title)
	assert.Equal(t, "Acme Capital", j.Company)
	assert.Equal(t, "London, UK", j.Location)
	assert.Equal(t, "GBP", j.Currency)
	assert.Equal(t, "year", j.SalaryPeriod)
	assert.Equal(t, "gb", j.Country)
	require.NotNil(t, j.SalaryMin)
	assert.Equal(t, 45000.0, *j.SalaryMin)

	// zero salaries map to absent
	assert.Nil(t, jobs[1].SalaryMin)
	assert.Nil(t, jobs[1].SalaryMax)
}

func TestFetch_SkipsWithoutCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("must not be called without credentials")
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL}, nil)
	jobs, err := c.Fetch(context.Background(), source.Query{Text: "analyst"})
	assert.NoError(t, err)
	assert.Nil(t, jobs)
}

func TestFetch_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	c := New(Config{AppID: "id", AppKey: "key", BaseURL: srv.URL}, nil)
	_, err := c.Fetch(context.Background(), source.Query{Text: "analyst"})
	assert.ErrorContains(t, err, "403")
}

func TestPages(t *testing.T) {
	c := New(Config{AppID: "id", AppKey: "key"}, nil)
	assert.Equal(t, 1, c.Pages(true))
	assert.Equal(t, 2, c.Pages(false))
}
