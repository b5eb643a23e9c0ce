package domain

// Provider names as they appear in JobPosting.Source.
const (
	SourceAdzuna     = "Adzuna"
	SourceRemotive   = "Remotive"
	SourceGreenhouse = "Greenhouse"
	SourceLever      = "Lever"
	SourceEmailAlert = "EmailAlert"
)

// Salary periods accepted on a posting. Anything else is treated as yearly.
const (
	PeriodYear  = "year"
	PeriodMonth = "month"
	PeriodWeek  = "week"
	PeriodDay   = "day"
	PeriodHour  = "hour"
)

// JobPosting is the common record shape every source adapter produces.
// Only Source and Title are expected to be present; every other field may be
// empty/nil and the pipeline must tolerate that.
type JobPosting struct {
	Source      string `json:"source"`
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Company     string `json:"company,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`

	// Created is the provider's posting timestamp, ISO-8601 when known.
	Created string `json:"created,omitempty"`

	SalaryMin    *float64 `json:"salary_min,omitempty"`
	SalaryMax    *float64 `json:"salary_max,omitempty"`
	SalaryPeriod string   `json:"salary_period,omitempty"`
	Currency     string   `json:"currency,omitempty"`
	Country      string   `json:"country,omitempty"`

	// RedirectURL is the canonical link to the original posting and the
	// primary dedup key.
	RedirectURL string `json:"redirect_url,omitempty"`

	Comp   *CompEstimate   `json:"_comp,omitempty"`
	Scores *ScoreBreakdown `json:"_scores,omitempty"`
}

// DedupKey returns the composite dedup key: redirect URL when present, else
// source:id. Empty string means the posting cannot be deduplicated safely.
func (j JobPosting) DedupKey() string {
	if j.RedirectURL != "" {
		return j.RedirectURL
	}
	if j.Source != "" && j.ID != "" {
		return j.Source + ":" + j.ID
	}
	return ""
}

// CompEstimate is attached once per deduplicated posting and never recomputed.
type CompEstimate struct {
	Currency       string   `json:"currency"`
	AnnualEstLocal *float64 `json:"annual_est_local"`
	AnnualGBP      *float64 `json:"annual_gbp"`
	COLFactor      float64  `json:"col_factor"`
	Confidence     float64  `json:"confidence"`
}

// ScoreBreakdown holds the five component signals and their weighted sum,
// each in [0,1]. Computed in one batch over the whole candidate set.
type ScoreBreakdown struct {
	Relevance float64 `json:"relevance"`
	Salary    float64 `json:"salary"`
	Recency   float64 `json:"recency"`
	Seniority float64 `json:"seniority"`
	Keywords  float64 `json:"keywords"`
	Final     float64 `json:"final"`
}
