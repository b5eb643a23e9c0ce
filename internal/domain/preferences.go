package domain

import "strings"

// Signal names used in the Preferences weight map.
const (
	SignalRelevance = "relevance"
	SignalSalary    = "salary"
	SignalRecency   = "recency"
	SignalSeniority = "seniority"
	SignalKeywords  = "keywords"
)

// Preferences is the search input supplied by the presentation layer.
type Preferences struct {
	Query     string `json:"query"`
	Location  string `json:"location"`
	Country   string `json:"country"` // market code, e.g. "gb"
	MinSalary int    `json:"min_salary"`

	Seniority        string   `json:"seniority"` // any|junior|mid|senior
	MustHaveKeywords []string `json:"must_have_keywords"`
	MaxDaysOld       int      `json:"max_days_old"`

	Weights map[string]float64 `json:"weights"`

	// Performance knobs. Fast mode and the strict-market filter default to
	// on when omitted, so both are pointers to distinguish "absent" from
	// "explicitly false".
	MaxPerSource int   `json:"max_per_source"`
	FastMode     *bool `json:"fast_mode"`
	StrictMarket *bool `json:"strict_market"`
}

// DefaultWeights is the weight map used when the caller supplies none.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		SignalRelevance: 0.45,
		SignalSalary:    0.25,
		SignalRecency:   0.15,
		SignalSeniority: 0.10,
		SignalKeywords:  0.05,
	}
}

// Normalized returns a copy with defaults applied and text fields tidied.
func (p Preferences) Normalized() Preferences {
	out := p
	out.Query = strings.TrimSpace(p.Query)
	out.Country = strings.ToLower(strings.TrimSpace(p.Country))
	if out.Country == "" {
		out.Country = "gb"
	}
	out.Seniority = strings.ToLower(strings.TrimSpace(p.Seniority))
	if out.Seniority == "" {
		out.Seniority = "any"
	}
	if out.MaxDaysOld <= 0 {
		out.MaxDaysOld = 30
	}
	if out.MaxPerSource <= 0 {
		out.MaxPerSource = 60
	}
	var kws []string
	for _, k := range p.MustHaveKeywords {
		if k = strings.TrimSpace(k); k != "" {
			kws = append(kws, k)
		}
	}
	out.MustHaveKeywords = kws
	if len(out.Weights) == 0 {
		out.Weights = DefaultWeights()
	}
	return out
}

// Fast reports whether fast mode is requested (default true).
func (p Preferences) Fast() bool {
	return p.FastMode == nil || *p.FastMode
}

// Strict reports whether the strict-market filter is requested (default true).
func (p Preferences) Strict() bool {
	return p.StrictMarket == nil || *p.StrictMarket
}
