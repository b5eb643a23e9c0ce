package comp

import (
	"strings"

	"jobrank-engine/internal/domain"
)

// Confidence levels: observed salary data beats a benchmark lookup beats
// nothing at all.
const (
	confObserved  = 0.7
	confBenchmark = 0.45
	confNone      = 0.3
)

// currencyHints maps location-text fragments to a currency code, tried in
// order when the posting carries no explicit currency.
var currencyHints = []struct {
	code      string
	fragments []string
}{
	{"GBP", []string{"london", "united kingdom", "uk"}},
	{"USD", []string{"united states", "new york", "san francisco"}},
	{"EUR", []string{"euro", "paris", "berlin", "amsterdam"}},
}

// Estimator turns raw salary hints into an annualized, GBP-converted,
// cost-of-living-adjusted estimate. It only depends on its Tables, which are
// read-only, so a single Estimator is safe for concurrent use.
type Estimator struct {
	tables Tables
}

func NewEstimator(tables Tables) *Estimator {
	return &Estimator{tables: tables}
}

// Annualize converts an amount in the given pay period to a yearly figure.
func Annualize(amount float64, period string) float64 {
	switch p := strings.ToLower(period); {
	case strings.HasPrefix(p, "hour"):
		return amount * 40 * 52
	case strings.HasPrefix(p, "day"):
		return amount * 5 * 52
	case strings.HasPrefix(p, "week"):
		return amount * 52
	case strings.HasPrefix(p, "month"):
		return amount * 12
	default:
		return amount
	}
}

// Estimate computes the CompEstimate for one posting. Missing table entries
// degrade to defaults (COL index 100/95, FX rate 1.0) rather than failing.
func (e *Estimator) Estimate(job domain.JobPosting, baseCity string) domain.CompEstimate {
	currency := job.Currency
	if currency == "" {
		currency = inferCurrency(job.Location)
	}
	if currency == "" {
		currency = "GBP"
	}

	var estAnnual *float64
	conf := confNone

	if center, ok := salaryCenter(job.SalaryMin, job.SalaryMax); ok {
		v := Annualize(center, job.SalaryPeriod)
		estAnnual = &v
		conf = confObserved
	} else if row, ok := e.benchmarkFor(job.Title); ok {
		v := row.Mid
		estAnnual = &v
		currency = row.Currency
		conf = confBenchmark
	}

	fx, ok := e.tables.FXToGBP[currency]
	if !ok {
		fx = 1.0
	}

	base, ok := e.tables.COLIndex[baseCity]
	if !ok {
		base = 100
	}
	locIdx := e.cityIndex(job.Location)
	colFactor := 1.0
	if base != 0 {
		colFactor = locIdx / base
	}

	est := domain.CompEstimate{
		Currency:       currency,
		AnnualEstLocal: estAnnual,
		COLFactor:      colFactor,
		Confidence:     conf,
	}
	if estAnnual != nil {
		gbp := *estAnnual * fx * colFactor
		est.AnnualGBP = &gbp
	}
	return est
}

// salaryCenter returns the center of the observed salary range. Zero values
// count as absent, matching how providers report unknown salaries.
func salaryCenter(min, max *float64) (float64, bool) {
	lo, okLo := positive(min)
	hi, okHi := positive(max)
	switch {
	case okLo && okHi:
		return (lo + hi) / 2, true
	case okHi:
		return hi, true
	case okLo:
		return lo, true
	default:
		return 0, false
	}
}

func positive(v *float64) (float64, bool) {
	if v == nil || *v <= 0 {
		return 0, false
	}
	return *v, true
}

// benchmarkFor matches the first word of the title (case-insensitive
// "contains" against each row title, first row wins) and falls back to the
// generic analyst row.
func (e *Estimator) benchmarkFor(title string) (Benchmark, bool) {
	first := ""
	if fields := strings.Fields(title); len(fields) > 0 {
		first = strings.ToLower(fields[0])
	}
	for _, row := range e.tables.Benchmarks {
		if strings.Contains(strings.ToLower(row.Title), first) {
			return row, true
		}
	}
	for _, row := range e.tables.Benchmarks {
		if strings.Contains(strings.ToLower(row.Title), "analyst") {
			return row, true
		}
	}
	return Benchmark{}, false
}

func (e *Estimator) cityIndex(location string) float64 {
	city := "Remote"
	if location != "" {
		city = strings.TrimSpace(strings.SplitN(location, ",", 2)[0])
	}
	if v, ok := e.tables.COLIndex[city]; ok {
		return v
	}
	if v, ok := e.tables.COLIndex["Remote"]; ok {
		return v
	}
	return 95
}

func inferCurrency(location string) string {
	loc := strings.ToLower(location)
	if loc == "" {
		return ""
	}
	for _, h := range currencyHints {
		for _, frag := range h.fragments {
			if strings.Contains(loc, frag) {
				return h.code
			}
		}
	}
	return ""
}
