package rank

import (
	"math"
	"sort"
	"strings"
	"time"

	"jobrank-engine/internal/domain"
)

const (
	recencyHalfScale   = 14.0 // exp(-ageDays/14)
	recencyUnknown     = 0.5
	salaryMissing      = 0.2
	seniorityMismatch  = 0.3
	keywordsAllMatch   = 1.0
	keywordsSomeMatch  = 0.8
	keywordsNoneOrNone = 0.6
)

var juniorMarkers = []string{"intern", "graduate", "junior", "entry"}
var seniorMarkers = []string{"senior", "lead", "principal", "staff", "head"}

// Rank scores every posting against the CV and preferences in one batch and
// returns them ordered by final score, highest first. Ties keep their
// original relative order. Input postings are not mutated; the returned
// copies carry a ScoreBreakdown.
func Rank(cvText string, jobs []domain.JobPosting, prefs domain.Preferences) []domain.JobPosting {
	return rankAt(time.Now().UTC(), cvText, jobs, prefs)
}

func rankAt(now time.Time, cvText string, jobs []domain.JobPosting, prefs domain.Preferences) []domain.JobPosting {
	if len(jobs) == 0 {
		return nil
	}

	docs := make([]string, len(jobs))
	for i, j := range jobs {
		docs[i] = j.Description
	}
	rel := CosineSimilarities(cvText, docs)
	sal := salaryScores(jobs)
	rec := recencyScores(now, jobs)

	w := normalizeWeights(prefs.Weights)

	out := make([]domain.JobPosting, len(jobs))
	for i, j := range jobs {
		sc := domain.ScoreBreakdown{
			Relevance: rel[i],
			Salary:    sal[i],
			Recency:   rec[i],
			Seniority: seniorityScore(j.Title, prefs.Seniority),
			Keywords:  keywordScore(j, prefs.MustHaveKeywords),
		}
		sc.Final = w[domain.SignalRelevance]*sc.Relevance +
			w[domain.SignalSalary]*sc.Salary +
			w[domain.SignalRecency]*sc.Recency +
			w[domain.SignalSeniority]*sc.Seniority +
			w[domain.SignalKeywords]*sc.Keywords
		out[i] = j
		out[i].Scores = &sc
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Scores.Final > out[b].Scores.Final
	})
	return out
}

// normalizeWeights scales the weight map to sum to 1. A zero (or empty) sum
// is treated as 1 so an all-zero map still yields a bounded result.
func normalizeWeights(w map[string]float64) map[string]float64 {
	if len(w) == 0 {
		w = domain.DefaultWeights()
	}
	var sum float64
	for _, v := range w {
		sum += v
	}
	if sum == 0 {
		sum = 1
	}
	out := make(map[string]float64, len(w))
	for k, v := range w {
		out[k] = v / sum
	}
	return out
}

// salaryScores min-max normalizes the COL-adjusted GBP estimates across the
// batch. Postings without an estimate get a low-but-nonzero default; if no
// posting has one, everything scores 0.
func salaryScores(jobs []domain.JobPosting) []float64 {
	out := make([]float64, len(jobs))

	var mn, mx float64
	any := false
	for _, j := range jobs {
		if v, ok := annualGBP(j); ok {
			if !any || v < mn {
				mn = v
			}
			if !any || v > mx {
				mx = v
			}
			any = true
		}
	}
	if !any {
		return out
	}

	rng := mx - mn
	if rng < 1.0 {
		rng = 1.0
	}
	for i, j := range jobs {
		if v, ok := annualGBP(j); ok {
			out[i] = (v - mn) / rng
		} else {
			out[i] = salaryMissing
		}
	}
	return out
}

func annualGBP(j domain.JobPosting) (float64, bool) {
	if j.Comp == nil || j.Comp.AnnualGBP == nil {
		return 0, false
	}
	return *j.Comp.AnnualGBP, true
}

// recencyScores applies exponential decay on age in whole days. Unparsable
// or missing timestamps get a neutral default rather than an error.
func recencyScores(now time.Time, jobs []domain.JobPosting) []float64 {
	out := make([]float64, len(jobs))
	for i, j := range jobs {
		t, ok := parseCreated(j.Created)
		if !ok {
			out[i] = recencyUnknown
			continue
		}
		days := int(now.Sub(t).Hours() / 24)
		if days < 0 {
			days = 0
		}
		out[i] = math.Exp(-float64(days) / recencyHalfScale)
	}
	return out
}

var createdLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseCreated(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range createdLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// seniorityBucket classifies a title as junior, senior or mid by keyword.
func seniorityBucket(title string) string {
	t := strings.ToLower(title)
	for _, m := range juniorMarkers {
		if strings.Contains(t, m) {
			return "junior"
		}
	}
	for _, m := range seniorMarkers {
		if strings.Contains(t, m) {
			return "senior"
		}
	}
	return "mid"
}

// seniorityScore is 1.0 on a bucket match (or target "any"), else a fixed
// low score: title wording is too unreliable to zero a posting out.
func seniorityScore(title, target string) float64 {
	target = strings.ToLower(strings.TrimSpace(target))
	if target == "" || target == "any" || seniorityBucket(title) == target {
		return 1.0
	}
	return seniorityMismatch
}

// keywordScore checks each required keyword as a lowercase substring of
// title+description. All matched: 1.0; some: 0.8; otherwise 0.6. A posting with no
// required keywords also scores 0.6, so "nothing required" and "nothing
// matched" deliberately rank the same.
func keywordScore(j domain.JobPosting, keywords []string) float64 {
	var kws []string
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			kws = append(kws, k)
		}
	}
	if len(kws) == 0 {
		return keywordsNoneOrNone
	}

	text := strings.ToLower(j.Title + " " + j.Description)
	matched := 0
	for _, k := range kws {
		if strings.Contains(text, k) {
			matched++
		}
	}
	switch {
	case matched == len(kws):
		return keywordsAllMatch
	case matched > 0:
		return keywordsSomeMatch
	default:
		return keywordsNoneOrNone
	}
}
