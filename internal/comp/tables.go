package comp

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Benchmark is one row of the compensation-benchmark table. Rows are matched
// by case-insensitive substring against the first word of a job title.
type Benchmark struct {
	Title    string  `yaml:"title"`
	Currency string  `yaml:"currency"`
	Mid      float64 `yaml:"mid"`
}

// Tables bundles the static reference data the estimator needs. Loaded once
// at startup and read-only afterwards.
type Tables struct {
	Benchmarks []Benchmark        `yaml:"benchmarks"`
	COLIndex   map[string]float64 `yaml:"col_index"`
	FXToGBP    map[string]float64 `yaml:"fx_to_gbp"`
}

// DefaultTables returns the compiled-in reference data. Any of the three
// tables can be overridden from a YAML file via LoadTables.
func DefaultTables() Tables {
	return Tables{
		Benchmarks: []Benchmark{
			{Title: "investment analyst", Currency: "GBP", Mid: 62000},
			{Title: "financial analyst", Currency: "GBP", Mid: 58000},
			{Title: "data analyst", Currency: "GBP", Mid: 48000},
			{Title: "business analyst", Currency: "GBP", Mid: 50000},
			{Title: "analyst", Currency: "GBP", Mid: 52000},
			{Title: "data scientist", Currency: "GBP", Mid: 72000},
			{Title: "software engineer", Currency: "GBP", Mid: 70000},
			{Title: "engineer", Currency: "GBP", Mid: 65000},
			{Title: "developer", Currency: "GBP", Mid: 62000},
			{Title: "product manager", Currency: "GBP", Mid: 75000},
			{Title: "manager", Currency: "GBP", Mid: 68000},
			{Title: "consultant", Currency: "GBP", Mid: 60000},
			{Title: "associate", Currency: "GBP", Mid: 58000},
			{Title: "accountant", Currency: "GBP", Mid: 48000},
			{Title: "designer", Currency: "GBP", Mid: 50000},
		},
		COLIndex: map[string]float64{
			"London":        100,
			"Manchester":    78,
			"Birmingham":    75,
			"Leeds":         74,
			"Glasgow":       76,
			"Edinburgh":     80,
			"Bristol":       82,
			"Cambridge":     88,
			"Oxford":        90,
			"Remote":        95,
			"New York":      135,
			"San Francisco": 150,
			"Paris":         105,
			"Berlin":        90,
			"Amsterdam":     102,
			"Dublin":        98,
		},
		FXToGBP: map[string]float64{
			"GBP": 1.0,
			"USD": 0.78,
			"EUR": 0.85,
		},
	}
}

// LoadTables starts from the defaults and overlays whatever the YAML file at
// path provides. An empty path or a missing file yields the defaults; a file
// that exists but does not parse is an error.
func LoadTables(path string) (Tables, error) {
	t := DefaultTables()
	if path == "" {
		return t, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return t, fmt.Errorf("read tables: %w", err)
	}

	var o Tables
	if err := yaml.Unmarshal(b, &o); err != nil {
		return t, fmt.Errorf("parse tables %s: %w", path, err)
	}
	if len(o.Benchmarks) > 0 {
		t.Benchmarks = o.Benchmarks
	}
	if len(o.COLIndex) > 0 {
		t.COLIndex = o.COLIndex
	}
	if len(o.FXToGBP) > 0 {
		t.FXToGBP = o.FXToGBP
	}
	return t, nil
}
