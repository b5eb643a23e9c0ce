package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Board identifies a posting board for board-style sources.
type Board struct {
	Slug string `yaml:"slug" json:"slug"`
	Name string `yaml:"name" json:"name"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Sources struct {
		Adzuna struct {
			Enabled bool   `yaml:"enabled" json:"enabled"`
			Country string `yaml:"country" json:"country"` // default market, e.g. "gb"
		} `yaml:"adzuna" json:"adzuna"`

		Remotive struct {
			Enabled bool `yaml:"enabled" json:"enabled"`
		} `yaml:"remotive" json:"remotive"`

		Greenhouse struct {
			Enabled bool    `yaml:"enabled" json:"enabled"`
			Boards  []Board `yaml:"boards" json:"boards"`
		} `yaml:"greenhouse" json:"greenhouse"`

		Lever struct {
			Enabled bool    `yaml:"enabled" json:"enabled"`
			Boards  []Board `yaml:"boards" json:"boards"`
		} `yaml:"lever" json:"lever"`

		EmailAlerts struct {
			Enabled     bool   `yaml:"enabled" json:"enabled"`
			IMAPHost    string `yaml:"imap_host" json:"imap_host"`
			IMAPPort    int    `yaml:"imap_port" json:"imap_port"`
			Username    string `yaml:"username" json:"username"`
			Mailbox     string `yaml:"mailbox" json:"mailbox"`
			MaxMessages int    `yaml:"max_messages" json:"max_messages"`
		} `yaml:"email_alerts" json:"email_alerts"`
	} `yaml:"sources" json:"sources"`

	Comp struct {
		BaseCity string `yaml:"base_city" json:"base_city"`
		// TablesPath optionally overrides the compiled-in reference tables
		// (benchmarks, COL index, FX rates) from one YAML file.
		TablesPath string `yaml:"tables_path" json:"tables_path"`
	} `yaml:"comp" json:"comp"`

	Cache struct {
		// TTLSeconds is how long a search run answers identical repeat
		// requests without refetching. 0 picks the default (300).
		TTLSeconds int `yaml:"ttl_seconds" json:"ttl_seconds"`
	} `yaml:"cache" json:"cache"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
