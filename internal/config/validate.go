package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate tidies a loaded config and reports anything a user
// should fix. Warnings never block startup; errors do.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimBoards := func(bs []Board) []Board {
		seen := map[string]bool{}
		var ys []Board
		for _, b := range bs {
			b.Slug = strings.TrimSpace(b.Slug)
			b.Name = strings.TrimSpace(b.Name)
			if b.Slug == "" {
				continue
			}
			key := strings.ToLower(b.Slug)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, b)
		}
		return ys
	}

	out.Sources.Greenhouse.Boards = trimBoards(out.Sources.Greenhouse.Boards)
	out.Sources.Lever.Boards = trimBoards(out.Sources.Lever.Boards)
	out.Sources.Adzuna.Country = strings.ToLower(strings.TrimSpace(out.Sources.Adzuna.Country))
	out.Comp.BaseCity = strings.TrimSpace(out.Comp.BaseCity)

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if out.Cache.TTLSeconds < 0 {
		res.addErr("cache.ttl_seconds must be >= 0")
	} else if out.Cache.TTLSeconds == 0 {
		out.Cache.TTLSeconds = 300
	}

	if out.Comp.BaseCity == "" {
		out.Comp.BaseCity = "London"
	}

	src := out.Sources
	if !src.Adzuna.Enabled && !src.Remotive.Enabled &&
		!src.Greenhouse.Enabled && !src.Lever.Enabled && !src.EmailAlerts.Enabled {
		res.addWarn("no sources enabled; every search will come back empty")
	}
	if src.Greenhouse.Enabled && len(src.Greenhouse.Boards) == 0 {
		res.addWarn("greenhouse is enabled but has no boards configured")
	}
	if src.Lever.Enabled && len(src.Lever.Boards) == 0 {
		res.addWarn("lever is enabled but has no boards configured")
	}

	if src.EmailAlerts.Enabled {
		if strings.TrimSpace(src.EmailAlerts.IMAPHost) == "" {
			res.addErr("sources.email_alerts.imap_host is required when email alerts are enabled")
		}
		if strings.TrimSpace(src.EmailAlerts.Username) == "" {
			res.addErr("sources.email_alerts.username is required when email alerts are enabled")
		}
		if src.EmailAlerts.IMAPPort == 0 {
			out.Sources.EmailAlerts.IMAPPort = 993
		}
		if strings.TrimSpace(src.EmailAlerts.Mailbox) == "" {
			out.Sources.EmailAlerts.Mailbox = "INBOX"
		}
	}

	return out, res
}
