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

// NormalizeAndValidate returns a cleaned copy of cfg plus everything wrong
// or suspicious about it. Errors block saving; warnings do not.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	// Normalize channel names; drop empty and duplicate entries.
	seen := map[string]bool{}
	var channels []Channel
	for _, ch := range out.Notify.Channels {
		ch.Name = strings.TrimSpace(ch.Name)
		ch.PingRole = strings.TrimSpace(ch.PingRole)
		ch.WebhookURL = strings.TrimSpace(ch.WebhookURL)
		if ch.Name == "" {
			continue
		}
		key := strings.ToLower(ch.Name)
		if seen[key] {
			res.addWarn("duplicate notify channel %q dropped", ch.Name)
			continue
		}
		seen[key] = true
		channels = append(channels, ch)
	}
	out.Notify.Channels = channels

	out.Sources.RMP.BaseURL = strings.TrimRight(strings.TrimSpace(out.Sources.RMP.BaseURL), "/")
	out.Sources.GMFJ.BaseURL = strings.TrimRight(strings.TrimSpace(out.Sources.GMFJ.BaseURL), "/")

	// ---- Validation rules ----

	if !out.Sources.RMP.Enabled && !out.Sources.GMFJ.Enabled {
		res.addWarn("no sources enabled; the poller will run but fetch nothing")
	}

	if out.Polling.IntervalHours <= 0 {
		res.addErr("polling.interval_hours must be > 0")
	} else if out.Polling.IntervalHours > 24 {
		res.addWarn("polling.interval_hours is %d; listings may be stale for more than a day", out.Polling.IntervalHours)
	}

	if out.Sources.RMP.Enabled && out.Sources.RMP.BaseURL == "" {
		res.addErr("sources.rmp.base_url is required when sources.rmp.enabled=true")
	}
	if out.Sources.GMFJ.Enabled {
		if out.Sources.GMFJ.BaseURL == "" {
			res.addErr("sources.gmfj.base_url is required when sources.gmfj.enabled=true")
		}
		if strings.TrimSpace(out.Sources.GMFJ.UserAgent) == "" {
			res.addWarn("sources.gmfj.user_agent is empty; the site may reject default Go client requests")
		}
	}

	if out.Notify.Enabled && len(out.Notify.Channels) == 0 {
		res.addWarn("notify.enabled=true but no channels configured; nothing will be announced")
	}

	return out, res
}
