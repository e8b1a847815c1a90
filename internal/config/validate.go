package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/rileyhilliard/socdash/internal/errors"
)

// minPollInterval keeps a typo like "3ms" from hammering the backend.
const minPollInterval = 100 * time.Millisecond

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but socdash only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade socdash or lower the version field.")
	}

	checks := []struct {
		section string
		fn      func() error
	}{
		{"api", func() error { return validateAPI(cfg.API) }},
		{"poll", func() error { return validatePoll(cfg.Poll) }},
		{"charts", func() error { return validateCharts(cfg.Charts) }},
		{"notifications", func() error { return validateNotifications(cfg.Notifications) }},
		{"actions", func() error { return validateActions(cfg.Actions) }},
		{"ui", func() error { return validateUI(cfg.UI) }},
		{"serve", func() error { return validateServe(cfg.Serve) }},
	}

	for _, c := range checks {
		if err := c.fn(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
				fmt.Sprintf("Check the '%s' section in your %s.", c.section, ConfigFileName))
		}
	}

	return nil
}

// ValidateBaseURL checks that raw is an absolute http(s) URL.
func ValidateBaseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("api.base_url is empty - point it at your backend, e.g. http://127.0.0.1:5000")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("api.base_url '%s' isn't a valid URL: %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url '%s' needs an http:// or https:// scheme", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("api.base_url '%s' is missing a host", raw)
	}
	return nil
}

func validateAPI(api APIConfig) error {
	if err := ValidateBaseURL(api.BaseURL); err != nil {
		return err
	}
	if api.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive (got %v)", api.Timeout)
	}
	if api.Breaker.MaxFailures > 0 && api.Breaker.OpenTimeout <= 0 {
		return fmt.Errorf("api.breaker.open_timeout must be positive when the breaker is enabled")
	}
	return nil
}

func validatePoll(poll PollConfig) error {
	intervals := []struct {
		name string
		d    time.Duration
	}{
		{"stats", poll.Stats},
		{"logs", poll.Logs},
		{"alerts", poll.Alerts},
		{"charts", poll.Charts},
	}
	for _, iv := range intervals {
		if iv.d < minPollInterval {
			return fmt.Errorf("poll.%s (%v) is too short - use at least %v", iv.name, iv.d, minPollInterval)
		}
	}
	return nil
}

func validateCharts(c ChartsConfig) error {
	if c.TimelineWindow < 1 {
		return fmt.Errorf("charts.timeline_window needs at least 1 point (got %d)", c.TimelineWindow)
	}
	if c.TrafficWindow < 1 {
		return fmt.Errorf("charts.traffic_window needs at least 1 point (got %d)", c.TrafficWindow)
	}
	if c.Jitter < 0 || c.Jitter > 100 {
		return fmt.Errorf("charts.jitter needs to be 0-100 (got %v)", c.Jitter)
	}
	return nil
}

func validateNotifications(n NotificationsConfig) error {
	if n.TTL <= 0 {
		return fmt.Errorf("notifications.ttl must be positive (got %v)", n.TTL)
	}
	if n.Max < 0 {
		return fmt.Errorf("notifications.max can't be negative - use 0 for no cap")
	}
	return nil
}

func validateActions(a ActionsConfig) error {
	if a.RefreshDelay < 0 || a.SimulateRefreshDelay < 0 {
		return fmt.Errorf("actions refresh delays can't be negative")
	}
	if a.Rate <= 0 {
		return fmt.Errorf("actions.rate must be positive (got %v)", a.Rate)
	}
	if a.Burst < 1 {
		return fmt.Errorf("actions.burst needs to be at least 1 (got %d)", a.Burst)
	}
	return nil
}

func validateUI(ui UIConfig) error {
	validColors := map[string]bool{"auto": true, "always": true, "never": true, "": true}
	if !validColors[ui.Color] {
		return fmt.Errorf("ui.color '%s' isn't valid - use 'auto', 'always', or 'never'", ui.Color)
	}
	if ui.Pulse < 0 || ui.CardReset < 0 {
		return fmt.Errorf("ui durations can't be negative")
	}
	return nil
}

func validateServe(s ServeConfig) error {
	if s.LogMin <= 0 || s.LogMax <= 0 {
		return fmt.Errorf("serve.log_min and serve.log_max must be positive")
	}
	if s.LogMin > s.LogMax {
		return fmt.Errorf("serve.log_min (%v) is longer than serve.log_max (%v)", s.LogMin, s.LogMax)
	}
	return nil
}
