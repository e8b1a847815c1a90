package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .socdash.yaml configuration file.
type Config struct {
	Version       int                 `yaml:"version" mapstructure:"version"`
	API           APIConfig           `yaml:"api" mapstructure:"api"`
	Poll          PollConfig          `yaml:"poll" mapstructure:"poll"`
	Charts        ChartsConfig        `yaml:"charts" mapstructure:"charts"`
	Notifications NotificationsConfig `yaml:"notifications" mapstructure:"notifications"`
	Actions       ActionsConfig       `yaml:"actions" mapstructure:"actions"`
	UI            UIConfig            `yaml:"ui" mapstructure:"ui"`
	Serve         ServeConfig         `yaml:"serve" mapstructure:"serve"`
}

// APIConfig controls how the dashboard talks to its backend.
type APIConfig struct {
	// BaseURL is the backend root, e.g. http://127.0.0.1:5000.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds a single request. A hung fetch is abandoned after this
	// and the next tick proceeds.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	Breaker BreakerConfig `yaml:"breaker" mapstructure:"breaker"`
}

// BreakerConfig tunes the circuit breaker around the API client.
type BreakerConfig struct {
	// MaxFailures is how many consecutive failures open the breaker.
	// Zero disables the breaker.
	MaxFailures uint32 `yaml:"max_failures" mapstructure:"max_failures"`

	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration `yaml:"open_timeout" mapstructure:"open_timeout"`
}

// PollConfig holds the period of each poll task.
type PollConfig struct {
	Stats  time.Duration `yaml:"stats" mapstructure:"stats"`
	Logs   time.Duration `yaml:"logs" mapstructure:"logs"`
	Alerts time.Duration `yaml:"alerts" mapstructure:"alerts"`
	Charts time.Duration `yaml:"charts" mapstructure:"charts"`
}

// ChartsConfig sizes the rolling chart windows.
type ChartsConfig struct {
	TimelineWindow int `yaml:"timeline_window" mapstructure:"timeline_window"`
	TrafficWindow  int `yaml:"traffic_window" mapstructure:"traffic_window"`

	// Jitter is the largest step the performance chart drifts per tick.
	Jitter float64 `yaml:"jitter" mapstructure:"jitter"`
}

// NotificationsConfig controls toasts.
type NotificationsConfig struct {
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`

	// Max caps concurrent toasts, dropping the oldest. Zero means no cap.
	Max int `yaml:"max" mapstructure:"max"`
}

// ActionsConfig controls response actions and attack simulation.
type ActionsConfig struct {
	// RefreshDelay is the pause between a successful action and the
	// out-of-band refresh of logs, alerts and stats.
	RefreshDelay time.Duration `yaml:"refresh_delay" mapstructure:"refresh_delay"`

	SimulateRefreshDelay time.Duration `yaml:"simulate_refresh_delay" mapstructure:"simulate_refresh_delay"`

	// Rate and Burst limit how fast actions can be sent.
	Rate  float64 `yaml:"rate" mapstructure:"rate"`
	Burst int     `yaml:"burst" mapstructure:"burst"`
}

// UIConfig controls terminal presentation.
type UIConfig struct {
	// Pulse is the length of each half of a stat emphasis pulse.
	Pulse time.Duration `yaml:"pulse" mapstructure:"pulse"`

	// CardReset is how long a threat card shows "detected" after a simulation.
	CardReset time.Duration `yaml:"card_reset" mapstructure:"card_reset"`

	// Color mode: "auto", "always", or "never".
	Color string `yaml:"color" mapstructure:"color"`
}

// ServeConfig configures the bundled demo backend.
type ServeConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
	DB   string `yaml:"db" mapstructure:"db"`

	// Background traffic is generated at a random interval in [LogMin, LogMax].
	LogMin time.Duration `yaml:"log_min" mapstructure:"log_min"`
	LogMax time.Duration `yaml:"log_max" mapstructure:"log_max"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		API: APIConfig{
			BaseURL: "http://127.0.0.1:5000",
			Timeout: 10 * time.Second,
			Breaker: BreakerConfig{
				MaxFailures: 5,
				OpenTimeout: 15 * time.Second,
			},
		},
		Poll: PollConfig{
			Stats:  3 * time.Second,
			Logs:   2 * time.Second,
			Alerts: 3 * time.Second,
			Charts: 4 * time.Second,
		},
		Charts: ChartsConfig{
			TimelineWindow: 10,
			TrafficWindow:  15,
			Jitter:         5,
		},
		Notifications: NotificationsConfig{
			TTL: 4 * time.Second,
			Max: 5,
		},
		Actions: ActionsConfig{
			RefreshDelay:         500 * time.Millisecond,
			SimulateRefreshDelay: 1500 * time.Millisecond,
			Rate:                 2,
			Burst:                3,
		},
		UI: UIConfig{
			Pulse:     200 * time.Millisecond,
			CardReset: 8 * time.Second,
			Color:     "auto",
		},
		Serve: ServeConfig{
			Addr:   ":5000",
			DB:     "soc.db",
			LogMin: 3 * time.Second,
			LogMax: 8 * time.Second,
		},
	}
}
