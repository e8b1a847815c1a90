package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/socdash/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".socdash.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/socdash"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix namespaces environment overrides, e.g. SOCDASH_API_BASE_URL.
	EnvPrefix = "SOCDASH"
)

// Load reads config from the specified path. Environment variables override
// values from the file.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'socdash init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .socdash.yaml in current directory
// 3. .socdash.yaml in parent directories (stops at git root or home)
// 4. ~/.config/socdash/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	home, _ := os.UserHomeDir()
	dir := cwd
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		if home != "" && parent == home {
			// Don't go above home directory
			break
		}
		dir = parent

		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		// Stop at git root
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}
	}

	if home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// LoadOrDefault loads config from the found path, or returns defaults (with
// environment overrides applied) if no file exists.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	if path == "" {
		cfg, err := parseConfig(newViper(), "environment")
		return cfg, "", err
	}

	cfg, err := Load(path)
	return cfg, path, err
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, source string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+source)
	}

	cfg.Serve.DB = ExpandTilde(Expand(cfg.Serve.DB))

	return cfg, nil
}

// setDefaults registers every key with viper. AutomaticEnv only consults the
// environment for keys viper already knows, so each one needs a default.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("version", d.Version)

	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout", d.API.Timeout.String())
	v.SetDefault("api.breaker.max_failures", d.API.Breaker.MaxFailures)
	v.SetDefault("api.breaker.open_timeout", d.API.Breaker.OpenTimeout.String())

	v.SetDefault("poll.stats", d.Poll.Stats.String())
	v.SetDefault("poll.logs", d.Poll.Logs.String())
	v.SetDefault("poll.alerts", d.Poll.Alerts.String())
	v.SetDefault("poll.charts", d.Poll.Charts.String())

	v.SetDefault("charts.timeline_window", d.Charts.TimelineWindow)
	v.SetDefault("charts.traffic_window", d.Charts.TrafficWindow)
	v.SetDefault("charts.jitter", d.Charts.Jitter)

	v.SetDefault("notifications.ttl", d.Notifications.TTL.String())
	v.SetDefault("notifications.max", d.Notifications.Max)

	v.SetDefault("actions.refresh_delay", d.Actions.RefreshDelay.String())
	v.SetDefault("actions.simulate_refresh_delay", d.Actions.SimulateRefreshDelay.String())
	v.SetDefault("actions.rate", d.Actions.Rate)
	v.SetDefault("actions.burst", d.Actions.Burst)

	v.SetDefault("ui.pulse", d.UI.Pulse.String())
	v.SetDefault("ui.card_reset", d.UI.CardReset.String())
	v.SetDefault("ui.color", d.UI.Color)

	v.SetDefault("serve.addr", d.Serve.Addr)
	v.SetDefault("serve.db", d.Serve.DB)
	v.SetDefault("serve.log_min", d.Serve.LogMin.String())
	v.SetDefault("serve.log_max", d.Serve.LogMax.String())
}
