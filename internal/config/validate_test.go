package config

import (
	"testing"
	"time"

	"github.com/rileyhilliard/socdash/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "future version",
			mutate:  func(c *Config) { c.Version = CurrentConfigVersion + 1 },
			wantErr: "from the future",
		},
		{
			name:    "empty base url",
			mutate:  func(c *Config) { c.API.BaseURL = "" },
			wantErr: "api.base_url is empty",
		},
		{
			name:    "base url without scheme",
			mutate:  func(c *Config) { c.API.BaseURL = "localhost:5000" },
			wantErr: "http:// or https://",
		},
		{
			name:    "base url without host",
			mutate:  func(c *Config) { c.API.BaseURL = "http://" },
			wantErr: "missing a host",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.API.Timeout = 0 },
			wantErr: "api.timeout",
		},
		{
			name:    "breaker without open timeout",
			mutate:  func(c *Config) { c.API.Breaker.OpenTimeout = 0 },
			wantErr: "open_timeout",
		},
		{
			name: "breaker disabled needs no open timeout",
			mutate: func(c *Config) {
				c.API.Breaker.MaxFailures = 0
				c.API.Breaker.OpenTimeout = 0
			},
		},
		{
			name:    "poll too fast",
			mutate:  func(c *Config) { c.Poll.Logs = 10 * time.Millisecond },
			wantErr: "poll.logs",
		},
		{
			name:    "timeline window zero",
			mutate:  func(c *Config) { c.Charts.TimelineWindow = 0 },
			wantErr: "charts.timeline_window",
		},
		{
			name:    "jitter out of range",
			mutate:  func(c *Config) { c.Charts.Jitter = 150 },
			wantErr: "charts.jitter",
		},
		{
			name:    "ttl zero",
			mutate:  func(c *Config) { c.Notifications.TTL = 0 },
			wantErr: "notifications.ttl",
		},
		{
			name:    "negative cap",
			mutate:  func(c *Config) { c.Notifications.Max = -1 },
			wantErr: "notifications.max",
		},
		{
			name:    "zero rate",
			mutate:  func(c *Config) { c.Actions.Rate = 0 },
			wantErr: "actions.rate",
		},
		{
			name:    "zero burst",
			mutate:  func(c *Config) { c.Actions.Burst = 0 },
			wantErr: "actions.burst",
		},
		{
			name:    "bad color",
			mutate:  func(c *Config) { c.UI.Color = "rainbow" },
			wantErr: "ui.color",
		},
		{
			name: "log interval inverted",
			mutate: func(c *Config) {
				c.Serve.LogMin = 10 * time.Second
				c.Serve.LogMax = time.Second
			},
			wantErr: "serve.log_min",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	err := Validate(nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestValidateBaseURL(t *testing.T) {
	assert.NoError(t, ValidateBaseURL("http://127.0.0.1:5000"))
	assert.NoError(t, ValidateBaseURL("https://soc.example.com/"))
	assert.Error(t, ValidateBaseURL("ftp://soc.example.com"))
	assert.Error(t, ValidateBaseURL("::not a url"))
}
