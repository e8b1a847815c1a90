package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rileyhilliard/socdash/internal/config"
	"github.com/rileyhilliard/socdash/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_NonInteractiveWritesLoadableConfig(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	err := Init(&out, InitOptions{Dir: dir, NonInteractive: true})
	require.NoError(t, err)

	path := filepath.Join(dir, config.ConfigFileName)
	assert.Contains(t, out.String(), "✓ Wrote "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().API.BaseURL, cfg.API.BaseURL)
	assert.Equal(t, config.DefaultConfig().Poll, cfg.Poll)
}

func TestInit_HonorsBaseURL(t *testing.T) {
	dir := t.TempDir()
	err := Init(&bytes.Buffer{}, InitOptions{Dir: dir, BaseURL: "http://soc.internal:5000", NonInteractive: true})
	require.NoError(t, err)

	cfg, err := config.Load(filepath.Join(dir, config.ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, "http://soc.internal:5000", cfg.API.BaseURL)
}

func TestInit_RejectsBadBaseURL(t *testing.T) {
	dir := t.TempDir()
	err := Init(&bytes.Buffer{}, InitOptions{Dir: dir, BaseURL: "not a url", NonInteractive: true})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))

	_, statErr := os.Stat(filepath.Join(dir, config.ConfigFileName))
	assert.True(t, os.IsNotExist(statErr))
}

func TestInit_ExistingConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: http://old:5000\n"), 0o644))

	err := Init(&bytes.Buffer{}, InitOptions{Dir: dir, NonInteractive: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	err = Init(&bytes.Buffer{}, InitOptions{Dir: dir, BaseURL: "http://new:5000", NonInteractive: true, Overwrite: true})
	require.NoError(t, err)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://new:5000", cfg.API.BaseURL)
}

func TestPollPreset(t *testing.T) {
	tests := []struct {
		name  string
		stats time.Duration
	}{
		{presetRelaxed, 10 * time.Second},
		{presetStandard, config.DefaultConfig().Poll.Stats},
		{presetFast, time.Second},
		{"unknown", config.DefaultConfig().Poll.Stats},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pollPreset(tt.name)
			assert.Equal(t, tt.stats, p.Stats)

			cfg := config.DefaultConfig()
			cfg.Poll = p
			assert.NoError(t, config.Validate(cfg))
		})
	}
}
