package cli

import (
	"bytes"
	"testing"

	"github.com/rileyhilliard/socdash/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runConfigCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	rootCmd.SetArgs(append([]string{"config"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestConfigShow(t *testing.T) {
	path := useConfig(t, "http://soc.internal:5000")

	out, err := runConfigCmd(t, "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "# source: "+path)
	assert.Contains(t, out, "base_url: http://soc.internal:5000")
}

func TestConfigSet(t *testing.T) {
	path := useConfig(t, "http://localhost:5000")

	out, err := runConfigCmd(t, "set", "api.base_url", "http://other:7000", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ api.base_url = http://other:7000")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://other:7000", cfg.API.BaseURL)
}

func TestConfigSet_InvalidValue(t *testing.T) {
	path := useConfig(t, "http://localhost:5000")

	_, err := runConfigCmd(t, "set", "poll.stats", "1ms", "--config", path)
	require.Error(t, err)
}
