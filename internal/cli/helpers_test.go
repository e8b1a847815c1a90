package cli

import (
	"context"
	"math/rand/v2"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rileyhilliard/socdash/internal/config"
	"github.com/rileyhilliard/socdash/internal/demoapi"
	"github.com/stretchr/testify/require"
)

// useConfig points the global flags at a fresh default config file with
// baseURL set, and restores them afterwards.
func useConfig(t *testing.T, baseURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.ConfigFileName)
	cfg := config.DefaultConfig()
	cfg.API.BaseURL = baseURL
	require.NoError(t, config.Write(path, cfg))

	oldCfg, oldURL, oldVerbose, oldLog, oldMetrics := cfgFile, baseURLFlag, verbose, logFile, metricsAddr
	t.Cleanup(func() {
		cfgFile, baseURLFlag, verbose, logFile, metricsAddr = oldCfg, oldURL, oldVerbose, oldLog, oldMetrics
	})
	cfgFile, baseURLFlag, verbose, logFile, metricsAddr = path, "", false, "", ""
	return path
}

// demoBackend runs the demo API on a test server.
func demoBackend(t *testing.T) (*httptest.Server, *demoapi.Store) {
	t.Helper()
	store, err := demoapi.Open(context.Background(), filepath.Join(t.TempDir(), "soc.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	srv := httptest.NewServer(demoapi.NewServer(store, demoapi.WithRand(rand.New(rand.NewPCG(7, 7)))))
	t.Cleanup(srv.Close)
	return srv, store
}
