package dashboard

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.observeFetch(TaskStats, nil, time.Millisecond)
		m.observeStale(TaskLogs)
		m.observeAction("action", "ok")
		m.observeNotification(KindSuccess)
	})
}

func TestMetrics_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.observeFetch(TaskStats, nil, 20*time.Millisecond)
	m.observeFetch(TaskStats, fmt.Errorf("down"), 5*time.Millisecond)
	m.observeFetch(TaskLogs, nil, time.Millisecond)
	m.observeStale(TaskLogs)
	m.observeAction("simulate", "ok")
	m.observeNotification(KindError)
	m.observeNotification(KindError)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Fetches.WithLabelValues("stats", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Fetches.WithLabelValues("stats", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StaleDiscards.WithLabelValues("logs")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Actions.WithLabelValues("simulate", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Notifications.WithLabelValues("error")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.FetchDuration))
}

func TestNewMetrics_NilRegistry(t *testing.T) {
	require.NotNil(t, NewMetrics(nil))
	// A second private registry must not collide with the first.
	require.NotNil(t, NewMetrics(nil))
}
