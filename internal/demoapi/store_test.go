package demoapi

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rileyhilliard/socdash/internal/soc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock hands out a fixed time that tests advance by hand.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(t *testing.T, clock *fakeClock) *Store {
	t.Helper()
	var opts []StoreOption
	if clock != nil {
		opts = append(opts, WithClock(clock.now))
	}
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "soc.db"), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "soc.db")
	ctx := context.Background()

	s, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = s.AddLog(ctx, "SYSTEM", "hello", "info")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	logs, err := s.RecentLogs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "hello", logs[0].Message)
}

func TestSeed_OnlyWhenEmpty(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	require.NoError(t, s.Seed(ctx))
	require.NoError(t, s.Seed(ctx))

	logs, err := s.RecentLogs(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, logs, len(seedLogs))
}

func TestRecentLogs_NewestFirstAndLimited(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
	s := newTestStore(t, clock)
	ctx := context.Background()

	for _, msg := range []string{"a", "b", "c"} {
		_, err := s.AddLog(ctx, "SYSTEM", msg, "info")
		require.NoError(t, err)
		clock.advance(time.Second)
	}

	logs, err := s.RecentLogs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "c", logs[0].Message)
	assert.Equal(t, "b", logs[1].Message)
	assert.True(t, logs[0].Timestamp.Equal(time.Date(2025, 3, 1, 10, 0, 2, 0, time.UTC)))
}

func TestRecentLogs_EmptyIsNotNil(t *testing.T) {
	s := newTestStore(t, nil)
	logs, err := s.RecentLogs(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, logs)
	assert.Empty(t, logs)
}

func TestCounts(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 1, 23, 0, 0, 0, time.UTC)}
	s := newTestStore(t, clock)
	ctx := context.Background()

	_, err := s.AddLog(ctx, "SYSTEM", "yesterday", "info")
	require.NoError(t, err)
	clock.advance(2 * time.Hour)
	_, err = s.AddLog(ctx, "SYSTEM", "today", "info")
	require.NoError(t, err)

	id, err := s.AddAlert(ctx, "Malware Indicators", soc.SeverityHigh, "x")
	require.NoError(t, err)
	_, err = s.AddAlert(ctx, "Malware Indicators", soc.SeverityHigh, "y")
	require.NoError(t, err)
	require.NoError(t, s.RecordResponse(ctx, id, "Isolate Infected Computer", true))

	c, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, Counts{ActiveThreats: 1, LogsProcessed: 2, AlertsGenerated: 2, TodayLogs: 1}, c)
}

func TestActiveAlerts_ExcludesResolved(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	keep, err := s.AddAlert(ctx, "Brute Force Attack", soc.SeverityHigh, "keep")
	require.NoError(t, err)
	gone, err := s.AddAlert(ctx, "Brute Force Attack", soc.SeverityHigh, "gone")
	require.NoError(t, err)
	require.NoError(t, s.RecordResponse(ctx, gone, "Lock Compromised Account", true))

	alerts, err := s.ActiveAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, keep, alerts[0].ID)
	assert.Equal(t, soc.SeverityHigh, alerts[0].Severity)
	assert.Equal(t, StatusActive, alerts[0].Status)
}

func TestRecordResponse_NonBlockingKeepsAlert(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	id, err := s.AddAlert(ctx, "Brute Force Attack", soc.SeverityHigh, "d")
	require.NoError(t, err)
	require.NoError(t, s.RecordResponse(ctx, id, "Alert Security Team", false))

	alerts, err := s.ActiveAlerts(ctx)
	require.NoError(t, err)
	assert.Len(t, alerts, 1)

	n, err := s.Responses(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestChartSeries_Window(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 3, 1, 8, 15, 0, 0, time.UTC)}
	s := newTestStore(t, clock)
	ctx := context.Background()

	_, err := s.AddAlert(ctx, "Old", soc.SeverityLow, "")
	require.NoError(t, err)

	clock.advance(48 * time.Hour)
	_, err = s.AddAlert(ctx, "Malware Indicators", soc.SeverityHigh, "")
	require.NoError(t, err)
	_, err = s.AddAlert(ctx, "Brute Force Attack", soc.SeverityHigh, "")
	require.NoError(t, err)
	clock.advance(time.Hour)
	_, err = s.AddAlert(ctx, "Malware Indicators", soc.SeverityHigh, "")
	require.NoError(t, err)

	dist, err := s.ThreatDistribution(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, soc.Series{
		{Label: "Malware Indicators", Value: 2},
		{Label: "Brute Force Attack", Value: 1},
	}, dist)

	timeline, err := s.ThreatTimeline(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, soc.Series{
		{Label: "08:00", Value: 2},
		{Label: "09:00", Value: 1},
	}, timeline)
}
