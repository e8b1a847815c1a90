package dashboard

import (
	"testing"
	"time"

	"github.com/rileyhilliard/socdash/internal/soc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_ApplyStats(t *testing.T) {
	b := NewBoard(200*time.Millisecond, 8*time.Second)
	assert.Equal(t, "--", b.Value(StatActiveThreats))

	sched := b.ApplyStats(soc.Stat{ActiveThreats: soc.Int(3), LogsProcessed: soc.Int(100), SystemStatus: soc.String("Online")})
	assert.Equal(t, "3", b.Value(StatActiveThreats))
	assert.Equal(t, "100", b.Value(StatLogsProcessed))
	assert.Equal(t, "Online", b.Value(StatSystemStatus))
	assert.Len(t, sched, 2, "only numeric fields pulse")
	assert.Equal(t, PhaseActive, b.Pulse(StatActiveThreats))

	// Same values: no pulse. Missing fields keep their value.
	sched = b.ApplyStats(soc.Stat{ActiveThreats: soc.Int(3)})
	assert.Empty(t, sched)
	assert.Equal(t, "100", b.Value(StatLogsProcessed))

	sched = b.ApplyStats(soc.Stat{ActiveThreats: soc.Int(4)})
	require.Len(t, sched, 1)
	assert.Equal(t, "4", b.Value(StatActiveThreats), "value updates before the pulse ends")
}

func TestBoard_PulseCycle(t *testing.T) {
	b := NewBoard(200*time.Millisecond, time.Second)
	first := b.ApplyStats(soc.Stat{TodayLogs: soc.Int(1)})[0]
	second := b.ApplyStats(soc.Stat{TodayLogs: soc.Int(2)})[0]

	_, ok := b.Step(first.Key, first.Gen)
	assert.False(t, ok)
	assert.Equal(t, PhaseActive, b.Pulse(StatTodayLogs))

	next, ok := b.Step(second.Key, second.Gen)
	require.True(t, ok)
	assert.Equal(t, PhaseSettling, b.Pulse(StatTodayLogs))

	_, ok = b.Step(next.Key, next.Gen)
	assert.False(t, ok)
	assert.Equal(t, PhaseIdle, b.Pulse(StatTodayLogs))
}

func TestBoard_ThreatCards(t *testing.T) {
	b := NewBoard(0, 8*time.Second)
	cards := b.Cards()
	require.Len(t, cards, len(soc.Scenarios()))
	for _, c := range cards {
		assert.Equal(t, CardWatching, c.Status)
		assert.False(t, c.Detected())
	}

	s, ok := b.Detect("malware")
	require.True(t, ok)
	assert.Equal(t, 8*time.Second, s.After)

	b.Processed("malware")
	var malware ThreatCard
	for _, c := range b.Cards() {
		if c.Scenario.Key == "malware" {
			malware = c
		}
	}
	assert.True(t, malware.Detected())
	assert.Equal(t, CardProcessed, malware.Status)
	assert.Equal(t, 1, malware.Count)

	_, ok = b.Step(s.Key, s.Gen)
	assert.False(t, ok)
	for _, c := range b.Cards() {
		assert.Equal(t, CardWatching, c.Status)
	}

	_, ok = b.Detect("ransomware")
	assert.False(t, ok)
}

func TestBoard_NoPulseWhenDisabled(t *testing.T) {
	b := NewBoard(0, time.Second)
	assert.Empty(t, b.ApplyStats(soc.Stat{ActiveThreats: soc.Int(1)}))
	assert.Equal(t, "1", b.Value(StatActiveThreats))
}
