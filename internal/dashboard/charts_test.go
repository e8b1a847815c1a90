package dashboard

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/rileyhilliard/socdash/internal/soc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCharts(mounted ...ChartID) *Charts {
	return NewCharts(ChartOptions{
		TimelineWindow: 10,
		TrafficWindow:  15,
		Mounted:        mounted,
		Rand:           rand.New(rand.NewPCG(1, 2)),
	})
}

func TestNewCharts_Seeds(t *testing.T) {
	c := testCharts()
	assert.Equal(t, AllCharts, c.MountedIDs())

	dist, ok := c.Snapshot(ChartDistribution)
	require.True(t, ok)
	assert.Equal(t, []string{"Brute Force", "Malware", "Data Theft", "Insider Threat"}, dist.Labels)
	assert.Equal(t, []float64{35, 25, 20, 20}, dist.Series[0].Values)

	score, _ := c.Snapshot(ChartScore)
	assert.Equal(t, []float64{94, 6}, score.Series[0].Values)

	timeline, _ := c.Snapshot(ChartTimeline)
	assert.Len(t, timeline.Series, 3)
	assert.Empty(t, timeline.Labels)
	assert.Equal(t, 10, timeline.Window)
}

func TestParseChartID(t *testing.T) {
	id, ok := ParseChartID("traffic")
	assert.True(t, ok)
	assert.Equal(t, ChartTraffic, id)

	_, ok = ParseChartID("pie")
	assert.False(t, ok)
}

func TestCharts_AppendTimePointEvictsInLockStep(t *testing.T) {
	c := testCharts()

	for i := 0; i < 25; i++ {
		require.True(t, c.AppendTimePoint(ChartTimeline, fmt.Sprintf("t%d", i), []float64{float64(i), float64(i * 10), float64(i * 100)}))

		ch, _ := c.Snapshot(ChartTimeline)
		assert.LessOrEqual(t, len(ch.Labels), 10)
		for _, s := range ch.Series {
			assert.Len(t, s.Values, len(ch.Labels))
		}
	}

	ch, _ := c.Snapshot(ChartTimeline)
	assert.Equal(t, "t15", ch.Labels[0])
	assert.Equal(t, "t24", ch.Labels[9])
	assert.Equal(t, []float64{15, 16, 17, 18, 19, 20, 21, 22, 23, 24}, ch.Series[0].Values)
	assert.Equal(t, 2400.0, ch.Series[2].Values[9])
}

func TestCharts_AppendTimePointPadsValues(t *testing.T) {
	c := testCharts()

	c.AppendTimePoint(ChartTraffic, "a", []float64{12.5})
	c.AppendTimePoint(ChartTraffic, "b", []float64{1, 2, 3})

	ch, _ := c.Snapshot(ChartTraffic)
	require.Len(t, ch.Series, 2)
	assert.Equal(t, []float64{12.5, 1}, ch.Series[0].Values)
	assert.Equal(t, []float64{0, 2}, ch.Series[1].Values)
}

func TestCharts_FirstAppendInitializesSeries(t *testing.T) {
	c := testCharts()
	c.mu.Lock()
	c.charts[ChartTimeline].Series = nil
	c.mu.Unlock()

	c.AppendTimePoint(ChartTimeline, "t0", []float64{1, 2})
	ch, _ := c.Snapshot(ChartTimeline)
	require.Len(t, ch.Series, 2)
	assert.Equal(t, []string{"t0"}, ch.Labels)
}

func TestCharts_ReplaceDatasetPreservesOrder(t *testing.T) {
	c := testCharts()
	require.True(t, c.ReplaceDataset(ChartGeographic, []string{"Germany", "USA"}, []float64{20, 41}))

	ch, _ := c.Snapshot(ChartGeographic)
	assert.Equal(t, []string{"Germany", "USA"}, ch.Labels)
	assert.Equal(t, []float64{20, 41}, ch.Series[0].Values)
	assert.Equal(t, "Threat Origins", ch.Series[0].Label)
}

func TestCharts_JitterIsBoundedAndClamped(t *testing.T) {
	c := testCharts()
	c.ReplaceDataset(ChartPerformance, []string{"low", "mid", "high"}, []float64{1, 50, 99})

	for i := 0; i < 200; i++ {
		before, _ := c.Snapshot(ChartPerformance)
		require.True(t, c.JitterSeries(ChartPerformance, 5))
		after, _ := c.Snapshot(ChartPerformance)

		for j, v := range after.Series[0].Values {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 100.0)
			assert.InDelta(t, before.Series[0].Values[j], v, 5.0)
		}
	}
}

func TestCharts_UnmountedIsNoOp(t *testing.T) {
	c := testCharts(ChartScore)

	assert.True(t, c.Mounted(ChartScore))
	assert.False(t, c.Mounted(ChartTimeline))
	assert.False(t, c.AppendTimePoint(ChartTimeline, "x", []float64{1}))
	assert.False(t, c.ReplaceDataset(ChartGeographic, []string{"a"}, []float64{1}))
	assert.False(t, c.JitterSeries(ChartPerformance, 5))

	_, ok := c.Snapshot(ChartTimeline)
	assert.False(t, ok)

	c.Advance("12:00:00", 5)
	c.ApplyData(soc.ChartData{
		ThreatDistribution: soc.SeriesOf([]string{"Malware"}, []float64{1}),
		SecurityScore:      soc.Int(90),
	})
	assert.Equal(t, []ChartID{ChartScore}, c.MountedIDs())
	score, _ := c.Snapshot(ChartScore)
	assert.Equal(t, []float64{90, 10}, score.Series[0].Values)
}

func TestCharts_ApplyData(t *testing.T) {
	tests := []struct {
		name  string
		data  soc.ChartData
		check func(t *testing.T, c *Charts)
	}{
		{
			name: "empty distribution keeps seed",
			data: soc.ChartData{ThreatDistribution: soc.Series{}},
			check: func(t *testing.T, c *Charts) {
				ch, _ := c.Snapshot(ChartDistribution)
				assert.Equal(t, []float64{35, 25, 20, 20}, ch.Series[0].Values)
			},
		},
		{
			name: "distribution replaced",
			data: soc.ChartData{ThreatDistribution: soc.SeriesOf([]string{"Malware Indicators", "Brute Force Attack"}, []float64{3, 1})},
			check: func(t *testing.T, c *Charts) {
				ch, _ := c.Snapshot(ChartDistribution)
				assert.Equal(t, []string{"Malware Indicators", "Brute Force Attack"}, ch.Labels)
			},
		},
		{
			name: "zero score is absent",
			data: soc.ChartData{SecurityScore: soc.Int(0)},
			check: func(t *testing.T, c *Charts) {
				ch, _ := c.Snapshot(ChartScore)
				assert.Equal(t, []float64{94, 6}, ch.Series[0].Values)
			},
		},
		{
			name: "performance and geography replaced",
			data: soc.ChartData{
				PerformanceData: soc.SeriesOf([]string{"CPU"}, []float64{72}),
				GeographicData:  soc.SeriesOf([]string{"USA", "China"}, []float64{44, 39}),
			},
			check: func(t *testing.T, c *Charts) {
				perf, _ := c.Snapshot(ChartPerformance)
				assert.Equal(t, []float64{72}, perf.Series[0].Values)
				geo, _ := c.Snapshot(ChartGeographic)
				assert.Equal(t, []string{"USA", "China"}, geo.Labels)
			},
		},
		{
			name: "network sample feeds the next tick",
			data: soc.ChartData{NetworkData: &soc.NetworkSample{Inbound: 55.5, Outbound: 22.2}},
			check: func(t *testing.T, c *Charts) {
				c.Advance("t1", 0)
				ch, _ := c.Snapshot(ChartTraffic)
				assert.Equal(t, []float64{55.5}, ch.Series[0].Values)
				assert.Equal(t, []float64{22.2}, ch.Series[1].Values)

				c.Advance("t2", 0)
				ch, _ = c.Snapshot(ChartTraffic)
				assert.GreaterOrEqual(t, ch.Series[0].Values[1], 20.0)
				assert.LessOrEqual(t, ch.Series[0].Values[1], 70.0)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCharts()
			c.ApplyData(tt.data)
			tt.check(t, c)
		})
	}
}

func TestCharts_AdvanceTimelineRanges(t *testing.T) {
	c := testCharts()
	for i := 0; i < 12; i++ {
		c.Advance(fmt.Sprintf("t%d", i), 5)
	}

	ch, _ := c.Snapshot(ChartTimeline)
	assert.Len(t, ch.Labels, 10)
	limits := []float64{10, 8, 6}
	for i, s := range ch.Series {
		for _, v := range s.Values {
			assert.Less(t, v, limits[i])
			assert.GreaterOrEqual(t, v, 0.0)
		}
	}

	traffic, _ := c.Snapshot(ChartTraffic)
	assert.Len(t, traffic.Labels, 12)
}

func TestCharts_SnapshotIsACopy(t *testing.T) {
	c := testCharts()
	ch, _ := c.Snapshot(ChartScore)
	ch.Series[0].Values[0] = 1

	again, _ := c.Snapshot(ChartScore)
	assert.Equal(t, 94.0, again.Series[0].Values[0])
}
