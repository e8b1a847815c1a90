package dashboard

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rileyhilliard/socdash/internal/soc"
)

// ChartID names one of the six dashboard charts.
type ChartID string

const (
	ChartTimeline     ChartID = "timeline"
	ChartDistribution ChartID = "distribution"
	ChartPerformance  ChartID = "performance"
	ChartGeographic   ChartID = "geographic"
	ChartTraffic      ChartID = "traffic"
	ChartScore        ChartID = "score"
)

// AllCharts lists the charts in display order.
var AllCharts = []ChartID{
	ChartTimeline,
	ChartDistribution,
	ChartPerformance,
	ChartGeographic,
	ChartTraffic,
	ChartScore,
}

// ParseChartID validates a chart name.
func ParseChartID(s string) (ChartID, bool) {
	for _, id := range AllCharts {
		if string(id) == s {
			return id, true
		}
	}
	return "", false
}

// ChartKind is how a chart is drawn.
type ChartKind int

const (
	KindLine ChartKind = iota
	KindShare
	KindBars
	KindGauge
)

// ChartSeries is one named value sequence.
type ChartSeries struct {
	Label  string
	Values []float64
}

// Chart is a snapshot of one chart's data. Labels and every series always
// have the same length.
type Chart struct {
	ID     ChartID
	Title  string
	Kind   ChartKind
	Window int
	Labels []string
	Series []ChartSeries
}

func (c *Chart) clone() Chart {
	out := *c
	out.Labels = append([]string(nil), c.Labels...)
	out.Series = make([]ChartSeries, len(c.Series))
	for i, s := range c.Series {
		out.Series[i] = ChartSeries{Label: s.Label, Values: append([]float64(nil), s.Values...)}
	}
	return out
}

// ChartOptions configures NewCharts.
type ChartOptions struct {
	TimelineWindow int
	TrafficWindow  int

	// Mounted restricts which charts exist. Empty means all six.
	Mounted []ChartID

	// Rand drives jitter and synthetic points. Defaults to a time-seeded PCG.
	Rand *rand.Rand
}

// Charts owns the six dashboard charts. Updates addressed to a chart that
// isn't mounted are silently dropped, which lets a single-chart view share
// the full update path.
type Charts struct {
	mu      sync.Mutex
	charts  map[ChartID]*Chart
	rng     *rand.Rand
	network *soc.NetworkSample
}

// NewCharts creates the mounted charts with their seed data.
func NewCharts(opts ChartOptions) *Charts {
	if opts.TimelineWindow <= 0 {
		opts.TimelineWindow = 10
	}
	if opts.TrafficWindow <= 0 {
		opts.TrafficWindow = 15
	}
	rng := opts.Rand
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}

	mounted := opts.Mounted
	if len(mounted) == 0 {
		mounted = AllCharts
	}

	c := &Charts{charts: make(map[ChartID]*Chart), rng: rng}
	for _, id := range mounted {
		if ch := seedChart(id, opts); ch != nil {
			c.charts[id] = ch
		}
	}
	return c
}

func seedChart(id ChartID, opts ChartOptions) *Chart {
	switch id {
	case ChartTimeline:
		return &Chart{
			ID: id, Title: "Threat Timeline", Kind: KindLine, Window: opts.TimelineWindow,
			Series: []ChartSeries{{Label: "Brute Force"}, {Label: "Malware"}, {Label: "Data Theft"}},
		}
	case ChartDistribution:
		return &Chart{
			ID: id, Title: "Threat Distribution", Kind: KindShare,
			Labels: []string{"Brute Force", "Malware", "Data Theft", "Insider Threat"},
			Series: []ChartSeries{{Values: []float64{35, 25, 20, 20}}},
		}
	case ChartPerformance:
		return &Chart{
			ID: id, Title: "System Performance", Kind: KindBars,
			Labels: []string{"CPU", "Memory", "Network", "Disk", "Security", "Uptime"},
			Series: []ChartSeries{{Label: "Current", Values: []float64{85, 70, 90, 65, 95, 98}}},
		}
	case ChartGeographic:
		return &Chart{
			ID: id, Title: "Threat Origins", Kind: KindBars,
			Labels: []string{"USA", "China", "Russia", "Brazil", "India", "Germany"},
			Series: []ChartSeries{{Label: "Threat Origins", Values: []float64{45, 38, 32, 28, 25, 18}}},
		}
	case ChartTraffic:
		return &Chart{
			ID: id, Title: "Network Traffic", Kind: KindLine, Window: opts.TrafficWindow,
			Series: []ChartSeries{{Label: "Inbound (MB/s)"}, {Label: "Outbound (MB/s)"}},
		}
	case ChartScore:
		return &Chart{
			ID: id, Title: "Security Score", Kind: KindGauge,
			Labels: []string{"Secure", "Risk"},
			Series: []ChartSeries{{Values: []float64{94, 6}}},
		}
	}
	return nil
}

// Mounted reports whether id is mounted.
func (c *Charts) Mounted(id ChartID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.charts[id]
	return ok
}

// MountedIDs lists the mounted charts in display order.
func (c *Charts) MountedIDs() []ChartID {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []ChartID
	for _, id := range AllCharts {
		if _, ok := c.charts[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Snapshot returns a deep copy of a chart.
func (c *Charts) Snapshot(id ChartID) (Chart, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch, ok := c.charts[id]
	if !ok {
		return Chart{}, false
	}
	return ch.clone(), true
}

// AppendTimePoint pushes one label and one value per series, then evicts the
// oldest point from the label axis and every series in lock-step while the
// chart is over its window. A chart with no series yet takes its series
// count from values; missing values are recorded as 0 and extras dropped.
func (c *Charts) AppendTimePoint(id ChartID, label string, values []float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch, ok := c.charts[id]
	if !ok {
		return false
	}

	if len(ch.Series) == 0 {
		ch.Series = make([]ChartSeries, len(values))
	}

	ch.Labels = append(ch.Labels, label)
	for i := range ch.Series {
		v := 0.0
		if i < len(values) {
			v = values[i]
		}
		ch.Series[i].Values = append(ch.Series[i].Values, v)
	}

	if ch.Window > 0 {
		for len(ch.Labels) > ch.Window {
			ch.Labels = ch.Labels[1:]
			for i := range ch.Series {
				ch.Series[i].Values = ch.Series[i].Values[1:]
			}
		}
	}
	return true
}

// ReplaceDataset swaps a single-series chart's labels and values wholesale,
// in the order given.
func (c *Charts) ReplaceDataset(id ChartID, labels []string, values []float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch, ok := c.charts[id]
	if !ok {
		return false
	}

	n := len(labels)
	if len(values) < n {
		n = len(values)
	}

	label := ""
	if len(ch.Series) > 0 {
		label = ch.Series[0].Label
	}
	ch.Labels = append([]string(nil), labels[:n]...)
	ch.Series = []ChartSeries{{Label: label, Values: append([]float64(nil), values[:n]...)}}
	return true
}

// JitterSeries moves every value of the chart by a uniform random step in
// [-magnitude, magnitude], clamped to [0, 100].
func (c *Charts) JitterSeries(id ChartID, magnitude float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch, ok := c.charts[id]
	if !ok {
		return false
	}

	for i := range ch.Series {
		for j, v := range ch.Series[i].Values {
			delta := (c.rng.Float64()*2 - 1) * magnitude
			ch.Series[i].Values[j] = clamp(v+delta, 0, 100)
		}
	}
	return true
}

// ApplyData maps a /api/chart_data payload onto the snapshot charts.
// Absent fields leave their chart alone. The threat distribution keeps its
// current data when the backend reports no alerts in the window, and a zero
// security score is treated as absent.
func (c *Charts) ApplyData(cd soc.ChartData) {
	if len(cd.ThreatDistribution) > 0 {
		c.ReplaceDataset(ChartDistribution, cd.ThreatDistribution.Labels(), cd.ThreatDistribution.Values())
	}
	if cd.GeographicData != nil {
		c.ReplaceDataset(ChartGeographic, cd.GeographicData.Labels(), cd.GeographicData.Values())
	}
	if cd.PerformanceData != nil {
		c.ReplaceDataset(ChartPerformance, cd.PerformanceData.Labels(), cd.PerformanceData.Values())
	}
	if cd.SecurityScore != nil && *cd.SecurityScore > 0 {
		score := clamp(float64(*cd.SecurityScore), 0, 100)
		c.ReplaceDataset(ChartScore, []string{"Secure", "Risk"}, []float64{score, 100 - score})
	}
	if cd.NetworkData != nil {
		c.mu.Lock()
		sample := *cd.NetworkData
		c.network = &sample
		c.mu.Unlock()
	}
}

// Advance runs one local chart tick: a synthetic timeline point, a traffic
// point (the latest backend sample if one arrived since the last tick,
// otherwise synthetic) and a performance drift of up to jitter.
func (c *Charts) Advance(label string, jitter float64) {
	c.mu.Lock()
	timeline := []float64{float64(c.rng.IntN(10)), float64(c.rng.IntN(8)), float64(c.rng.IntN(6))}
	var traffic []float64
	if c.network != nil {
		traffic = []float64{c.network.Inbound, c.network.Outbound}
		c.network = nil
	} else {
		traffic = []float64{round1(20 + c.rng.Float64()*50), round1(10 + c.rng.Float64()*30)}
	}
	c.mu.Unlock()

	c.AppendTimePoint(ChartTimeline, label, timeline)
	c.AppendTimePoint(ChartTraffic, label, traffic)
	c.JitterSeries(ChartPerformance, jitter)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
