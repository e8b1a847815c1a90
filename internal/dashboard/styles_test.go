package dashboard

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestMetricColor(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		expect  lipgloss.Color
	}{
		{"healthy low", 0.0, ColorHealthy},
		{"healthy near threshold", 69.9, ColorHealthy},
		{"warning at threshold", 70.0, ColorWarning},
		{"warning near critical", 89.9, ColorWarning},
		{"critical at threshold", 90.0, ColorCritical},
		{"critical max", 100.0, ColorCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, MetricColor(tt.percent))
		})
	}
}

func TestSeriesColorWraps(t *testing.T) {
	assert.Equal(t, SeriesColors[0], SeriesColor(len(SeriesColors)))
}

func TestToastStyle(t *testing.T) {
	assert.Equal(t, ToastErrorStyle, ToastStyle(KindError))
	assert.Equal(t, ToastSuccessStyle, ToastStyle(KindSuccess))
}

func TestBadgeStyle_UsesBadgeColor(t *testing.T) {
	out := BadgeStyle(SeverityBadge("high")).Render("URGENT")
	// #ff4757 as a 24-bit background.
	assert.Contains(t, out, "48;2;255;71;87")
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		percent    float64
		wantFilled int
	}{
		{"empty", 10, 0, 0},
		{"half", 10, 50, 5},
		{"full", 10, 100, 10},
		{"over clamps", 10, 150, 10},
		{"negative clamps", 10, -5, 0},
		{"zero width becomes one", 0, 100, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plain := ansi.Strip(ProgressBar(tt.width, tt.percent, ColorGraph))
			assert.Equal(t, tt.wantFilled, strings.Count(plain, "▰"))
			assert.Equal(t, max(tt.width, 1), lipgloss.Width(plain))
		})
	}
}

func TestSectionHeader(t *testing.T) {
	out := SectionHeader("Threat Timeline", "12:00:00", 50)
	assert.Equal(t, 50, lipgloss.Width(out))

	plain := ansi.Strip(out)
	assert.True(t, strings.HasPrefix(plain, "╭─ Threat Timeline"))
	assert.True(t, strings.HasSuffix(plain, "12:00:00 ╮"))
}

func TestSectionContentLine(t *testing.T) {
	assert.Equal(t, 30, lipgloss.Width(SectionContentLine("short", 30)))

	long := strings.Repeat("x", 100)
	line := SectionContentLine(long, 30)
	assert.Equal(t, 30, lipgloss.Width(line))
	assert.Contains(t, ansi.Strip(line), "…")
}

func TestSection(t *testing.T) {
	out := Section("Title", "v", []string{"a", "b\nc"}, 20)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 5)
	for _, l := range lines {
		assert.Equal(t, 20, lipgloss.Width(l))
	}
	assert.True(t, strings.HasPrefix(ansi.Strip(lines[4]), "╰"))
}
