package dashboard

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille character rendering for high-resolution terminal graphs.
//
// Braille patterns use a 2x4 dot matrix per character:
//
//	  Col 0  Col 1
//	Row 0:   ⠁      ⠈     (dots 1, 4)
//	Row 1:   ⠂      ⠐     (dots 2, 5)
//	Row 2:   ⠄      ⠠     (dots 3, 6)
//	Row 3:   ⡀      ⢀     (dots 7, 8)
//
// Unicode braille starts at U+2800 (empty) and uses bit patterns:
// bit 0 = dot 1, bit 1 = dot 2, bit 2 = dot 3, bit 3 = dot 4,
// bit 4 = dot 5, bit 5 = dot 6, bit 6 = dot 7, bit 7 = dot 8

const brailleBase = '\u2800'

// sparklineBlocks are block characters for 8-level vertical resolution (lowest to highest).
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// findMax returns the largest value in data, never less than 1 so that an
// all-zero series still has a scale.
func findMax(data ...[]float64) float64 {
	maxVal := 1.0
	for _, d := range data {
		for _, v := range d {
			if v > maxVal {
				maxVal = v
			}
		}
	}
	return maxVal
}

// normalizeValue converts a value to 0-1 range given min/max bounds.
func normalizeValue(val, minVal, maxVal float64) float64 {
	if maxVal > minVal {
		return (val - minVal) / (maxVal - minVal)
	}
	return 0.5
}

// clampInt clamps an integer to a range [0, maxVal].
func clampInt(val, maxVal int) int {
	if val < 0 {
		return 0
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// brailleDots maps row/column to the bit offset for braille pattern
// [row][col] where row is 0-3 (top to bottom) and col is 0-1 (left to right)
var brailleDots = [4][2]uint8{
	{0, 3},
	{1, 4},
	{2, 5},
	{6, 7},
}

// RenderBrailleSparkline renders data as a filled area graph of width
// characters and height rows, scaled from 0 to maxVal. Each character holds
// two data points; a short series is right-aligned.
func RenderBrailleSparkline(data []float64, width, height int, maxVal float64, color lipgloss.Color) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}
	if maxVal <= 0 {
		maxVal = findMax(data)
	}

	totalDots := height * 4
	targetPoints := width * 2

	resampled := data
	if len(data) > targetPoints {
		resampled = resampleData(data, targetPoints)
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = brailleBase
		}
	}

	horizOffset := targetPoints - len(resampled)
	if horizOffset < 0 {
		horizOffset = 0
	}

	for i, val := range resampled {
		normalized := normalizeValue(val, 0, maxVal)
		dotHeight := clampInt(int(math.Round(normalized*float64(totalDots))), totalDots)

		charCol := (i + horizOffset) / 2
		if charCol >= width {
			continue
		}
		subCol := (i + horizOffset) % 2

		for dot := 0; dot < dotHeight; dot++ {
			row := height - 1 - (dot / 4)
			if row < 0 {
				continue
			}
			subRow := 3 - (dot % 4)
			grid[row][charCol] |= rune(1 << brailleDots[subRow][subCol])
		}
	}

	style := lipgloss.NewStyle().Foreground(color)
	lines := make([]string, 0, height)
	for _, row := range grid {
		lines = append(lines, style.Render(string(row)))
	}
	return strings.Join(lines, "\n")
}

// RenderMiniSparkline renders a single-row sparkline using block characters,
// scaled from 0 to the series maximum.
func RenderMiniSparkline(data []float64, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}

	maxVal := findMax(data)
	resampled := data
	if len(data) > width {
		resampled = resampleData(data, width)
	}

	var result strings.Builder
	for _, val := range resampled {
		normalized := normalizeValue(val, 0, maxVal)
		idx := clampInt(int(normalized*float64(len(sparklineBlocks)-1)), len(sparklineBlocks)-1)
		result.WriteRune(sparklineBlocks[idx])
	}
	return result.String()
}

// RenderHBars renders one labeled horizontal bar per value, scaled to
// maxVal. Percentage data (maxVal 100) is colored by threshold.
func RenderHBars(labels []string, values []float64, width int, maxVal float64, percent bool) []string {
	labelWidth := 0
	for _, l := range labels {
		if w := lipgloss.Width(l); w > labelWidth {
			labelWidth = w
		}
	}
	barWidth := width - labelWidth - 8
	if barWidth < 4 {
		barWidth = 4
	}
	if maxVal <= 0 {
		maxVal = findMax(values)
	}

	lines := make([]string, 0, len(labels))
	for i, l := range labels {
		if i >= len(values) {
			break
		}
		v := values[i]
		color := SeriesColor(i)
		if percent {
			color = MetricColor(v)
		}
		pct := v / maxVal * 100
		label := LabelStyle.Render(l + strings.Repeat(" ", labelWidth-lipgloss.Width(l)))
		lines = append(lines, fmt.Sprintf("%s %s %s", label, ProgressBar(barWidth, pct, color), ValueStyle.Render(fmt.Sprintf("%3.0f", v))))
	}
	return lines
}

// RenderShare renders a proportional stacked bar followed by a legend with
// each slice's percentage.
func RenderShare(labels []string, values []float64, width int) []string {
	if width < 4 {
		width = 4
	}
	total := 0.0
	for _, v := range values {
		if v > 0 {
			total += v
		}
	}
	if total == 0 || len(labels) == 0 {
		return []string{MutedStyle.Render("no data")}
	}

	var bar strings.Builder
	used := 0
	for i, v := range values {
		if i >= len(labels) || v <= 0 {
			continue
		}
		cells := int(math.Round(v / total * float64(width)))
		if i == len(values)-1 || used+cells > width {
			cells = width - used
		}
		used += cells
		bar.WriteString(lipgloss.NewStyle().Foreground(SeriesColor(i)).Render(strings.Repeat("█", cells)))
	}

	lines := []string{bar.String()}
	for i, l := range labels {
		if i >= len(values) {
			break
		}
		dot := lipgloss.NewStyle().Foreground(SeriesColor(i)).Render("●")
		lines = append(lines, fmt.Sprintf("%s %s %s", dot, LabelStyle.Render(l), MutedStyle.Render(fmt.Sprintf("%.0f%%", values[i]/total*100))))
	}
	return lines
}

// RenderGauge renders the security score as a big number over a bar.
func RenderGauge(score float64, width int) []string {
	color := ColorCritical
	switch {
	case score >= 90:
		color = ColorHealthy
	case score >= 70:
		color = ColorWarning
	}
	big := lipgloss.NewStyle().Foreground(color).Bold(true).Render(fmt.Sprintf("%.0f / 100", score))
	return []string{big, ProgressBar(width, score, color)}
}

// resampleData resamples data to the target size.
// When downsampling (compressing), uses max-based sampling to preserve peaks/spikes.
// When upsampling (expanding), uses linear interpolation.
func resampleData(data []float64, targetSize int) []float64 {
	if len(data) == 0 || targetSize <= 0 {
		return nil
	}

	if len(data) == targetSize {
		return data
	}

	result := make([]float64, targetSize)

	if len(data) == 1 {
		for i := range result {
			result[i] = data[0]
		}
		return result
	}

	if len(data) > targetSize {
		bucketSize := float64(len(data)) / float64(targetSize)
		for i := 0; i < targetSize; i++ {
			start := int(float64(i) * bucketSize)
			end := int(float64(i+1) * bucketSize)
			if end > len(data) {
				end = len(data)
			}
			if start >= end {
				start = end - 1
			}
			if start < 0 {
				start = 0
			}

			maxVal := data[start]
			for j := start + 1; j < end; j++ {
				if data[j] > maxVal {
					maxVal = data[j]
				}
			}
			result[i] = maxVal
		}
		return result
	}

	scale := float64(len(data)-1) / float64(targetSize-1)
	for i := 0; i < targetSize; i++ {
		pos := float64(i) * scale
		idx := int(pos)
		frac := pos - float64(idx)

		if idx >= len(data)-1 {
			result[i] = data[len(data)-1]
		} else {
			result[i] = data[idx]*(1-frac) + data[idx+1]*frac
		}
	}

	return result
}

// renderChart draws one chart snapshot at the given width. detail asks for
// a taller rendering.
func renderChart(c Chart, width int, detail bool) string {
	inner := width - 4
	if inner < 10 {
		inner = 10
	}

	var lines []string
	value := ""
	switch c.Kind {
	case KindLine:
		height := 2
		if detail {
			height = 8
		}
		all := make([][]float64, 0, len(c.Series))
		for _, s := range c.Series {
			all = append(all, s.Values)
		}
		maxVal := findMax(all...)
		for i, s := range c.Series {
			legend := lipgloss.NewStyle().Foreground(SeriesColor(i)).Render("● " + s.Label)
			last := "--"
			if n := len(s.Values); n > 0 {
				last = fmt.Sprintf("%.1f", s.Values[n-1])
			}
			lines = append(lines, legend+" "+ValueStyle.Render(last))
			if len(s.Values) > 0 {
				lines = append(lines, RenderBrailleSparkline(s.Values, inner/2, height, maxVal, SeriesColor(i)))
			}
		}
		if n := len(c.Labels); n > 0 {
			value = c.Labels[n-1]
		}
	case KindShare:
		if len(c.Series) > 0 {
			lines = RenderShare(c.Labels, c.Series[0].Values, inner)
		}
	case KindBars:
		if len(c.Series) > 0 {
			percent := c.ID == ChartPerformance
			maxVal := 0.0
			if percent {
				maxVal = 100
			}
			lines = RenderHBars(c.Labels, c.Series[0].Values, inner, maxVal, percent)
		}
	case KindGauge:
		if len(c.Series) > 0 && len(c.Series[0].Values) > 0 {
			score := c.Series[0].Values[0]
			lines = RenderGauge(score, inner)
			value = fmt.Sprintf("%.0f%%", score)
		}
	}
	if len(lines) == 0 {
		lines = []string{MutedStyle.Render("waiting for data")}
	}
	return Section(c.Title, value, lines, width)
}
