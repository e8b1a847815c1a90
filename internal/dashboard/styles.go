package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Dashboard color palette. Dark console with neon accents.
const (
	ColorDarkBg    = lipgloss.Color("#0A0A0F")
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	ColorHealthy  = lipgloss.Color("#2ED573")
	ColorWarning  = lipgloss.Color("#FFA502")
	ColorCritical = lipgloss.Color("#FF4757")

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent    = lipgloss.Color("#00FF88")
	ColorAccentDim = lipgloss.Color("#00B8D4")

	ColorGraph = lipgloss.Color("#00FFFF")
)

// SeriesColors colors multi-series charts, in series order.
var SeriesColors = []lipgloss.Color{
	lipgloss.Color("#FF4757"),
	lipgloss.Color("#FFA502"),
	lipgloss.Color("#00B8D4"),
	lipgloss.Color("#A55EEA"),
	lipgloss.Color("#2ED573"),
	lipgloss.Color("#FF6B81"),
}

// SeriesColor returns the color for series i.
func SeriesColor(i int) lipgloss.Color {
	return SeriesColors[i%len(SeriesColors)]
}

// Thresholds for percentage coloring.
const (
	WarningThreshold  = 70.0
	CriticalThreshold = 90.0
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginRight(1)

	CardSelectedStyle = CardStyle.
				BorderForeground(ColorAccent)

	CardDetectedStyle = CardStyle.
				BorderForeground(ColorCritical)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	// ValuePulseStyle is a stat value during the active phase of its pulse.
	ValuePulseStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Underline(true)

	// ValueSettleStyle is the same value while the pulse settles.
	ValueSettleStyle = lipgloss.NewStyle().
				Foreground(ColorAccentDim).
				Bold(true)

	StatusOnlineStyle = lipgloss.NewStyle().
				Foreground(ColorHealthy).
				Bold(true)

	StatusDegradedStyle = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)

	ActionStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(ColorBorder).
			PaddingLeft(1).
			MarginRight(1)

	ActionSelectedStyle = ActionStyle.
				Foreground(ColorDarkBg).
				Background(ColorAccent).
				BorderForeground(ColorAccent)

	ToastSuccessStyle = lipgloss.NewStyle().
				Foreground(ColorDarkBg).
				Background(ColorHealthy).
				Padding(0, 1)

	ToastErrorStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorCritical).
			Padding(0, 1)

	AllClearStyle = lipgloss.NewStyle().
			Foreground(ColorHealthy).
			Bold(true)
)

// Status glyphs.
const (
	StatusOnline   = "◉"
	StatusDegraded = "◔"
	StatusUnknown  = "◌"
)

// MetricColor returns green below 70, amber below 90 and red above.
func MetricColor(percent float64) lipgloss.Color {
	switch {
	case percent >= CriticalThreshold:
		return ColorCritical
	case percent >= WarningThreshold:
		return ColorWarning
	default:
		return ColorHealthy
	}
}

// BadgeStyle renders a severity badge.
func BadgeStyle(b Badge) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(ColorTextPrimary).
		Background(lipgloss.Color(b.Color)).
		Bold(true).
		Padding(0, 1)
}

// ToastStyle picks the style for a notification kind.
func ToastStyle(k Kind) lipgloss.Style {
	if k == KindError {
		return ToastErrorStyle
	}
	return ToastSuccessStyle
}

// ProgressBar renders a bar of width cells, percent full.
func ProgressBar(width int, percent float64, color lipgloss.Color) string {
	if width < 1 {
		width = 1
	}
	percent = clamp(percent, 0, 100)

	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}

	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("▰", filled)) +
		MutedStyle.Render(strings.Repeat("▱", width-filled))
}

// SectionHeader renders the top border of a panel with the title on the left
// and value on the right.
// Format: ╭─ Title ────────────────────────────────────── Value ╮
func SectionHeader(title, value string, width int) string {
	if width < 10 {
		width = 10
	}

	leftWidth := 3 + lipgloss.Width(title) + 1
	rightWidth := 1 + lipgloss.Width(value) + 2

	fillWidth := width - leftWidth - rightWidth
	if fillWidth < 1 {
		fillWidth = 1
	}
	middle := strings.Repeat("─", fillWidth)

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	titleStyle := lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(ColorGraph).Bold(true)

	return borderStyle.Render("╭─ ") +
		titleStyle.Render(title) +
		borderStyle.Render(" "+middle+" ") +
		valueStyle.Render(value) +
		borderStyle.Render(" ╮")
}

// SectionFooter renders the bottom border of a panel.
func SectionFooter(width int) string {
	if width < 2 {
		width = 2
	}
	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	return borderStyle.Render("╰" + strings.Repeat("─", width-2) + "╯")
}

// SectionContentLine renders one padded line between the panel borders.
// Content wider than the panel is truncated.
func SectionContentLine(content string, width int) string {
	if width < 4 {
		width = 4
	}

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	innerWidth := width - 4

	if lipgloss.Width(content) > innerWidth {
		content = truncate(content, innerWidth)
	}
	padding := innerWidth - lipgloss.Width(content)
	if padding < 0 {
		padding = 0
	}

	return borderStyle.Render("│") + " " + content + strings.Repeat(" ", padding) + " " + borderStyle.Render("│")
}

// Section frames body lines as a titled panel of the given width.
func Section(title, value string, lines []string, width int) string {
	out := make([]string, 0, len(lines)+2)
	out = append(out, SectionHeader(title, value, width))
	for _, l := range lines {
		for _, part := range strings.Split(l, "\n") {
			out = append(out, SectionContentLine(part, width))
		}
	}
	out = append(out, SectionFooter(width))
	return strings.Join(out, "\n")
}
