package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	if id, ok := m.DetailChart(); ok {
		return m.renderChartDetail(id)
	}

	sections := []string{
		m.renderHeader(),
		m.renderStats(),
		m.renderThreatCards(),
		m.renderPanels(),
	}
	if m.LayoutMode() != LayoutMinimal {
		sections = append(sections, m.renderChartGrid())
	}
	if toasts := m.renderToasts(); toasts != "" {
		sections = append(sections, toasts)
	}
	if m.ShowFooter() {
		sections = append(sections, m.renderFooter())
	}
	return strings.Join(sections, "\n")
}

// renderHeader renders the title bar with system status and clock.
func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("🛡️ socdash")

	glyph, status := StatusUnknown, "connecting"
	style := MutedStyle
	if v := m.board.Value(StatSystemStatus); v != "--" {
		glyph, status, style = StatusOnline, v, StatusOnlineStyle
	}
	if m.store.Degraded() {
		glyph, status, style = StatusDegraded, "degraded", StatusDegradedStyle
	}

	var updateText string
	switch secs := m.SecondsSinceUpdate(); {
	case m.lastUpdate.IsZero():
		updateText = "never"
	case secs == 0:
		updateText = "just now"
	default:
		updateText = fmt.Sprintf("%ds ago", secs)
	}

	info := LabelStyle.Render(fmt.Sprintf(" | %s | %s | last update %s",
		m.now.Format("15:04:05"), m.backend, updateText))

	return HeaderStyle.Render(title + " " + style.Render(glyph+" "+status) + info)
}

// renderStats renders the stat counters in one row.
func (m Model) renderStats() string {
	cards := make([]string, 0, len(StatFields))
	for _, f := range StatFields {
		cards = append(cards, m.renderStatCard(f))
	}
	return m.wrapRow(cards, statCardWidth+3)
}

// renderThreatCards renders the simulate buttons.
func (m Model) renderThreatCards() string {
	cards := m.board.Cards()
	out := make([]string, 0, len(cards))
	for i, c := range cards {
		out = append(out, m.renderThreatCard(i, c))
	}
	return m.wrapRow(out, threatCardWidth+3)
}

// wrapRow joins blocks horizontally, wrapping to as many rows as the
// terminal width needs.
func (m Model) wrapRow(blocks []string, blockWidth int) string {
	perRow := len(blocks)
	if m.width > 0 {
		perRow = m.width / blockWidth
		if perRow < 1 {
			perRow = 1
		}
	}

	var rows []string
	for i := 0; i < len(blocks); i += perRow {
		end := i + perRow
		if end > len(blocks) {
			end = len(blocks)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, blocks[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderPanels renders alerts and logs, side by side when there is room.
func (m Model) renderPanels() string {
	alerts := m.renderAlerts(m.alertWidth())
	logs := m.renderLogs()
	if m.LayoutMode() >= LayoutStandard {
		return lipgloss.JoinHorizontal(lipgloss.Top, alerts, " ", logs)
	}
	return alerts + "\n" + logs
}

func (m Model) alertWidth() int {
	switch {
	case m.width == 0:
		return 60
	case m.LayoutMode() >= LayoutStandard:
		return m.width/2 - 1
	default:
		return m.width
	}
}

func (m Model) logWidth() int {
	switch {
	case m.width == 0:
		return 80
	case m.LayoutMode() >= LayoutStandard:
		return m.width - m.alertWidth() - 1
	default:
		return m.width
	}
}

// renderAlerts renders the alert panel.
func (m Model) renderAlerts(width int) string {
	alerts, _ := m.store.Alerts()
	list := AlertCards(alerts)
	counts := CountSeverities(alerts)

	summary := fmt.Sprintf("🔴 %d  🟡 %d  🟢 %d", counts.High, counts.Medium, counts.Low)
	heading := TitleStyle.Render("🚨 Active Alerts") + "  " + LabelStyle.Render(summary)

	if list.AllClear {
		return heading + "\n" + renderAllClear(width-2)
	}

	blocks := []string{heading}
	for i, card := range list.Cards {
		sel := -1
		if i == m.selAlert && m.focus == FocusAlerts {
			sel = m.selAct
		}
		blocks = append(blocks, renderAlertCard(card, width-2, sel))
	}
	return strings.Join(blocks, "\n")
}

// renderLogs renders the scrolling log feed.
func (m Model) renderLogs() string {
	width := m.logWidth()
	title := "📜 Live Security Feed"
	if m.focus == FocusLogs {
		title += " ◂"
	}

	var body []string
	if m.viewportReady {
		body = strings.Split(m.logView.View(), "\n")
	} else {
		body = strings.Split(renderLogLines(LogLines(m.store.Logs()), width-4), "\n")
	}
	return Section(title, fmt.Sprintf("%d", len(m.store.Logs())), body, width)
}

// renderLogLines renders feed rows, one per line, truncated to width.
func renderLogLines(lines []LogLine, width int) string {
	if len(lines) == 0 {
		return MutedStyle.Render("waiting for logs")
	}
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		row := MutedStyle.Render(l.Clock) + " " + l.Emoji + " " +
			lipgloss.NewStyle().Foreground(ColorAccentDim).Render("["+l.Source+"]") + " " +
			ValueStyle.UnsetBold().Render(l.Message)
		out = append(out, truncate(row, width))
	}
	return strings.Join(out, "\n")
}

// renderChartGrid renders every mounted chart, two or three per row.
func (m Model) renderChartGrid() string {
	ids := m.charts.MountedIDs()
	perRow := 2
	if m.LayoutMode() == LayoutWide {
		perRow = 3
	}
	width := 50
	if m.width > 0 {
		width = m.width/perRow - 1
	}

	blocks := make([]string, 0, len(ids))
	for _, id := range ids {
		c, ok := m.charts.Snapshot(id)
		if !ok {
			continue
		}
		blocks = append(blocks, renderChart(c, width, false))
	}

	var rows []string
	for i := 0; i < len(blocks); i += perRow {
		end := i + perRow
		if end > len(blocks) {
			end = len(blocks)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, joinWithGap(blocks[i:end])...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func joinWithGap(blocks []string) []string {
	out := make([]string, 0, len(blocks)*2)
	for i, b := range blocks {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, b)
	}
	return out
}

// renderChartDetail renders one chart at full width.
func (m Model) renderChartDetail(id ChartID) string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	if c, ok := m.charts.Snapshot(id); ok {
		b.WriteString(renderChart(c, width, true))
	} else {
		b.WriteString(MutedStyle.Render("chart not mounted: " + string(id)))
	}
	if toasts := m.renderToasts(); toasts != "" {
		b.WriteString("\n")
		b.WriteString(toasts)
	}
	if m.ShowFooter() {
		b.WriteString("\n")
		b.WriteString(m.renderFooter())
	}
	return b.String()
}

// renderToasts renders the active notifications, oldest first.
func (m Model) renderToasts() string {
	active := m.queue.Active()
	if len(active) == 0 {
		return ""
	}
	lines := make([]string, 0, len(active))
	for _, n := range active {
		lines = append(lines, ToastStyle(n.Kind).Render(n.Message))
	}
	return strings.Join(lines, "\n")
}

// renderFooter renders the keyboard help footer.
func (m Model) renderFooter() string {
	hints := []string{"q quit", "r refresh", "c chart", "? help"}
	if m.single == "" {
		hints = []string{"q quit", "r refresh", "tab focus", "j/k select", "h/l action", "enter run", "1-4 simulate", "c chart", "? help"}
	}
	return FooterStyle.Render(strings.Join(hints, " | "))
}
