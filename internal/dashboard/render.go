package dashboard

import (
	"strconv"

	"github.com/rileyhilliard/socdash/internal/soc"
)

// StatField identifies one stat card.
type StatField int

const (
	StatActiveThreats StatField = iota
	StatLogsProcessed
	StatAlertsGenerated
	StatTodayLogs
	StatSystemStatus
)

// StatFields lists the stat cards in display order.
var StatFields = []StatField{
	StatActiveThreats,
	StatLogsProcessed,
	StatAlertsGenerated,
	StatTodayLogs,
	StatSystemStatus,
}

// Label is the card caption.
func (f StatField) Label() string {
	switch f {
	case StatActiveThreats:
		return "Active Threats"
	case StatLogsProcessed:
		return "Logs Processed"
	case StatAlertsGenerated:
		return "Alerts Generated"
	case StatTodayLogs:
		return "Today's Logs"
	case StatSystemStatus:
		return "System Status"
	default:
		return "?"
	}
}

// Numeric reports whether the field holds a count.
func (f StatField) Numeric() bool {
	return f != StatSystemStatus
}

// StatUpdate sets one stat card's text.
type StatUpdate struct {
	Field StatField
	Value string
}

// StatInstructions maps a stats payload to card updates. Absent fields
// produce no instruction, so the card keeps whatever it showed.
func StatInstructions(s soc.Stat) []StatUpdate {
	var out []StatUpdate
	add := func(f StatField, n *int) {
		if n != nil {
			out = append(out, StatUpdate{Field: f, Value: strconv.Itoa(*n)})
		}
	}
	add(StatActiveThreats, s.ActiveThreats)
	add(StatLogsProcessed, s.LogsProcessed)
	add(StatAlertsGenerated, s.AlertsGenerated)
	add(StatTodayLogs, s.TodayLogs)
	if s.SystemStatus != nil {
		out = append(out, StatUpdate{Field: StatSystemStatus, Value: *s.SystemStatus})
	}
	return out
}

// LogLine is one rendered log feed row.
type LogLine struct {
	Clock    string
	Emoji    string
	Source   string
	Message  string
	Severity string
}

// LogLines maps the log window to feed rows, preserving order.
func LogLines(logs []soc.LogEntry) []LogLine {
	out := make([]LogLine, 0, len(logs))
	for _, l := range logs {
		src := l.Source
		if src == "" {
			src = "SYSTEM"
		}
		out = append(out, LogLine{
			Clock:    l.Timestamp.Clock(),
			Emoji:    soc.LogEmoji(l.Message),
			Source:   src,
			Message:  l.Message,
			Severity: l.Severity,
		})
	}
	return out
}

// Badge is a severity marker.
type Badge struct {
	Label string
	Emoji string
	Color string
}

var severityBadges = map[soc.Severity]Badge{
	soc.SeverityHigh:   {Label: "URGENT - Act Now!", Emoji: "🔴", Color: "#ff4757"},
	soc.SeverityMedium: {Label: "Warning - Review Soon", Emoji: "🟡", Color: "#ffa502"},
	soc.SeverityLow:    {Label: "Info - For Your Awareness", Emoji: "🟢", Color: "#2ed573"},
}

// UnknownBadge is used for any severity outside high/medium/low.
var UnknownBadge = Badge{Label: "Unknown Severity", Emoji: "⚪", Color: "#8b8b8b"}

// SeverityBadge looks up the badge for s.
func SeverityBadge(s soc.Severity) Badge {
	if b, ok := severityBadges[s]; ok {
		return b
	}
	return UnknownBadge
}

// AlertCard is one rendered alert.
type AlertCard struct {
	ID          int64
	Title       string
	Badge       Badge
	Description string
	Detected    string
	Impact      string
	Actions     []string
}

// AlertList is the rendered alert panel. AllClear is set when there are no
// active alerts, in which case Cards is empty.
type AlertList struct {
	AllClear bool
	Cards    []AlertCard
}

// AllClearTitle and AllClearBody fill the empty alert panel.
const (
	AllClearTitle = "✅ All Clear!"
	AllClearBody  = "No security threats detected. Your system is safe."
)

// AlertCards maps the active alerts to cards, preserving order.
func AlertCards(alerts []soc.Alert) AlertList {
	if len(alerts) == 0 {
		return AlertList{AllClear: true}
	}
	cards := make([]AlertCard, 0, len(alerts))
	for _, a := range alerts {
		badge := SeverityBadge(a.Severity)
		cards = append(cards, AlertCard{
			ID:          a.ID,
			Title:       badge.Emoji + " " + a.ThreatType,
			Badge:       badge,
			Description: soc.FriendlyDescription(a.ThreatType, a.Description),
			Detected:    a.Timestamp.Clock(),
			Impact:      soc.Impact(a.Severity),
			Actions:     soc.RecommendedActions(a.ThreatType),
		})
	}
	return AlertList{Cards: cards}
}

// SeverityCounts tallies active alerts per severity for the summary row.
// Unknown severities are not counted.
type SeverityCounts struct {
	High   int
	Medium int
	Low    int
}

// CountSeverities tallies alerts by severity.
func CountSeverities(alerts []soc.Alert) SeverityCounts {
	var c SeverityCounts
	for _, a := range alerts {
		switch a.Severity {
		case soc.SeverityHigh:
			c.High++
		case soc.SeverityMedium:
			c.Medium++
		case soc.SeverityLow:
			c.Low++
		}
	}
	return c
}
