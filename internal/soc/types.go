// Package soc defines the wire types exchanged with a SOC dashboard backend and
// the fixed threat catalog both sides agree on.
package soc

import (
	"encoding/json"
	"strings"
	"time"
)

// Severity is an alert severity. The backend is expected to send high, medium
// or low, but any string is tolerated and rendered with a fallback.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Known reports whether s is one of the three recognized severities.
func (s Severity) Known() bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// Timestamp wraps time.Time and accepts the handful of layouts SOC backends
// emit. Unparsable or missing values decode to the zero time.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses s with every supported layout, returning the zero
// Timestamp when none match.
func ParseTimestamp(s string) Timestamp {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return Timestamp{Time: t}
		}
	}
	return Timestamp{}
}

// NewTimestamp returns a Timestamp for t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// UnmarshalJSON never fails: anything that is not a parsable string is absent.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*t = Timestamp{}
		return nil
	}
	*t = ParseTimestamp(s)
	return nil
}

// MarshalJSON writes RFC3339 with sub-second precision, or null when zero.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// Clock formats the time of day, or --:--:-- when absent.
func (t Timestamp) Clock() string {
	if t.IsZero() {
		return "--:--:--"
	}
	return t.Local().Format("15:04:05")
}

// Stat is the /api/stats payload. Nil fields were missing or invalid in the
// response and must not overwrite what is on screen.
type Stat struct {
	ActiveThreats   *int      `json:"active_threats,omitempty"`
	LogsProcessed   *int      `json:"logs_processed,omitempty"`
	AlertsGenerated *int      `json:"alerts_generated,omitempty"`
	TodayLogs       *int      `json:"today_logs,omitempty"`
	SystemStatus    *string   `json:"system_status,omitempty"`
	LastUpdate      Timestamp `json:"last_update"`
}

// UnmarshalJSON decodes the stats payload field by field. A field that is
// missing, null, the wrong type or a negative count stays nil; only a
// payload that isn't an object fails.
func (s *Stat) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	*s = Stat{}
	counts := []struct {
		key string
		dst **int
	}{
		{"active_threats", &s.ActiveThreats},
		{"logs_processed", &s.LogsProcessed},
		{"alerts_generated", &s.AlertsGenerated},
		{"today_logs", &s.TodayLogs},
	}
	for _, c := range counts {
		if n, ok := field[int](fields, c.key); ok && n >= 0 {
			*c.dst = Int(n)
		}
	}
	if v, ok := field[string](fields, "system_status"); ok {
		s.SystemStatus = &v
	}
	s.LastUpdate, _ = field[Timestamp](fields, "last_update")
	return nil
}

// Int returns a pointer to n. Handy for building Stat literals.
func Int(n int) *int { return &n }

// String returns a pointer to s.
func String(s string) *string { return &s }

// LogEntry is one line of the /api/logs window.
type LogEntry struct {
	ID        int64     `json:"id"`
	Timestamp Timestamp `json:"timestamp"`
	Source    string    `json:"source"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
}

// UnmarshalJSON tolerates wrong-typed fields, leaving them zero, so one bad
// row doesn't cost the whole log window.
func (l *LogEntry) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	*l = LogEntry{}
	l.ID, _ = field[int64](fields, "id")
	l.Timestamp, _ = field[Timestamp](fields, "timestamp")
	l.Source, _ = field[string](fields, "source")
	l.Message, _ = field[string](fields, "message")
	l.Severity, _ = field[string](fields, "severity")
	return nil
}

// Alert is one active alert from /api/alerts. ID is the key response actions
// refer to.
type Alert struct {
	ID          int64     `json:"id"`
	ThreatType  string    `json:"threat_type"`
	Severity    Severity  `json:"severity"`
	Description string    `json:"description"`
	Timestamp   Timestamp `json:"timestamp"`
	Status      string    `json:"status,omitempty"`
}

// UnmarshalJSON tolerates wrong-typed fields, leaving them zero.
func (a *Alert) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	*a = Alert{}
	a.ID, _ = field[int64](fields, "id")
	a.ThreatType, _ = field[string](fields, "threat_type")
	a.Severity, _ = field[Severity](fields, "severity")
	a.Description, _ = field[string](fields, "description")
	a.Timestamp, _ = field[Timestamp](fields, "timestamp")
	a.Status, _ = field[string](fields, "status")
	return nil
}

// NetworkSample is the traffic reading attached to chart data, in MB/s.
type NetworkSample struct {
	Inbound   float64   `json:"inbound"`
	Outbound  float64   `json:"outbound"`
	Timestamp Timestamp `json:"timestamp"`
}

// ChartData is the /api/chart_data payload.
type ChartData struct {
	ThreatDistribution Series         `json:"threat_distribution"`
	ThreatTimeline     Series         `json:"threat_timeline"`
	GeographicData     Series         `json:"geographic_data"`
	PerformanceData    Series         `json:"performance_data"`
	NetworkData        *NetworkSample `json:"network_data,omitempty"`
	SecurityScore      *int           `json:"security_score,omitempty"`
	Timestamp          Timestamp      `json:"timestamp"`
	Error              string         `json:"error,omitempty"`
}

// UnmarshalJSON decodes each chart independently. A dataset, sample or
// score of the wrong shape is absent and the other charts still update.
func (c *ChartData) UnmarshalJSON(data []byte) error {
	fields, err := objectFields(data)
	if err != nil {
		return err
	}
	*c = ChartData{}
	c.ThreatDistribution, _ = field[Series](fields, "threat_distribution")
	c.ThreatTimeline, _ = field[Series](fields, "threat_timeline")
	c.GeographicData, _ = field[Series](fields, "geographic_data")
	c.PerformanceData, _ = field[Series](fields, "performance_data")
	if n, ok := field[NetworkSample](fields, "network_data"); ok {
		c.NetworkData = &n
	}
	if n, ok := field[int](fields, "security_score"); ok {
		c.SecurityScore = Int(n)
	}
	c.Timestamp, _ = field[Timestamp](fields, "timestamp")
	c.Error, _ = field[string](fields, "error")
	return nil
}

// objectFields splits a JSON object into its members. null yields no fields.
func objectFields(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// field decodes fields[key] as a T. It reports false when the key is
// missing, null or doesn't decode as a T.
func field[T any](fields map[string]json.RawMessage, key string) (T, bool) {
	var v T
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

// ActionRequest is the body POSTed to /api/execute_action.
type ActionRequest struct {
	Action  string `json:"action"`
	AlertID int64  `json:"alert_id"`
}

// ActionResult is the /api/execute_action response.
type ActionResult struct {
	Success         bool   `json:"success"`
	Message         string `json:"message,omitempty"`
	DetailedMessage string `json:"detailed_message,omitempty"`
	Error           string `json:"error,omitempty"`
}

// SimulateResult is the /api/simulate/{type} response.
type SimulateResult struct {
	Success bool   `json:"success"`
	AlertID *int64 `json:"alert_id,omitempty"`
	Error   string `json:"error,omitempty"`
}
