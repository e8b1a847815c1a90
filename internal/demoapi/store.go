package demoapi

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rileyhilliard/socdash/internal/soc"
	_ "modernc.org/sqlite"
)

// timeLayout is how timestamps are stored. It is UTC, fixed width and sorts
// lexicographically, and SQLite's date functions understand it.
const timeLayout = "2006-01-02 15:04:05.000000"

// Alert statuses.
const (
	StatusActive   = "active"
	StatusResolved = "resolved"
)

var seedLogs = []struct{ source, message string }{
	{"SYSTEM", "SOC System initialized successfully"},
	{"FIREWALL", "Normal traffic from 192.168.1.50"},
	{"ENDPOINT", "User login successful - jane.smith"},
	{"SYSTEM", "Antivirus definitions updated"},
	{"FIREWALL", "VPN connection established"},
}

// Store is the demo backend's SQLite persistence.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock overrides the clock used to stamp rows and compute windows.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// Open opens (creating if needed) the SQLite database at path and applies
// the embedded migrations.
func Open(ctx context.Context, path string, opts ...StoreOption) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One connection: SQLite has a single writer and PRAGMAs are per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) stamp() string {
	return s.now().UTC().Format(timeLayout)
}

func parseStamp(raw string) soc.Timestamp {
	t, err := time.ParseInLocation(timeLayout, raw, time.UTC)
	if err != nil {
		return soc.ParseTimestamp(raw)
	}
	return soc.NewTimestamp(t)
}

// Seed writes a handful of startup log lines when the log table is empty.
func (s *Store) Seed(ctx context.Context) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM logs`).Scan(&n); err != nil {
		return fmt.Errorf("count logs: %w", err)
	}
	if n > 0 {
		return nil
	}
	for _, l := range seedLogs {
		if _, err := s.AddLog(ctx, l.source, l.message, "info"); err != nil {
			return err
		}
	}
	return nil
}

// AddLog appends a log line and returns its id.
func (s *Store) AddLog(ctx context.Context, source, message, severity string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO logs(timestamp, source, message, severity) VALUES(?, ?, ?, ?)`,
		s.stamp(), source, message, severity)
	if err != nil {
		return 0, fmt.Errorf("insert log: %w", err)
	}
	return res.LastInsertId()
}

// AddAlert raises an active alert and returns its id.
func (s *Store) AddAlert(ctx context.Context, threatType string, severity soc.Severity, description string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO alerts(timestamp, threat_type, severity, description, status) VALUES(?, ?, ?, ?, ?)`,
		s.stamp(), threatType, string(severity), description, StatusActive)
	if err != nil {
		return 0, fmt.Errorf("insert alert: %w", err)
	}
	return res.LastInsertId()
}

// RecentLogs returns up to limit log lines, newest first.
func (s *Store) RecentLogs(ctx context.Context, limit int) ([]soc.LogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, source, message, severity
		FROM logs
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()

	out := []soc.LogEntry{}
	for rows.Next() {
		var e soc.LogEntry
		var ts string
		if err := rows.Scan(&e.ID, &ts, &e.Source, &e.Message, &e.Severity); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		e.Timestamp = parseStamp(ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

// ActiveAlerts returns unresolved alerts, newest first.
func (s *Store) ActiveAlerts(ctx context.Context) ([]soc.Alert, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, threat_type, severity, description, status
		FROM alerts
		WHERE status = ?
		ORDER BY timestamp DESC, id DESC
	`, StatusActive)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	out := []soc.Alert{}
	for rows.Next() {
		var a soc.Alert
		var ts, sev string
		if err := rows.Scan(&a.ID, &ts, &a.ThreatType, &sev, &a.Description, &a.Status); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		a.Timestamp = parseStamp(ts)
		a.Severity = soc.Severity(sev)
		out = append(out, a)
	}
	return out, rows.Err()
}

// Counts are the aggregate numbers behind /api/stats.
type Counts struct {
	ActiveThreats   int
	LogsProcessed   int
	AlertsGenerated int
	TodayLogs       int
}

// Counts computes the stats counters. "Today" is the current UTC day.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	now := s.now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var c Counts
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM alerts WHERE status = ?),
			(SELECT COUNT(*) FROM logs),
			(SELECT COUNT(*) FROM alerts),
			(SELECT COUNT(*) FROM logs WHERE timestamp >= ?)
	`, StatusActive, midnight.Format(timeLayout)).Scan(
		&c.ActiveThreats, &c.LogsProcessed, &c.AlertsGenerated, &c.TodayLogs)
	if err != nil {
		return Counts{}, fmt.Errorf("query counts: %w", err)
	}
	return c, nil
}

// ThreatDistribution counts alerts per threat type raised within window.
func (s *Store) ThreatDistribution(ctx context.Context, window time.Duration) (soc.Series, error) {
	return s.series(ctx, `
		SELECT threat_type, COUNT(*)
		FROM alerts
		WHERE timestamp >= ?
		GROUP BY threat_type
		ORDER BY MIN(id)
	`, window)
}

// ThreatTimeline counts alerts per UTC hour ("15:00") raised within window.
func (s *Store) ThreatTimeline(ctx context.Context, window time.Duration) (soc.Series, error) {
	return s.series(ctx, `
		SELECT strftime('%H:00', timestamp) AS hour, COUNT(*)
		FROM alerts
		WHERE timestamp >= ?
		GROUP BY hour
		ORDER BY hour
	`, window)
}

func (s *Store) series(ctx context.Context, query string, window time.Duration) (soc.Series, error) {
	since := s.now().UTC().Add(-window).Format(timeLayout)
	rows, err := s.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}
	defer rows.Close()

	out := soc.Series{}
	for rows.Next() {
		var p soc.Point
		var n int
		if err := rows.Scan(&p.Label, &n); err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		p.Value = float64(n)
		out = append(out, p)
	}
	return out, rows.Err()
}

// RecordResponse stores an executed action and, when resolve is set, marks
// the alert resolved. Both happen in one transaction.
func (s *Store) RecordResponse(ctx context.Context, alertID int64, action string, resolve bool) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx record response: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO responses(alert_id, action, timestamp) VALUES(?, ?, ?)`,
		alertID, action, s.stamp()); err != nil {
		return fmt.Errorf("insert response: %w", err)
	}
	if resolve {
		if _, err = tx.ExecContext(ctx,
			`UPDATE alerts SET status = ? WHERE id = ?`, StatusResolved, alertID); err != nil {
			return fmt.Errorf("resolve alert %d: %w", alertID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit response: %w", err)
	}
	return nil
}

// Responses returns how many actions were recorded against alertID.
func (s *Store) Responses(ctx context.Context, alertID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM responses WHERE alert_id = ?`, alertID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count responses: %w", err)
	}
	return n, nil
}
