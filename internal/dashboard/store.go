package dashboard

import (
	"sync"
	"time"

	"github.com/rileyhilliard/socdash/internal/soc"
)

// Task names one poll loop. Each task owns exactly one Store field.
type Task string

const (
	TaskStats  Task = "stats"
	TaskLogs   Task = "logs"
	TaskAlerts Task = "alerts"
	TaskCharts Task = "charts"
)

// AllTasks lists every poll task in refresh order.
var AllTasks = []Task{TaskStats, TaskLogs, TaskAlerts, TaskCharts}

// Update is the result of one fetch. Exactly one payload field matches Task
// unless Err is set.
type Update struct {
	Task    Task
	Seq     uint64
	Stats   soc.Stat
	Logs    []soc.LogEntry
	Alerts  []soc.Alert
	Charts  soc.ChartData
	Err     error
	Latency time.Duration
	At      time.Time
}

// Outcome says what Store.Apply did with an Update.
type Outcome int

const (
	// Applied means the field was replaced.
	Applied Outcome = iota
	// Stale means a newer result for the same task was already applied.
	Stale
	// Ignored means the update was current but carried nothing to apply:
	// a failed fetch, or an empty log window over a non-empty one.
	Ignored
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Stale:
		return "stale"
	case Ignored:
		return "ignored"
	default:
		return "unknown"
	}
}

// Store holds the latest known dashboard state. It is the single source of
// truth for rendering. Every setter is a full-value replace under the lock,
// so readers never see a half-written value.
type Store struct {
	mu sync.RWMutex

	stats     soc.Stat
	hasStats  bool
	logs      []soc.LogEntry
	alerts    []soc.Alert
	hasAlerts bool
	charts    soc.ChartData
	hasCharts bool

	// applied is the highest sequence number applied per task.
	applied map[Task]uint64
	lastErr map[Task]error
	lastOK  map[Task]time.Time

	metrics *Metrics
}

// NewStore creates an empty store. metrics may be nil.
func NewStore(metrics *Metrics) *Store {
	return &Store{
		applied: make(map[Task]uint64),
		lastErr: make(map[Task]error),
		lastOK:  make(map[Task]time.Time),
		metrics: metrics,
	}
}

// Deliver lets the store act as a poller Sink directly.
func (s *Store) Deliver(u Update) {
	s.Apply(u)
}

// Apply writes u into its task's field if u is newer than anything applied
// for that task. The sequence gate only advances when a result is accepted,
// so a failed newer fetch never blocks an older successful one.
func (s *Store) Apply(u Update) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.Err != nil {
		s.lastErr[u.Task] = u.Err
		return Ignored
	}

	if u.Seq != 0 && u.Seq <= s.applied[u.Task] {
		s.metrics.observeStale(u.Task)
		return Stale
	}
	if u.Seq != 0 {
		s.applied[u.Task] = u.Seq
	}
	delete(s.lastErr, u.Task)
	if !u.At.IsZero() {
		s.lastOK[u.Task] = u.At
	}

	switch u.Task {
	case TaskStats:
		s.setStatsLocked(u.Stats)
	case TaskLogs:
		// An empty window never clears entries already on screen.
		if len(u.Logs) == 0 && len(s.logs) > 0 {
			return Ignored
		}
		s.setLogsLocked(u.Logs)
	case TaskAlerts:
		s.setAlertsLocked(u.Alerts)
	case TaskCharts:
		s.setChartsLocked(u.Charts)
	default:
		return Ignored
	}
	return Applied
}

// Stats returns the latest stats and whether any have arrived.
func (s *Store) Stats() (soc.Stat, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats, s.hasStats
}

// SetStats replaces the stats.
func (s *Store) SetStats(v soc.Stat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setStatsLocked(v)
}

func (s *Store) setStatsLocked(v soc.Stat) {
	s.stats = v
	s.hasStats = true
}

// Logs returns a copy of the current log window.
func (s *Store) Logs() []soc.LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]soc.LogEntry(nil), s.logs...)
}

// SetLogs replaces the log window.
func (s *Store) SetLogs(v []soc.LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLogsLocked(v)
}

func (s *Store) setLogsLocked(v []soc.LogEntry) {
	s.logs = append([]soc.LogEntry(nil), v...)
}

// Alerts returns a copy of the active alerts and whether any alert list has
// arrived yet.
func (s *Store) Alerts() ([]soc.Alert, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]soc.Alert(nil), s.alerts...), s.hasAlerts
}

// SetAlerts replaces the alert list.
func (s *Store) SetAlerts(v []soc.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setAlertsLocked(v)
}

func (s *Store) setAlertsLocked(v []soc.Alert) {
	s.alerts = append([]soc.Alert(nil), v...)
	s.hasAlerts = true
}

// Charts returns the latest chart payload and whether one has arrived.
func (s *Store) Charts() (soc.ChartData, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.charts, s.hasCharts
}

// SetCharts replaces the chart payload.
func (s *Store) SetCharts(v soc.ChartData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setChartsLocked(v)
}

func (s *Store) setChartsLocked(v soc.ChartData) {
	s.charts = v
	s.hasCharts = true
}

// Alert looks up an active alert by ID.
func (s *Store) Alert(id int64) (soc.Alert, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.alerts {
		if a.ID == id {
			return a, true
		}
	}
	return soc.Alert{}, false
}

// LastError returns the error from the most recent failed fetch for task,
// cleared by the next accepted result.
func (s *Store) LastError(task Task) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr[task]
}

// Degraded reports whether any task's latest fetch failed.
func (s *Store) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lastErr) > 0
}

// AppliedSeq returns the highest sequence number applied for task.
func (s *Store) AppliedSeq(task Task) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.applied[task]
}
