package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/rileyhilliard/socdash/internal/config"
	"github.com/rileyhilliard/socdash/internal/errors"
	"github.com/rileyhilliard/socdash/internal/logger"
	"github.com/rileyhilliard/socdash/internal/soc"
)

// Fetcher reads dashboard state from the backend. *api.Client satisfies it.
type Fetcher interface {
	Stats(ctx context.Context) (soc.Stat, error)
	Logs(ctx context.Context) ([]soc.LogEntry, error)
	Alerts(ctx context.Context) ([]soc.Alert, error)
	ChartData(ctx context.Context) (soc.ChartData, error)
}

// Sink receives every fetch result, successful or not. The TUI forwards
// them into the Bubble Tea event loop; headless callers hand them straight
// to a Store.
type Sink interface {
	Deliver(Update)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Update)

// Deliver calls f(u).
func (f SinkFunc) Deliver(u Update) { f(u) }

// Schedule maps each task to its poll period. Tasks missing from the
// schedule never tick but can still be refreshed on demand.
type Schedule map[Task]time.Duration

// ScheduleFromConfig builds the default four-task schedule.
func ScheduleFromConfig(p config.PollConfig) Schedule {
	return Schedule{
		TaskStats:  p.Stats,
		TaskLogs:   p.Logs,
		TaskAlerts: p.Alerts,
		TaskCharts: p.Charts,
	}
}

// Poller runs one independent repeating fetch per task. Ticks fire on a
// fixed period whether or not the previous fetch finished, so fetches for
// the same task may overlap. Every fetch carries a per-task sequence number
// so the receiver can drop results that complete out of order.
type Poller struct {
	fetch    Fetcher
	sink     Sink
	schedule Schedule
	log      logger.Logger
	metrics  *Metrics

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	seq     map[Task]uint64
	started bool
	stopped bool
	wg      sync.WaitGroup
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithLogger sets the poller's logger.
func WithLogger(l logger.Logger) PollerOption {
	return func(p *Poller) { p.log = l }
}

// WithMetrics instruments the poller.
func WithMetrics(m *Metrics) PollerOption {
	return func(p *Poller) { p.metrics = m }
}

// NewPoller creates a stopped poller.
func NewPoller(fetch Fetcher, sink Sink, schedule Schedule, opts ...PollerOption) *Poller {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Poller{
		fetch:    fetch,
		sink:     sink,
		schedule: schedule,
		log:      logger.Noop(),
		ctx:      ctx,
		cancel:   cancel,
		seq:      make(map[Task]uint64),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start fetches every scheduled task once and then starts its ticker.
// Cancelling parent has the same effect as Stop without the wait.
func (p *Poller) Start(parent context.Context) {
	p.mu.Lock()
	if p.started || p.stopped {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	if parent != nil {
		context.AfterFunc(parent, p.cancel)
	}

	for _, task := range AllTasks {
		period, ok := p.schedule[task]
		if !ok || period <= 0 {
			continue
		}
		p.launch(task)
		if !p.track() {
			return
		}
		go p.loop(task, period)
	}
}

// Refresh fetches the given tasks once, out of band, through the same
// path as a scheduled tick. It does not touch any ticker.
func (p *Poller) Refresh(tasks ...Task) {
	for _, task := range tasks {
		p.launch(task)
	}
}

// Stop halts all tickers, cancels in-flight fetches and waits for them to
// return. Results of cancelled fetches are not delivered.
func (p *Poller) Stop() {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
}

// track registers one goroutine with the wait group unless the poller has
// been stopped.
func (p *Poller) track() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped || p.ctx.Err() != nil {
		return false
	}
	p.wg.Add(1)
	return true
}

func (p *Poller) loop(task Task, period time.Duration) {
	defer p.wg.Done()

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.launch(task)
		}
	}
}

// launch starts one fetch for task in its own goroutine.
func (p *Poller) launch(task Task) {
	if !p.track() {
		return
	}

	p.mu.Lock()
	p.seq[task]++
	seq := p.seq[task]
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		p.fetchOnce(task, seq)
	}()
}

func (p *Poller) fetchOnce(task Task, seq uint64) {
	start := time.Now()
	u := Update{Task: task, Seq: seq}

	switch task {
	case TaskStats:
		u.Stats, u.Err = p.fetch.Stats(p.ctx)
	case TaskLogs:
		u.Logs, u.Err = p.fetch.Logs(p.ctx)
	case TaskAlerts:
		u.Alerts, u.Err = p.fetch.Alerts(p.ctx)
	case TaskCharts:
		u.Charts, u.Err = p.fetch.ChartData(p.ctx)
	default:
		p.log.Warn("unknown poll task %q", task)
		return
	}

	if p.ctx.Err() != nil {
		return
	}

	u.Latency = time.Since(start)
	u.At = time.Now()
	p.metrics.observeFetch(task, u.Err, u.Latency)

	if u.Err != nil {
		p.log.Warn("poll %s #%d failed: %s", task, seq, errors.Summary(u.Err))
	} else {
		p.log.Debug("poll %s #%d ok in %v", task, seq, u.Latency.Round(time.Millisecond))
	}

	p.sink.Deliver(u)
}

// Seq returns the last sequence number issued for task.
func (p *Poller) Seq(task Task) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seq[task]
}
