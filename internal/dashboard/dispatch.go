package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/rileyhilliard/socdash/internal/errors"
	"github.com/rileyhilliard/socdash/internal/logger"
	"github.com/rileyhilliard/socdash/internal/soc"
)

// ActionClient is the write side of the backend. *api.Client satisfies it.
type ActionClient interface {
	ExecuteAction(ctx context.Context, action string, alertID int64) (soc.ActionResult, error)
	Simulate(ctx context.Context, threatType string) (soc.SimulateResult, error)
}

// Refresher re-fetches tasks out of band. *Poller satisfies it.
type Refresher interface {
	Refresh(tasks ...Task)
}

// Notifier shows a toast. *Queue satisfies it.
type Notifier interface {
	Push(message string, kind Kind) string
}

// refreshAfterAction is what a successful action or simulation invalidates.
var refreshAfterAction = []Task{TaskLogs, TaskAlerts, TaskStats}

// Toast texts.
const (
	msgRateLimited    = "⏳ Too many actions at once - wait a moment and try again."
	msgActionOK       = "✅ SUCCESS: %s completed! Your system is now safer."
	msgActionFailed   = "❌ Failed to execute %s. Please try again."
	msgSimulateOK     = "🚨 Attack simulation started! Watch the live feed below for real-time detection."
	msgSimulateFailed = "Error simulating threat"
)

// DispatcherConfig tunes a Dispatcher.
type DispatcherConfig struct {
	// RefreshDelay is the wait between a successful action and the refresh.
	RefreshDelay time.Duration
	// SimulateRefreshDelay is the same for simulations.
	SimulateRefreshDelay time.Duration
	// Rate and Burst bound how fast actions go out. Rate <= 0 disables the
	// limiter.
	Rate  float64
	Burst int
}

// Dispatcher sends user-initiated writes to the backend and reports the
// outcome as toasts. It never writes to the Store itself: a successful
// write asks the poller to re-fetch whatever it affected.
type Dispatcher struct {
	client  ActionClient
	refresh Refresher
	notify  Notifier
	cfg     DispatcherConfig
	limiter *rate.Limiter
	log     logger.Logger
	metrics *Metrics

	mu     sync.Mutex
	tally  map[string]int
	timers  map[uint64]*time.Timer
	nextRef uint64
	closed  bool
}

// NewDispatcher wires a dispatcher. log and metrics may be nil.
func NewDispatcher(client ActionClient, refresh Refresher, notify Notifier, cfg DispatcherConfig, log logger.Logger, metrics *Metrics) *Dispatcher {
	if log == nil {
		log = logger.Noop()
	}
	d := &Dispatcher{
		client:  client,
		refresh: refresh,
		notify:  notify,
		cfg:     cfg,
		log:     log,
		metrics: metrics,
		tally:   make(map[string]int),
		timers:  make(map[uint64]*time.Timer),
	}
	if cfg.Rate > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		d.limiter = rate.NewLimiter(rate.Limit(cfg.Rate), burst)
	}
	return d
}

// Dispatch executes action against alertID and blocks until the backend
// answers. On success it pushes one success toast and schedules a refresh of
// logs, alerts and stats; on failure it pushes one error toast.
func (d *Dispatcher) Dispatch(ctx context.Context, action string, alertID int64) error {
	if d.limiter != nil && !d.limiter.Allow() {
		d.metrics.observeAction("action", "limited")
		d.notify.Push(msgRateLimited, KindError)
		return errors.New(errors.ErrAction,
			"too many actions at once",
			"Wait a moment before sending another action.")
	}

	d.log.Info("executing %s on alert %d", action, alertID)
	res, err := d.client.ExecuteAction(ctx, action, alertID)
	if err != nil {
		d.log.Warn("action %s on alert %d failed: %s", action, alertID, errors.Summary(err))
		d.metrics.observeAction("action", "error")
		d.notify.Push(fmt.Sprintf(msgActionFailed, action), KindError)
		return err
	}

	d.log.Debug("action %s on alert %d: %s", action, alertID, res.Message)
	d.metrics.observeAction("action", "ok")
	d.notify.Push(fmt.Sprintf(msgActionOK, action), KindSuccess)
	d.scheduleRefresh(d.cfg.RefreshDelay)
	return nil
}

// Go runs Dispatch in the background. The returned channel yields its error
// (or nil) and is then closed.
func (d *Dispatcher) Go(ctx context.Context, action string, alertID int64) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- d.Dispatch(ctx, action, alertID)
	}()
	return done
}

// Simulate starts a scenario on the backend. The local tally for the
// scenario goes up before the request is sent.
func (d *Dispatcher) Simulate(ctx context.Context, threatType string) error {
	d.mu.Lock()
	d.tally[threatType]++
	d.mu.Unlock()

	res, err := d.client.Simulate(ctx, threatType)
	if err != nil {
		d.log.Warn("simulate %s failed: %s", threatType, errors.Summary(err))
		d.metrics.observeAction("simulate", "error")
		d.notify.Push(msgSimulateFailed, KindError)
		return err
	}

	if res.AlertID != nil {
		d.log.Info("simulated %s as alert %d", threatType, *res.AlertID)
	}
	d.metrics.observeAction("simulate", "ok")
	d.notify.Push(msgSimulateOK, KindSuccess)
	d.scheduleRefresh(d.cfg.SimulateRefreshDelay)
	return nil
}

// Tally returns how many times each scenario was simulated this session.
func (d *Dispatcher) Tally() map[string]int {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string]int, len(d.tally))
	for k, v := range d.tally {
		out[k] = v
	}
	return out
}

// Close cancels any refresh that hasn't fired yet.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	for id, t := range d.timers {
		t.Stop()
		delete(d.timers, id)
	}
}

func (d *Dispatcher) scheduleRefresh(delay time.Duration) {
	if d.refresh == nil {
		return
	}
	if delay <= 0 {
		d.refresh.Refresh(refreshAfterAction...)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.nextRef++
	id := d.nextRef
	// Fired timers drop out of the map; only pending ones are kept for Close.
	d.timers[id] = time.AfterFunc(delay, func() {
		d.mu.Lock()
		delete(d.timers, id)
		d.mu.Unlock()
		d.refresh.Refresh(refreshAfterAction...)
	})
}

// pendingRefreshes counts refreshes scheduled but not yet fired.
func (d *Dispatcher) pendingRefreshes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}
