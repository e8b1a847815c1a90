// Package demoapi is a self-contained SOC backend for demos and tests. It
// serves the same JSON endpoints the dashboard polls, backed by SQLite, with
// simulated chart values and a background stream of routine log lines.
package demoapi

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"math"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rileyhilliard/socdash/internal/api"
	"github.com/rileyhilliard/socdash/internal/errors"
	"github.com/rileyhilliard/socdash/internal/logger"
	"github.com/rileyhilliard/socdash/internal/soc"
)

const (
	logWindow   = 30
	chartWindow = 24 * time.Hour
)

// Server serves the dashboard API.
type Server struct {
	store  *Store
	log    logger.Logger
	router chi.Router

	mu  sync.Mutex
	rng *rand.Rand

	logMin, logMax time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request and error logging.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithRand sets the source of simulated values.
func WithRand(r *rand.Rand) Option {
	return func(s *Server) { s.rng = r }
}

// WithTrafficInterval bounds the pause between generated log lines.
func WithTrafficInterval(lo, hi time.Duration) Option {
	return func(s *Server) { s.logMin, s.logMax = lo, hi }
}

// NewServer builds the router over store.
func NewServer(store *Store, opts ...Option) *Server {
	s := &Server{
		store:  store,
		log:    logger.Noop(),
		rng:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x50c)),
		logMin: 3 * time.Second,
		logMax: 8 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logMin <= 0 {
		s.logMin = time.Second
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  requestLog{s.log},
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Get(api.PathStats, s.handleStats)
	r.Get(api.PathLogs, s.handleLogs)
	r.Get(api.PathAlerts, s.handleAlerts)
	r.Get(api.PathChartData, s.handleChartData)
	r.Get(api.PathSimulate+"{threatType}", s.handleSimulate)
	r.Post(api.PathExecuteAction, s.handleExecuteAction)

	s.router = r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr and runs the traffic generator until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	genCtx, stopGen := context.WithCancel(ctx)
	defer stopGen()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.GenerateTraffic(genCtx)
	}()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("demo backend listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = srv.Shutdown(shutdownCtx)
		cancel()
	}
	stopGen()
	wg.Wait()

	if err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return errors.WrapWithCode(err, errors.ErrServe,
			fmt.Sprintf("demo backend on %s stopped", addr),
			"Check that the address is free, or pass a different --addr")
	}
	return nil
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.Counts(r.Context())
	status := "Online"
	if err != nil {
		s.log.Error("stats: %v", err)
		c, status = Counts{}, "Error"
	}
	writeJSON(w, http.StatusOK, soc.Stat{
		ActiveThreats:   soc.Int(c.ActiveThreats),
		LogsProcessed:   soc.Int(c.LogsProcessed),
		AlertsGenerated: soc.Int(c.AlertsGenerated),
		TodayLogs:       soc.Int(c.TodayLogs),
		SystemStatus:    soc.String(status),
		LastUpdate:      soc.NewTimestamp(time.Now()),
	})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := s.store.RecentLogs(r.Context(), logWindow)
	if err != nil {
		s.log.Error("logs: %v", err)
		logs = []soc.LogEntry{}
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.store.ActiveAlerts(r.Context())
	if err != nil {
		s.log.Error("alerts: %v", err)
		alerts = []soc.Alert{}
	}
	writeJSON(w, http.StatusOK, alerts)
}

func (s *Server) handleChartData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dist, err := s.store.ThreatDistribution(ctx, chartWindow)
	var timeline soc.Series
	if err == nil {
		timeline, err = s.store.ThreatTimeline(ctx, chartWindow)
	}
	if err != nil {
		s.log.Error("chart data: %v", err)
		writeJSON(w, http.StatusInternalServerError, soc.ChartData{
			Error:              "Database error",
			ThreatDistribution: soc.Series{},
			ThreatTimeline:     soc.Series{},
			GeographicData:     soc.Series{},
			PerformanceData:    soc.Series{},
			NetworkData:        &soc.NetworkSample{},
			SecurityScore:      soc.Int(0),
		})
		return
	}

	now := time.Now()
	writeJSON(w, http.StatusOK, s.simulatedCharts(dist, timeline, now))
}

// simulatedCharts fills in the randomized datasets around the two that come
// from the alerts table.
func (s *Server) simulatedCharts(dist, timeline soc.Series, now time.Time) soc.ChartData {
	s.mu.Lock()
	defer s.mu.Unlock()

	geo := soc.Series{
		{Label: "USA", Value: s.intIn(40, 50)},
		{Label: "China", Value: s.intIn(35, 45)},
		{Label: "Russia", Value: s.intIn(30, 40)},
		{Label: "Brazil", Value: s.intIn(25, 35)},
		{Label: "India", Value: s.intIn(20, 30)},
		{Label: "Germany", Value: s.intIn(15, 25)},
	}
	perf := soc.Series{
		{Label: "CPU", Value: s.intIn(70, 95)},
		{Label: "Memory", Value: s.intIn(60, 85)},
		{Label: "Network", Value: s.intIn(80, 98)},
		{Label: "Disk", Value: s.intIn(55, 80)},
		{Label: "Security", Value: s.intIn(90, 99)},
		{Label: "Uptime", Value: s.intIn(95, 100)},
	}
	score := int(s.intIn(88, 97))

	return soc.ChartData{
		ThreatDistribution: dist,
		ThreatTimeline:     timeline,
		GeographicData:     geo,
		PerformanceData:    perf,
		NetworkData: &soc.NetworkSample{
			Inbound:   s.uniform(20, 70),
			Outbound:  s.uniform(10, 40),
			Timestamp: soc.NewTimestamp(now),
		},
		SecurityScore: &score,
		Timestamp:     soc.NewTimestamp(now),
	}
}

// intIn returns a random integer in [lo, hi]. Callers hold s.mu.
func (s *Server) intIn(lo, hi int) float64 {
	return float64(lo + s.rng.IntN(hi-lo+1))
}

// uniform returns a random value in [lo, hi) rounded to one decimal. Callers
// hold s.mu.
func (s *Server) uniform(lo, hi float64) float64 {
	return math.Round((lo+s.rng.Float64()*(hi-lo))*10) / 10
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "threatType")
	scenario, ok := soc.ScenarioByKey(key)
	if !ok {
		writeJSON(w, http.StatusBadRequest, soc.SimulateResult{Error: "Invalid threat type"})
		return
	}

	ctx := r.Context()
	for _, msg := range scenario.Logs {
		if _, err := s.store.AddLog(ctx, soc.LogSource(msg), msg, "warning"); err != nil {
			s.log.Error("simulate %s: %v", key, err)
		}
	}

	result := soc.SimulateResult{Success: true}
	id, err := s.store.AddAlert(ctx, scenario.Name, scenario.Severity, scenario.Description)
	if err != nil {
		s.log.Error("simulate %s: %v", key, err)
	} else {
		result.AlertID = &id
	}
	s.log.Info("simulated %s", key)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleExecuteAction(w http.ResponseWriter, r *http.Request) {
	var req soc.ActionRequest
	// An unreadable body runs the default action against alert 0.
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Action == "" {
		req.Action = "Unknown Action"
	}

	ctx := r.Context()
	detailed := soc.ActionLogMessage(req.Action)
	if _, err := s.store.AddLog(ctx, "AUTOMATED_RESPONSE", detailed, "info"); err != nil {
		s.log.Warn("execute action: %v", err)
	}

	if err := s.store.RecordResponse(ctx, req.AlertID, req.Action, soc.IsBlockingAction(req.Action)); err != nil {
		s.log.Error("execute action %q on alert %d: %v", req.Action, req.AlertID, err)
		writeJSON(w, http.StatusInternalServerError, soc.ActionResult{
			Message: "Action execution failed",
			Error:   err.Error(),
		})
		return
	}

	s.log.Info("executed %q on alert %d", req.Action, req.AlertID)
	writeJSON(w, http.StatusOK, soc.ActionResult{
		Success:         true,
		Message:         req.Action + " executed successfully",
		DetailedMessage: detailed,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestLog routes chi's request log lines to a Logger at debug level.
type requestLog struct {
	l logger.Logger
}

func (r requestLog) Print(v ...interface{}) {
	r.l.Debug("%s", fmt.Sprint(v...))
}
