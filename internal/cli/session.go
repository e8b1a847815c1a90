package cli

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rileyhilliard/socdash/internal/api"
	"github.com/rileyhilliard/socdash/internal/config"
	"github.com/rileyhilliard/socdash/internal/dashboard"
	"github.com/rileyhilliard/socdash/internal/errors"
	"github.com/rileyhilliard/socdash/internal/logger"
)

// session is the resolved configuration plus the shared plumbing every
// client-side command needs.
type session struct {
	cfg     *config.Config
	cfgPath string
	log     logger.Logger
	metrics *dashboard.Metrics
	client  *api.Client

	closers []func() error
}

// sessionOptions tweaks how a session is built.
type sessionOptions struct {
	// tui sessions log nowhere unless --log-file is set, since the terminal
	// belongs to the dashboard.
	tui bool
}

// loadConfig resolves the config file and applies flag overrides.
func loadConfig() (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, "", err
	}
	if baseURLFlag != "" {
		cfg.API.BaseURL = baseURLFlag
	}
	if err := config.Validate(cfg); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// newLogger picks the log backend for a command.
func newLogger(prefix string, tui bool) (logger.Logger, func() error, error) {
	if logFile != "" {
		l, closeFn, err := logger.NewZapLogger(logFile, verbose)
		if err != nil {
			return nil, nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Can't open log file "+logFile,
				"Check the directory exists and is writable")
		}
		return l, closeFn, nil
	}
	if tui || !verbose {
		return logger.Noop(), func() error { return nil }, nil
	}
	return logger.NewEnvLogger(prefix), func() error { return nil }, nil
}

func openSession(opts sessionOptions) (*session, error) {
	cfg, path, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, closeLog, err := newLogger("[socdash]", opts.tui)
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)

	s := &session{cfg: cfg, cfgPath: path, log: log, closers: []func() error{closeLog}}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	s.metrics = dashboard.NewMetrics(reg)
	if metricsAddr != "" {
		stop, err := serveMetrics(metricsAddr, reg, log)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.closers = append(s.closers, stop)
	}

	s.client, err = api.New(api.Config{
		BaseURL:     cfg.API.BaseURL,
		Timeout:     cfg.API.Timeout,
		MaxFailures: cfg.API.Breaker.MaxFailures,
		OpenTimeout: cfg.API.Breaker.OpenTimeout,
		Logger:      log,
	})
	if err != nil {
		s.Close()
		return nil, err
	}

	if path != "" {
		log.Debug("config loaded from %s", path)
	}
	return s, nil
}

// Close releases everything the session opened, last first.
func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i]()
	}
	s.closers = nil
}

// serveMetrics exposes reg on addr/metrics. The listener is bound before
// returning so a bad address fails the command up front.
func serveMetrics(addr string, reg *prometheus.Registry, log logger.Logger) (func() error, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Can't listen for metrics on "+addr,
			"Pick a free address for --metrics-addr")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server: %v", err)
		}
	}()
	log.Info("metrics on http://%s/metrics", ln.Addr())

	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

// dispatcherConfig maps the actions section onto the dispatcher.
func dispatcherConfig(a config.ActionsConfig) dashboard.DispatcherConfig {
	return dashboard.DispatcherConfig{
		RefreshDelay:         a.RefreshDelay,
		SimulateRefreshDelay: a.SimulateRefreshDelay,
		Rate:                 a.Rate,
		Burst:                a.Burst,
	}
}
