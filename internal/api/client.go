// Package api is the HTTP client for a SOC dashboard backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rileyhilliard/socdash/internal/errors"
	"github.com/rileyhilliard/socdash/internal/logger"
	"github.com/rileyhilliard/socdash/internal/soc"
	"github.com/sony/gobreaker"
)

// Endpoint paths served by the backend.
const (
	PathStats         = "/api/stats"
	PathLogs          = "/api/logs"
	PathAlerts        = "/api/alerts"
	PathChartData     = "/api/chart_data"
	PathSimulate      = "/api/simulate/"
	PathExecuteAction = "/api/execute_action"
)

// maxBody caps how much of a response is read.
const maxBody = 4 << 20

// Config configures a Client.
type Config struct {
	BaseURL string

	// Timeout bounds each request. Defaults to 10s.
	Timeout time.Duration

	// MaxFailures consecutive transport or 5xx failures open the breaker.
	// Zero disables it.
	MaxFailures uint32

	// OpenTimeout is how long an open breaker rejects calls before probing.
	OpenTimeout time.Duration

	// HTTPClient overrides the default client. Its Timeout is left alone.
	HTTPClient *http.Client

	Logger logger.Logger
}

// Client talks JSON to the dashboard backend.
type Client struct {
	base *url.URL
	http *http.Client
	cb   *gobreaker.CircuitBreaker
	log  logger.Logger
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		if err == nil {
			err = fmt.Errorf("base URL %q is not absolute", cfg.BaseURL)
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid backend URL",
			"Set api.base_url to something like http://127.0.0.1:5000")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Noop()
	}

	c := &Client{base: base, http: hc, log: log}

	if cfg.MaxFailures > 0 {
		openTimeout := cfg.OpenTimeout
		if openTimeout <= 0 {
			openTimeout = 15 * time.Second
		}
		c.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "soc-backend",
			MaxRequests: 1,
			Timeout:     openTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= cfg.MaxFailures
			},
			IsSuccessful: breakerSuccess,
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warn("circuit %s: %s -> %s", name, from, to)
			},
		})
	}

	return c, nil
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// BreakerState reports the breaker state, or "disabled".
func (c *Client) BreakerState() string {
	if c.cb == nil {
		return "disabled"
	}
	return c.cb.State().String()
}

// Stats fetches /api/stats.
func (c *Client) Stats(ctx context.Context) (soc.Stat, error) {
	var out soc.Stat
	err := c.getJSON(ctx, PathStats, &out)
	return out, err
}

// Logs fetches the recent log window.
func (c *Client) Logs(ctx context.Context) ([]soc.LogEntry, error) {
	var out []soc.LogEntry
	err := c.getJSON(ctx, PathLogs, &out)
	return out, err
}

// Alerts fetches the active alerts.
func (c *Client) Alerts(ctx context.Context) ([]soc.Alert, error) {
	var out []soc.Alert
	err := c.getJSON(ctx, PathAlerts, &out)
	return out, err
}

// ChartData fetches /api/chart_data.
func (c *Client) ChartData(ctx context.Context) (soc.ChartData, error) {
	var out soc.ChartData
	err := c.getJSON(ctx, PathChartData, &out)
	return out, err
}

// Simulate asks the backend to replay a threat scenario.
func (c *Client) Simulate(ctx context.Context, scenario string) (soc.SimulateResult, error) {
	var out soc.SimulateResult
	path := PathSimulate + url.PathEscape(scenario)
	if err := c.getJSON(ctx, path, &out); err != nil {
		return out, err
	}
	if !out.Success {
		return out, errors.New(errors.ErrAction,
			fmt.Sprintf("Simulation of %s was rejected", scenario),
			out.Error)
	}
	return out, nil
}

// ExecuteAction runs a response action against an alert.
func (c *Client) ExecuteAction(ctx context.Context, action string, alertID int64) (soc.ActionResult, error) {
	body, err := json.Marshal(soc.ActionRequest{Action: action, AlertID: alertID})
	if err != nil {
		return soc.ActionResult{}, errors.WrapWithCode(err, errors.ErrAction, "Cannot encode action request", "")
	}

	data, err := c.do(ctx, http.MethodPost, PathExecuteAction, body)
	if err != nil {
		return soc.ActionResult{}, err
	}

	var out soc.ActionResult
	if err := json.Unmarshal(data, &out); err != nil {
		return out, decodeError(PathExecuteAction, err)
	}
	if !out.Success {
		msg := out.Message
		if msg == "" {
			msg = action + " failed"
		}
		return out, errors.New(errors.ErrAction, msg, out.Error)
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return decodeError(path, err)
	}
	return nil
}

// do runs one request through the breaker and returns the 2xx body.
func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	start := time.Now()
	call := func() (interface{}, error) {
		return c.roundTrip(ctx, method, path, body)
	}

	var (
		res interface{}
		err error
	)
	if c.cb != nil {
		res, err = c.cb.Execute(call)
	} else {
		res, err = call()
	}
	c.log.Debug("%s %s in %v (err=%v)", method, path, time.Since(start).Round(time.Millisecond), err != nil)

	if err != nil {
		return nil, fetchError(method, path, err)
	}
	return res.([]byte), nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status, Detail: errorDetail(data)}
	}
	return data, nil
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code   int
	Status string
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("status %s: %s", e.Status, e.Detail)
	}
	return "status " + e.Status
}

// breakerSuccess decides what counts against the breaker. A backend that
// answers 4xx is up, so only transport failures and 5xx trip it.
func breakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	if stderrors.Is(err, context.Canceled) {
		return true
	}
	var se *StatusError
	if stderrors.As(err, &se) {
		return se.Code < 500
	}
	return false
}

// errorDetail pulls the "error" field out of a JSON error body if present.
func errorDetail(data []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &body) != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}

func fetchError(method, path string, err error) *errors.Error {
	if stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests) {
		return errors.WrapWithCode(err, errors.ErrFetch,
			fmt.Sprintf("%s %s skipped: backend circuit open", method, path),
			"The backend failed repeatedly; requests resume automatically once it recovers")
	}
	return errors.WrapWithCode(err, errors.ErrFetch,
		fmt.Sprintf("%s %s failed", method, path),
		"Check that the backend is running and api.base_url is correct")
}

func decodeError(path string, err error) *errors.Error {
	return errors.WrapWithCode(err, errors.ErrDecode,
		"Unexpected response shape from "+path,
		"The backend may be a different version than this client")
}
