package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/taskmesh/taskmesh/internal/metrics"
)

// Outcome statuses of a reset branch.
const (
	StatusFulfilled = "fulfilled"
	StatusRejected  = "rejected"
)

// maxResultBytes caps how much of a backend reply is kept in the report.
const maxResultBytes = 64 << 10

// Outcome is the settled result of clearing one service.
// Result holds the backend's JSON payload when fulfilled and a
// human-readable reason when rejected.
type Outcome struct {
	Service string `json:"service"`
	Status  string `json:"status"`
	Result  any    `json:"result"`
}

// Report is the consolidated result of a reset, one outcome per service in
// configured order.
type Report struct {
	Message  string    `json:"message"`
	ResetID  string    `json:"resetId"`
	Services []Outcome `json:"services"`
}

// Rejected returns how many services failed to clear.
func (r *Report) Rejected() int {
	n := 0
	for _, o := range r.Services {
		if o.Status == StatusRejected {
			n++
		}
	}
	return n
}

type resetTarget struct {
	name string
	url  string
}

// Coordinator clears every backend store concurrently and reports what
// happened to each. A failing backend never stops the others.
type Coordinator struct {
	targets []resetTarget
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewCoordinator creates a Coordinator over routes. timeout bounds every
// outbound clear call.
func NewCoordinator(routes []Route, client *http.Client, timeout time.Duration, logger *slog.Logger, recorder metrics.Recorder) (*Coordinator, error) {
	if len(routes) == 0 {
		return nil, ErrNoRoutes
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("reset timeout must be positive, got %v", timeout)
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	targets := make([]resetTarget, len(routes))
	for i, r := range routes {
		targets[i] = resetTarget{name: r.Name, url: r.CollectionURL()}
	}

	return &Coordinator{
		targets: targets,
		client:  client,
		timeout: timeout,
		logger:  logger.With("component", "gateway.reset"),
		metrics: recorder,
	}, nil
}

// Reset issues one bulk-clear call per service and waits for all of them to
// settle. It returns an error only when the calls could not be prepared, in
// which case nothing was dispatched.
//
// The calls are detached from ctx cancellation: once dispatched, a reset
// runs to completion even if the caller goes away.
func (c *Coordinator) Reset(ctx context.Context) (*Report, error) {
	start := time.Now()
	ctx = context.WithoutCancel(ctx)

	reqs := make([]*http.Request, len(c.targets))
	for i, t := range c.targets {
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, t.url, nil)
		if err != nil {
			return nil, fmt.Errorf("prepare %s clear request: %w", t.name, err)
		}
		req.Header.Set("Accept", "application/json")
		reqs[i] = req
	}

	resetID := ulid.Make().String()
	logger := c.logger.With("reset_id", resetID)
	logger.Info("reset started", "services", len(reqs))

	outcomes := make([]Outcome, len(reqs))

	// Branches never return an error, so Wait is a pure join.
	var g errgroup.Group
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			outcomes[i] = c.clear(ctx, c.targets[i].name, req)
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range outcomes {
		c.metrics.IncResetOutcome(o.Service, o.Status)
		if o.Status == StatusRejected {
			logger.Warn("service reset failed", "target", o.Service, "reason", o.Result)
		} else {
			logger.Info("service reset", "target", o.Service)
		}
	}

	duration := time.Since(start)
	c.metrics.ObserveResetDuration(duration)

	report := &Report{
		Message:  "Reset completed",
		ResetID:  resetID,
		Services: outcomes,
	}
	logger.Info("reset completed",
		"rejected", report.Rejected(),
		"duration_ms", float64(duration.Microseconds())/1000,
	)

	return report, nil
}

// clear performs one bulk-clear call and folds any failure into the outcome.
func (c *Coordinator) clear(ctx context.Context, name string, req *http.Request) Outcome {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Do(req.WithContext(callCtx))
	if err != nil {
		reason := err.Error()
		if isTimeout(err) {
			reason = fmt.Sprintf("timeout of %s exceeded", c.timeout)
		}
		return rejected(name, reason)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResultBytes))
	if err != nil {
		return rejected(name, fmt.Sprintf("read response: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return rejected(name, fmt.Sprintf("Request failed with status code %d", resp.StatusCode))
	}

	return Outcome{
		Service: name,
		Status:  StatusFulfilled,
		Result:  decodeResult(body),
	}
}

func rejected(name, reason string) Outcome {
	return Outcome{
		Service: name,
		Status:  StatusRejected,
		Result:  reason,
	}
}

// decodeResult keeps a JSON body verbatim and falls back to plain text.
func decodeResult(body []byte) any {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	return string(body)
}
