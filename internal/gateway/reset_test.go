package gateway

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/taskmesh/taskmesh/internal/config"
	"github.com/taskmesh/taskmesh/internal/metrics"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// clearServer answers DELETE /<name> with the usual clear payload.
func clearServer(t *testing.T, name string, delay time.Duration, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		if r.Method != http.MethodDelete || r.URL.Path != "/"+name {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if delay > 0 {
			time.Sleep(delay)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"All ` + name + ` cleared"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func failingServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// unreachableURL returns the address of a server that is no longer listening.
func unreachableURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

func newCoordinator(t *testing.T, users, tasks, comments string, timeout time.Duration, rec metrics.Recorder) *Coordinator {
	t.Helper()
	routes, err := NewRoutes([]config.Backend{
		{Name: "users", URL: users},
		{Name: "tasks", URL: tasks},
		{Name: "comments", URL: comments},
	})
	if err != nil {
		t.Fatalf("NewRoutes() error = %v", err)
	}

	c, err := NewCoordinator(routes, NewHTTPClient(NewTransport(0)), timeout, discardLogger(), rec)
	if err != nil {
		t.Fatalf("NewCoordinator() error = %v", err)
	}
	return c
}

func TestReset_AllFulfilled(t *testing.T) {
	users := clearServer(t, "users", 0, nil)
	tasks := clearServer(t, "tasks", 0, nil)
	comments := clearServer(t, "comments", 0, nil)

	c := newCoordinator(t, users.URL, tasks.URL, comments.URL, time.Second, nil)

	report, err := c.Reset(context.Background())
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	if report.Message != "Reset completed" {
		t.Errorf("message = %q", report.Message)
	}
	if report.ResetID == "" {
		t.Error("reset id should be set")
	}
	if len(report.Services) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(report.Services))
	}

	for i, name := range []string{"users", "tasks", "comments"} {
		o := report.Services[i]
		if o.Service != name || o.Status != StatusFulfilled {
			t.Errorf("outcome %d = %+v, want fulfilled %s", i, o, name)
		}
		raw, ok := o.Result.(json.RawMessage)
		if !ok {
			t.Fatalf("result %d has type %T, want json.RawMessage", i, o.Result)
		}
		var payload map[string]string
		if err := json.Unmarshal(raw, &payload); err != nil {
			t.Fatalf("result %d: %v", i, err)
		}
		if payload["message"] != "All "+name+" cleared" {
			t.Errorf("result %d message = %q", i, payload["message"])
		}
	}
	if report.Rejected() != 0 {
		t.Errorf("Rejected() = %d, want 0", report.Rejected())
	}
}

func TestReset_OneUnreachable(t *testing.T) {
	rec := metrics.NewInMemory()
	users := clearServer(t, "users", 0, nil)
	comments := clearServer(t, "comments", 0, nil)

	c := newCoordinator(t, users.URL, unreachableURL(t), comments.URL, 2*time.Second, rec)

	done := make(chan *Report, 1)
	go func() {
		report, err := c.Reset(context.Background())
		if err != nil {
			t.Errorf("Reset() error = %v", err)
		}
		done <- report
	}()

	var report *Report
	select {
	case report = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("reset did not settle")
	}
	if report == nil {
		t.Fatal("nil report")
	}

	if len(report.Services) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(report.Services))
	}
	if report.Services[0].Status != StatusFulfilled || report.Services[2].Status != StatusFulfilled {
		t.Errorf("users/comments should be fulfilled: %+v", report.Services)
	}
	if report.Services[1].Service != "tasks" || report.Services[1].Status != StatusRejected {
		t.Errorf("tasks should be rejected: %+v", report.Services[1])
	}
	if reason, ok := report.Services[1].Result.(string); !ok || reason == "" {
		t.Errorf("rejected result should be a reason, got %#v", report.Services[1].Result)
	}
	if report.Rejected() != 1 {
		t.Errorf("Rejected() = %d, want 1", report.Rejected())
	}

	snap := rec.Snapshot()
	if snap.ResetOutcomes["tasks|rejected"] != 1 || snap.ResetOutcomes["users|fulfilled"] != 1 {
		t.Errorf("unexpected reset metrics: %v", snap.ResetOutcomes)
	}
}

func TestReset_NonSuccessStatusIsRejected(t *testing.T) {
	users := failingServer(t, http.StatusInternalServerError)
	tasks := clearServer(t, "tasks", 0, nil)
	comments := clearServer(t, "comments", 0, nil)

	c := newCoordinator(t, users.URL, tasks.URL, comments.URL, time.Second, nil)

	report, err := c.Reset(context.Background())
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	o := report.Services[0]
	if o.Status != StatusRejected {
		t.Fatalf("users should be rejected: %+v", o)
	}
	if o.Result != "Request failed with status code 500" {
		t.Errorf("reason = %v", o.Result)
	}
}

func TestReset_TimeoutDoesNotHang(t *testing.T) {
	users := clearServer(t, "users", 0, nil)
	tasks := clearServer(t, "tasks", 2*time.Second, nil)
	comments := clearServer(t, "comments", 0, nil)

	c := newCoordinator(t, users.URL, tasks.URL, comments.URL, 100*time.Millisecond, nil)

	start := time.Now()
	report, err := c.Reset(context.Background())
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("reset took %v, expected the per-call timeout to bound it", elapsed)
	}

	o := report.Services[1]
	if o.Status != StatusRejected {
		t.Fatalf("tasks should be rejected: %+v", o)
	}
	if reason, _ := o.Result.(string); !strings.Contains(reason, "timeout") {
		t.Errorf("reason = %q, want timeout", reason)
	}
	if report.Services[0].Status != StatusFulfilled || report.Services[2].Status != StatusFulfilled {
		t.Errorf("other services should be fulfilled: %+v", report.Services)
	}
}

func TestReset_OrderIsConfiguredNotArrival(t *testing.T) {
	users := clearServer(t, "users", 150*time.Millisecond, nil)
	tasks := clearServer(t, "tasks", 50*time.Millisecond, nil)
	comments := clearServer(t, "comments", 0, nil)

	c := newCoordinator(t, users.URL, tasks.URL, comments.URL, time.Second, nil)

	report, err := c.Reset(context.Background())
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	for i, name := range []string{"users", "tasks", "comments"} {
		if report.Services[i].Service != name {
			t.Errorf("position %d = %s, want %s", i, report.Services[i].Service, name)
		}
	}
}

func TestReset_DispatchesConcurrently(t *testing.T) {
	delay := 200 * time.Millisecond
	users := clearServer(t, "users", delay, nil)
	tasks := clearServer(t, "tasks", delay, nil)
	comments := clearServer(t, "comments", delay, nil)

	c := newCoordinator(t, users.URL, tasks.URL, comments.URL, 2*time.Second, nil)

	start := time.Now()
	if _, err := c.Reset(context.Background()); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed >= 3*delay {
		t.Errorf("reset took %v, calls appear sequential", elapsed)
	}
}

func TestReset_IgnoresCallerCancellation(t *testing.T) {
	var hits int32
	users := clearServer(t, "users", 0, &hits)
	tasks := clearServer(t, "tasks", 0, &hits)
	comments := clearServer(t, "comments", 0, &hits)

	c := newCoordinator(t, users.URL, tasks.URL, comments.URL, time.Second, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := c.Reset(ctx)
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if report.Rejected() != 0 {
		t.Errorf("cancelled caller should not abort branches: %+v", report.Services)
	}
	if atomic.LoadInt32(&hits) != 3 {
		t.Errorf("expected 3 backend calls, got %d", hits)
	}
}

func TestNewCoordinator_Validation(t *testing.T) {
	client := NewHTTPClient(NewTransport(0))

	if _, err := NewCoordinator(nil, client, time.Second, discardLogger(), nil); err == nil {
		t.Error("expected error for empty routes")
	}

	routes, _ := NewRoutes(defaultBackends())
	if _, err := NewCoordinator(routes, client, 0, discardLogger(), nil); err == nil {
		t.Error("expected error for zero timeout")
	}
}

func TestDecodeResult(t *testing.T) {
	t.Parallel()

	if got := decodeResult(nil); got != nil {
		t.Errorf("empty body = %#v, want nil", got)
	}
	if got, ok := decodeResult([]byte(` {"a":1} `)).(json.RawMessage); !ok || string(got) != `{"a":1}` {
		t.Errorf("json body = %#v", got)
	}
	if got := decodeResult([]byte("plain text")); got != "plain text" {
		t.Errorf("text body = %#v", got)
	}
}
