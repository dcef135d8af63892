package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/http/httputil"
	"time"

	"github.com/taskmesh/taskmesh/internal/metrics"
	"github.com/taskmesh/taskmesh/internal/middleware"
)

// Proxy forwards requests for one route to its backend and relays the
// answer unchanged. It never retries.
type Proxy struct {
	route   Route
	rp      *httputil.ReverseProxy
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewProxy creates a Proxy for route using transport for upstream calls.
func NewProxy(route Route, transport http.RoundTripper, logger *slog.Logger, recorder metrics.Recorder) *Proxy {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	p := &Proxy{
		route:   route,
		logger:  logger.With("component", "gateway.proxy", "route", route.Name),
		metrics: recorder,
	}

	p.rp = &httputil.ReverseProxy{
		Transport:      transport,
		Rewrite:        p.rewrite,
		ModifyResponse: p.modifyResponse,
		ErrorHandler:   p.handleError,
	}

	return p
}

// ServeHTTP implements http.Handler.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	p.logger.Info("proxy request",
		slog.String("request_id", middleware.GetRequestID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("target", p.route.Target.Host),
	)

	p.rp.ServeHTTP(w, r)

	p.metrics.ObserveProxyDuration(p.route.Name, time.Since(start))
}

// rewrite points the outbound request at the backend. The Host header is
// replaced with the backend host.
func (p *Proxy) rewrite(pr *httputil.ProxyRequest) {
	target := p.route.Target

	pr.Out.URL.Scheme = target.Scheme
	pr.Out.URL.Host = target.Host
	pr.Out.URL.Path = p.route.RewritePath(pr.In.URL.Path)
	pr.Out.URL.RawPath = ""
	pr.Out.Host = target.Host

	pr.SetXForwarded()

	if id := middleware.GetRequestID(pr.In.Context()); id != "" {
		pr.Out.Header.Set(middleware.RequestIDHeader, id)
	}
}

// modifyResponse counts the answer. A request id the backend merely echoed
// is dropped because the gateway has already set it on the response.
func (p *Proxy) modifyResponse(resp *http.Response) error {
	p.metrics.IncProxyRequest(p.route.Name, resp.StatusCode)

	if id := middleware.GetRequestID(resp.Request.Context()); id != "" && resp.Header.Get(middleware.RequestIDHeader) == id {
		resp.Header.Del(middleware.RequestIDHeader)
	}
	return nil
}

// handleError turns a transport failure into a gateway-side 5xx.
func (p *Proxy) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadGateway
	code := "UPSTREAM_UNAVAILABLE"
	message := "The " + p.route.Name + " service is unavailable"

	if isTimeout(err) {
		status = http.StatusGatewayTimeout
		code = "UPSTREAM_TIMEOUT"
		message = "The " + p.route.Name + " service did not respond in time"
	}

	p.logger.Error("proxy error",
		slog.String("request_id", middleware.GetRequestID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status_code", status),
		slog.String("error", err.Error()),
	)
	p.metrics.IncProxyError(p.route.Name)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   message,
		"code":    code,
		"service": p.route.Name,
	})
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
