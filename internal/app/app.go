// Package app assembles the HTTP routers for the gateway and for each
// resource service.
package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/taskmesh/taskmesh/internal/config"
	"github.com/taskmesh/taskmesh/internal/gateway"
	"github.com/taskmesh/taskmesh/internal/handler"
	"github.com/taskmesh/taskmesh/internal/metrics"
	"github.com/taskmesh/taskmesh/internal/middleware"
	"github.com/taskmesh/taskmesh/internal/model"
	"github.com/taskmesh/taskmesh/internal/service"
	"github.com/taskmesh/taskmesh/internal/store"
)

// Cache is the optional Redis dependency of the gateway.
type Cache interface {
	handler.HealthChecker
	middleware.IPRateLimiter
}

// GatewayOptions holds everything the gateway router needs.
type GatewayOptions struct {
	Config  *config.GatewayConfig
	Logger  *slog.Logger
	Metrics *metrics.InMemoryRecorder
	// Metrics defaults to a fresh in-memory recorder.
	// Cache is nil when REDIS_URL is unset.
	Cache Cache
}

// NewGateway builds the gateway router: proxies for every resource, the
// reset fan-out, health, readiness and metrics.
func NewGateway(opts GatewayOptions) (http.Handler, error) {
	cfg := opts.Config
	logger := opts.Logger
	opts.Metrics = orInMemory(opts.Metrics)

	routes, err := gateway.NewRoutes(cfg.Backends())
	if err != nil {
		return nil, fmt.Errorf("build route table: %w", err)
	}

	transport := gateway.NewTransport(cfg.ProxyTimeout)
	client := gateway.NewHTTPClient(transport)

	coordinator, err := gateway.NewCoordinator(routes, client, cfg.ResetTimeout, logger, opts.Metrics)
	if err != nil {
		return nil, fmt.Errorf("build reset coordinator: %w", err)
	}

	base := handler.New("gateway")

	proxies, err := gateway.NewRouter(routes, transport, logger, opts.Metrics, http.HandlerFunc(base.NotFound))
	if err != nil {
		return nil, fmt.Errorf("build proxy router: %w", err)
	}

	checkers := make([]handler.HealthChecker, 0, len(routes)+1)
	for _, route := range routes {
		checkers = append(checkers, gateway.NewBackendChecker(route, client))
	}

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  logger,
		Metrics: opts.Metrics,
		Enabled: cfg.RateLimitEnabled,
		RPS:     cfg.RateLimitRPS,
		Burst:   cfg.RateLimitBurst,
	}
	if opts.Cache != nil {
		checkers = append(checkers, opts.Cache)
		rateLimitCfg.Limiter = opts.Cache
	}

	healthHandler := handler.NewHealthHandler("Gateway running", checkers...)
	resetHandler := handler.NewResetHandler(coordinator, logger)
	metricsHandler := handler.NewMetricsHandler(opts.Metrics)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	r := newRouter(cfg.Common, logger, "/api/health")
	r.Use(middleware.SecurityHeaders(cfg.IsDevelopment()))
	r.Use(middleware.CORS(corsCfg))

	r.Get("/", base.Info)
	r.Get("/metrics", metricsHandler.Metrics)
	r.Get("/api/health", healthHandler.Healthz)
	r.Get("/api/ready", healthHandler.Readyz)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitIP(rateLimitCfg))

		r.Delete("/api/reset", resetHandler.Reset)
		r.Handle(gateway.APIPrefix+"/*", proxies)
	})

	r.NotFound(base.NotFound)
	r.MethodNotAllowed(base.MethodNotAllowed)

	return r, nil
}

// NewUsersService builds the users service router over users.
func NewUsersService(cfg config.Common, users *store.Memory[model.User], logger *slog.Logger, recorder *metrics.InMemoryRecorder) http.Handler {
	recorder = orInMemory(recorder)
	h := handler.NewUserHandler(service.NewUserService(users, recorder), logger)

	r, base := newServiceRouter("users", cfg, logger, recorder)
	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Delete("/", h.Clear)
		r.Put("/{id}", h.Replace)
		r.Delete("/{id}", h.Delete)
	})
	finish(r, base)
	return r
}

// NewTasksService builds the tasks service router over tasks.
func NewTasksService(cfg config.Common, tasks *store.Memory[model.Task], logger *slog.Logger, recorder *metrics.InMemoryRecorder) http.Handler {
	recorder = orInMemory(recorder)
	h := handler.NewTaskHandler(service.NewTaskService(tasks, recorder), logger)

	r, base := newServiceRouter("tasks", cfg, logger, recorder)
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Delete("/", h.Clear)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	finish(r, base)
	return r
}

// NewCommentsService builds the comments service router over comments.
func NewCommentsService(cfg config.Common, comments *store.Memory[model.Comment], logger *slog.Logger, recorder *metrics.InMemoryRecorder) http.Handler {
	recorder = orInMemory(recorder)
	h := handler.NewCommentHandler(service.NewCommentService(comments, recorder), logger)

	r, base := newServiceRouter("comments", cfg, logger, recorder)
	r.Route("/comments", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Delete("/", h.Clear)
		r.Get("/{taskId}", h.ListByTask)
	})
	finish(r, base)
	return r
}

// newRouter returns a chi router carrying the middleware chain shared by
// every binary. Browser-facing headers (CORS, security) are added by the
// gateway only, so proxied responses carry them once.
func newRouter(cfg config.Common, logger *slog.Logger, skipLogPaths ...string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger, skipLogPaths...))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	return r
}

func newServiceRouter(name string, cfg config.Common, logger *slog.Logger, recorder *metrics.InMemoryRecorder) (*chi.Mux, *handler.Handler) {
	base := handler.New(name)
	health := handler.NewHealthHandler("ok")
	metricsHandler := handler.NewMetricsHandler(recorder)

	r := newRouter(cfg, logger, "/healthz")
	r.Get("/", base.Info)
	r.Get("/healthz", health.Healthz)
	r.Get("/metrics", metricsHandler.Metrics)

	return r, base
}

func finish(r *chi.Mux, base *handler.Handler) {
	r.NotFound(base.NotFound)
	r.MethodNotAllowed(base.MethodNotAllowed)
}

func orInMemory(recorder *metrics.InMemoryRecorder) *metrics.InMemoryRecorder {
	if recorder == nil {
		return metrics.NewInMemory()
	}
	return recorder
}
