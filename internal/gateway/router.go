package gateway

import (
	"log/slog"
	"net/http"

	"github.com/taskmesh/taskmesh/internal/metrics"
)

// Router dispatches each request to the proxy whose route owns its path.
// Paths no route owns go to notFound.
type Router struct {
	routes   []Route
	proxies  map[string]*Proxy
	notFound http.Handler
}

// NewRouter builds one Proxy per route, all sharing transport.
func NewRouter(routes []Route, transport http.RoundTripper, logger *slog.Logger, recorder metrics.Recorder, notFound http.Handler) (*Router, error) {
	if len(routes) == 0 {
		return nil, ErrNoRoutes
	}
	if notFound == nil {
		notFound = http.NotFoundHandler()
	}

	proxies := make(map[string]*Proxy, len(routes))
	for _, r := range routes {
		proxies[r.Name] = NewProxy(r, transport, logger, recorder)
	}

	return &Router{
		routes:   routes,
		proxies:  proxies,
		notFound: notFound,
	}, nil
}

// ServeHTTP implements http.Handler.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route, ok := Match(rt.routes, r.URL.Path)
	if !ok {
		rt.notFound.ServeHTTP(w, r)
		return
	}
	rt.proxies[route.Name].ServeHTTP(w, r)
}
