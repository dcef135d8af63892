// Package gateway implements the front door of the system: prefix routing
// to the resource services and the fan-out reset across all of them.
package gateway

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/taskmesh/taskmesh/internal/config"
)

// APIPrefix is the path every proxied resource lives under.
const APIPrefix = "/api"

// ErrNoRoutes is returned when the route table would be empty.
var ErrNoRoutes = errors.New("no backend routes configured")

// Route maps a public path prefix onto a backend.
// "/api/users/42" with Prefix "/api/users" and Rewrite "/users" is
// forwarded to Target + "/users/42".
type Route struct {
	Name    string
	Prefix  string
	Rewrite string
	Target  *url.URL
}

// NewRoutes builds the static route table, one entry per backend, in the
// order given. Any missing or malformed address fails the whole table.
func NewRoutes(backends []config.Backend) ([]Route, error) {
	if len(backends) == 0 {
		return nil, ErrNoRoutes
	}

	routes := make([]Route, 0, len(backends))
	seen := make(map[string]bool, len(backends))

	for _, b := range backends {
		if b.Name == "" {
			return nil, errors.New("backend name is empty")
		}
		if seen[b.Name] {
			return nil, fmt.Errorf("duplicate backend %q", b.Name)
		}
		seen[b.Name] = true

		if b.URL == "" {
			return nil, fmt.Errorf("missing address for %s service", b.Name)
		}
		target, err := url.Parse(b.URL)
		if err != nil {
			return nil, fmt.Errorf("parse %s service address: %w", b.Name, err)
		}
		if target.Scheme == "" || target.Host == "" {
			return nil, fmt.Errorf("%s service address %q must include scheme and host", b.Name, b.URL)
		}
		target.Path = strings.TrimSuffix(target.Path, "/")

		routes = append(routes, Route{
			Name:    b.Name,
			Prefix:  APIPrefix + "/" + b.Name,
			Rewrite: "/" + b.Name,
			Target:  target,
		})
	}

	return routes, nil
}

// Matches reports whether path belongs to this route. The prefix must end
// at a segment boundary, so "/api/usersX" does not match "/api/users".
func (r Route) Matches(path string) bool {
	if !strings.HasPrefix(path, r.Prefix) {
		return false
	}
	rest := path[len(r.Prefix):]
	return rest == "" || rest[0] == '/'
}

// RewritePath replaces the public prefix with the backend path, including
// any base path carried by the target address.
func (r Route) RewritePath(path string) string {
	rest := strings.TrimPrefix(path, r.Prefix)
	return r.Target.Path + r.Rewrite + rest
}

// CollectionURL is the absolute URL of the backend collection, the
// endpoint that lists, creates and bulk-clears.
func (r Route) CollectionURL() string {
	u := *r.Target
	u.Path = r.Target.Path + r.Rewrite
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// HealthURL is the backend liveness endpoint.
func (r Route) HealthURL() string {
	u := *r.Target
	u.Path = r.Target.Path + "/healthz"
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// Match returns the first route owning path.
func Match(routes []Route, path string) (Route, bool) {
	for _, r := range routes {
		if r.Matches(path) {
			return r, true
		}
	}
	return Route{}, false
}
