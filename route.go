package horus

import (
	"errors"
	"strings"
)

// Handler produces the body content for a route.
//
// A Handler takes no arguments: by the time it runs, the request has
// already been matched against the route's path, and the simplified
// protocol carries no per-request input into handlers. The returned
// bytes become the response body verbatim.
//
// Handlers are called concurrently from per-connection goroutines and
// must be safe for concurrent use. Panics in handlers are recovered
// and logged with a correlation ID; the connection receives a generic
// failure response.
type Handler func() []byte

// Route associates a path with a content-producing handler and an
// optional static-file override.
//
// Route is immutable after creation via [NewRoute]. Paths are compared
// for exact string equality during dispatch; there is no pattern
// matching.
type Route struct {
	path       string
	handler    Handler
	staticFile string
}

// Path returns the route's path string.
func (r Route) Path() string {
	return r.path
}

// Handler returns the route's handler function.
func (r Route) Handler() Handler {
	return r.handler
}

// StaticFile returns the route's optional static-file path, or the
// empty string if none is configured. When the file exists at request
// time its bytes are served and the handler is not invoked.
func (r Route) StaticFile() string {
	return r.staticFile
}

// NewRoute creates a [Route] with the given path, handler and options.
//
// The path must begin with "/" and is matched by exact equality. The
// handler must be non-nil even when a static file is configured, since
// it serves as the fallback when the file is absent at request time.
//
// Example:
//
//	route, err := horus.NewRoute("/index", handler,
//	    horus.WithStaticFile("./public/index.html"),
//	)
func NewRoute(path string, handler Handler, opts ...RouteOption) (Route, error) {
	if path == "" {
		return Route{}, errors.New("route path cannot be empty")
	}
	if !strings.HasPrefix(path, "/") {
		return Route{}, errors.New("route path must begin with /")
	}
	if handler == nil {
		return Route{}, errors.New("route handler cannot be nil")
	}

	cfg := &routeConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return Route{}, err
		}
	}

	return Route{
		path:       path,
		handler:    handler,
		staticFile: cfg.staticFile,
	}, nil
}
