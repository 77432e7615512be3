package horus

import "errors"

// routeConfig holds mutable state during route construction.
type routeConfig struct {
	staticFile string
}

// RouteOption is a function that configures a [Route] during
// construction.
//
// RouteOption implements the functional options pattern, allowing
// optional configuration to be passed to [NewRoute] in a type-safe,
// extensible way. Options return an error if validation fails.
type RouteOption func(*routeConfig) error

// WithStaticFile configures an on-disk file to serve for this route.
//
// The file's existence is checked at request time, not registration
// time: if it exists, its exact bytes are served and the route's
// handler is not invoked; if it is missing or unreadable, dispatch
// falls back to the handler. This allows content to appear or change
// on disk while the server runs.
//
// Example:
//
//	route, err := horus.NewRoute("/index", handler,
//	    horus.WithStaticFile("./public/index.html"),
//	)
//
// Returns an error if the path is empty.
func WithStaticFile(path string) RouteOption {
	return func(cfg *routeConfig) error {
		if path == "" {
			return errors.New("static file path cannot be empty")
		}
		cfg.staticFile = path
		return nil
	}
}
