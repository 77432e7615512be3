package config

import (
	"fmt"

	"github.com/horusproj/horus"
)

// BuildRoutes converts parsed configuration into SDK Route objects.
//
// Each route's inline body becomes its handler; a configured file
// becomes the route's static-file override, with the inline body
// serving as the fallback when the file is absent at request time.
func BuildRoutes(cfg *Config) ([]horus.Route, error) {
	var routes []horus.Route

	for i, rc := range cfg.Routes {
		route, err := buildRoute(rc)
		if err != nil {
			return nil, fmt.Errorf("routes[%d] (%s): %w", i, rc.Path, err)
		}
		routes = append(routes, route)
	}

	return routes, nil
}

// buildRoute converts a single RouteConfig to an SDK Route.
func buildRoute(rc RouteConfig) (horus.Route, error) {
	var opts []horus.RouteOption

	if rc.File != "" {
		opts = append(opts, horus.WithStaticFile(rc.File))
	}

	// capture the body by value; the handler outlives the config
	body := []byte(rc.Body)
	handler := func() []byte { return body }

	return horus.NewRoute(rc.Path, handler, opts...)
}

// BuildOptions converts parsed configuration into SDK server options,
// excluding routes (see [BuildRoutes]) and the logger, which the
// caller supplies.
func BuildOptions(cfg *Config) []horus.Option {
	opts := []horus.Option{
		horus.WithHost(cfg.Host),
		horus.WithPort(cfg.Port),
		horus.WithReadTimeout(cfg.ReadTimeout.Duration()),
		horus.WithMaxRequestBytes(cfg.MaxRequestBytes),
	}
	if cfg.ServerName != "" {
		opts = append(opts, horus.WithServerName(cfg.ServerName))
	}
	return opts
}
