package serve

// Handler produces the body content for a route. It takes no input;
// by the time it runs, the request has already been matched against
// the route's exact path.
type Handler func() []byte

// RouteInfo is the serve-internal form of a registered route,
// decoupled from the public horus.Route type.
type RouteInfo struct {
	// Path is the request target matched by exact string equality.
	Path string

	// Handler produces the response body when no static file serves
	// the route.
	Handler Handler

	// StaticFile is an optional on-disk path. If the file exists at
	// request time its bytes are served verbatim and Handler is not
	// invoked.
	StaticFile string
}

// Registry is the route table consulted during dispatch.
//
// A Registry is built once, before the accept loop starts, and is
// read-only from then on. Lookups are pure map reads and need no
// synchronization.
type Registry struct {
	routes map[string]RouteInfo
}

// NewRegistry builds a [Registry] from the given routes. Later entries
// with a duplicate path overwrite earlier ones; the public SDK rejects
// duplicates before they reach this point.
func NewRegistry(routes []RouteInfo) *Registry {
	table := make(map[string]RouteInfo, len(routes))
	for _, route := range routes {
		table[route.Path] = route
	}
	return &Registry{routes: table}
}

// Lookup returns the route registered for path, matched by exact
// string equality. No pattern matching is performed.
func (r *Registry) Lookup(path string) (RouteInfo, bool) {
	route, ok := r.routes[path]
	return route, ok
}

// Len returns the number of registered routes.
func (r *Registry) Len() int {
	return len(r.routes)
}
