// Package crud maps declarative resource definitions onto HTTP routes. A
// resource declares which of the five operations it supports by
// implementing the matching capability interface; support is checked at
// composition time, not per request.
package crud

import (
	"net/http"

	"github.com/procureconcierge/portalbackend/server"
)

// Resource names the route namespace of an entity. Operations are declared
// through the optional capability interfaces below.
type Resource interface {
	RouteNamespace() string
}

type Creator interface {
	Create() server.Handler
}

type ReadOner interface {
	ReadOne() server.Handler
}

type ReadManyer interface {
	ReadMany() server.Handler
}

type Updater interface {
	Update() server.Handler
}

type Deleter interface {
	Delete() server.Handler
}

// Routes flattens a resource into its route list. Route order within a
// resource is fixed: create, readMany, readOne, update, delete.
func Routes(resource Resource) []server.Route {
	ns := "/" + resource.RouteNamespace()
	var routes []server.Route
	if c, ok := resource.(Creator); ok {
		routes = append(routes, server.Route{Method: http.MethodPost, Path: ns, Handler: c.Create()})
	}
	if rm, ok := resource.(ReadManyer); ok {
		routes = append(routes, server.Route{Method: http.MethodGet, Path: ns, Handler: rm.ReadMany()})
	}
	if ro, ok := resource.(ReadOner); ok {
		routes = append(routes, server.Route{Method: http.MethodGet, Path: ns + "/:id", Handler: ro.ReadOne()})
	}
	if u, ok := resource.(Updater); ok {
		routes = append(routes, server.Route{Method: http.MethodPut, Path: ns + "/:id", Handler: u.Update()})
	}
	if d, ok := resource.(Deleter); ok {
		routes = append(routes, server.Route{Method: http.MethodDelete, Path: ns + "/:id", Handler: d.Delete()})
	}
	return routes
}
