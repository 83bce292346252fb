package server

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// RouteSet builds an ordered route list through explicit pipeline stages,
// so ordering requirements (catch-all last, auth exemptions) are stated
// rather than implied by concatenation order.
type RouteSet struct {
	routes   []Route
	catchAll *Route
}

func NewRouteSet() *RouteSet {
	return &RouteSet{}
}

func (rs *RouteSet) Append(routes ...Route) *RouteSet {
	rs.routes = append(rs.routes, routes...)
	return rs
}

// Namespace prefixes every route currently in the set. Routes appended
// afterwards are unaffected.
func (rs *RouteSet) Namespace(prefix string) *RouteSet {
	prefix = "/" + strings.Trim(prefix, "/")
	for i := range rs.routes {
		rs.routes[i].Path = prefix + "/" + strings.TrimLeft(rs.routes[i].Path, "/")
	}
	return rs
}

// WithCatchAll registers the handler tried when no route matches. Routes()
// guarantees it comes last regardless of when this stage runs.
func (rs *RouteSet) WithCatchAll(handler Handler) *RouteSet {
	rs.catchAll = &Route{
		Method:  MethodAny,
		Path:    CatchAllPath,
		Handler: handler,
	}
	return rs
}

// WithHooks attaches cross-cutting hooks to every route in the set,
// including the catch-all.
func (rs *RouteSet) WithHooks(hooks ...RouteHook) *RouteSet {
	combined := CombineHooks(hooks...)
	for i := range rs.routes {
		if rs.routes[i].Hook != nil {
			rs.routes[i].Hook = CombineHooks(combined, rs.routes[i].Hook)
		} else {
			rs.routes[i].Hook = combined
		}
	}
	if rs.catchAll != nil {
		rs.catchAll.Hook = combined
	}
	return rs
}

// WithAuthExcept gates every route behind HTTP basic auth, except the
// exempted paths, which stay reachable for uptime checks regardless of
// auth state.
func (rs *RouteSet) WithAuthExcept(username, passwordHash string, exemptPaths ...string) *RouteSet {
	exempt := make(map[string]bool, len(exemptPaths))
	for _, p := range exemptPaths {
		exempt[p] = true
	}
	for i := range rs.routes {
		if exempt[rs.routes[i].Path] {
			continue
		}
		rs.routes[i].Handler = basicAuthHandler(rs.routes[i].Handler, username, passwordHash)
	}
	if rs.catchAll != nil {
		rs.catchAll.Handler = basicAuthHandler(rs.catchAll.Handler, username, passwordHash)
	}
	return rs
}

// Routes returns the composed, order-preserving list with the catch-all
// route appended last.
func (rs *RouteSet) Routes() []Route {
	routes := make([]Route, 0, len(rs.routes)+1)
	routes = append(routes, rs.routes...)
	if rs.catchAll != nil {
		routes = append(routes, *rs.catchAll)
	}
	return routes
}

func checkBasicAuth(header, username, passwordHash string) bool {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return false
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, prefix))
	if err != nil {
		return false
	}
	user, pass, ok := strings.Cut(string(decoded), ":")
	if !ok || user != username {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(pass)) == nil
}

func basicAuthHandler(next Handler, username, passwordHash string) Handler {
	return Handler{
		TransformRequest: func(ctx context.Context, req *Request) error {
			if !checkBasicAuth(req.Headers.Get("Authorization"), username, passwordHash) {
				return nil
			}
			if next.TransformRequest != nil {
				return next.TransformRequest(ctx, req)
			}
			return nil
		},
		Respond: func(ctx context.Context, req *Request) (Response, error) {
			if !checkBasicAuth(req.Headers.Get("Authorization"), username, passwordHash) {
				resp := Basic(http.StatusUnauthorized, req.Session, TextResponseBody{Value: "Unauthorized"})
				resp.Headers.Set("WWW-Authenticate", `Basic realm="restricted"`)
				return resp, nil
			}
			return next.Respond(ctx, req)
		},
	}
}
