package server

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/procureconcierge/portalbackend/models"
)

func okHandler(value string) Handler {
	return Handler{
		TransformRequest: IdentityTransform,
		Respond: func(ctx context.Context, req *Request) (Response, error) {
			return Basic(http.StatusOK, req.Session, TextResponseBody{Value: value}), nil
		},
	}
}

func TestNamespaceOnlyPrefixesCurrentRoutes(t *testing.T) {
	routes := NewRouteSet().
		Append(Route{Method: http.MethodGet, Path: "/users", Handler: okHandler("users")}).
		Namespace("/api").
		Append(Route{Method: http.MethodGet, Path: "/status", Handler: okHandler("status")}).
		Routes()

	require.Len(t, routes, 2)
	assert.Equal(t, "/api/users", routes[0].Path)
	assert.Equal(t, "/status", routes[1].Path)
}

func TestCatchAllIsAlwaysLast(t *testing.T) {
	routes := NewRouteSet().
		WithCatchAll(NotFoundJSONHandler).
		Append(Route{Method: http.MethodGet, Path: "/status", Handler: okHandler("status")}).
		Routes()

	require.Len(t, routes, 2)
	assert.Equal(t, "/status", routes[0].Path)
	assert.Equal(t, CatchAllPath, routes[1].Path)
	assert.Equal(t, MethodAny, routes[1].Method)
}

func TestCheckBasicAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	header := func(user, pass string) string {
		return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
	}

	assert.True(t, checkBasicAuth(header("admin", "hunter2"), "admin", string(hash)))
	assert.False(t, checkBasicAuth(header("admin", "wrong"), "admin", string(hash)))
	assert.False(t, checkBasicAuth(header("other", "hunter2"), "admin", string(hash)))
	assert.False(t, checkBasicAuth("", "admin", string(hash)))
	assert.False(t, checkBasicAuth("Bearer abc", "admin", string(hash)))
	assert.False(t, checkBasicAuth("Basic %%%", "admin", string(hash)))
}

func TestWithAuthExceptExemptsPaths(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	routes := NewRouteSet().
		Append(
			Route{Method: http.MethodGet, Path: "/status", Handler: okHandler("status")},
			Route{Method: http.MethodGet, Path: "/users", Handler: okHandler("users")},
		).
		WithAuthExcept("admin", string(hash), "/status").
		Routes()
	require.Len(t, routes, 2)

	session := &models.Session{}
	run := func(h Handler, authorization string) Response {
		req := &Request{
			Headers: http.Header{},
			Session: session,
			Body:    EmptyRequestBody{},
		}
		if authorization != "" {
			req.Headers.Set("Authorization", authorization)
		}
		require.NoError(t, h.TransformRequest(context.Background(), req))
		resp, err := h.Respond(context.Background(), req)
		require.NoError(t, err)
		return resp
	}

	// The exempt path stays reachable without credentials.
	resp := run(routes[0].Handler, "")
	assert.Equal(t, http.StatusOK, resp.Code)

	// All other routes demand credentials.
	resp = run(routes[1].Handler, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, `Basic realm="restricted"`, resp.Headers.Get("WWW-Authenticate"))

	good := "Basic " + base64.StdEncoding.EncodeToString([]byte("admin:hunter2"))
	resp = run(routes[1].Handler, good)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, TextResponseBody{Value: "users"}, resp.Body)
}
