package crud

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procureconcierge/portalbackend/server"
)

type fullResource struct{}

func (fullResource) RouteNamespace() string    { return "widgets" }
func (fullResource) Create() server.Handler    { return server.Handler{} }
func (fullResource) ReadMany() server.Handler  { return server.Handler{} }
func (fullResource) ReadOne() server.Handler   { return server.Handler{} }
func (fullResource) Update() server.Handler    { return server.Handler{} }
func (fullResource) Delete() server.Handler    { return server.Handler{} }

type createOnlyResource struct{}

func (createOnlyResource) RouteNamespace() string { return "feedback" }
func (createOnlyResource) Create() server.Handler { return server.Handler{} }

type readOnlyResource struct{}

func (readOnlyResource) RouteNamespace() string  { return "files" }
func (readOnlyResource) ReadOne() server.Handler { return server.Handler{} }

func TestRoutesFullResource(t *testing.T) {
	routes := Routes(fullResource{})
	require.Len(t, routes, 5)

	type methodPath struct{ method, path string }
	var got []methodPath
	for _, r := range routes {
		got = append(got, methodPath{r.Method, r.Path})
	}
	assert.Equal(t, []methodPath{
		{http.MethodPost, "/widgets"},
		{http.MethodGet, "/widgets"},
		{http.MethodGet, "/widgets/:id"},
		{http.MethodPut, "/widgets/:id"},
		{http.MethodDelete, "/widgets/:id"},
	}, got)
}

func TestRoutesPartialResources(t *testing.T) {
	routes := Routes(createOnlyResource{})
	require.Len(t, routes, 1)
	assert.Equal(t, http.MethodPost, routes[0].Method)
	assert.Equal(t, "/feedback", routes[0].Path)

	routes = Routes(readOnlyResource{})
	require.Len(t, routes, 1)
	assert.Equal(t, http.MethodGet, routes[0].Method)
	assert.Equal(t, "/files/:id", routes[0].Path)
}
