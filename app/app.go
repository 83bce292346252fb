// Package app wires stores, resources and cross-cutting route stages into
// the final route list.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/procureconcierge/portalbackend/crud"
	"github.com/procureconcierge/portalbackend/models"
	"github.com/procureconcierge/portalbackend/permissions"
	"github.com/procureconcierge/portalbackend/resources"
	"github.com/procureconcierge/portalbackend/server"
	"github.com/procureconcierge/portalbackend/storage"
)

// Models carries the live store handles every resource is constructed with.
type Models struct {
	Users                models.UserStore
	Sessions             models.SessionStore
	Rfis                 models.RfiStore
	Files                models.FileStore
	Feedback             models.FeedbackStore
	VendorIdeas          models.VendorIdeaStore
	ForgotPasswordTokens models.ForgotPasswordTokenStore
}

// Validate reports the first missing handle. A missing handle is a fatal
// configuration error; the process must not start listening.
func (m Models) Validate() error {
	checks := []struct {
		name string
		ok   bool
	}{
		{"Users", m.Users != nil},
		{"Sessions", m.Sessions != nil},
		{"Rfis", m.Rfis != nil},
		{"Files", m.Files != nil},
		{"Feedback", m.Feedback != nil},
		{"VendorIdeas", m.VendorIdeas != nil},
		{"ForgotPasswordTokens", m.ForgotPasswordTokens != nil},
	}
	for _, check := range checks {
		if !check.ok {
			return fmt.Errorf("app: missing %s store handle", check.name)
		}
	}
	return nil
}

// BasicAuth enables site-wide HTTP basic auth when non-nil. The status
// route stays exempt so uptime checks keep working.
type BasicAuth struct {
	Username     string
	PasswordHash string
}

type RouterParams struct {
	Models          Models
	Blobs           storage.BlobStore
	Mailer          resources.Notifier
	TokenSecret     string
	FeedbackAddress string
	BasicAuth       *BasicAuth
	Hooks           []server.RouteHook
}

const statusPath = "/status"

var statusHandler = server.Handler{
	TransformRequest: server.IdentityTransform,
	Respond: func(ctx context.Context, req *server.Request) (server.Response, error) {
		return server.Basic(http.StatusOK, req.Session, server.TextResponseBody{Value: "OK"}), nil
	},
}

// CreateRouter composes the full route list: resource routes under /api, the
// JSON 404 catch-all, the status route, logging hooks, and optional basic
// auth gating everything except the status route.
func CreateRouter(p RouterParams) ([]server.Route, error) {
	if err := p.Models.Validate(); err != nil {
		return nil, err
	}
	if p.Blobs == nil {
		return nil, fmt.Errorf("app: missing blob store")
	}
	if p.Mailer == nil {
		return nil, fmt.Errorf("app: missing mailer")
	}

	m := p.Models
	resourceList := []crud.Resource{
		&resources.UserResource{Users: m.Users, Sessions: m.Sessions, Mailer: p.Mailer},
		&resources.SessionResource{Users: m.Users, Sessions: m.Sessions},
		&resources.ForgotPasswordTokenResource{Tokens: m.ForgotPasswordTokens, Users: m.Users, Mailer: p.Mailer, TokenSecret: p.TokenSecret},
		&resources.FileResource{Files: m.Files, Blobs: p.Blobs},
		&resources.FileBlobResource{Files: m.Files, Blobs: p.Blobs},
		resources.NewRfiResource("requestsForInformation", m.Rfis, m.Users, m.Files, func(session *models.Session) bool {
			return true
		}),
		resources.NewRfiResource("requestForInformationPreviews", m.Rfis, m.Users, m.Files, permissions.IsProgramStaff),
		&resources.DiscoveryDayResponseResource{Rfis: m.Rfis, Users: m.Users, Mailer: p.Mailer},
		&resources.VendorIdeaResource{Ideas: m.VendorIdeas, Users: m.Users, Files: m.Files, Mailer: p.Mailer, NotifyAddress: p.FeedbackAddress},
		&resources.FeedbackResource{Feedback: m.Feedback, Mailer: p.Mailer, MailAddress: p.FeedbackAddress},
	}

	set := server.NewRouteSet()
	for _, resource := range resourceList {
		set.Append(crud.Routes(resource)...)
	}
	set.Namespace("/api").
		WithCatchAll(server.NotFoundJSONHandler).
		Append(server.Route{Method: http.MethodGet, Path: statusPath, Handler: statusHandler})
	if len(p.Hooks) > 0 {
		set.WithHooks(p.Hooks...)
	}
	if p.BasicAuth != nil {
		set.WithAuthExcept(p.BasicAuth.Username, p.BasicAuth.PasswordHash, statusPath)
	}
	return set.Routes(), nil
}
