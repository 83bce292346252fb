// Package server defines the transport-agnostic route, request and response
// types that resources are written against, plus the gin adapter binding a
// composed route list to a real HTTP listener.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/procureconcierge/portalbackend/models"
)

// MethodAny matches any HTTP method when used on a route.
const MethodAny = "*"

// CatchAllPath marks the route tried when nothing else matches. The
// composition layer guarantees it is last.
const CatchAllPath = "*"

// Request bodies are a tagged set: JSON, a single uploaded file, or empty.

type JSONRequestBody struct {
	Raw json.RawMessage
}

type FileRequestBody struct {
	Name     string
	Path     string
	Metadata json.RawMessage
}

type EmptyRequestBody struct{}

// Request is the transport-independent view of an inbound request.
// TransformRequest replaces Body with a resource-typed value which Respond
// then consumes.
type Request struct {
	ID      uuid.UUID
	Method  string
	Path    string
	Params  map[string]string
	Query   url.Values
	Headers http.Header
	Session *models.Session
	Body    any
	Logger  zerolog.Logger
}

func (r *Request) Param(name string) string {
	return r.Params[name]
}

// JSONBody returns the raw JSON payload if the request carried one.
func (r *Request) JSONBody() (json.RawMessage, bool) {
	body, ok := r.Body.(JSONRequestBody)
	if !ok {
		return nil, false
	}
	return body.Raw, true
}

func (r *Request) FileBody() (FileRequestBody, bool) {
	body, ok := r.Body.(FileRequestBody)
	return body, ok
}

// Response bodies are a tagged set mirroring the request side.

type ResponseBody interface {
	isResponseBody()
}

type JSONResponseBody struct {
	Value any
}

type FileResponseBody struct {
	Buffer          []byte
	ContentType     string
	ContentEncoding string
	FileName        string
}

type TextResponseBody struct {
	Value string
}

type ErrorResponseBody struct {
	Err error
}

func (JSONResponseBody) isResponseBody()  {}
func (FileResponseBody) isResponseBody()  {}
func (TextResponseBody) isResponseBody()  {}
func (ErrorResponseBody) isResponseBody() {}

func JSON(value any) JSONResponseBody {
	return JSONResponseBody{Value: value}
}

type Response struct {
	Code    int
	Headers http.Header
	Session *models.Session
	Body    ResponseBody
}

// Basic builds the common response shape: a code, the session to persist in
// the cookie, and a body.
func Basic(code int, session *models.Session, body ResponseBody) Response {
	return Response{
		Code:    code,
		Headers: http.Header{},
		Session: session,
		Body:    body,
	}
}

// Handler is the transform-then-respond pipeline of a single route.
// TransformRequest validates permissions and payload shape; failures are
// recorded in the request body as typed error values, never returned as Go
// errors. Only genuinely unexpected failures (database unreachable, ...)
// travel the error returns; the adapter turns those into 500s.
type Handler struct {
	TransformRequest func(ctx context.Context, req *Request) error
	Respond          func(ctx context.Context, req *Request) (Response, error)
}

// IdentityTransform leaves the request untouched for operations that do all
// their work in Respond.
func IdentityTransform(ctx context.Context, req *Request) error {
	return nil
}

type Route struct {
	Method  string
	Path    string
	Handler Handler
	Hook    RouteHook
}

// NotFoundJSONHandler responds with the standard JSON 404 envelope.
var NotFoundJSONHandler = Handler{
	TransformRequest: IdentityTransform,
	Respond: func(ctx context.Context, req *Request) (Response, error) {
		return Basic(http.StatusNotFound, req.Session, JSON(struct{}{})), nil
	},
}
