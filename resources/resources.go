// Package resources defines the per-entity CRUD resources composed into the
// API router. Each operation is a transform-then-respond pair: the transform
// validates permissions and payload shape, short-circuiting to a typed error
// body without touching persistence; respond performs the writes and builds
// the final response.
package resources

import (
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/procureconcierge/portalbackend/models"
	"github.com/procureconcierge/portalbackend/permissions"
	"github.com/procureconcierge/portalbackend/server"
	"github.com/procureconcierge/portalbackend/validation"
)

// Notifier is the outbound-mail surface resources depend on. Implementations
// must never fail the caller; delivery problems are logged internally.
type Notifier interface {
	AccountCreated(user *models.User)
	AccountDeactivated(user *models.User)
	ForgotPassword(user *models.User, token *models.ForgotPasswordToken)
	FeedbackReceived(to string, feedback *models.Feedback)
	DiscoveryDayRegistrationSubmitted(to string, rfi *models.Rfi, vendor *models.User, response *models.DiscoveryDayResponse)
	DiscoveryDayRegistrationUpdated(to string, rfi *models.Rfi, vendor *models.User, response *models.DiscoveryDayResponse)
	VendorIdeaSubmitted(to string, idea *models.VendorIdea, vendor *models.User)
}

// PaginatedList is the standard list envelope.
type PaginatedList[T any] struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
	Items  []T `json:"items"`
}

func makePaginatedList[T any](items []T) PaginatedList[T] {
	return PaginatedList[T]{
		Total: len(items),
		Count: len(items),
		Items: items,
	}
}

// failure short-circuits the transform: respond turns it straight into a
// response carrying the given code and body.
type failure struct {
	code int
	body server.ResponseBody
}

func fail(code int, value any) failure {
	return failure{code: code, body: server.JSON(value)}
}

func unauthorized() failure {
	return fail(http.StatusUnauthorized, []string{permissions.ErrorMessage})
}

func notFound(messages ...string) failure {
	if len(messages) == 0 {
		return fail(http.StatusNotFound, nil)
	}
	return fail(http.StatusNotFound, messages)
}

// respondFailure resolves a short-circuited transform, reporting whether the
// body was a failure.
func respondFailure(req *server.Request) (server.Response, bool) {
	f, ok := req.Body.(failure)
	if !ok {
		return server.Response{}, false
	}
	return server.Basic(f.code, req.Session, f.body), true
}

// decodeJSONBody unmarshals the request's JSON payload into dst. A non-JSON
// body or malformed JSON yields a contentType failure.
func decodeJSONBody(req *server.Request, dst any, entity string) (failure, bool) {
	badContentType := fail(http.StatusBadRequest, validation.FieldErrors{
		"contentType": {entity + " must be provided as a JSON request."},
	})
	raw, ok := req.JSONBody()
	if !ok {
		return badContentType, false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return badContentType, false
	}
	return failure{}, true
}

func parseObjectID(raw string) (bson.ObjectID, bool) {
	id, err := bson.ObjectIDFromHex(raw)
	if err != nil {
		return bson.ObjectID{}, false
	}
	return id, true
}
