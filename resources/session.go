package resources

import (
	"context"
	"errors"
	"net/http"

	"github.com/procureconcierge/portalbackend/dto"
	"github.com/procureconcierge/portalbackend/models"
	"github.com/procureconcierge/portalbackend/permissions"
	"github.com/procureconcierge/portalbackend/server"
)

type SessionResource struct {
	Users    models.UserStore
	Sessions models.SessionStore
}

func (r *SessionResource) RouteNamespace() string { return "sessions" }

// Create is login. Bad credentials return 401 with the caller's anonymous
// session untouched, so the cookie survives the failed attempt.
func (r *SessionResource) Create() server.Handler {
	return server.Handler{
		TransformRequest: func(ctx context.Context, req *server.Request) error {
			if !permissions.CreateSession(req.Session) {
				req.Body = unauthorized()
				return nil
			}
			var body dto.CreateSessionRequest
			if f, ok := decodeJSONBody(req, &body, "Sessions"); !ok {
				req.Body = f
				return nil
			}
			req.Body = body
			return nil
		},
		Respond: func(ctx context.Context, req *server.Request) (server.Response, error) {
			if response, done := respondFailure(req); done {
				return response, nil
			}
			body := req.Body.(dto.CreateSessionRequest)
			invalidCredentials := server.Basic(http.StatusUnauthorized, req.Session,
				server.JSON([]string{"Your email and password combination do not match."}))

			user, err := r.Users.FindByEmail(ctx, body.Email)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					return invalidCredentials, nil
				}
				return server.Response{}, err
			}
			if !user.Active || !models.Authenticate(user, body.Password) {
				return invalidCredentials, nil
			}

			session, err := r.Sessions.New(ctx)
			if err != nil {
				return server.Response{}, err
			}
			if err := r.Sessions.SetUser(ctx, session, &models.SessionUser{ID: user.ID, Type: user.Profile.Type}); err != nil {
				return server.Response{}, err
			}
			public, err := models.MakePublicSession(ctx, session, r.Users)
			if err != nil {
				return server.Response{}, err
			}
			return server.Basic(http.StatusCreated, session, server.JSON(public)), nil
		},
	}
}

func (r *SessionResource) ReadOne() server.Handler {
	return server.Handler{
		TransformRequest: server.IdentityTransform,
		Respond: func(ctx context.Context, req *server.Request) (server.Response, error) {
			if !permissions.ReadOneSession(req.Session, req.Param("id")) {
				return server.Basic(http.StatusUnauthorized, req.Session, server.JSON([]string{permissions.ErrorMessage})), nil
			}
			public, err := models.MakePublicSession(ctx, req.Session, r.Users)
			if err != nil {
				return server.Response{}, err
			}
			return server.Basic(http.StatusOK, req.Session, server.JSON(public)), nil
		},
	}
}

// Delete is logout: the session document survives, only the user reference
// is removed.
func (r *SessionResource) Delete() server.Handler {
	return server.Handler{
		TransformRequest: server.IdentityTransform,
		Respond: func(ctx context.Context, req *server.Request) (server.Response, error) {
			if !permissions.DeleteSession(req.Session, req.Param("id")) {
				return server.Basic(http.StatusUnauthorized, req.Session, server.JSON([]string{permissions.ErrorMessage})), nil
			}
			if err := r.Sessions.SetUser(ctx, req.Session, nil); err != nil {
				return server.Response{}, err
			}
			return server.Basic(http.StatusOK, req.Session, server.JSON(nil)), nil
		},
	}
}
