package resources

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/procureconcierge/portalbackend/dto"
	"github.com/procureconcierge/portalbackend/models"
	"github.com/procureconcierge/portalbackend/permissions"
	"github.com/procureconcierge/portalbackend/server"
	"github.com/procureconcierge/portalbackend/validation"
)

type UserResource struct {
	Users    models.UserStore
	Sessions models.SessionStore
	Mailer   Notifier
}

func (r *UserResource) RouteNamespace() string { return "users" }

// validateEmailAvailable layers an availability check over the format
// validator.
func (r *UserResource) validateEmailAvailable(ctx context.Context, raw string) (string, []string, error) {
	validated := validation.Email(raw)
	if !validated.Valid() {
		return "", validated.Errors(), nil
	}
	email := validated.Value("")
	_, err := r.Users.FindByEmail(ctx, email)
	if err == nil {
		return "", []string{"This email address is already in use."}, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return "", nil, err
	}
	return email, nil, nil
}

func (r *UserResource) Create() server.Handler {
	return server.Handler{
		TransformRequest: func(ctx context.Context, req *server.Request) error {
			var body dto.CreateUserRequest
			if f, ok := decodeJSONBody(req, &body, "Users"); !ok {
				req.Body = f
				return nil
			}
			if !permissions.CreateUser(req.Session, body.Profile.Type) {
				req.Body = unauthorized()
				return nil
			}

			fe := validation.FieldErrors{}
			email, emailErrs, err := r.validateEmailAvailable(ctx, body.Email)
			if err != nil {
				return err
			}
			fe.Add("email", emailErrs...)

			hash := validation.Password(body.Password)
			fe.Add("password", hash.Errors()...)

			profile, profileErrs := validation.Profile(body.Profile)
			for field, errs := range profileErrs {
				fe.Add("profile."+field, errs...)
			}

			if fe.Any() {
				req.Body = fail(http.StatusBadRequest, fe)
				return nil
			}

			now := time.Now().UTC()
			user := &models.User{
				Email:        email,
				PasswordHash: hash.Value(""),
				Active:       true,
				Profile:      profile,
			}
			if body.AcceptedTerms {
				user.AcceptedTermsAt = &now
			}
			if req.Session.LoggedIn() {
				createdBy := req.Session.User.ID
				user.CreatedBy = &createdBy
			}
			req.Body = user
			return nil
		},
		Respond: func(ctx context.Context, req *server.Request) (server.Response, error) {
			if response, done := respondFailure(req); done {
				return response, nil
			}
			user := req.Body.(*models.User)
			if err := r.Users.Create(ctx, user); err != nil {
				if errors.Is(err, models.ErrDuplicateKey) {
					return server.Basic(http.StatusBadRequest, req.Session, server.JSON(validation.FieldErrors{
						"email": {"This email address is already in use."},
					})), nil
				}
				return server.Response{}, err
			}

			// Anonymous signup logs the new user in on a fresh session.
			session := req.Session
			if !session.LoggedIn() {
				fresh, err := r.Sessions.New(ctx)
				if err != nil {
					return server.Response{}, err
				}
				if err := r.Sessions.SetUser(ctx, fresh, &models.SessionUser{ID: user.ID, Type: user.Profile.Type}); err != nil {
					return server.Response{}, err
				}
				session = fresh
			}

			r.Mailer.AccountCreated(user)
			return server.Basic(http.StatusCreated, session, server.JSON(models.MakePublicUser(user))), nil
		},
	}
}

func (r *UserResource) ReadOne() server.Handler {
	return server.Handler{
		TransformRequest: server.IdentityTransform,
		Respond: func(ctx context.Context, req *server.Request) (server.Response, error) {
			id := req.Param("id")
			if !permissions.ReadOneUser(req.Session, id) {
				return server.Basic(http.StatusUnauthorized, req.Session, server.JSON([]string{permissions.ErrorMessage})), nil
			}
			objectID, ok := parseObjectID(id)
			if !ok {
				return server.Basic(http.StatusNotFound, req.Session, server.JSON(nil)), nil
			}
			user, err := r.Users.FindByID(ctx, objectID)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					return server.Basic(http.StatusNotFound, req.Session, server.JSON(nil)), nil
				}
				return server.Response{}, err
			}
			if !user.Active {
				return server.Basic(http.StatusNotFound, req.Session, server.JSON(nil)), nil
			}
			return server.Basic(http.StatusOK, req.Session, server.JSON(models.MakePublicUser(user))), nil
		},
	}
}

func (r *UserResource) ReadMany() server.Handler {
	return server.Handler{
		TransformRequest: server.IdentityTransform,
		Respond: func(ctx context.Context, req *server.Request) (server.Response, error) {
			if !permissions.ReadManyUsers(req.Session) {
				return server.Basic(http.StatusUnauthorized, req.Session, server.JSON([]string{permissions.ErrorMessage})), nil
			}
			users, err := r.Users.FindActive(ctx)
			if err != nil {
				return server.Response{}, err
			}
			items := make([]models.PublicUser, 0, len(users))
			for _, user := range users {
				items = append(items, models.MakePublicUser(user))
			}
			return server.Basic(http.StatusOK, req.Session, server.JSON(makePaginatedList(items))), nil
		},
	}
}

func (r *UserResource) Update() server.Handler {
	return server.Handler{
		TransformRequest: func(ctx context.Context, req *server.Request) error {
			id := req.Param("id")
			if !permissions.UpdateUser(req.Session, id) {
				req.Body = unauthorized()
				return nil
			}
			var body dto.UpdateUserRequest
			if f, ok := decodeJSONBody(req, &body, "Users"); !ok {
				req.Body = f
				return nil
			}

			objectID, ok := parseObjectID(id)
			if !ok {
				req.Body = fail(http.StatusBadRequest, validation.FieldErrors{
					"id": {"Your user account does not exist or it is inactive."},
				})
				return nil
			}
			user, err := r.Users.FindByID(ctx, objectID)
			if err != nil && !errors.Is(err, models.ErrNotFound) {
				return err
			}
			if err != nil || !user.Active {
				req.Body = fail(http.StatusBadRequest, validation.FieldErrors{
					"id": {"Your user account does not exist or it is inactive."},
				})
				return nil
			}

			// Password change requires re-verifying the current password.
			if body.NewPassword != nil {
				current := ""
				if body.CurrentPassword != nil {
					current = *body.CurrentPassword
				}
				correct := models.Authenticate(user, current)
				validatedNew := validation.Password(*body.NewPassword)
				if !correct || !validatedNew.Valid() {
					fe := validation.FieldErrors{}
					if !correct {
						fe.Add("currentPassword", "Please enter your correct password.")
					}
					fe.Add("password", validatedNew.Errors()...)
					req.Body = fail(http.StatusBadRequest, fe)
					return nil
				}
				user.PasswordHash = validatedNew.Value("")
			}

			// Terms acceptance is one-way.
			now := time.Now().UTC()
			if body.AcceptedTerms != nil {
				switch {
				case user.AcceptedTermsAt == nil && *body.AcceptedTerms:
					user.AcceptedTermsAt = &now
				case user.AcceptedTermsAt != nil && !*body.AcceptedTerms:
					req.Body = fail(http.StatusBadRequest, validation.FieldErrors{
						"acceptedTerms": {"You cannot un-accept the terms."},
					})
					return nil
				}
			}

			if body.Email != nil {
				email := strings.TrimSpace(*body.Email)
				if email != "" && email != user.Email {
					validated, emailErrs, err := r.validateEmailAvailable(ctx, email)
					if err != nil {
						return err
					}
					if len(emailErrs) > 0 {
						req.Body = fail(http.StatusBadRequest, validation.FieldErrors{"email": emailErrs})
						return nil
					}
					user.Email = validated
				}
			}

			if body.Profile != nil {
				profile, profileErrs := validation.Profile(*body.Profile)
				if profileErrs.Any() {
					fe := validation.FieldErrors{}
					for field, errs := range profileErrs {
						fe.Add("profile."+field, errs...)
					}
					req.Body = fail(http.StatusBadRequest, fe)
					return nil
				}
				if profile.Type != user.Profile.Type {
					req.Body = fail(http.StatusBadRequest, validation.FieldErrors{
						"profile": {"You cannot change your user's profile type."},
					})
					return nil
				}
				user.Profile = profile
			}

			req.Body = user
			return nil
		},
		Respond: func(ctx context.Context, req *server.Request) (server.Response, error) {
			if response, done := respondFailure(req); done {
				return response, nil
			}
			user := req.Body.(*models.User)
			if err := r.Users.Update(ctx, user); err != nil {
				if errors.Is(err, models.ErrDuplicateKey) {
					return server.Basic(http.StatusBadRequest, req.Session, server.JSON(validation.FieldErrors{
						"email": {"This email address is already in use."},
					})), nil
				}
				return server.Response{}, err
			}
			return server.Basic(http.StatusOK, req.Session, server.JSON(models.MakePublicUser(user))), nil
		},
	}
}

func (r *UserResource) Delete() server.Handler {
	return server.Handler{
		TransformRequest: func(ctx context.Context, req *server.Request) error {
			id := req.Param("id")
			objectID, ok := parseObjectID(id)
			if !ok {
				req.Body = notFound()
				return nil
			}
			user, err := r.Users.FindByID(ctx, objectID)
			if err != nil && !errors.Is(err, models.ErrNotFound) {
				return err
			}
			if err != nil || !user.Active {
				req.Body = notFound()
				return nil
			}
			if !permissions.DeleteUser(req.Session, id, user.Profile.Type) {
				req.Body = unauthorized()
				return nil
			}
			req.Body = user
			return nil
		},
		Respond: func(ctx context.Context, req *server.Request) (server.Response, error) {
			if response, done := respondFailure(req); done {
				return response, nil
			}
			user := req.Body.(*models.User)
			user.Active = false
			if req.Session.LoggedIn() {
				deactivatedBy := req.Session.User.ID
				user.DeactivatedBy = &deactivatedBy
			}
			if err := r.Users.Update(ctx, user); err != nil {
				return server.Response{}, err
			}

			// Deactivating your own account also logs you out.
			session := req.Session
			if permissions.IsOwnAccount(session, user.ID.Hex()) {
				if err := r.Sessions.SetUser(ctx, session, nil); err != nil {
					return server.Response{}, err
				}
			}

			r.Mailer.AccountDeactivated(user)
			return server.Basic(http.StatusOK, session, server.JSON(nil)), nil
		},
	}
}
