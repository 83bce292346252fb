package resources

import (
	"context"
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"

	"github.com/procureconcierge/portalbackend/dto"
	"github.com/procureconcierge/portalbackend/models"
	"github.com/procureconcierge/portalbackend/permissions"
	"github.com/procureconcierge/portalbackend/server"
	"github.com/procureconcierge/portalbackend/validation"
)

// ForgotPasswordTokenResource drives the email-based password reset flow.
// Create always answers 201 so callers cannot probe which addresses have
// accounts; Update consumes the token and resets the password.
type ForgotPasswordTokenResource struct {
	Tokens models.ForgotPasswordTokenStore
	Users  models.UserStore
	Mailer Notifier
	// TokenSecret signs the reset token that travels by email.
	TokenSecret string
}

func (r *ForgotPasswordTokenResource) RouteNamespace() string { return "forgotPasswordTokens" }

type resetClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

func (r *ForgotPasswordTokenResource) signToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, resetClaims{UserID: userID})
	return token.SignedString([]byte(r.TokenSecret))
}

func (r *ForgotPasswordTokenResource) verifyToken(raw, userID string) bool {
	var claims resetClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(r.TokenSecret), nil
	})
	return err == nil && token.Valid && claims.UserID == userID
}

func (r *ForgotPasswordTokenResource) Create() server.Handler {
	return server.Handler{
		TransformRequest: func(ctx context.Context, req *server.Request) error {
			if !permissions.CreateForgotPasswordToken(req.Session) {
				req.Body = unauthorized()
				return nil
			}
			var body dto.CreateForgotPasswordTokenRequest
			if f, ok := decodeJSONBody(req, &body, "Forgot password requests"); !ok {
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
			body := req.Body.(dto.CreateForgotPasswordTokenRequest)
			created := server.Basic(http.StatusCreated, req.Session, server.JSON(nil))

			validatedEmail := validation.Email(body.Email)
			if !validatedEmail.Valid() {
				return created, nil
			}
			user, err := r.Users.FindByEmail(ctx, validatedEmail.Value(""))
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					return created, nil
				}
				return server.Response{}, err
			}
			if !user.Active {
				return created, nil
			}

			signed, err := r.signToken(user.ID.Hex())
			if err != nil {
				return server.Response{}, err
			}
			token := &models.ForgotPasswordToken{
				Token:  signed,
				UserID: user.ID,
			}
			if err := r.Tokens.Create(ctx, token); err != nil {
				return server.Response{}, err
			}
			r.Mailer.ForgotPassword(user, token)
			return created, nil
		},
	}
}

func (r *ForgotPasswordTokenResource) Update() server.Handler {
	type resetPayload struct {
		token *models.ForgotPasswordToken
		user  *models.User
	}
	return server.Handler{
		TransformRequest: func(ctx context.Context, req *server.Request) error {
			var body dto.UpdateForgotPasswordTokenRequest
			if f, ok := decodeJSONBody(req, &body, "Password resets"); !ok {
				req.Body = f
				return nil
			}
			invalidToken := fail(http.StatusBadRequest, validation.FieldErrors{
				"token": {"This password reset link is invalid or has expired."},
			})

			objectID, ok := parseObjectID(req.Param("id"))
			if !ok {
				req.Body = invalidToken
				return nil
			}
			token, err := r.Tokens.FindByID(ctx, objectID)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					req.Body = invalidToken
					return nil
				}
				return err
			}
			if token.Token != body.Token || token.UserID.Hex() != body.UserID || !r.verifyToken(body.Token, body.UserID) {
				req.Body = invalidToken
				return nil
			}

			user, err := r.Users.FindByID(ctx, token.UserID)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					req.Body = invalidToken
					return nil
				}
				return err
			}
			if !user.Active {
				req.Body = invalidToken
				return nil
			}

			validatedPassword := validation.Password(body.Password)
			if !validatedPassword.Valid() {
				req.Body = fail(http.StatusBadRequest, validation.FieldErrors{"password": validatedPassword.Errors()})
				return nil
			}
			user.PasswordHash = validatedPassword.Value("")
			req.Body = resetPayload{token: token, user: user}
			return nil
		},
		Respond: func(ctx context.Context, req *server.Request) (server.Response, error) {
			if response, done := respondFailure(req); done {
				return response, nil
			}
			payload := req.Body.(resetPayload)
			if err := r.Users.Update(ctx, payload.user); err != nil {
				return server.Response{}, err
			}
			// The token is single-use.
			if err := r.Tokens.Delete(ctx, payload.token.ID); err != nil && !errors.Is(err, models.ErrNotFound) {
				return server.Response{}, err
			}
			return server.Basic(http.StatusOK, req.Session, server.JSON(nil)), nil
		},
	}
}
