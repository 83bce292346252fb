package resources

import (
	"context"
	"net/http"

	"github.com/procureconcierge/portalbackend/dto"
	"github.com/procureconcierge/portalbackend/models"
	"github.com/procureconcierge/portalbackend/server"
	"github.com/procureconcierge/portalbackend/validation"
)

// FeedbackResource accepts anonymous feedback about the portal and forwards
// it to a shared inbox. There is no read surface.
type FeedbackResource struct {
	Feedback models.FeedbackStore
	Mailer   Notifier
	// MailAddress receives submitted feedback; empty disables forwarding.
	MailAddress string
}

func (r *FeedbackResource) RouteNamespace() string { return "feedback" }

func (r *FeedbackResource) Create() server.Handler {
	return server.Handler{
		TransformRequest: func(ctx context.Context, req *server.Request) error {
			var body dto.CreateFeedbackRequest
			if f, ok := decodeJSONBody(req, &body, "Feedback"); !ok {
				req.Body = f
				return nil
			}

			validatedText := validation.FeedbackText(body.Text)
			if !validatedText.Valid() {
				req.Body = fail(http.StatusBadRequest, validation.FieldErrors{"text": validatedText.Errors()})
				return nil
			}
			validatedRating := validation.Rating(body.Rating)
			if !validatedRating.Valid() {
				req.Body = fail(http.StatusBadRequest, validation.FieldErrors{"rating": validatedRating.Errors()})
				return nil
			}

			feedback := &models.Feedback{
				Rating: validatedRating.Value(""),
				Text:   validatedText.Value(""),
			}
			if req.Session.LoggedIn() {
				userType := req.Session.User.Type
				feedback.UserType = &userType
			}
			req.Body = feedback
			return nil
		},
		Respond: func(ctx context.Context, req *server.Request) (server.Response, error) {
			if response, done := respondFailure(req); done {
				return response, nil
			}
			feedback := req.Body.(*models.Feedback)
			if err := r.Feedback.Create(ctx, feedback); err != nil {
				return server.Response{}, err
			}
			if r.MailAddress != "" {
				r.Mailer.FeedbackReceived(r.MailAddress, feedback)
			}
			return server.Basic(http.StatusCreated, req.Session, server.JSON(models.MakePublicFeedback(feedback))), nil
		},
	}
}
