package resources

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/procureconcierge/portalbackend/dto"
	"github.com/procureconcierge/portalbackend/models"
	"github.com/procureconcierge/portalbackend/permissions"
	"github.com/procureconcierge/portalbackend/server"
	"github.com/procureconcierge/portalbackend/validation"
)

// DiscoveryDayResponseResource registers vendors for an RFI's Discovery Day
// session. Registrations live on the RFI document itself.
type DiscoveryDayResponseResource struct {
	Rfis   models.RfiStore
	Users  models.UserStore
	Mailer Notifier
}

func (r *DiscoveryDayResponseResource) RouteNamespace() string { return "discoveryDayResponses" }

func validateAttendees(raw []dto.AttendeeRequest) ([]models.Attendee, validation.FieldErrors) {
	fe := validation.FieldErrors{}
	if len(raw) == 0 {
		fe.Add("attendees", "Please register at least one attendee.")
		return nil, fe
	}
	attendees := make([]models.Attendee, 0, len(raw))
	for _, attendee := range raw {
		name := validation.ContactName(attendee.Name)
		fe.Add("attendees", name.Errors()...)
		email := validation.Email(attendee.Email)
		fe.Add("attendees", email.Errors()...)
		attendees = append(attendees, models.Attendee{
			Name:   name.Value(""),
			Email:  email.Value(""),
			Remote: attendee.Remote,
		})
	}
	if fe.Any() {
		return nil, fe
	}
	return attendees, nil
}

func (r *DiscoveryDayResponseResource) Create() server.Handler {
	type createPayload struct {
		rfi       *models.Rfi
		attendees []models.Attendee
	}
	return server.Handler{
		TransformRequest: func(ctx context.Context, req *server.Request) error {
			if !permissions.CreateDiscoveryDayResponse(req.Session) {
				req.Body = unauthorized()
				return nil
			}
			var body dto.CreateDiscoveryDayResponseRequest
			if f, ok := decodeJSONBody(req, &body, "Discovery Day responses"); !ok {
				req.Body = f
				return nil
			}
			objectID, ok := parseObjectID(body.RfiID)
			if !ok {
				req.Body = fail(http.StatusNotFound, validation.FieldErrors{"rfiId": {"RFI not found"}})
				return nil
			}
			rfi, err := r.Rfis.FindByID(ctx, objectID)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					req.Body = fail(http.StatusNotFound, validation.FieldErrors{"rfiId": {"RFI not found"}})
					return nil
				}
				return err
			}
			version := rfi.LatestVersion()
			if version == nil || !version.DiscoveryDay || !rfi.HasBeenPublished() {
				req.Body = fail(http.StatusBadRequest, validation.FieldErrors{
					"rfiId": {"This RFI does not have a Discovery Day session."},
				})
				return nil
			}
			attendees, fe := validateAttendees(body.Attendees)
			if fe.Any() {
				req.Body = fail(http.StatusBadRequest, fe)
				return nil
			}
			req.Body = createPayload{rfi: rfi, attendees: attendees}
			return nil
		},
		Respond: func(ctx context.Context, req *server.Request) (server.Response, error) {
			if response, done := respondFailure(req); done {
				return response, nil
			}
			payload := req.Body.(createPayload)
			vendorRef := req.Session.User.ID

			vendor, err := r.Users.FindByID(ctx, vendorRef)
			if err != nil {
				return server.Response{}, err
			}

			staffContactEmail := func() string {
				version := payload.rfi.LatestVersion()
				if version == nil {
					return ""
				}
				staff, err := r.Users.FindByID(ctx, version.ProgramStaffContact)
				if err != nil {
					return ""
				}
				return staff.Email
			}

			// Re-registering replaces the vendor's attendee list in place.
			if existing := payload.rfi.FindDiscoveryDayResponse(vendorRef); existing != nil {
				existing.Attendees = payload.attendees
				if err := r.Rfis.Update(ctx, payload.rfi); err != nil {
					return server.Response{}, err
				}
				if to := staffContactEmail(); to != "" {
					r.Mailer.DiscoveryDayRegistrationUpdated(to, payload.rfi, vendor, existing)
				}
				return server.Basic(http.StatusOK, req.Session, server.JSON(models.PublicDiscoveryDayResponse{
					Vendor:    models.MakePublicUser(vendor),
					Attendees: existing.Attendees,
					CreatedAt: existing.CreatedAt,
				})), nil
			}

			response := models.DiscoveryDayResponse{
				Vendor:    vendorRef,
				Attendees: payload.attendees,
				CreatedAt: time.Now().UTC(),
			}
			payload.rfi.DiscoveryDayResponses = append(payload.rfi.DiscoveryDayResponses, response)
			if err := r.Rfis.Update(ctx, payload.rfi); err != nil {
				return server.Response{}, err
			}
			if to := staffContactEmail(); to != "" {
				r.Mailer.DiscoveryDayRegistrationSubmitted(to, payload.rfi, vendor, &response)
			}
			return server.Basic(http.StatusCreated, req.Session, server.JSON(models.PublicDiscoveryDayResponse{
				Vendor:    models.MakePublicUser(vendor),
				Attendees: response.Attendees,
				CreatedAt: response.CreatedAt,
			})), nil
		},
	}
}
