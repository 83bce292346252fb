package resources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/procureconcierge/portalbackend/dto"
	"github.com/procureconcierge/portalbackend/models"
	"github.com/procureconcierge/portalbackend/permissions"
	"github.com/procureconcierge/portalbackend/server"
	"github.com/procureconcierge/portalbackend/validation"
)

// GlobalPermissions gates every operation of an RFI resource mount. The
// primary mount allows everyone; the previews mount restricts the whole
// namespace to program staff.
type GlobalPermissions func(session *models.Session) bool

// RfiResource serves requests for information. The same resource code is
// mounted twice: once publicly and once as a staff-only preview namespace.
type RfiResource struct {
	namespace         string
	Rfis              models.RfiStore
	Users             models.UserStore
	Files             models.FileStore
	globalPermissions GlobalPermissions
}

func NewRfiResource(namespace string, rfis models.RfiStore, users models.UserStore, files models.FileStore, globalPermissions GlobalPermissions) *RfiResource {
	return &RfiResource{
		namespace:         namespace,
		Rfis:              rfis,
		Users:             users,
		Files:             files,
		globalPermissions: globalPermissions,
	}
}

func (r *RfiResource) RouteNamespace() string { return r.namespace }

// validateUserReference resolves a user id and checks it references an
// active user of the expected type.
func validateUserReference(ctx context.Context, users models.UserStore, raw string, userType models.UserType) (*models.User, []string, error) {
	objectID, ok := parseObjectID(raw)
	if !ok {
		return nil, []string{"Please select a valid user."}, nil
	}
	user, err := users.FindByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, []string{"Please select a valid user."}, nil
		}
		return nil, nil, err
	}
	if !user.Active || user.Profile.Type != userType {
		return nil, []string{"Please select a valid user."}, nil
	}
	return user, nil, nil
}

func validateFileReferences(ctx context.Context, files models.FileStore, raw []string) ([]bson.ObjectID, []string, error) {
	ids := make([]bson.ObjectID, 0, len(raw))
	var errs []string
	for i, value := range raw {
		objectID, ok := parseObjectID(value)
		if !ok {
			errs = append(errs, fmt.Sprintf("Attachment %d is not a valid file.", i+1))
			continue
		}
		if _, err := files.FindByID(ctx, objectID); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				errs = append(errs, fmt.Sprintf("Attachment %d is not a valid file.", i+1))
				continue
			}
			return nil, nil, err
		}
		ids = append(ids, objectID)
	}
	return ids, errs, nil
}

// validateVersion builds a new immutable version from the request payload.
// Addenda matching the delete sentinel survive here so the update diff can
// see them; create and update drop them before persisting.
func (r *RfiResource) validateVersion(ctx context.Context, session *models.Session, body dto.CreateRfiRequest) (*models.Version, validation.FieldErrors, error) {
	fe := validation.FieldErrors{}

	createdBy, createdByErrs, err := validateUserReference(ctx, r.Users, session.User.ID.Hex(), models.UserTypeProgramStaff)
	if err != nil {
		return nil, nil, err
	}
	if len(createdByErrs) > 0 {
		fe.Add("permissions", permissions.ErrorMessage)
	}

	validatedClosingDate := validation.ClosingDate(body.ClosingDate)
	fe.Add("closingDate", validatedClosingDate.Errors()...)
	validatedClosingTime := validation.ClosingTime(body.ClosingTime, validatedClosingDate.Value(""))
	fe.Add("closingTime", validatedClosingTime.Errors()...)

	validatedRfiNumber := validation.RfiNumber(body.RfiNumber)
	fe.Add("rfiNumber", validatedRfiNumber.Errors()...)
	validatedTitle := validation.Title(body.Title)
	fe.Add("title", validatedTitle.Errors()...)
	validatedDescription := validation.Description(body.Description)
	fe.Add("description", validatedDescription.Errors()...)
	validatedPublicSectorEntity := validation.PublicSectorEntity(body.PublicSectorEntity)
	fe.Add("publicSectorEntity", validatedPublicSectorEntity.Errors()...)

	if len(body.Categories) == 0 {
		fe.Add("numCategories", "Please select at least one Commodity Code.")
	}
	validatedCategories := validation.Categories(body.Categories, "Commodity Code")
	fe.Add("categories", validatedCategories.Errors()...)

	validatedAddenda := validation.AddendumDescriptions(body.Addenda)
	fe.Add("addenda", validatedAddenda.Errors()...)

	attachments, attachmentErrs, err := validateFileReferences(ctx, r.Files, body.Attachments)
	if err != nil {
		return nil, nil, err
	}
	fe.Add("attachments", attachmentErrs...)

	var buyerContact *models.User
	if body.BuyerContact != "" {
		var buyerErrs []string
		buyerContact, buyerErrs, err = validateUserReference(ctx, r.Users, body.BuyerContact, models.UserTypeBuyer)
		if err != nil {
			return nil, nil, err
		}
		fe.Add("buyerContact", buyerErrs...)
	}
	staffContact, staffErrs, err := validateUserReference(ctx, r.Users, body.ProgramStaffContact, models.UserTypeProgramStaff)
	if err != nil {
		return nil, nil, err
	}
	fe.Add("programStaffContact", staffErrs...)

	if fe.Any() {
		return nil, fe, nil
	}

	now := time.Now().UTC()
	closingAt, err := time.Parse("2006-01-02 15:04", validatedClosingDate.Value("")+" "+validatedClosingTime.Value(""))
	if err != nil {
		return nil, validation.FieldErrors{"closingDate": {"Please enter a valid closing date (YYYY-MM-DD)."}}, nil
	}
	addenda := make([]models.Addendum, 0, len(body.Addenda))
	for _, description := range validatedAddenda.Value(nil) {
		addenda = append(addenda, models.Addendum{
			Description: description,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	version := &models.Version{
		RfiNumber:           validatedRfiNumber.Value(""),
		Title:               validatedTitle.Value(""),
		Description:         validatedDescription.Value(""),
		PublicSectorEntity:  validatedPublicSectorEntity.Value(""),
		ClosingAt:           closingAt,
		Categories:          validatedCategories.Value(nil),
		DiscoveryDay:        body.DiscoveryDay,
		Addenda:             addenda,
		Attachments:         attachments,
		ProgramStaffContact: staffContact.ID,
		CreatedBy:           createdBy.ID,
		CreatedAt:           now,
	}
	if buyerContact != nil {
		id := buyerContact.ID
		version.BuyerContact = &id
	}
	return version, nil, nil
}

func dropDeletedAddenda(addenda []models.Addendum) []models.Addendum {
	kept := make([]models.Addendum, 0, len(addenda))
	for _, addendum := range addenda {
		if addendum.Description != models.DeleteAddendumToken {
			kept = append(kept, addendum)
		}
	}
	return kept
}

// diffAddenda matches the submitted addenda against the current version by
// position: unchanged text keeps its original timestamps, changed text keeps
// createdAt but gets a fresh updatedAt, and new positions keep the submitted
// timestamps.
func diffAddenda(current *models.Version, submitted []models.Addendum, now time.Time) []models.Addendum {
	out := make([]models.Addendum, 0, len(submitted))
	for i, addendum := range submitted {
		if current != nil && i < len(current.Addenda) {
			existing := current.Addenda[i]
			if addendum.Description == existing.Description {
				out = append(out, existing)
				continue
			}
			out = append(out, models.Addendum{
				Description: addendum.Description,
				CreatedAt:   existing.CreatedAt,
				UpdatedAt:   now,
			})
			continue
		}
		out = append(out, addendum)
	}
	return out
}

func (r *RfiResource) Create() server.Handler {
	return server.Handler{
		TransformRequest: func(ctx context.Context, req *server.Request) error {
			if !r.globalPermissions(req.Session) || !permissions.CreateRfi(req.Session) {
				req.Body = fail(http.StatusUnauthorized, validation.FieldErrors{
					"permissions": {permissions.ErrorMessage},
				})
				return nil
			}
			var body dto.CreateRfiRequest
			if f, ok := decodeJSONBody(req, &body, "Requests for Information"); !ok {
				req.Body = f
				return nil
			}
			version, fe, err := r.validateVersion(ctx, req.Session, body)
			if err != nil {
				return err
			}
			if fe.Any() {
				req.Body = fail(http.StatusBadRequest, fe)
				return nil
			}
			version.Addenda = dropDeletedAddenda(version.Addenda)
			req.Body = version
			return nil
		},
		Respond: func(ctx context.Context, req *server.Request) (server.Response, error) {
			if response, done := respondFailure(req); done {
				return response, nil
			}
			version := req.Body.(*models.Version)
			rfi := &models.Rfi{
				PublishedAt: version.CreatedAt,
				Versions:    []models.Version{*version},
			}
			if err := r.Rfis.Create(ctx, rfi); err != nil {
				return server.Response{}, err
			}
			public, err := models.MakePublicRfi(ctx, rfi, r.Users, r.Files, req.Session)
			if err != nil {
				return server.Response{}, err
			}
			return server.Basic(http.StatusCreated, req.Session, server.JSON(public)), nil
		},
	}
}

func (r *RfiResource) ReadOne() server.Handler {
	return server.Handler{
		TransformRequest: server.IdentityTransform,
		Respond: func(ctx context.Context, req *server.Request) (server.Response, error) {
			if !r.globalPermissions(req.Session) || !permissions.ReadOneRfi() {
				return server.Basic(http.StatusUnauthorized, req.Session, server.JSON([]string{permissions.ErrorMessage})), nil
			}
			notFoundResponse := server.Basic(http.StatusNotFound, req.Session, server.JSON([]string{"RFI not found"}))
			objectID, ok := parseObjectID(req.Param("id"))
			if !ok {
				return notFoundResponse, nil
			}
			rfi, err := r.Rfis.FindByID(ctx, objectID)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					return notFoundResponse, nil
				}
				return server.Response{}, err
			}
			// Unpublished RFIs are only visible to program staff.
			if !permissions.IsProgramStaff(req.Session) && !rfi.HasBeenPublished() {
				return notFoundResponse, nil
			}
			public, err := models.MakePublicRfi(ctx, rfi, r.Users, r.Files, req.Session)
			if err != nil {
				return server.Response{}, err
			}
			return server.Basic(http.StatusOK, req.Session, server.JSON(public)), nil
		},
	}
}

func (r *RfiResource) ReadMany() server.Handler {
	return server.Handler{
		TransformRequest: server.IdentityTransform,
		Respond: func(ctx context.Context, req *server.Request) (server.Response, error) {
			if !r.globalPermissions(req.Session) || !permissions.ReadManyRfis() {
				return server.Basic(http.StatusUnauthorized, req.Session, server.JSON([]string{permissions.ErrorMessage})), nil
			}
			rfis, err := r.Rfis.FindAll(ctx)
			if err != nil {
				return server.Response{}, err
			}
			items := make([]models.PublicRfi, 0, len(rfis))
			for _, rfi := range rfis {
				if !permissions.IsProgramStaff(req.Session) && !rfi.HasBeenPublished() {
					continue
				}
				public, err := models.MakePublicRfi(ctx, rfi, r.Users, r.Files, req.Session)
				if err != nil {
					return server.Response{}, err
				}
				items = append(items, public)
			}
			return server.Basic(http.StatusOK, req.Session, server.JSON(makePaginatedList(items))), nil
		},
	}
}

// Update appends a new version. Prior versions are never mutated; there is
// no concurrency token, so concurrent updates are last-write-wins.
func (r *RfiResource) Update() server.Handler {
	type updatePayload struct {
		rfi     *models.Rfi
		version *models.Version
	}
	return server.Handler{
		TransformRequest: func(ctx context.Context, req *server.Request) error {
			if !r.globalPermissions(req.Session) || !permissions.UpdateRfi(req.Session) {
				req.Body = fail(http.StatusUnauthorized, validation.FieldErrors{
					"permissions": {permissions.ErrorMessage},
				})
				return nil
			}
			var body dto.CreateRfiRequest
			if f, ok := decodeJSONBody(req, &body, "Requests for Information"); !ok {
				req.Body = f
				return nil
			}
			objectID, ok := parseObjectID(req.Param("id"))
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
			version, fe, err := r.validateVersion(ctx, req.Session, body)
			if err != nil {
				return err
			}
			if fe.Any() {
				req.Body = fail(http.StatusBadRequest, fe)
				return nil
			}
			version.Addenda = dropDeletedAddenda(diffAddenda(rfi.LatestVersion(), version.Addenda, time.Now().UTC()))
			req.Body = updatePayload{rfi: rfi, version: version}
			return nil
		},
		Respond: func(ctx context.Context, req *server.Request) (server.Response, error) {
			if response, done := respondFailure(req); done {
				return response, nil
			}
			payload := req.Body.(updatePayload)
			payload.rfi.Versions = append(payload.rfi.Versions, *payload.version)
			if err := r.Rfis.Update(ctx, payload.rfi); err != nil {
				return server.Response{}, err
			}
			public, err := models.MakePublicRfi(ctx, payload.rfi, r.Users, r.Files, req.Session)
			if err != nil {
				return server.Response{}, err
			}
			return server.Basic(http.StatusOK, req.Session, server.JSON(public)), nil
		},
	}
}
