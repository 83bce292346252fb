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

// VendorIdeaResource manages Unsolicited Proposals. Like RFIs, ideas are
// event-sourced: edits append versions, status changes append log items.
type VendorIdeaResource struct {
	Ideas  models.VendorIdeaStore
	Users  models.UserStore
	Files  models.FileStore
	Mailer Notifier
	// NotifyAddress receives new-proposal notifications; empty disables them.
	NotifyAddress string
}

func (r *VendorIdeaResource) RouteNamespace() string { return "vendorIdeas" }

func (r *VendorIdeaResource) validateIdeaVersion(ctx context.Context, body dto.CreateVendorIdeaRequest) (*models.IdeaVersion, validation.FieldErrors, error) {
	fe := validation.FieldErrors{}

	title := validation.Title(body.Description.Title)
	fe.Add("description.title", title.Errors()...)
	summary := validation.GenericString(body.Description.Summary, "Summary", 1, 20000)
	fe.Add("description.summary", summary.Errors()...)
	if len(body.Description.IndustrySectors) == 0 {
		fe.Add("description.industrySectors", "Please select at least one Industry Sector.")
	}
	industrySectors := validation.IndustrySectors(body.Description.IndustrySectors)
	fe.Add("description.industrySectors", industrySectors.Errors()...)
	if len(body.Description.Categories) == 0 {
		fe.Add("description.categories", "Please select at least one Area of Interest.")
	}
	categories := validation.Categories(body.Description.Categories, "Area of Interest")
	fe.Add("description.categories", categories.Errors()...)

	productOffering := validation.GenericString(body.Eligibility.ProductOffering, "Product Offering", 1, 20000)
	fe.Add("eligibility.productOffering", productOffering.Errors()...)
	definitions := make([]models.InnovationDefinition, 0, len(body.Eligibility.InnovationDefinitions))
	if len(body.Eligibility.InnovationDefinitions) == 0 {
		fe.Add("eligibility.innovationDefinitions", "Please select at least one innovation definition.")
	}
	for _, definition := range body.Eligibility.InnovationDefinitions {
		tag, ok := models.ParseInnovationDefinitionTag(definition.Tag)
		if !ok {
			fe.Add("eligibility.innovationDefinitions", "Please select a valid innovation definition.")
			continue
		}
		parsed := models.InnovationDefinition{Tag: tag}
		if tag == models.InnovationOther {
			other := validation.GenericString(definition.Other, "Other innovation definition", 1, 5000)
			fe.Add("eligibility.innovationDefinitions", other.Errors()...)
			parsed.Other = other.Value("")
		}
		definitions = append(definitions, parsed)
	}
	var existingPurchase *string
	if body.Eligibility.ExistingPurchase != nil {
		validated := validation.Optional(func(raw string) validation.Result[string] {
			return validation.GenericString(raw, "Existing Purchase", 1, 20000)
		}, *body.Eligibility.ExistingPurchase)
		fe.Add("eligibility.existingPurchase", validated.Errors()...)
		existingPurchase = validated.Value(nil)
	}

	contactName := validation.ContactName(body.Contact.Name)
	fe.Add("contact.name", contactName.Errors()...)
	contactEmail := validation.Email(body.Contact.Email)
	fe.Add("contact.email", contactEmail.Errors()...)
	contactPhone := validation.PhoneNumber(body.Contact.PhoneNumber)
	fe.Add("contact.phoneNumber", contactPhone.Errors()...)

	attachments, attachmentErrs, err := validateFileReferences(ctx, r.Files, body.Attachments)
	if err != nil {
		return nil, nil, err
	}
	fe.Add("attachments", attachmentErrs...)

	if fe.Any() {
		return nil, fe, nil
	}
	return &models.IdeaVersion{
		Description: models.IdeaDescription{
			Title:           title.Value(""),
			Summary:         summary.Value(""),
			IndustrySectors: industrySectors.Value(nil),
			Categories:      categories.Value(nil),
		},
		Eligibility: models.IdeaEligibility{
			ExistingPurchase:      existingPurchase,
			ProductOffering:       productOffering.Value(""),
			InnovationDefinitions: definitions,
		},
		Contact: models.IdeaContact{
			Name:        contactName.Value(""),
			Email:       contactEmail.Value(""),
			PhoneNumber: contactPhone.Value(""),
		},
		Attachments: attachments,
		CreatedAt:   time.Now().UTC(),
	}, nil, nil
}

func (r *VendorIdeaResource) Create() server.Handler {
	return server.Handler{
		TransformRequest: func(ctx context.Context, req *server.Request) error {
			if !permissions.CreateVendorIdea(req.Session) {
				req.Body = unauthorized()
				return nil
			}
			var body dto.CreateVendorIdeaRequest
			if f, ok := decodeJSONBody(req, &body, "Unsolicited Proposals"); !ok {
				req.Body = f
				return nil
			}
			version, fe, err := r.validateIdeaVersion(ctx, body)
			if err != nil {
				return err
			}
			if fe.Any() {
				req.Body = fail(http.StatusBadRequest, fe)
				return nil
			}
			req.Body = version
			return nil
		},
		Respond: func(ctx context.Context, req *server.Request) (server.Response, error) {
			if response, done := respondFailure(req); done {
				return response, nil
			}
			version := req.Body.(*models.IdeaVersion)
			createdBy := req.Session.User.ID
			idea := &models.VendorIdea{
				CreatedBy: createdBy,
				Versions:  []models.IdeaVersion{*version},
				Log: []models.LogItem{{
					Type:      models.LogItemSubmitted,
					CreatedBy: &createdBy,
					CreatedAt: version.CreatedAt,
				}},
			}
			if err := r.Ideas.Create(ctx, idea); err != nil {
				return server.Response{}, err
			}
			if r.NotifyAddress != "" {
				if vendor, err := r.Users.FindByID(ctx, createdBy); err == nil {
					r.Mailer.VendorIdeaSubmitted(r.NotifyAddress, idea, vendor)
				}
			}
			public, err := models.MakePublicVendorIdea(ctx, idea, r.Users, r.Files, req.Session)
			if err != nil {
				return server.Response{}, err
			}
			return server.Basic(http.StatusCreated, req.Session, server.JSON(public)), nil
		},
	}
}

func (r *VendorIdeaResource) ReadOne() server.Handler {
	return server.Handler{
		TransformRequest: server.IdentityTransform,
		Respond: func(ctx context.Context, req *server.Request) (server.Response, error) {
			if !permissions.ReadOneVendorIdea(req.Session) {
				return server.Basic(http.StatusUnauthorized, req.Session, server.JSON([]string{permissions.ErrorMessage})), nil
			}
			notFoundResponse := server.Basic(http.StatusNotFound, req.Session, server.JSON([]string{"Unsolicited Proposal not found"}))
			objectID, ok := parseObjectID(req.Param("id"))
			if !ok {
				return notFoundResponse, nil
			}
			idea, err := r.Ideas.FindByID(ctx, objectID)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					return notFoundResponse, nil
				}
				return server.Response{}, err
			}
			// Vendors may only read their own proposals.
			if permissions.IsVendor(req.Session) && !permissions.IsOwnAccount(req.Session, idea.CreatedBy.Hex()) {
				return notFoundResponse, nil
			}
			public, err := models.MakePublicVendorIdea(ctx, idea, r.Users, r.Files, req.Session)
			if err != nil {
				return server.Response{}, err
			}
			return server.Basic(http.StatusOK, req.Session, server.JSON(public)), nil
		},
	}
}

func (r *VendorIdeaResource) ReadMany() server.Handler {
	return server.Handler{
		TransformRequest: server.IdentityTransform,
		Respond: func(ctx context.Context, req *server.Request) (server.Response, error) {
			if !permissions.ReadManyVendorIdeas(req.Session) {
				return server.Basic(http.StatusUnauthorized, req.Session, server.JSON([]string{permissions.ErrorMessage})), nil
			}
			ideas, err := r.Ideas.FindAll(ctx)
			if err != nil {
				return server.Response{}, err
			}
			items := make([]models.PublicVendorIdeaSlim, 0, len(ideas))
			for _, idea := range ideas {
				if permissions.IsVendor(req.Session) && !permissions.IsOwnAccount(req.Session, idea.CreatedBy.Hex()) {
					continue
				}
				items = append(items, models.MakePublicVendorIdeaSlim(idea, req.Session))
			}
			return server.Basic(http.StatusOK, req.Session, server.JSON(makePaginatedList(items))), nil
		},
	}
}

func (r *VendorIdeaResource) Update() server.Handler {
	type updatePayload struct {
		idea    *models.VendorIdea
		version *models.IdeaVersion
	}
	return server.Handler{
		TransformRequest: func(ctx context.Context, req *server.Request) error {
			objectID, ok := parseObjectID(req.Param("id"))
			if !ok {
				req.Body = notFound("Unsolicited Proposal not found")
				return nil
			}
			idea, err := r.Ideas.FindByID(ctx, objectID)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					req.Body = notFound("Unsolicited Proposal not found")
					return nil
				}
				return err
			}
			if !permissions.UpdateVendorIdea(req.Session, idea.CreatedBy.Hex()) {
				req.Body = unauthorized()
				return nil
			}
			var body dto.CreateVendorIdeaRequest
			if f, ok := decodeJSONBody(req, &body, "Unsolicited Proposals"); !ok {
				req.Body = f
				return nil
			}
			version, fe, err := r.validateIdeaVersion(ctx, body)
			if err != nil {
				return err
			}
			if fe.Any() {
				req.Body = fail(http.StatusBadRequest, fe)
				return nil
			}
			req.Body = updatePayload{idea: idea, version: version}
			return nil
		},
		Respond: func(ctx context.Context, req *server.Request) (server.Response, error) {
			if response, done := respondFailure(req); done {
				return response, nil
			}
			payload := req.Body.(updatePayload)
			payload.idea.Versions = append(payload.idea.Versions, *payload.version)
			// A vendor resubmitting their proposal moves it back into review.
			if permissions.IsVendor(req.Session) {
				createdBy := req.Session.User.ID
				payload.idea.Log = append(payload.idea.Log, models.LogItem{
					Type:      models.LogItemEditsSubmitted,
					CreatedBy: &createdBy,
					CreatedAt: payload.version.CreatedAt,
				})
			}
			if err := r.Ideas.Update(ctx, payload.idea); err != nil {
				return server.Response{}, err
			}
			public, err := models.MakePublicVendorIdea(ctx, payload.idea, r.Users, r.Files, req.Session)
			if err != nil {
				return server.Response{}, err
			}
			return server.Basic(http.StatusOK, req.Session, server.JSON(public)), nil
		},
	}
}
