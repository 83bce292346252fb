package dto

type IdeaDescriptionRequest struct {
	Title           string   `json:"title"`
	Summary         string   `json:"summary"`
	IndustrySectors []string `json:"industrySectors"`
	Categories      []string `json:"categories"`
}

type InnovationDefinitionRequest struct {
	Tag   string `json:"tag"`
	Other string `json:"other,omitempty"`
}

type IdeaEligibilityRequest struct {
	ExistingPurchase      *string                       `json:"existingPurchase,omitempty"`
	ProductOffering       string                        `json:"productOffering"`
	InnovationDefinitions []InnovationDefinitionRequest `json:"innovationDefinitions"`
}

type IdeaContactRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// CreateVendorIdeaRequest doubles as the update payload; updates append a
// new version.
type CreateVendorIdeaRequest struct {
	Description IdeaDescriptionRequest `json:"description"`
	Eligibility IdeaEligibilityRequest `json:"eligibility"`
	Contact     IdeaContactRequest     `json:"contact"`
	Attachments []string               `json:"attachments"`
}
