package dto

import "github.com/procureconcierge/portalbackend/models"

type CreateUserRequest struct {
	Email         string         `json:"email"`
	Password      string         `json:"password"`
	AcceptedTerms bool           `json:"acceptedTerms"`
	Profile       models.Profile `json:"profile"`
}

// UpdateUserRequest carries only the fields the caller wants to change.
// Changing the password requires resupplying the current one.
type UpdateUserRequest struct {
	Email           *string         `json:"email,omitempty"`
	Profile         *models.Profile `json:"profile,omitempty"`
	AcceptedTerms   *bool           `json:"acceptedTerms,omitempty"`
	NewPassword     *string         `json:"newPassword,omitempty"`
	CurrentPassword *string         `json:"currentPassword,omitempty"`
}
