package models

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type InnovationDefinitionTag string

const (
	InnovationNewTechnology            InnovationDefinitionTag = "newTechnology"
	InnovationExistingNotPurchased     InnovationDefinitionTag = "existingTechnologyNotPurchased"
	InnovationNewApplication           InnovationDefinitionTag = "newApplicationOfExistingTechnology"
	InnovationImprovement              InnovationDefinitionTag = "improvementToExistingTechnology"
	InnovationNewGovernmentNeeds       InnovationDefinitionTag = "newGovernmentNeeds"
	InnovationOther                    InnovationDefinitionTag = "other"
)

func ParseInnovationDefinitionTag(raw string) (InnovationDefinitionTag, bool) {
	switch InnovationDefinitionTag(raw) {
	case InnovationNewTechnology, InnovationExistingNotPurchased, InnovationNewApplication,
		InnovationImprovement, InnovationNewGovernmentNeeds, InnovationOther:
		return InnovationDefinitionTag(raw), true
	}
	return "", false
}

// InnovationDefinition is a tagged union; Other carries free text only when
// Tag is InnovationOther.
type InnovationDefinition struct {
	Tag   InnovationDefinitionTag `bson:"tag" json:"tag"`
	Other string                  `bson:"other,omitempty" json:"other,omitempty"`
}

type IdeaDescription struct {
	Title           string   `bson:"title" json:"title"`
	Summary         string   `bson:"summary" json:"summary"`
	IndustrySectors []string `bson:"industrySectors" json:"industrySectors"`
	Categories      []string `bson:"categories" json:"categories"`
}

type IdeaEligibility struct {
	ExistingPurchase      *string                `bson:"existingPurchase,omitempty" json:"existingPurchase,omitempty"`
	ProductOffering       string                 `bson:"productOffering" json:"productOffering"`
	InnovationDefinitions []InnovationDefinition `bson:"innovationDefinitions" json:"innovationDefinitions"`
}

type IdeaContact struct {
	Name        string `bson:"name" json:"name"`
	Email       string `bson:"email" json:"email"`
	PhoneNumber string `bson:"phoneNumber" json:"phoneNumber"`
}

type IdeaVersion struct {
	Description IdeaDescription `bson:"description" json:"description"`
	Eligibility IdeaEligibility `bson:"eligibility" json:"-"`
	Contact     IdeaContact     `bson:"contact" json:"-"`
	Attachments []bson.ObjectID `bson:"attachments" json:"-"`
	CreatedAt   time.Time       `bson:"createdAt" json:"createdAt"`
}

type LogItemType string

const (
	LogItemSubmitted      LogItemType = "submitted"
	LogItemUnderReview    LogItemType = "underReview"
	LogItemEditsRequired  LogItemType = "editsRequired"
	LogItemEditsSubmitted LogItemType = "editsSubmitted"
	LogItemClosed         LogItemType = "closed"
	LogItemGeneralNote    LogItemType = "generalNote"
)

// IsStatus reports whether the log item type represents an idea status, as
// opposed to an informational note.
func (t LogItemType) IsStatus() bool {
	return t != LogItemGeneralNote
}

type LogItem struct {
	Type      LogItemType    `bson:"type" json:"type"`
	Note      string         `bson:"note,omitempty" json:"note,omitempty"`
	CreatedBy *bson.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt time.Time      `bson:"createdAt" json:"createdAt"`
}

// VendorIdea follows the same event-sourced-document pattern as RFIs: an
// append-only version list plus an append-only status log.
type VendorIdea struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	CreatedBy bson.ObjectID `bson:"createdBy"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
	Versions  []IdeaVersion `bson:"versions"`
	Log       []LogItem     `bson:"log"`
}

func (v *VendorIdea) LatestVersion() *IdeaVersion {
	var latest *IdeaVersion
	for i := range v.Versions {
		ver := &v.Versions[i]
		if latest == nil || ver.CreatedAt.After(latest.CreatedAt) {
			latest = ver
		}
	}
	return latest
}

// LatestStatus returns the newest status log item type, defaulting to
// submitted for ideas created before the log existed.
func (v *VendorIdea) LatestStatus() LogItemType {
	status := LogItemSubmitted
	var at time.Time
	for _, item := range v.Log {
		if item.Type.IsStatus() && !item.CreatedAt.Before(at) {
			status = item.Type
			at = item.CreatedAt
		}
	}
	return status
}

type PublicIdeaVersion struct {
	IdeaVersion
	Attachments []PublicFile     `json:"attachments"`
	Eligibility *IdeaEligibility `json:"eligibility,omitempty"`
	Contact     *IdeaContact     `json:"contact,omitempty"`
}

// PublicVendorIdea is role-filtered: buyers see only the description and
// attachments, vendors additionally see eligibility/contact/status, and
// program staff see everything including the log.
type PublicVendorIdea struct {
	ID            bson.ObjectID     `json:"_id"`
	UserType      UserType          `json:"userType"`
	CreatedAt     time.Time         `json:"createdAt"`
	LatestVersion PublicIdeaVersion `json:"latestVersion"`
	LatestStatus  LogItemType       `json:"latestStatus,omitempty"`
	CreatedBy     *PublicUser       `json:"createdBy,omitempty"`
	Log           []LogItem         `json:"log,omitempty"`
}

func MakePublicVendorIdea(ctx context.Context, idea *VendorIdea, users UserStore, files FileStore, session *Session) (PublicVendorIdea, error) {
	userType := UserTypeBuyer
	if session != nil && session.User != nil {
		userType = session.User.Type
	}
	public := PublicVendorIdea{
		ID:        idea.ID,
		UserType:  userType,
		CreatedAt: idea.CreatedAt,
	}
	version := idea.LatestVersion()
	if version != nil {
		pv := PublicIdeaVersion{IdeaVersion: *version}
		pv.Attachments = make([]PublicFile, 0, len(version.Attachments))
		for _, fileID := range version.Attachments {
			file, err := files.FindByID(ctx, fileID)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}
				return public, err
			}
			pv.Attachments = append(pv.Attachments, MakePublicFile(file))
		}
		if userType != UserTypeBuyer {
			eligibility := version.Eligibility
			contact := version.Contact
			pv.Eligibility = &eligibility
			pv.Contact = &contact
		}
		public.LatestVersion = pv
	}
	if userType != UserTypeBuyer {
		public.LatestStatus = idea.LatestStatus()
		createdBy, err := resolvePublicUser(ctx, users, idea.CreatedBy)
		if err != nil {
			return public, err
		}
		public.CreatedBy = createdBy
	}
	if userType == UserTypeProgramStaff {
		public.Log = idea.Log
	}
	return public, nil
}

// PublicVendorIdeaSlim trims the projection for list responses.
type PublicVendorIdeaSlim struct {
	ID            bson.ObjectID   `json:"_id"`
	CreatedAt     time.Time       `json:"createdAt"`
	Description   IdeaDescription `json:"description"`
	LatestStatus  LogItemType     `json:"latestStatus,omitempty"`
}

func MakePublicVendorIdeaSlim(idea *VendorIdea, session *Session) PublicVendorIdeaSlim {
	slim := PublicVendorIdeaSlim{
		ID:        idea.ID,
		CreatedAt: idea.CreatedAt,
	}
	if version := idea.LatestVersion(); version != nil {
		slim.Description = version.Description
	}
	if session != nil && session.User != nil && session.User.Type != UserTypeBuyer {
		slim.LatestStatus = idea.LatestStatus()
	}
	return slim
}
