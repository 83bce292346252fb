package models

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// DeleteAddendumToken marks an addendum for removal when an RFI version is
// appended. Clients resubmit the full addenda list; entries whose
// description equals this token are dropped from the new version.
const DeleteAddendumToken = "$$__DELETE_ADDENDUM__$$"

type Addendum struct {
	Description string    `bson:"description" json:"description"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Version is an immutable snapshot of an RFI. Updates append a new version;
// prior versions are never mutated.
type Version struct {
	RfiNumber           string          `bson:"rfiNumber" json:"rfiNumber"`
	Title               string          `bson:"title" json:"title"`
	Description         string          `bson:"description" json:"description"`
	PublicSectorEntity  string          `bson:"publicSectorEntity" json:"publicSectorEntity"`
	ClosingAt           time.Time       `bson:"closingAt" json:"closingAt"`
	Categories          []string        `bson:"categories" json:"categories"`
	DiscoveryDay        bool            `bson:"discoveryDay" json:"discoveryDay"`
	Addenda             []Addendum      `bson:"addenda" json:"addenda"`
	Attachments         []bson.ObjectID `bson:"attachments" json:"-"`
	BuyerContact        *bson.ObjectID  `bson:"buyerContact,omitempty" json:"-"`
	ProgramStaffContact bson.ObjectID   `bson:"programStaffContact" json:"-"`
	CreatedBy           bson.ObjectID   `bson:"createdBy" json:"-"`
	CreatedAt           time.Time       `bson:"createdAt" json:"createdAt"`
}

type Attendee struct {
	Name   string `bson:"name" json:"name"`
	Email  string `bson:"email" json:"email"`
	Remote bool   `bson:"remote" json:"remote"`
}

type DiscoveryDayResponse struct {
	Vendor    bson.ObjectID `bson:"vendor"`
	Attendees []Attendee    `bson:"attendees"`
	CreatedAt time.Time     `bson:"createdAt"`
}

type Rfi struct {
	ID                    bson.ObjectID          `bson:"_id,omitempty"`
	CreatedAt             time.Time              `bson:"createdAt"`
	UpdatedAt             time.Time              `bson:"updatedAt"`
	PublishedAt           time.Time              `bson:"publishedAt"`
	Versions              []Version              `bson:"versions"`
	DiscoveryDayResponses []DiscoveryDayResponse `bson:"discoveryDayResponses"`
}

// LatestVersion returns the version with the newest CreatedAt, or nil if the
// RFI has no versions.
func (r *Rfi) LatestVersion() *Version {
	var latest *Version
	for i := range r.Versions {
		v := &r.Versions[i]
		if latest == nil || v.CreatedAt.After(latest.CreatedAt) {
			latest = v
		}
	}
	return latest
}

func (r *Rfi) HasBeenPublished() bool {
	return !r.PublishedAt.IsZero() && !r.PublishedAt.After(time.Now())
}

// FindDiscoveryDayResponse returns the vendor's registration, if any.
func (r *Rfi) FindDiscoveryDayResponse(vendor bson.ObjectID) *DiscoveryDayResponse {
	for i := range r.DiscoveryDayResponses {
		if r.DiscoveryDayResponses[i].Vendor == vendor {
			return &r.DiscoveryDayResponses[i]
		}
	}
	return nil
}

type PublicVersion struct {
	Version
	Attachments         []PublicFile `json:"attachments"`
	BuyerContact        *PublicUser  `json:"buyerContact,omitempty"`
	ProgramStaffContact *PublicUser  `json:"programStaffContact,omitempty"`
}

type PublicDiscoveryDayResponse struct {
	Vendor    PublicUser `json:"vendor"`
	Attendees []Attendee `json:"attendees"`
	CreatedAt time.Time  `json:"createdAt"`
}

type PublicRfi struct {
	ID                    bson.ObjectID                 `json:"_id"`
	CreatedAt             time.Time                     `json:"createdAt"`
	PublishedAt           time.Time                     `json:"publishedAt"`
	LatestVersion         *PublicVersion                `json:"latestVersion"`
	DiscoveryDayResponses []PublicDiscoveryDayResponse  `json:"discoveryDayResponses,omitempty"`
}

func resolvePublicUser(ctx context.Context, users UserStore, id bson.ObjectID) (*PublicUser, error) {
	user, err := users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	pu := MakePublicUser(user)
	return &pu, nil
}

// MakePublicRfi projects an RFI for the client, resolving the latest
// version's contacts and attachments through additional lookups. Discovery
// day responses are only included for program staff.
func MakePublicRfi(ctx context.Context, rfi *Rfi, users UserStore, files FileStore, session *Session) (PublicRfi, error) {
	public := PublicRfi{
		ID:          rfi.ID,
		CreatedAt:   rfi.CreatedAt,
		PublishedAt: rfi.PublishedAt,
	}
	version := rfi.LatestVersion()
	if version == nil {
		return public, nil
	}
	pv := PublicVersion{Version: *version}
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
	if version.BuyerContact != nil {
		buyer, err := resolvePublicUser(ctx, users, *version.BuyerContact)
		if err != nil {
			return public, err
		}
		pv.BuyerContact = buyer
	}
	staff, err := resolvePublicUser(ctx, users, version.ProgramStaffContact)
	if err != nil {
		return public, err
	}
	pv.ProgramStaffContact = staff
	public.LatestVersion = &pv

	if session != nil && session.User != nil && session.User.Type == UserTypeProgramStaff {
		public.DiscoveryDayResponses = make([]PublicDiscoveryDayResponse, 0, len(rfi.DiscoveryDayResponses))
		for _, ddr := range rfi.DiscoveryDayResponses {
			vendor, err := resolvePublicUser(ctx, users, ddr.Vendor)
			if err != nil {
				return public, err
			}
			if vendor == nil {
				continue
			}
			public.DiscoveryDayResponses = append(public.DiscoveryDayResponses, PublicDiscoveryDayResponse{
				Vendor:    *vendor,
				Attendees: ddr.Attendees,
				CreatedAt: ddr.CreatedAt,
			})
		}
	}
	return public, nil
}
