package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"
)

type UserType string

const (
	UserTypeBuyer        UserType = "buyer"
	UserTypeVendor       UserType = "vendor"
	UserTypeProgramStaff UserType = "program_staff"
)

func ParseUserType(raw string) (UserType, bool) {
	switch UserType(raw) {
	case UserTypeBuyer, UserTypeVendor, UserTypeProgramStaff:
		return UserType(raw), true
	}
	return "", false
}

type PhoneType string

const (
	PhoneTypeOffice PhoneType = "office"
	PhoneTypeCell   PhoneType = "cell"
)

type BuyerProfile struct {
	FirstName               string    `bson:"firstName" json:"firstName"`
	LastName                string    `bson:"lastName" json:"lastName"`
	PositionTitle           string    `bson:"positionTitle" json:"positionTitle"`
	PublicSectorEntity      string    `bson:"publicSectorEntity" json:"publicSectorEntity"`
	Branch                  *string   `bson:"branch,omitempty" json:"branch,omitempty"`
	ContactCity             *string   `bson:"contactCity,omitempty" json:"contactCity,omitempty"`
	ContactProvince         *string   `bson:"contactProvince,omitempty" json:"contactProvince,omitempty"`
	ContactPhoneNumber      *string   `bson:"contactPhoneNumber,omitempty" json:"contactPhoneNumber,omitempty"`
	ContactPhoneCountryCode *string   `bson:"contactPhoneCountryCode,omitempty" json:"contactPhoneCountryCode,omitempty"`
	ContactPhoneType        PhoneType `bson:"contactPhoneType,omitempty" json:"contactPhoneType,omitempty"`
	IndustrySectors         []string  `bson:"industrySectors" json:"industrySectors"`
	Categories              []string  `bson:"categories" json:"categories"`
}

type VendorProfile struct {
	BusinessName            string    `bson:"businessName" json:"businessName"`
	BusinessNumber          *string   `bson:"businessNumber,omitempty" json:"businessNumber,omitempty"`
	BusinessCity            *string   `bson:"businessCity,omitempty" json:"businessCity,omitempty"`
	BusinessProvince        *string   `bson:"businessProvince,omitempty" json:"businessProvince,omitempty"`
	BusinessCountry         *string   `bson:"businessCountry,omitempty" json:"businessCountry,omitempty"`
	ContactName             *string   `bson:"contactName,omitempty" json:"contactName,omitempty"`
	ContactPositionTitle    *string   `bson:"contactPositionTitle,omitempty" json:"contactPositionTitle,omitempty"`
	ContactEmail            *string   `bson:"contactEmail,omitempty" json:"contactEmail,omitempty"`
	ContactPhoneNumber      *string   `bson:"contactPhoneNumber,omitempty" json:"contactPhoneNumber,omitempty"`
	ContactPhoneCountryCode *string   `bson:"contactPhoneCountryCode,omitempty" json:"contactPhoneCountryCode,omitempty"`
	ContactPhoneType        PhoneType `bson:"contactPhoneType,omitempty" json:"contactPhoneType,omitempty"`
	IndustrySectors         []string  `bson:"industrySectors" json:"industrySectors"`
	Categories              []string  `bson:"categories" json:"categories"`
}

type ProgramStaffProfile struct {
	FirstName     string  `bson:"firstName" json:"firstName"`
	LastName      string  `bson:"lastName" json:"lastName"`
	PositionTitle string  `bson:"positionTitle" json:"positionTitle"`
	ContactCity   *string `bson:"contactCity,omitempty" json:"contactCity,omitempty"`
}

// Profile is a tagged union discriminated by Type. Exactly one variant
// payload is set, matching the tag.
type Profile struct {
	Type         UserType             `bson:"type" json:"type"`
	Buyer        *BuyerProfile        `bson:"buyer,omitempty" json:"buyer,omitempty"`
	Vendor       *VendorProfile       `bson:"vendor,omitempty" json:"vendor,omitempty"`
	ProgramStaff *ProgramStaffProfile `bson:"programStaff,omitempty" json:"programStaff,omitempty"`
}

type User struct {
	ID              bson.ObjectID  `bson:"_id,omitempty"`
	Email           string         `bson:"email"`
	PasswordHash    string         `bson:"passwordHash"`
	Active          bool           `bson:"active"`
	AcceptedTermsAt *time.Time     `bson:"acceptedTermsAt,omitempty"`
	Profile         Profile        `bson:"profile"`
	CreatedAt       time.Time      `bson:"createdAt"`
	UpdatedAt       time.Time      `bson:"updatedAt"`
	CreatedBy       *bson.ObjectID `bson:"createdBy,omitempty"`
	DeactivatedBy   *bson.ObjectID `bson:"deactivatedBy,omitempty"`
}

// PublicUser is the client-safe projection of a User. It carries no
// password hash field at all.
type PublicUser struct {
	ID              bson.ObjectID `json:"_id"`
	Email           string        `json:"email"`
	Active          bool          `json:"active"`
	AcceptedTermsAt *time.Time    `json:"acceptedTermsAt,omitempty"`
	Profile         Profile       `json:"profile"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

func MakePublicUser(user *User) PublicUser {
	return PublicUser{
		ID:              user.ID,
		Email:           user.Email,
		Active:          user.Active,
		AcceptedTermsAt: user.AcceptedTermsAt,
		Profile:         user.Profile,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// Authenticate reports whether the password matches the user's stored hash.
func Authenticate(user *User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
