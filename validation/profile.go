package validation

import (
	"github.com/procureconcierge/portalbackend/models"
)

func optionalString(validate func(string) Result[string], raw *string, fe FieldErrors, field string) *string {
	if raw == nil {
		return nil
	}
	r := Optional(validate, *raw)
	if !r.Valid() {
		fe.Add(field, r.Errors()...)
		return nil
	}
	return r.Value(nil)
}

func validateBuyerProfile(raw *models.BuyerProfile) (*models.BuyerProfile, FieldErrors) {
	fe := FieldErrors{}
	if raw == nil {
		fe.Add("buyer", "Please provide a buyer profile.")
		return nil, fe
	}
	firstName := FirstName(raw.FirstName)
	lastName := LastName(raw.LastName)
	positionTitle := PositionTitle(raw.PositionTitle)
	entity := PublicSectorEntity(raw.PublicSectorEntity)
	fe.Add("firstName", firstName.Errors()...)
	fe.Add("lastName", lastName.Errors()...)
	fe.Add("positionTitle", positionTitle.Errors()...)
	fe.Add("publicSectorEntity", entity.Errors()...)
	if len(raw.IndustrySectors) == 0 {
		fe.Add("industrySectors", "Please select at least one Industry Sector.")
	}
	if len(raw.Categories) == 0 {
		fe.Add("categories", "Please select at least one Area of Interest.")
	}
	sectors := IndustrySectors(raw.IndustrySectors)
	categories := Categories(raw.Categories, "Area of Interest")
	fe.Add("industrySectors", sectors.Errors()...)
	fe.Add("categories", categories.Errors()...)
	profile := models.BuyerProfile{
		FirstName:          firstName.Value(""),
		LastName:           lastName.Value(""),
		PositionTitle:      positionTitle.Value(""),
		PublicSectorEntity: entity.Value(""),
		IndustrySectors:    sectors.Value(nil),
		Categories:         categories.Value(nil),
	}
	profile.Branch = optionalString(Branch, raw.Branch, fe, "branch")
	profile.ContactCity = optionalString(City, raw.ContactCity, fe, "contactCity")
	profile.ContactProvince = optionalString(Province, raw.ContactProvince, fe, "contactProvince")
	profile.ContactPhoneNumber = optionalString(PhoneNumber, raw.ContactPhoneNumber, fe, "contactPhoneNumber")
	profile.ContactPhoneCountryCode = optionalString(PhoneCountryCode, raw.ContactPhoneCountryCode, fe, "contactPhoneCountryCode")
	if raw.ContactPhoneType != "" {
		phoneType := PhoneType(string(raw.ContactPhoneType))
		fe.Add("contactPhoneType", phoneType.Errors()...)
		profile.ContactPhoneType = phoneType.Value("")
	}
	if fe.Any() {
		return nil, fe
	}
	return &profile, nil
}

func validateVendorProfile(raw *models.VendorProfile) (*models.VendorProfile, FieldErrors) {
	fe := FieldErrors{}
	if raw == nil {
		fe.Add("vendor", "Please provide a vendor profile.")
		return nil, fe
	}
	businessName := BusinessName(raw.BusinessName)
	fe.Add("businessName", businessName.Errors()...)
	if len(raw.IndustrySectors) == 0 {
		fe.Add("industrySectors", "Please select at least one Industry Sector.")
	}
	if len(raw.Categories) == 0 {
		fe.Add("categories", "Please select at least one Area of Interest.")
	}
	sectors := IndustrySectors(raw.IndustrySectors)
	categories := Categories(raw.Categories, "Area of Interest")
	fe.Add("industrySectors", sectors.Errors()...)
	fe.Add("categories", categories.Errors()...)
	profile := models.VendorProfile{
		BusinessName:    businessName.Value(""),
		IndustrySectors: sectors.Value(nil),
		Categories:      categories.Value(nil),
	}
	profile.BusinessNumber = optionalString(BusinessNumber, raw.BusinessNumber, fe, "businessNumber")
	profile.BusinessCity = optionalString(City, raw.BusinessCity, fe, "businessCity")
	profile.BusinessProvince = optionalString(Province, raw.BusinessProvince, fe, "businessProvince")
	profile.BusinessCountry = optionalString(Country, raw.BusinessCountry, fe, "businessCountry")
	profile.ContactName = optionalString(ContactName, raw.ContactName, fe, "contactName")
	profile.ContactPositionTitle = optionalString(PositionTitle, raw.ContactPositionTitle, fe, "contactPositionTitle")
	profile.ContactEmail = optionalString(Email, raw.ContactEmail, fe, "contactEmail")
	profile.ContactPhoneNumber = optionalString(PhoneNumber, raw.ContactPhoneNumber, fe, "contactPhoneNumber")
	profile.ContactPhoneCountryCode = optionalString(PhoneCountryCode, raw.ContactPhoneCountryCode, fe, "contactPhoneCountryCode")
	if raw.ContactPhoneType != "" {
		phoneType := PhoneType(string(raw.ContactPhoneType))
		fe.Add("contactPhoneType", phoneType.Errors()...)
		profile.ContactPhoneType = phoneType.Value("")
	}
	if fe.Any() {
		return nil, fe
	}
	return &profile, nil
}

func validateProgramStaffProfile(raw *models.ProgramStaffProfile) (*models.ProgramStaffProfile, FieldErrors) {
	fe := FieldErrors{}
	if raw == nil {
		fe.Add("programStaff", "Please provide a program staff profile.")
		return nil, fe
	}
	firstName := FirstName(raw.FirstName)
	lastName := LastName(raw.LastName)
	positionTitle := PositionTitle(raw.PositionTitle)
	fe.Add("firstName", firstName.Errors()...)
	fe.Add("lastName", lastName.Errors()...)
	fe.Add("positionTitle", positionTitle.Errors()...)
	profile := models.ProgramStaffProfile{
		FirstName:     firstName.Value(""),
		LastName:      lastName.Value(""),
		PositionTitle: positionTitle.Value(""),
	}
	profile.ContactCity = optionalString(City, raw.ContactCity, fe, "contactCity")
	if fe.Any() {
		return nil, fe
	}
	return &profile, nil
}

// Profile validates the tagged union exhaustively on its discriminant. The
// returned profile carries exactly the variant matching its tag.
func Profile(raw models.Profile) (models.Profile, FieldErrors) {
	fe := FieldErrors{}
	userType := UserType(string(raw.Type))
	if !userType.Valid() {
		fe.Add("type", userType.Errors()...)
		return models.Profile{}, fe
	}
	profile := models.Profile{Type: userType.Value("")}
	switch profile.Type {
	case models.UserTypeBuyer:
		buyer, errs := validateBuyerProfile(raw.Buyer)
		if errs.Any() {
			return models.Profile{}, errs
		}
		profile.Buyer = buyer
	case models.UserTypeVendor:
		vendor, errs := validateVendorProfile(raw.Vendor)
		if errs.Any() {
			return models.Profile{}, errs
		}
		profile.Vendor = vendor
	case models.UserTypeProgramStaff:
		staff, errs := validateProgramStaffProfile(raw.ProgramStaff)
		if errs.Any() {
			return models.Profile{}, errs
		}
		profile.ProgramStaff = staff
	}
	return profile, nil
}
