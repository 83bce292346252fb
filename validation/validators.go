package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/procureconcierge/portalbackend/models"
)

var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// GenericString trims the value and enforces a length range.
func GenericString(value, name string, minLength, maxLength int) Result[string] {
	value = strings.TrimSpace(value)
	if len(value) < minLength || len(value) > maxLength {
		return Invalid[string](fmt.Sprintf("%s must be between %d and %d characters long.", name, minLength, maxLength))
	}
	return Valid(value)
}

func Email(email string) Result[string] {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegexp.MatchString(email) {
		return Invalid[string]("Please enter a valid email address.")
	}
	return Valid(email)
}

// Password enforces the password policy and returns the bcrypt hash of the
// accepted password, never the plain text.
func Password(password string) Result[string] {
	var errs []string
	if len(password) < 8 {
		errs = append(errs, "Passwords must be at least 8 characters long.")
	}
	if !strings.ContainsFunc(password, func(r rune) bool { return r >= '0' && r <= '9' }) {
		errs = append(errs, "Passwords must contain at least one number.")
	}
	if len(errs) > 0 {
		return Invalid[string](errs...)
	}
	hash, err := models.HashPassword(password)
	if err != nil {
		return Invalid[string]("Unable to process the supplied password.")
	}
	return Valid(hash)
}

func FirstName(value string) Result[string] {
	return GenericString(value, "First Name", 1, 100)
}

func LastName(value string) Result[string] {
	return GenericString(value, "Last Name", 1, 100)
}

func PositionTitle(value string) Result[string] {
	return GenericString(value, "Position Title", 1, 200)
}

func BusinessName(value string) Result[string] {
	return GenericString(value, "Business Name", 1, 200)
}

func BusinessNumber(value string) Result[string] {
	return GenericString(value, "Business Number", 1, 20)
}

func PublicSectorEntity(value string) Result[string] {
	return GenericString(value, "Public Sector Entity", 1, 200)
}

func Branch(value string) Result[string] {
	return GenericString(value, "Branch", 1, 200)
}

func City(value string) Result[string] {
	return GenericString(value, "City", 1, 100)
}

func Province(value string) Result[string] {
	return GenericString(value, "Province", 1, 100)
}

func Country(value string) Result[string] {
	return GenericString(value, "Country", 1, 100)
}

func ContactName(value string) Result[string] {
	return GenericString(value, "Contact Name", 1, 200)
}

var phoneNumberRegexp = regexp.MustCompile(`^[0-9 ()+.-]{7,20}$`)

func PhoneNumber(value string) Result[string] {
	value = strings.TrimSpace(value)
	if !phoneNumberRegexp.MatchString(value) {
		return Invalid[string]("Please enter a valid phone number.")
	}
	return Valid(value)
}

var phoneCountryCodeRegexp = regexp.MustCompile(`^\+?[0-9]{1,3}$`)

func PhoneCountryCode(value string) Result[string] {
	value = strings.TrimSpace(value)
	if !phoneCountryCodeRegexp.MatchString(value) {
		return Invalid[string]("Please enter a valid country code.")
	}
	return Valid(value)
}

func PhoneType(value string) Result[models.PhoneType] {
	switch models.PhoneType(value) {
	case models.PhoneTypeOffice, models.PhoneTypeCell:
		return Valid(models.PhoneType(value))
	}
	return Invalid[models.PhoneType](`Please select a valid phone type; either "office" or "cell".`)
}

// StringList validates each entry of a list as a generic string, labelling
// errors with the entry's position.
func StringList(values []string, name string) Result[[]string] {
	out := make([]string, 0, len(values))
	var errs []string
	for i, v := range values {
		r := GenericString(v, fmt.Sprintf("%s %d", name, i+1), 1, 150)
		if !r.Valid() {
			errs = append(errs, r.Errors()...)
			continue
		}
		out = append(out, r.Value(""))
	}
	if len(errs) > 0 {
		return Invalid[[]string](errs...)
	}
	return Valid(out)
}

func Categories(values []string, name string) Result[[]string] {
	return StringList(values, name)
}

func IndustrySectors(values []string) Result[[]string] {
	return StringList(values, "Industry Sector")
}

func UserType(raw string) Result[models.UserType] {
	t, ok := models.ParseUserType(raw)
	if !ok {
		return Invalid[models.UserType](`Please select a valid User Type; either "buyer", "vendor" or "program_staff".`)
	}
	return Valid(t)
}

func Rating(raw string) Result[models.Rating] {
	if raw == "" {
		return Invalid[models.Rating]("Rating not selected.")
	}
	r, ok := models.ParseRating(raw)
	if !ok {
		return Invalid[models.Rating]("Not a valid rating.")
	}
	return Valid(r)
}

func FeedbackText(text string) Result[string] {
	return GenericString(text, "Feedback", 1, 2000)
}

// ClosingDate accepts a calendar date formatted as YYYY-MM-DD.
func ClosingDate(raw string) Result[string] {
	raw = strings.TrimSpace(raw)
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		return Invalid[string]("Please enter a valid closing date (YYYY-MM-DD).")
	}
	return Valid(raw)
}

// ClosingTime accepts a wall-clock time formatted as HH:MM and, combined
// with the validated closing date, requires the closing moment to be in the
// future.
func ClosingTime(raw, closingDate string) Result[string] {
	raw = strings.TrimSpace(raw)
	if _, err := time.Parse("15:04", raw); err != nil {
		return Invalid[string]("Please enter a valid closing time (HH:MM).")
	}
	if closingDate != "" {
		at, err := time.Parse("2006-01-02 15:04", closingDate+" "+raw)
		if err == nil && !at.After(time.Now()) {
			return Invalid[string]("The closing date and time must be in the future.")
		}
	}
	return Valid(raw)
}

func RfiNumber(value string) Result[string] {
	return GenericString(value, "RFI Number", 1, 200)
}

func Title(value string) Result[string] {
	return GenericString(value, "Title", 1, 200)
}

func Description(value string) Result[string] {
	return GenericString(value, "Description", 1, 20000)
}

// AddendumDescriptions validates each addendum, letting the delete sentinel
// pass through untouched so positional diffing can see it.
func AddendumDescriptions(values []string) Result[[]string] {
	out := make([]string, 0, len(values))
	var errs []string
	for i, v := range values {
		if v == models.DeleteAddendumToken {
			out = append(out, v)
			continue
		}
		r := GenericString(v, fmt.Sprintf("Addendum %d", i+1), 1, 5000)
		if !r.Valid() {
			errs = append(errs, r.Errors()...)
			continue
		}
		out = append(out, r.Value(""))
	}
	if len(errs) > 0 {
		return Invalid[[]string](errs...)
	}
	return Valid(out)
}

var fileNameRegexp = regexp.MustCompile(`^[^/\\]{1,250}$`)

func FileName(value string) Result[string] {
	value = strings.TrimSpace(value)
	if !fileNameRegexp.MatchString(value) {
		return Invalid[string]("Please provide a valid file name.")
	}
	return Valid(value)
}
