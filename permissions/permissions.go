// Package permissions holds pure predicates deciding whether a session may
// perform an action. Predicates never touch persistence; composite action
// predicates combine the basic checks with business rules.
package permissions

import (
	"github.com/procureconcierge/portalbackend/models"
)

// CurrentSessionID is the route-parameter alias for the caller's own session.
const CurrentSessionID = "current"

// ErrorMessage is the fixed body of every 401 response.
const ErrorMessage = "You do not have permission to perform this action."

func IsLoggedIn(session *models.Session) bool {
	return session != nil && session.User != nil
}

func IsBuyer(session *models.Session) bool {
	return IsLoggedIn(session) && session.User.Type == models.UserTypeBuyer
}

func IsVendor(session *models.Session) bool {
	return IsLoggedIn(session) && session.User.Type == models.UserTypeVendor
}

func IsProgramStaff(session *models.Session) bool {
	return IsLoggedIn(session) && session.User.Type == models.UserTypeProgramStaff
}

// IsOwnAccount compares the session's user id to id as strings, so it holds
// regardless of the underlying id representation.
func IsOwnAccount(session *models.Session, id string) bool {
	return IsLoggedIn(session) && session.User.ID.Hex() == id
}

func IsOwnSession(session *models.Session, id string) bool {
	return session != nil && session.SessionID.Hex() == id
}

func IsCurrentSession(id string) bool {
	return id == CurrentSessionID
}

// Users.

// CreateUser: anonymous signup may create buyers and vendors; only program
// staff may create program staff.
func CreateUser(session *models.Session, userType models.UserType) bool {
	if !IsLoggedIn(session) && userType != models.UserTypeProgramStaff {
		return true
	}
	return IsProgramStaff(session) && userType == models.UserTypeProgramStaff
}

func ReadOneUser(session *models.Session, id string) bool {
	return IsOwnAccount(session, id) || IsProgramStaff(session)
}

func ReadManyUsers(session *models.Session) bool {
	return IsProgramStaff(session)
}

func UpdateUser(session *models.Session, id string) bool {
	return IsOwnAccount(session, id)
}

// DeleteUser: a user may deactivate their own non-staff account; program
// staff may deactivate another staff account but never their own.
func DeleteUser(session *models.Session, userID string, userType models.UserType) bool {
	if IsOwnAccount(session, userID) && !IsProgramStaff(session) {
		return true
	}
	return IsProgramStaff(session) && userType == models.UserTypeProgramStaff && !IsOwnAccount(session, userID)
}

// Sessions.

func CreateSession(session *models.Session) bool {
	return !IsLoggedIn(session)
}

func ReadOneSession(session *models.Session, id string) bool {
	return IsCurrentSession(id) || IsOwnSession(session, id)
}

func DeleteSession(session *models.Session, id string) bool {
	return IsCurrentSession(id) || IsOwnSession(session, id)
}

// Forgot password tokens.

func CreateForgotPasswordToken(session *models.Session) bool {
	return !IsLoggedIn(session)
}

// Files.

func CreateFile(session *models.Session) bool {
	return IsLoggedIn(session)
}

func ReadOneFile() bool {
	return true
}

func ReadOneFileBlob(session *models.Session, authLevel models.AuthLevel) bool {
	return authLevel.Authorize(session)
}

// RFIs.

func CreateRfi(session *models.Session) bool {
	return IsProgramStaff(session)
}

func ReadOneRfi() bool {
	return true
}

func ReadManyRfis() bool {
	return true
}

func UpdateRfi(session *models.Session) bool {
	return IsProgramStaff(session)
}

// Discovery day responses.

func CreateDiscoveryDayResponse(session *models.Session) bool {
	return IsVendor(session)
}

// Vendor ideas.

func CreateVendorIdea(session *models.Session) bool {
	return IsVendor(session)
}

func ReadOneVendorIdea(session *models.Session) bool {
	return IsLoggedIn(session)
}

func ReadManyVendorIdeas(session *models.Session) bool {
	return IsLoggedIn(session)
}

// UpdateVendorIdea: the owning vendor may edit their idea; program staff may
// edit any idea.
func UpdateVendorIdea(session *models.Session, createdBy string) bool {
	return IsProgramStaff(session) || (IsVendor(session) && IsOwnAccount(session, createdBy))
}

// Feedback.

func CreateFeedback() bool {
	return true
}
