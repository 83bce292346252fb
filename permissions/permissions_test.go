package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/procureconcierge/portalbackend/models"
)

func sessionFor(userType models.UserType) (*models.Session, bson.ObjectID) {
	id := bson.NewObjectID()
	return &models.Session{
		ID:        bson.NewObjectID(),
		SessionID: bson.NewObjectID(),
		User:      &models.SessionUser{ID: id, Type: userType},
	}, id
}

func anonymous() *models.Session {
	return &models.Session{ID: bson.NewObjectID(), SessionID: bson.NewObjectID()}
}

func TestIsOwnAccountComparesIDStrings(t *testing.T) {
	session, id := sessionFor(models.UserTypeVendor)
	assert.True(t, IsOwnAccount(session, id.Hex()))
	assert.False(t, IsOwnAccount(session, bson.NewObjectID().Hex()))
	assert.False(t, IsOwnAccount(anonymous(), id.Hex()))
	assert.False(t, IsOwnAccount(nil, id.Hex()))
}

func TestRoleChecks(t *testing.T) {
	buyer, _ := sessionFor(models.UserTypeBuyer)
	vendor, _ := sessionFor(models.UserTypeVendor)
	staff, _ := sessionFor(models.UserTypeProgramStaff)

	assert.True(t, IsBuyer(buyer))
	assert.False(t, IsBuyer(vendor))
	assert.True(t, IsVendor(vendor))
	assert.True(t, IsProgramStaff(staff))
	assert.False(t, IsProgramStaff(anonymous()))
	assert.False(t, IsLoggedIn(nil))
}

func TestCreateUser(t *testing.T) {
	staff, _ := sessionFor(models.UserTypeProgramStaff)
	vendor, _ := sessionFor(models.UserTypeVendor)

	assert.True(t, CreateUser(anonymous(), models.UserTypeBuyer))
	assert.True(t, CreateUser(anonymous(), models.UserTypeVendor))
	assert.False(t, CreateUser(anonymous(), models.UserTypeProgramStaff))
	assert.True(t, CreateUser(staff, models.UserTypeProgramStaff))
	assert.False(t, CreateUser(vendor, models.UserTypeProgramStaff))
	assert.False(t, CreateUser(vendor, models.UserTypeVendor))
}

func TestDeleteUser(t *testing.T) {
	vendor, vendorID := sessionFor(models.UserTypeVendor)
	staff, staffID := sessionFor(models.UserTypeProgramStaff)
	otherStaffID := bson.NewObjectID()

	// A user may deactivate their own non-staff account.
	assert.True(t, DeleteUser(vendor, vendorID.Hex(), models.UserTypeVendor))
	// But not somebody else's.
	assert.False(t, DeleteUser(vendor, otherStaffID.Hex(), models.UserTypeVendor))
	// Staff may deactivate another staff account.
	assert.True(t, DeleteUser(staff, otherStaffID.Hex(), models.UserTypeProgramStaff))
	// Staff may never deactivate their own account.
	assert.False(t, DeleteUser(staff, staffID.Hex(), models.UserTypeProgramStaff))
	// Staff may not deactivate non-staff accounts.
	assert.False(t, DeleteUser(staff, otherStaffID.Hex(), models.UserTypeVendor))
	assert.False(t, DeleteUser(anonymous(), vendorID.Hex(), models.UserTypeVendor))
}

func TestSessionPredicates(t *testing.T) {
	session := anonymous()

	assert.True(t, CreateSession(session))
	loggedIn, _ := sessionFor(models.UserTypeBuyer)
	assert.False(t, CreateSession(loggedIn))

	assert.True(t, ReadOneSession(session, CurrentSessionID))
	assert.True(t, ReadOneSession(session, session.SessionID.Hex()))
	assert.False(t, ReadOneSession(session, bson.NewObjectID().Hex()))

	assert.True(t, DeleteSession(session, CurrentSessionID))
	assert.False(t, DeleteSession(session, bson.NewObjectID().Hex()))
}

func TestRfiPredicates(t *testing.T) {
	staff, _ := sessionFor(models.UserTypeProgramStaff)
	vendor, _ := sessionFor(models.UserTypeVendor)

	assert.True(t, CreateRfi(staff))
	assert.False(t, CreateRfi(vendor))
	assert.True(t, UpdateRfi(staff))
	assert.False(t, UpdateRfi(anonymous()))
	assert.True(t, ReadOneRfi())
	assert.True(t, ReadManyRfis())
	assert.True(t, CreateDiscoveryDayResponse(vendor))
	assert.False(t, CreateDiscoveryDayResponse(staff))
}

func TestVendorIdeaPredicates(t *testing.T) {
	vendor, vendorID := sessionFor(models.UserTypeVendor)
	staff, _ := sessionFor(models.UserTypeProgramStaff)

	assert.True(t, CreateVendorIdea(vendor))
	assert.False(t, CreateVendorIdea(staff))
	assert.True(t, UpdateVendorIdea(vendor, vendorID.Hex()))
	assert.False(t, UpdateVendorIdea(vendor, bson.NewObjectID().Hex()))
	assert.True(t, UpdateVendorIdea(staff, bson.NewObjectID().Hex()))
}

func TestFileBlobAuthLevels(t *testing.T) {
	vendor, _ := sessionFor(models.UserTypeVendor)

	assert.True(t, ReadOneFileBlob(anonymous(), models.AuthLevel{Tag: models.AuthLevelAny}))
	assert.False(t, ReadOneFileBlob(anonymous(), models.AuthLevel{Tag: models.AuthLevelSignedIn}))
	assert.True(t, ReadOneFileBlob(vendor, models.AuthLevel{Tag: models.AuthLevelSignedIn}))
	assert.True(t, ReadOneFileBlob(vendor, models.AuthLevel{
		Tag:       models.AuthLevelUserType,
		UserTypes: []models.UserType{models.UserTypeVendor},
	}))
	assert.False(t, ReadOneFileBlob(vendor, models.AuthLevel{
		Tag:       models.AuthLevelUserType,
		UserTypes: []models.UserType{models.UserTypeProgramStaff},
	}))
}
