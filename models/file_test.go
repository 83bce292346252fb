package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestHashFileDeterminism(t *testing.T) {
	level := AuthLevel{Tag: AuthLevelAny}

	first, err := HashFile("report.pdf", strings.NewReader("content"), level)
	require.NoError(t, err)
	second, err := HashFile("report.pdf", strings.NewReader("content"), level)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	otherName, err := HashFile("other.pdf", strings.NewReader("content"), level)
	require.NoError(t, err)
	assert.NotEqual(t, first, otherName)

	otherContent, err := HashFile("report.pdf", strings.NewReader("different"), level)
	require.NoError(t, err)
	assert.NotEqual(t, first, otherContent)

	otherLevel, err := HashFile("report.pdf", strings.NewReader("content"), AuthLevel{Tag: AuthLevelSignedIn})
	require.NoError(t, err)
	assert.NotEqual(t, first, otherLevel)

	staffOnly, err := HashFile("report.pdf", strings.NewReader("content"), AuthLevel{
		Tag:       AuthLevelUserType,
		UserTypes: []UserType{UserTypeProgramStaff},
	})
	require.NoError(t, err)
	vendorOnly, err := HashFile("report.pdf", strings.NewReader("content"), AuthLevel{
		Tag:       AuthLevelUserType,
		UserTypes: []UserType{UserTypeVendor},
	})
	require.NoError(t, err)
	assert.NotEqual(t, staffOnly, vendorOnly)
}

func TestStorageName(t *testing.T) {
	id := bson.NewObjectID()
	file := &File{ID: id, OriginalName: "Rapport Financier Été 2026.PDF"}

	name := file.StorageName()
	assert.Equal(t, id.Hex()+"_rapport-financier-ete-2026.pdf", name)
}

func TestAuthLevelAuthorize(t *testing.T) {
	vendorSession := &Session{User: &SessionUser{ID: bson.NewObjectID(), Type: UserTypeVendor}}

	assert.True(t, AuthLevel{Tag: AuthLevelAny}.Authorize(nil))
	assert.False(t, AuthLevel{Tag: AuthLevelSignedIn}.Authorize(nil))
	assert.False(t, AuthLevel{Tag: AuthLevelSignedIn}.Authorize(&Session{}))
	assert.True(t, AuthLevel{Tag: AuthLevelSignedIn}.Authorize(vendorSession))

	typed := AuthLevel{Tag: AuthLevelUserType, UserTypes: []UserType{UserTypeBuyer, UserTypeVendor}}
	assert.True(t, typed.Authorize(vendorSession))
	assert.False(t, typed.Authorize(&Session{User: &SessionUser{Type: UserTypeProgramStaff}}))
	assert.False(t, typed.Authorize(nil))
}
