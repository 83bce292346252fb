package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestMakePublicUserOmitsPasswordHash(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	user := &User{
		ID:           bson.NewObjectID(),
		Email:        "vendor@example.com",
		PasswordHash: "$2a$10$secretsecretsecretsecret",
		Active:       true,
		Profile: Profile{
			Type:   UserTypeVendor,
			Vendor: &VendorProfile{BusinessName: "Acme Widgets"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	public := MakePublicUser(user)
	raw, err := json.Marshal(public)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	_, present := fields["passwordHash"]
	assert.False(t, present)
	assert.NotContains(t, string(raw), "secretsecret")
	assert.Equal(t, "vendor@example.com", fields["email"])
}

func TestAuthenticate(t *testing.T) {
	hash, err := HashPassword("correct-horse1")
	require.NoError(t, err)
	user := &User{PasswordHash: hash}

	assert.True(t, Authenticate(user, "correct-horse1"))
	assert.False(t, Authenticate(user, "wrong-horse1"))
	assert.False(t, Authenticate(user, ""))
}

func TestParseUserType(t *testing.T) {
	got, ok := ParseUserType("program_staff")
	assert.True(t, ok)
	assert.Equal(t, UserTypeProgramStaff, got)

	_, ok = ParseUserType("astronaut")
	assert.False(t, ok)
}
