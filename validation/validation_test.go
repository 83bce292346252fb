package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/procureconcierge/portalbackend/models"
)

func TestResult(t *testing.T) {
	valid := Valid("hello")
	assert.True(t, valid.Valid())
	assert.Equal(t, "hello", valid.Value("fallback"))
	assert.Nil(t, valid.Errors())

	invalid := Invalid[string]("bad")
	assert.False(t, invalid.Valid())
	assert.Equal(t, "fallback", invalid.Value("fallback"))
	assert.Equal(t, []string{"bad"}, invalid.Errors())
}

func TestAllValid(t *testing.T) {
	assert.True(t, AllValid())
	assert.True(t, AllValid(Valid("a"), Valid(1)))
	assert.False(t, AllValid(Valid("a"), Invalid[int]("bad")))
}

func TestOptional(t *testing.T) {
	absent := Optional(Email, "")
	assert.True(t, absent.Valid())
	assert.Nil(t, absent.Value(nil))

	present := Optional(Email, "A@B.com")
	require.True(t, present.Valid())
	require.NotNil(t, present.Value(nil))
	assert.Equal(t, "a@b.com", *present.Value(nil))

	bad := Optional(Email, "not-an-email")
	assert.False(t, bad.Valid())
}

func TestFieldErrors(t *testing.T) {
	fe := FieldErrors{}
	assert.False(t, fe.Any())

	fe.Add("email")
	assert.False(t, fe.Any(), "empty error lists must not register as errors")

	fe.Add("email", "bad email")
	assert.True(t, fe.Any())

	nested := FieldErrors{"firstName": {"required"}}
	fe.Merge("profile", nested)
	assert.Equal(t, []string{"required"}, fe["profile.firstName"])
}

func TestEmail(t *testing.T) {
	valid := Email("  Someone@Example.COM ")
	require.True(t, valid.Valid())
	assert.Equal(t, "someone@example.com", valid.Value(""))

	assert.False(t, Email("nope").Valid())
	assert.False(t, Email("").Valid())
}

func TestPasswordHashes(t *testing.T) {
	result := Password("hunter2abc")
	require.True(t, result.Valid())
	hash := result.Value("")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2abc")))

	assert.False(t, Password("short1").Valid())
	assert.False(t, Password("nodigitshere").Valid())
}

func TestClosingDateAndTime(t *testing.T) {
	assert.True(t, ClosingDate("2099-01-15").Valid())
	assert.False(t, ClosingDate("15/01/2099").Valid())

	assert.True(t, ClosingTime("14:30", "2099-01-15").Valid())
	assert.False(t, ClosingTime("14:30", "2000-01-15").Valid(), "closing moment must be in the future")
	assert.False(t, ClosingTime("2pm", "2099-01-15").Valid())
}

func TestAddendumDescriptionsKeepsDeleteToken(t *testing.T) {
	result := AddendumDescriptions([]string{"first", models.DeleteAddendumToken, "second"})
	require.True(t, result.Valid())
	assert.Equal(t, []string{"first", models.DeleteAddendumToken, "second"}, result.Value(nil))

	assert.False(t, AddendumDescriptions([]string{""}).Valid())
}

func TestProfileSwitchesOnTag(t *testing.T) {
	buyer := models.Profile{
		Type: models.UserTypeBuyer,
		Buyer: &models.BuyerProfile{
			FirstName:          "Ada",
			LastName:           "Lovelace",
			PositionTitle:      "Director",
			PublicSectorEntity: "Ministry of Works",
			IndustrySectors:    []string{"Construction"},
			Categories:         []string{"Services"},
		},
	}
	validated, fe := Profile(buyer)
	assert.False(t, fe.Any(), "expected no errors, got %v", fe)
	assert.Equal(t, models.UserTypeBuyer, validated.Type)
	require.NotNil(t, validated.Buyer)
	assert.Equal(t, "Ada", validated.Buyer.FirstName)

	_, fe = Profile(models.Profile{Type: "astronaut"})
	assert.True(t, fe.Any())

	_, fe = Profile(models.Profile{Type: models.UserTypeVendor})
	assert.True(t, fe.Any(), "missing variant payload must be invalid")
}
