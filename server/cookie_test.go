package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestSessionCookieRoundTrip(t *testing.T) {
	id := bson.NewObjectID()

	signed, err := SignSessionID(id, "token-secret")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	assert.Equal(t, id, ParseSessionID(signed, "token-secret"))
}

func TestParseSessionIDMintsFreshIDOnFailure(t *testing.T) {
	id := bson.NewObjectID()
	signed, err := SignSessionID(id, "token-secret")
	require.NoError(t, err)

	// Empty, garbage and wrongly-signed values all fall back to a new id.
	assert.NotEqual(t, id, ParseSessionID("", "token-secret"))
	assert.NotEqual(t, id, ParseSessionID("not-a-token", "token-secret"))
	assert.NotEqual(t, id, ParseSessionID(signed, "other-secret"))
	assert.NotEqual(t, id, ParseSessionID(signed+"x", "token-secret"))

	// Fallback ids are themselves unique.
	assert.NotEqual(t, ParseSessionID("", "token-secret"), ParseSessionID("", "token-secret"))
}
