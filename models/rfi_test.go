package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestLatestVersion(t *testing.T) {
	empty := &Rfi{}
	assert.Nil(t, empty.LatestVersion())

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rfi := &Rfi{
		Versions: []Version{
			{Title: "second", CreatedAt: base.Add(time.Hour)},
			{Title: "first", CreatedAt: base},
			{Title: "third", CreatedAt: base.Add(2 * time.Hour)},
		},
	}
	latest := rfi.LatestVersion()
	require.NotNil(t, latest)
	assert.Equal(t, "third", latest.Title)
}

func TestHasBeenPublished(t *testing.T) {
	assert.False(t, (&Rfi{}).HasBeenPublished())
	assert.False(t, (&Rfi{PublishedAt: time.Now().Add(time.Hour)}).HasBeenPublished())
	assert.True(t, (&Rfi{PublishedAt: time.Now().Add(-time.Hour)}).HasBeenPublished())
}

func TestFindDiscoveryDayResponse(t *testing.T) {
	vendor := bson.NewObjectID()
	other := bson.NewObjectID()
	rfi := &Rfi{
		DiscoveryDayResponses: []DiscoveryDayResponse{
			{Vendor: other},
			{Vendor: vendor, Attendees: []Attendee{{Name: "Pat", Email: "pat@example.com"}}},
		},
	}

	found := rfi.FindDiscoveryDayResponse(vendor)
	require.NotNil(t, found)
	assert.Equal(t, "Pat", found.Attendees[0].Name)

	assert.Nil(t, rfi.FindDiscoveryDayResponse(bson.NewObjectID()))
}
