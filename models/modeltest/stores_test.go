package modeltest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/procureconcierge/portalbackend/models"
)

func TestRfiStoreStampsTimestamps(t *testing.T) {
	store := NewRfiStore()
	rfi := &models.Rfi{Versions: []models.Version{{Title: "First"}}}

	require.NoError(t, store.Create(context.Background(), rfi))
	assert.False(t, rfi.ID.IsZero())
	assert.False(t, rfi.CreatedAt.IsZero())
	assert.Equal(t, rfi.CreatedAt, rfi.UpdatedAt)

	createdAt := rfi.CreatedAt
	time.Sleep(time.Millisecond)
	rfi.Versions = append(rfi.Versions, models.Version{Title: "Second"})
	require.NoError(t, store.Update(context.Background(), rfi))

	stored, err := store.FindByID(context.Background(), rfi.ID)
	require.NoError(t, err)
	assert.Equal(t, createdAt, stored.CreatedAt)
	assert.True(t, stored.UpdatedAt.After(stored.CreatedAt))
	require.Len(t, stored.Versions, 2)
}

func TestVendorIdeaStoreStampsTimestamps(t *testing.T) {
	store := NewVendorIdeaStore()
	idea := &models.VendorIdea{
		CreatedBy: bson.NewObjectID(),
		Versions:  []models.IdeaVersion{{}},
	}

	require.NoError(t, store.Create(context.Background(), idea))
	assert.False(t, idea.ID.IsZero())
	assert.False(t, idea.CreatedAt.IsZero())
	assert.Equal(t, idea.CreatedAt, idea.UpdatedAt)

	createdAt := idea.CreatedAt
	time.Sleep(time.Millisecond)
	idea.Versions = append(idea.Versions, models.IdeaVersion{})
	require.NoError(t, store.Update(context.Background(), idea))

	stored, err := store.FindByID(context.Background(), idea.ID)
	require.NoError(t, err)
	assert.Equal(t, createdAt, stored.CreatedAt)
	assert.True(t, stored.UpdatedAt.After(stored.CreatedAt))
}

func TestUpdateMissingDocumentIsNotFound(t *testing.T) {
	rfis := NewRfiStore()
	err := rfis.Update(context.Background(), &models.Rfi{ID: bson.NewObjectID()})
	assert.ErrorIs(t, err, models.ErrNotFound)

	ideas := NewVendorIdeaStore()
	err = ideas.Update(context.Background(), &models.VendorIdea{ID: bson.NewObjectID()})
	assert.ErrorIs(t, err, models.ErrNotFound)
}
