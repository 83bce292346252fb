package resources

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procureconcierge/portalbackend/models"
)

func addendum(description string, createdAt, updatedAt time.Time) models.Addendum {
	return models.Addendum{Description: description, CreatedAt: createdAt, UpdatedAt: updatedAt}
}

func TestDiffAddendaKeepsTimestampsByPosition(t *testing.T) {
	created := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	current := &models.Version{
		Addenda: []models.Addendum{
			addendum("first", created, updated),
			addendum("second", created, updated),
		},
	}
	submitted := []models.Addendum{
		addendum("first", now, now),
		addendum("second, revised", now, now),
		addendum("third", now, now),
	}

	out := diffAddenda(current, submitted, now)
	require.Len(t, out, 3)

	// Unchanged text keeps both original timestamps.
	assert.Equal(t, "first", out[0].Description)
	assert.Equal(t, created, out[0].CreatedAt)
	assert.Equal(t, updated, out[0].UpdatedAt)

	// Changed text keeps createdAt but gets a fresh updatedAt.
	assert.Equal(t, "second, revised", out[1].Description)
	assert.Equal(t, created, out[1].CreatedAt)
	assert.Equal(t, now, out[1].UpdatedAt)

	// Positions past the current list keep the submitted timestamps.
	assert.Equal(t, "third", out[2].Description)
	assert.Equal(t, now, out[2].CreatedAt)
}

func TestDiffAddendaWithoutCurrentVersion(t *testing.T) {
	now := time.Now().UTC()
	submitted := []models.Addendum{addendum("only", now, now)}

	out := diffAddenda(nil, submitted, now)
	require.Len(t, out, 1)
	assert.Equal(t, submitted[0], out[0])
}

func TestDropDeletedAddenda(t *testing.T) {
	now := time.Now().UTC()
	addenda := []models.Addendum{
		addendum("keep", now, now),
		addendum(models.DeleteAddendumToken, now, now),
		addendum("also keep", now, now),
	}

	kept := dropDeletedAddenda(addenda)
	require.Len(t, kept, 2)
	assert.Equal(t, "keep", kept[0].Description)
	assert.Equal(t, "also keep", kept[1].Description)

	assert.Empty(t, dropDeletedAddenda(nil))
}

func TestDeleteMarkedAddendumSurvivesDiffThenDrops(t *testing.T) {
	created := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	now := created.AddDate(0, 1, 0)

	current := &models.Version{
		Addenda: []models.Addendum{
			addendum("first", created, created),
			addendum("second", created, created),
		},
	}
	submitted := []models.Addendum{
		addendum(models.DeleteAddendumToken, now, now),
		addendum("second", now, now),
	}

	out := dropDeletedAddenda(diffAddenda(current, submitted, now))
	require.Len(t, out, 1)
	// The survivor matched its own position, so its timestamps are retained.
	assert.Equal(t, "second", out[0].Description)
	assert.Equal(t, created, out[0].CreatedAt)
	assert.Equal(t, created, out[0].UpdatedAt)
}
