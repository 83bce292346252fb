package resources

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procureconcierge/portalbackend/models"
	"github.com/procureconcierge/portalbackend/models/modeltest"
)

func seedDiscoveryDayRfi(t *testing.T, rfis *modeltest.RfiStore, staff *models.User, discoveryDay bool) *models.Rfi {
	t.Helper()
	created := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	rfi := &models.Rfi{
		PublishedAt: created,
		Versions: []models.Version{{
			RfiNumber:           "RFI-001",
			Title:               "Widget modernization",
			DiscoveryDay:        discoveryDay,
			ProgramStaffContact: staff.ID,
			CreatedBy:           staff.ID,
			CreatedAt:           created,
		}},
	}
	require.NoError(t, rfis.Create(context.Background(), rfi))
	return rfi
}

func seedStaff(t *testing.T, users *modeltest.UserStore, email string) *models.User {
	t.Helper()
	hash, err := models.HashPassword("staff-pass1")
	require.NoError(t, err)
	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Active:       true,
		Profile: models.Profile{
			Type:         models.UserTypeProgramStaff,
			ProgramStaff: &models.ProgramStaffProfile{FirstName: "Sam", LastName: "Staff", PositionTitle: "Coordinator"},
		},
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestDiscoveryDayRegistrationAndReRegistration(t *testing.T) {
	users := modeltest.NewUserStore()
	rfis := modeltest.NewRfiStore()
	notifier := modeltest.NewNotifier()
	resource := &DiscoveryDayResponseResource{Rfis: rfis, Users: users, Mailer: notifier}

	staff := seedStaff(t, users, "staff@example.com")
	vendor := seedVendor(t, users, "vendor@example.com", "vendor-pass1")
	rfi := seedDiscoveryDayRfi(t, rfis, staff, true)

	payload := map[string]any{
		"rfiId": rfi.ID.Hex(),
		"attendees": []map[string]any{
			{"name": "Pat Doe", "email": "pat@example.com", "remote": false},
		},
	}
	req := jsonRequest(t, sessionFor(vendor), nil, payload)
	resp := runHandler(t, resource.Create(), req)
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Contains(t, notifier.Sent(), "discoveryDaySubmitted:staff@example.com")

	stored, err := rfis.FindByID(context.Background(), rfi.ID)
	require.NoError(t, err)
	require.Len(t, stored.DiscoveryDayResponses, 1)
	firstCreatedAt := stored.DiscoveryDayResponses[0].CreatedAt

	// Registering again replaces the attendee list instead of appending a
	// second registration.
	payload["attendees"] = []map[string]any{
		{"name": "Pat Doe", "email": "pat@example.com", "remote": false},
		{"name": "Sam Lee", "email": "sam@example.com", "remote": true},
	}
	req = jsonRequest(t, sessionFor(vendor), nil, payload)
	resp = runHandler(t, resource.Create(), req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, notifier.Sent(), "discoveryDayUpdated:staff@example.com")

	stored, err = rfis.FindByID(context.Background(), rfi.ID)
	require.NoError(t, err)
	require.Len(t, stored.DiscoveryDayResponses, 1)
	assert.Len(t, stored.DiscoveryDayResponses[0].Attendees, 2)
	assert.Equal(t, firstCreatedAt, stored.DiscoveryDayResponses[0].CreatedAt)
}

func TestDiscoveryDayRegistrationRequiresSession(t *testing.T) {
	users := modeltest.NewUserStore()
	rfis := modeltest.NewRfiStore()
	resource := &DiscoveryDayResponseResource{Rfis: rfis, Users: users, Mailer: modeltest.NewNotifier()}

	staff := seedStaff(t, users, "staff@example.com")
	rfi := seedDiscoveryDayRfi(t, rfis, staff, true)

	req := jsonRequest(t, &models.Session{}, nil, map[string]any{
		"rfiId":     rfi.ID.Hex(),
		"attendees": []map[string]any{{"name": "Pat", "email": "pat@example.com"}},
	})
	resp := runHandler(t, resource.Create(), req)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestDiscoveryDayRegistrationRequiresDiscoveryDaySession(t *testing.T) {
	users := modeltest.NewUserStore()
	rfis := modeltest.NewRfiStore()
	resource := &DiscoveryDayResponseResource{Rfis: rfis, Users: users, Mailer: modeltest.NewNotifier()}

	staff := seedStaff(t, users, "staff@example.com")
	vendor := seedVendor(t, users, "vendor@example.com", "vendor-pass1")
	rfi := seedDiscoveryDayRfi(t, rfis, staff, false)

	req := jsonRequest(t, sessionFor(vendor), nil, map[string]any{
		"rfiId":     rfi.ID.Hex(),
		"attendees": []map[string]any{{"name": "Pat", "email": "pat@example.com"}},
	})
	resp := runHandler(t, resource.Create(), req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	fe := fieldErrors(t, resp)
	assert.NotEmpty(t, fe["rfiId"])
}
