package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/procureconcierge/portalbackend/models"
	"github.com/procureconcierge/portalbackend/models/modeltest"
	"github.com/procureconcierge/portalbackend/server"
	"github.com/procureconcierge/portalbackend/storage"
)

const testCookieSecret = "test-cookie-secret"

type testEnv struct {
	engine   *gin.Engine
	users    *modeltest.UserStore
	sessions *modeltest.SessionStore
	rfis     *modeltest.RfiStore
	files    *modeltest.FileStore
	notifier *modeltest.Notifier
}

func newTestEnv(t *testing.T, auth *BasicAuth) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		users:    modeltest.NewUserStore(),
		sessions: modeltest.NewSessionStore(),
		rfis:     modeltest.NewRfiStore(),
		files:    modeltest.NewFileStore(),
		notifier: modeltest.NewNotifier(),
	}
	blobs, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	routes, err := CreateRouter(RouterParams{
		Models: Models{
			Users:                env.users,
			Sessions:             env.sessions,
			Rfis:                 env.rfis,
			Files:                env.files,
			Feedback:             modeltest.NewFeedbackStore(),
			VendorIdeas:          modeltest.NewVendorIdeaStore(),
			ForgotPasswordTokens: modeltest.NewForgotPasswordTokenStore(),
		},
		Blobs:       blobs,
		Mailer:      env.notifier,
		TokenSecret: "test-token-secret",
		BasicAuth:   auth,
	})
	require.NoError(t, err)

	env.engine = gin.New()
	server.Bind(server.AdapterParams{
		Engine:           env.engine,
		Routes:           routes,
		Sessions:         env.sessions,
		CookieSecret:     testCookieSecret,
		TmpDir:           t.TempDir(),
		MaxMultipartSize: 10 << 20,
		Logger:           zerolog.Nop(),
	})
	return env
}

func (env *testEnv) do(t *testing.T, method, path string, payload any, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: server.SessionCookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == server.SessionCookieName {
			return c.Value
		}
	}
	t.Fatal("response set no session cookie")
	return ""
}

func (env *testEnv) seedUser(t *testing.T, email, password string, userType models.UserType) *models.User {
	t.Helper()
	hash, err := models.HashPassword(password)
	require.NoError(t, err)
	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Active:       true,
		Profile:      models.Profile{Type: userType},
	}
	switch userType {
	case models.UserTypeVendor:
		user.Profile.Vendor = &models.VendorProfile{
			BusinessName:    "Acme Widgets",
			IndustrySectors: []string{"Construction"},
			Categories:      []string{"Software"},
		}
	case models.UserTypeBuyer:
		user.Profile.Buyer = &models.BuyerProfile{
			FirstName:          "Pat",
			LastName:           "Doe",
			PositionTitle:      "Manager",
			PublicSectorEntity: "Ministry of Widgets",
			IndustrySectors:    []string{"Construction"},
			Categories:         []string{"Software"},
		}
	case models.UserTypeProgramStaff:
		user.Profile.ProgramStaff = &models.ProgramStaffProfile{
			FirstName:     "Sam",
			LastName:      "Staff",
			PositionTitle: "Coordinator",
		}
	}
	require.NoError(t, env.users.Create(context.Background(), user))
	return user
}

// seedSession logs a user into a fresh session and returns the signed cookie
// a browser would hold for it.
func (env *testEnv) seedSession(t *testing.T, user *models.User) string {
	t.Helper()
	session, err := env.sessions.New(context.Background())
	require.NoError(t, err)
	require.NoError(t, env.sessions.SetUser(context.Background(), session, &models.SessionUser{
		ID:   user.ID,
		Type: user.Profile.Type,
	}))
	cookie, err := server.SignSessionID(session.SessionID, testCookieSecret)
	require.NoError(t, err)
	return cookie
}

func TestSignupLogsNewVendorIn(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/api/users", map[string]any{
		"email":         "New.Vendor@Example.com",
		"password":      "super-secret1",
		"acceptedTerms": true,
		"profile": map[string]any{
			"type": "vendor",
			"vendor": map[string]any{
				"businessName":    "Acme Widgets",
				"industrySectors": []string{"Construction"},
				"categories":      []string{"Software"},
			},
		},
	}, "")

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "passwordHash")

	var body struct {
		ID    string `json:"_id"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "new.vendor@example.com", body.Email)

	// The signed cookie resolves to a session already logged in as the new
	// user.
	sessionID := server.ParseSessionID(sessionCookie(t, rec), testCookieSecret)
	session, err := env.sessions.FindOrCreate(context.Background(), sessionID)
	require.NoError(t, err)
	require.NotNil(t, session.User)
	assert.Equal(t, body.ID, session.User.ID.Hex())
	assert.Equal(t, models.UserTypeVendor, session.User.Type)

	assert.Contains(t, env.notifier.Sent(), "accountCreated:new.vendor@example.com")
}

func TestLoginWithUnknownEmailKeepsAnonymousSession(t *testing.T) {
	env := newTestEnv(t, nil)

	// First contact establishes an anonymous session.
	first := env.do(t, http.MethodGet, "/status", nil, "")
	require.Equal(t, http.StatusOK, first.Code)
	cookie := sessionCookie(t, first)
	anonymousID := server.ParseSessionID(cookie, testCookieSecret)

	rec := env.do(t, http.MethodPost, "/api/sessions", map[string]any{
		"email":    "nobody@example.com",
		"password": "whatever-pass1",
	}, cookie)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var messages []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &messages))
	assert.Equal(t, []string{"Your email and password combination do not match."}, messages)

	// The failed login did not swap the session.
	assert.Equal(t, anonymousID, server.ParseSessionID(sessionCookie(t, rec), testCookieSecret))
}

func TestRfiUpdateAppendsVersionAndKeepsAddendumTimestamps(t *testing.T) {
	env := newTestEnv(t, nil)
	staff := env.seedUser(t, "staff@example.com", "staff-pass1", models.UserTypeProgramStaff)
	cookie := env.seedSession(t, staff)

	seeded := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	rfi := &models.Rfi{
		PublishedAt: seeded,
		Versions: []models.Version{{
			RfiNumber:           "RFI-001",
			Title:               "Original title",
			Description:         "A description.",
			PublicSectorEntity:  "Ministry of Widgets",
			ClosingAt:           time.Date(2099, 12, 31, 13, 0, 0, 0, time.UTC),
			Categories:          []string{"Software"},
			Addenda:             []models.Addendum{{Description: "Addendum one", CreatedAt: seeded, UpdatedAt: seeded}},
			ProgramStaffContact: staff.ID,
			CreatedBy:           staff.ID,
			CreatedAt:           seeded,
		}},
	}
	require.NoError(t, env.rfis.Create(context.Background(), rfi))

	rec := env.do(t, http.MethodPut, "/api/requestsForInformation/"+rfi.ID.Hex(), map[string]any{
		"rfiNumber":           "RFI-001",
		"title":               "Updated title",
		"description":         "A description.",
		"publicSectorEntity":  "Ministry of Widgets",
		"closingDate":         "2099-12-31",
		"closingTime":         "13:00",
		"categories":          []string{"Software"},
		"addenda":             []string{"Addendum one"},
		"programStaffContact": staff.ID.Hex(),
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stored, err := env.rfis.FindByID(context.Background(), rfi.ID)
	require.NoError(t, err)
	require.Len(t, stored.Versions, 2)

	latest := stored.LatestVersion()
	require.NotNil(t, latest)
	assert.Equal(t, "Updated title", latest.Title)
	// The untouched addendum carries its original timestamps into the new
	// version.
	require.Len(t, latest.Addenda, 1)
	assert.Equal(t, "Addendum one", latest.Addenda[0].Description)
	assert.Equal(t, seeded, latest.Addenda[0].CreatedAt)
	assert.Equal(t, seeded, latest.Addenda[0].UpdatedAt)
}

func TestDeleteOtherUserIsUnauthorized(t *testing.T) {
	env := newTestEnv(t, nil)
	target := env.seedUser(t, "target@example.com", "target-pass1", models.UserTypeVendor)
	intruder := env.seedUser(t, "intruder@example.com", "intruder-pass1", models.UserTypeVendor)
	cookie := env.seedSession(t, intruder)

	rec := env.do(t, http.MethodDelete, "/api/users/"+target.ID.Hex(), nil, cookie)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var messages []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &messages))
	assert.Equal(t, []string{"You do not have permission to perform this action."}, messages)

	stored, err := env.users.FindByID(context.Background(), target.ID)
	require.NoError(t, err)
	assert.True(t, stored.Active)
}

func (env *testEnv) uploadFile(t *testing.T, cookie, name, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/files", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: server.SessionCookieName, Value: cookie})
	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, req)
	return rec
}

func TestFileUploadDeduplicatesByContent(t *testing.T) {
	env := newTestEnv(t, nil)
	vendor := env.seedUser(t, "vendor@example.com", "vendor-pass1", models.UserTypeVendor)
	cookie := env.seedSession(t, vendor)

	first := env.uploadFile(t, cookie, "report.pdf", "identical bytes")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	var created struct {
		ID   string `json:"_id"`
		Hash string `json:"hash"`
	}
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &created))

	second := env.uploadFile(t, cookie, "report.pdf", "identical bytes")
	require.Equal(t, http.StatusOK, second.Code)
	var existing struct {
		ID   string `json:"_id"`
		Hash string `json:"hash"`
	}
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &existing))
	assert.Equal(t, created.ID, existing.ID)
	assert.Equal(t, created.Hash, existing.Hash)

	// Different content under the same name is a new file.
	third := env.uploadFile(t, cookie, "report.pdf", "different bytes")
	require.Equal(t, http.StatusCreated, third.Code)
}

func TestFileUploadRequiresLogin(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.uploadFile(t, "", "report.pdf", "bytes")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateRouterFailsFastOnMissingStore(t *testing.T) {
	blobs, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = CreateRouter(RouterParams{
		Models: Models{
			Sessions:             modeltest.NewSessionStore(),
			Rfis:                 modeltest.NewRfiStore(),
			Files:                modeltest.NewFileStore(),
			Feedback:             modeltest.NewFeedbackStore(),
			VendorIdeas:          modeltest.NewVendorIdeaStore(),
			ForgotPasswordTokens: modeltest.NewForgotPasswordTokenStore(),
		},
		Blobs:  blobs,
		Mailer: modeltest.NewNotifier(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Users")
}

func TestStatusStaysReachableUnderBasicAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	env := newTestEnv(t, &BasicAuth{Username: "admin", PasswordHash: string(hash)})

	rec := env.do(t, http.MethodGet, "/status", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/requestsForInformation", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, `Basic realm="restricted"`, rec.Header().Get("WWW-Authenticate"))

	req := httptest.NewRequest(http.MethodGet, "/api/requestsForInformation", strings.NewReader(""))
	req.SetBasicAuth("admin", "hunter2")
	authed := httptest.NewRecorder()
	env.engine.ServeHTTP(authed, req)
	assert.Equal(t, http.StatusOK, authed.Code)
}

func TestUnknownRouteReturnsJSONNotFound(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(t, http.MethodGet, fmt.Sprintf("/api/nope/%d", time.Now().Unix()), nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
}
