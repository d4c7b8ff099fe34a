package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgeline-transport/admin-api/internal/auth"
	"github.com/ridgeline-transport/admin-api/internal/storage"
	"github.com/ridgeline-transport/admin-api/internal/testutil/mockstore"
)

// withURLParam attaches a chi route parameter to a request built outside a
// router.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestHandleSubmitApplicationEncryptsSSN(t *testing.T) {
	var created *storage.Application
	store := &mockstore.MockStorage{
		CreateApplicationFunc: func(_ context.Context, app *storage.Application) (*storage.Application, error) {
			created = app
			out := *app
			out.ID = 11
			out.Status = storage.ApplicationStatusNew
			return &out, nil
		},
	}
	h, _ := newTestHandler(t, store)

	req := httptest.NewRequest(http.MethodPost, "/api/applications", strings.NewReader(
		`{"name":"Dana Driver","email":"dana@example.com","experience_years":6,"cdl_class":"A","ssn":"123-45-6789"}`))
	rec := httptest.NewRecorder()
	h.HandleSubmitApplication(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, created)

	// The plaintext never reaches storage; the sealed envelope decrypts back
	assert.NotContains(t, created.SSNEncrypted, "123-45-6789")
	plain, err := storage.DecryptField(created.SSNEncrypted, testFieldKey)
	require.NoError(t, err)
	assert.Equal(t, "123-45-6789", plain)
}

func TestHandleSubmitApplicationWithoutKey(t *testing.T) {
	h, _ := newTestHandler(t, &mockstore.MockStorage{})
	h.fieldKey = nil

	req := httptest.NewRequest(http.MethodPost, "/api/applications", strings.NewReader(
		`{"name":"Dana Driver","email":"dana@example.com","ssn":"123-45-6789"}`))
	rec := httptest.NewRecorder()
	h.HandleSubmitApplication(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var apiErr APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, ErrCodeNotConfigured, apiErr.Error)

	// Without an SSN the submission works fine even with no key
	req = httptest.NewRequest(http.MethodPost, "/api/applications", strings.NewReader(
		`{"name":"Dana Driver","email":"dana@example.com"}`))
	rec = httptest.NewRecorder()
	h.HandleSubmitApplication(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestHandleListApplicationsHidesSSN(t *testing.T) {
	sealed, err := storage.EncryptField("123-45-6789", testFieldKey)
	require.NoError(t, err)

	store := &mockstore.MockStorage{
		ListApplicationsFunc: func(_ context.Context, f storage.ApplicationFilter) ([]*storage.Application, error) {
			assert.Equal(t, storage.ApplicationStatusNew, f.Status)
			assert.Equal(t, 2, f.Page)
			return []*storage.Application{
				{ID: 1, Name: "Dana Driver", Email: "dana@example.com", SSNEncrypted: sealed, Status: storage.ApplicationStatusNew},
				{ID: 2, Name: "Lee Hauler", Email: "lee@example.com", Status: storage.ApplicationStatusNew},
			}, nil
		},
	}
	h, _ := newTestHandler(t, store)

	req := httptest.NewRequest(http.MethodGet, "/admin/api/applications?status=NEW&page=2&limit=10", nil)
	rec := httptest.NewRecorder()
	h.HandleListApplications(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, sealed, "envelope leaked through the listing")
	assert.NotContains(t, body, "123-45-6789")

	var resp struct {
		Applications []applicationResponse `json:"applications"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Applications, 2)
	assert.True(t, resp.Applications[0].HasSSN)
	assert.False(t, resp.Applications[1].HasSSN)
}

func TestHandleReviewApplication(t *testing.T) {
	var gotStatus string
	var gotReviewer int64
	store := &mockstore.MockStorage{
		UpdateApplicationReviewFunc: func(_ context.Context, id int64, status string, reviewedBy int64, notes string) error {
			gotStatus = status
			gotReviewer = reviewedBy
			return nil
		},
	}
	h, _ := newTestHandler(t, store)

	req := httptest.NewRequest(http.MethodPatch, "/admin/api/applications/4",
		strings.NewReader(`{"status":"APPROVED","notes":"clean MVR"}`))
	req = withURLParam(req, "id", "4")
	req = req.WithContext(auth.WithIdentity(req.Context(),
		auth.Identity{ID: 7, Email: "ops@example.com", Role: auth.RoleManager}))
	rec := httptest.NewRecorder()
	h.HandleReviewApplication(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, storage.ApplicationStatusApproved, gotStatus)
	assert.Equal(t, int64(7), gotReviewer, "reviewer must be the caller")

	// Unknown status is rejected before touching storage
	gotStatus = ""
	req = httptest.NewRequest(http.MethodPatch, "/admin/api/applications/4",
		strings.NewReader(`{"status":"MAYBE"}`))
	req = withURLParam(req, "id", "4")
	rec = httptest.NewRecorder()
	h.HandleReviewApplication(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, gotStatus)
}

func TestHandleRevealSSN(t *testing.T) {
	hash, err := auth.HashPassword("SuperSecret1!aa")
	require.NoError(t, err)
	sealed, err := storage.EncryptField("123-45-6789", testFieldKey)
	require.NoError(t, err)

	var audits []storage.AuditLog
	store := &mockstore.MockStorage{
		GetAdminByEmailFunc: func(_ context.Context, email string) (*storage.Admin, error) {
			if email == "root@example.com" {
				return &storage.Admin{ID: 1, Email: email, PasswordHash: hash, Role: "SUPER_ADMIN"}, nil
			}
			return nil, storage.ErrNotFound
		},
		GetApplicationFunc: func(_ context.Context, id int64) (*storage.Application, error) {
			switch id {
			case 4:
				return &storage.Application{ID: 4, Name: "Dana Driver", SSNEncrypted: sealed}, nil
			case 5:
				return &storage.Application{ID: 5, Name: "Lee Hauler"}, nil
			}
			return nil, storage.ErrNotFound
		},
		CreateAuditLogFunc: func(_ context.Context, entry *storage.AuditLog) error {
			audits = append(audits, *entry)
			return nil
		},
	}
	h, _ := newTestHandler(t, store)

	identity := auth.Identity{ID: 1, Email: "root@example.com", Role: auth.RoleSuperAdmin}
	reveal := func(appID, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/admin/api/applications/"+appID+"/ssn", strings.NewReader(body))
		req = withURLParam(req, "id", appID)
		req = req.WithContext(auth.WithIdentity(req.Context(), identity))
		rec := httptest.NewRecorder()
		h.HandleRevealSSN(rec, req)
		return rec
	}

	// Step-up with the wrong password fails and reveals nothing
	rec := reveal("4", `{"password":"WrongSecret1!aa"}`)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotContains(t, rec.Body.String(), "123-45-6789")
	assert.Empty(t, audits, "failed reveal must not be recorded as a reveal")

	// Correct password decrypts and audits
	rec = reveal("4", `{"password":"SuperSecret1!aa"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		SSN string `json:"ssn"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "123-45-6789", resp.SSN)

	require.Len(t, audits, 1)
	assert.Equal(t, auditSSNReveal, audits[0].Action)
	assert.Equal(t, "4", audits[0].ResourceID)

	// No SSN on file
	rec = reveal("5", `{"password":"SuperSecret1!aa"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetApplicationNotFound(t *testing.T) {
	h, _ := newTestHandler(t, &mockstore.MockStorage{})

	req := httptest.NewRequest(http.MethodGet, "/admin/api/applications/99", nil)
	req = withURLParam(req, "id", "99")
	rec := httptest.NewRecorder()
	h.HandleGetApplication(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var apiErr APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, ErrCodeNotFound, apiErr.Error)
}

func TestPathIDValidation(t *testing.T) {
	h, _ := newTestHandler(t, &mockstore.MockStorage{})

	for _, bad := range []string{"abc", "-1", "0", ""} {
		req := httptest.NewRequest(http.MethodGet, "/admin/api/applications/x", nil)
		req = withURLParam(req, "id", bad)
		rec := httptest.NewRecorder()
		h.HandleGetApplication(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "id %q", bad)
	}
}
