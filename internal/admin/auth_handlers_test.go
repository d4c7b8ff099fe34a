package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgeline-transport/admin-api/internal/auth"
	"github.com/ridgeline-transport/admin-api/internal/storage"
	"github.com/ridgeline-transport/admin-api/internal/testutil/mockstore"
)

func loginStore(t *testing.T, password string) (*mockstore.MockStorage, *[]storage.AuditLog) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	var audits []storage.AuditLog
	store := &mockstore.MockStorage{
		GetAdminByEmailFunc: func(_ context.Context, email string) (*storage.Admin, error) {
			if email == "ops@example.com" {
				return &storage.Admin{ID: 5, Email: email, PasswordHash: hash, Role: "MANAGER"}, nil
			}
			return nil, storage.ErrNotFound
		},
		CreateAuditLogFunc: func(_ context.Context, entry *storage.AuditLog) error {
			audits = append(audits, *entry)
			return nil
		},
	}
	return store, &audits
}

func TestHandleLoginSuccess(t *testing.T) {
	store, audits := loginStore(t, "ValidPassw0rd!")
	h, tm := newTestHandler(t, store)

	req := httptest.NewRequest(http.MethodPost, "/admin/api/login",
		strings.NewReader(`{"email":"ops@example.com","password":"ValidPassw0rd!"}`))
	rec := httptest.NewRecorder()
	h.HandleLogin(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	cookies := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		cookies[c.Name] = c
	}
	access, ok := cookies[auth.AccessCookieName]
	require.True(t, ok, "access cookie not set")
	refresh, ok := cookies[auth.RefreshCookieName]
	require.True(t, ok, "refresh cookie not set")

	assert.True(t, access.HttpOnly)
	assert.True(t, refresh.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, access.SameSite)
	assert.NotEmpty(t, refresh.Value)

	id, err := tm.VerifyAccessToken(access.Value)
	require.NoError(t, err)
	assert.Equal(t, int64(5), id.ID)
	assert.Equal(t, auth.RoleManager, id.Role)

	require.Len(t, *audits, 1)
	assert.Equal(t, auditLogin, (*audits)[0].Action)
	require.NotNil(t, (*audits)[0].AdminID)
	assert.Equal(t, int64(5), *(*audits)[0].AdminID)
}

func TestHandleLoginUniformFailure(t *testing.T) {
	store, audits := loginStore(t, "ValidPassw0rd!")
	h, _ := newTestHandler(t, store)

	attempts := []string{
		`{"email":"ops@example.com","password":"WrongPassw0rd!"}`,
		`{"email":"ghost@example.com","password":"ValidPassw0rd!"}`,
	}

	var bodies []string
	for _, body := range attempts {
		req := httptest.NewRequest(http.MethodPost, "/admin/api/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.HandleLogin(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		var apiErr APIError
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
		assert.Equal(t, ErrCodeInvalidCredentials, apiErr.Error)
		bodies = append(bodies, rec.Body.String())
		assert.Empty(t, rec.Result().Cookies(), "failed login must not set cookies")
	}

	// Unknown email and wrong password are indistinguishable
	assert.Equal(t, bodies[0], bodies[1])

	require.Len(t, *audits, 2)
	for _, entry := range *audits {
		assert.Equal(t, auditLoginFailed, entry.Action)
		assert.Nil(t, entry.AdminID)
	}
}

func TestHandleLoginMalformedBody(t *testing.T) {
	store, _ := loginStore(t, "ValidPassw0rd!")
	h, _ := newTestHandler(t, store)

	req := httptest.NewRequest(http.MethodPost, "/admin/api/login", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	h.HandleLogin(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleLogout(t *testing.T) {
	var revoked string
	store := &mockstore.MockStorage{
		RevokeRefreshTokenFunc: func(_ context.Context, token string) error {
			revoked = token
			return nil
		},
	}
	h, _ := newTestHandler(t, store)

	req := httptest.NewRequest(http.MethodPost, "/admin/api/logout", nil)
	req.AddCookie(&http.Cookie{Name: auth.RefreshCookieName, Value: "session-token"})
	rec := httptest.NewRecorder()
	h.HandleLogout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "session-token", revoked)

	for _, c := range rec.Result().Cookies() {
		assert.Equal(t, -1, c.MaxAge, "cookie %s not cleared", c.Name)
	}
}

func TestHandleLogoutAll(t *testing.T) {
	var revokedAdmin int64
	store := &mockstore.MockStorage{
		RevokeRefreshTokensForAdminFunc: func(_ context.Context, adminID int64) error {
			revokedAdmin = adminID
			return nil
		},
	}
	h, _ := newTestHandler(t, store)

	identity := auth.Identity{ID: 9, Email: "ops@example.com", Role: auth.RoleViewer}
	req := httptest.NewRequest(http.MethodPost, "/admin/api/logout-all", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), identity))
	rec := httptest.NewRecorder()
	h.HandleLogoutAll(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(9), revokedAdmin)
}

func TestHandleChangePassword(t *testing.T) {
	const currentPassword = "OldPassw0rd!!"
	hash, err := auth.HashPassword(currentPassword)
	require.NoError(t, err)

	newStore := func() (*mockstore.MockStorage, *string, *int64, *[]storage.AuditLog) {
		var updatedHash string
		var revokedAdmin int64
		var audits []storage.AuditLog
		store := &mockstore.MockStorage{
			GetAdminByIDFunc: func(_ context.Context, id int64) (*storage.Admin, error) {
				return &storage.Admin{ID: id, Email: "ops@example.com", PasswordHash: hash, Role: "MANAGER"}, nil
			},
			UpdateAdminPasswordFunc: func(_ context.Context, _ int64, passwordHash string) error {
				updatedHash = passwordHash
				return nil
			},
			RevokeRefreshTokensForAdminFunc: func(_ context.Context, adminID int64) error {
				revokedAdmin = adminID
				return nil
			},
			CreateAuditLogFunc: func(_ context.Context, entry *storage.AuditLog) error {
				audits = append(audits, *entry)
				return nil
			},
		}
		return store, &updatedHash, &revokedAdmin, &audits
	}

	do := func(t *testing.T, store *mockstore.MockStorage, body string) *httptest.ResponseRecorder {
		t.Helper()
		h, _ := newTestHandler(t, store)
		req := httptest.NewRequest(http.MethodPost, "/admin/api/me/password", strings.NewReader(body))
		identity := auth.Identity{ID: 5, Email: "ops@example.com", Role: auth.RoleManager}
		req = req.WithContext(auth.WithIdentity(req.Context(), identity))
		rec := httptest.NewRecorder()
		h.HandleChangePassword(rec, req)
		return rec
	}

	t.Run("success rotates hash and revokes sessions", func(t *testing.T) {
		store, updatedHash, revokedAdmin, audits := newStore()
		rec := do(t, store, `{"current_password":"OldPassw0rd!!","new_password":"NewPassw0rd!!"}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.NotEmpty(t, *updatedHash)
		assert.NoError(t, auth.VerifyPassword("NewPassw0rd!!", *updatedHash))
		assert.Equal(t, int64(5), *revokedAdmin)

		for _, c := range rec.Result().Cookies() {
			assert.Equal(t, -1, c.MaxAge, "cookie %s not cleared", c.Name)
		}

		require.Len(t, *audits, 1)
		assert.Equal(t, auditPasswordChange, (*audits)[0].Action)
		assert.Equal(t, "5", (*audits)[0].ResourceID)
	})

	t.Run("wrong current password is rejected", func(t *testing.T) {
		store, updatedHash, _, audits := newStore()
		rec := do(t, store, `{"current_password":"WrongPassw0rd!","new_password":"NewPassw0rd!!"}`)

		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), ErrCodeInvalidCredentials)
		assert.Empty(t, *updatedHash)
		assert.Empty(t, *audits)
	})

	t.Run("weak new password is rejected", func(t *testing.T) {
		store, updatedHash, _, _ := newStore()
		rec := do(t, store, `{"current_password":"OldPassw0rd!!","new_password":"short1!"}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), ErrCodeWeakPassword)
		assert.Empty(t, *updatedHash)
	})
}

func TestHandleMe(t *testing.T) {
	h, _ := newTestHandler(t, &mockstore.MockStorage{})

	identity := auth.Identity{ID: 9, Email: "ops@example.com", Role: auth.RoleViewer}
	req := httptest.NewRequest(http.MethodGet, "/admin/api/me", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), identity))
	rec := httptest.NewRecorder()
	h.HandleMe(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Admin auth.Identity `json:"admin"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, identity, body.Admin)
}
