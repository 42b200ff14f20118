package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trimline/seatcase/internal/service"
	"github.com/trimline/seatcase/internal/store/drivers/sqlite"
	"github.com/trimline/seatcase/pkg/httpx"
	"github.com/trimline/seatcase/pkg/tokenx"
)

const (
	testCookieName = "sc_session"
	testAdminUser  = "admin"
	testAdminPass  = "bootstrap-pass"
)

type testEnv struct {
	router *Router
	store  *sqlite.Store
	codec  *tokenx.Codec
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tmp := t.TempDir()
	st, err := sqlite.NewStore("file:" + filepath.Join(tmp, "seatcase_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	codec, err := tokenx.New("test-secret", time.Hour)
	require.NoError(t, err)

	cookie := httpx.SessionCookie{Name: testCookieName, MaxAge: time.Hour}
	uploadDir := filepath.Join(tmp, "uploads")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := NewRouter(codec, cookie, uploadDir, "test", st, logger)
	router.AuthService = &service.AuthService{
		Store:             st,
		Codec:             codec,
		BootstrapUsername: testAdminUser,
		BootstrapPassword: testAdminPass,
	}
	router.UserService = &service.UserService{Store: st}
	router.CaseService = &service.CaseService{Store: st}
	router.MediaService = &service.MediaService{UploadDir: uploadDir, BasePath: "/uploads"}
	router.ApplyRoutes()

	return &testEnv{router: router, store: st, codec: codec}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, session *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != nil {
		req.AddCookie(session)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookieName {
			return c
		}
	}
	return nil
}

func (e *testEnv) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/auth/login",
		map[string]string{"username": username, "password": password}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	c := sessionCookie(t, rec)
	require.NotNil(t, c)
	require.NotEmpty(t, c.Value)
	return c
}

func TestLogin_SetsSessionCookieAndOpensAdmin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/login",
		map[string]string{"username": testAdminUser, "password": testAdminPass}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		OK   bool   `json:"ok"`
		Role string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.OK)
	require.Equal(t, "ADMIN", body.Role)

	c := sessionCookie(t, rec)
	require.NotNil(t, c)
	require.True(t, c.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, c.SameSite)
	require.Equal(t, "/", c.Path)

	rec = env.do(t, http.MethodGet, "/api/admin/users", nil, c)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin_WrongPasswordIsUniform401(t *testing.T) {
	env := newTestEnv(t)

	for _, creds := range []map[string]string{
		{"username": testAdminUser, "password": "wrong"},
		{"username": "ghost", "password": "whatever"},
	} {
		rec := env.do(t, http.MethodPost, "/api/auth/login", creds, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Nil(t, sessionCookie(t, rec))

		var body httpx.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "Invalid username or password", body.Error)
	}
}

func TestLogin_RejectsMalformedRequests(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/login",
		map[string]string{"username": "  ", "password": "x"}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRoutes_RequireSession(t *testing.T) {
	env := newTestEnv(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/admin/users"},
		{http.MethodGet, "/api/admin/cases"},
		{http.MethodGet, "/api/admin/media"},
		{http.MethodPost, "/api/admin/change-password"},
	} {
		rec := env.do(t, route.method, route.path, nil, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, route.path)
	}
}

func TestAdminRoutes_RejectUserRole(t *testing.T) {
	env := newTestEnv(t)

	admin := env.login(t, testAdminUser, testAdminPass)
	rec := env.do(t, http.MethodPost, "/api/admin/users",
		map[string]string{"username": "viewer", "password": "viewer-pass", "role": "USER"}, admin)
	require.Equal(t, http.StatusCreated, rec.Code)

	viewer := env.login(t, "viewer", "viewer-pass")

	// A USER session gets the same 401 as no session at all.
	rec = env.do(t, http.MethodGet, "/api/admin/users", nil, viewer)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// But it can change its own password.
	rec = env.do(t, http.MethodPost, "/api/admin/change-password",
		map[string]string{"currentPassword": "viewer-pass", "newPassword": "viewer-pass-2"}, viewer)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRoutes_RejectExpiredToken(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, testAdminUser, testAdminPass)

	admin, err := env.store.Users().GetUserByUsername(t.Context(), testAdminUser)
	require.NoError(t, err)

	// Issued two hours in the past with a one hour TTL, so already expired.
	token, err := env.codec.IssueAt(tokenx.Subject{
		ID: admin.ID, Role: "ADMIN", Username: admin.Username,
	}, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, "/api/admin/users", nil,
		&http.Cookie{Name: testCookieName, Value: token})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutes_RejectTamperedToken(t *testing.T) {
	env := newTestEnv(t)

	c := env.login(t, testAdminUser, testAdminPass)

	tampered := []byte(c.Value)
	tampered[len(tampered)-1] ^= 0x01

	rec := env.do(t, http.MethodGet, "/api/admin/users", nil,
		&http.Cookie{Name: testCookieName, Value: string(tampered)})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChangePassword_EndToEnd(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, testAdminUser, testAdminPass)

	rec := env.do(t, http.MethodPost, "/api/admin/change-password",
		map[string]string{"currentPassword": "wrong", "newPassword": "next-pass"}, admin)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/admin/change-password",
		map[string]string{"currentPassword": testAdminPass, "newPassword": "next-pass"}, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/login",
		map[string]string{"username": testAdminUser, "password": testAdminPass}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	env.login(t, testAdminUser, "next-pass")
}

func TestLogout_ClearsCookie(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, testAdminUser, testAdminPass)

	rec := env.do(t, http.MethodPost, "/api/auth/logout", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	c := sessionCookie(t, rec)
	require.NotNil(t, c)
	require.Empty(t, c.Value)
	require.Negative(t, c.MaxAge)
}

func TestUsers_AdminResetAndConflict(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, testAdminUser, testAdminPass)

	rec := env.do(t, http.MethodPost, "/api/admin/users",
		map[string]string{"username": "viewer", "password": "first", "role": "USER"}, admin)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.User.ID)

	rec = env.do(t, http.MethodPost, "/api/admin/users",
		map[string]string{"username": "viewer", "password": "other", "role": "USER"}, admin)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/admin/users/"+created.User.ID+"/password",
		map[string]string{"password": "reset-pass"}, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	env.login(t, "viewer", "reset-pass")

	// Listing never exposes password hashes.
	rec = env.do(t, http.MethodGet, "/api/admin/users", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "password")
}

func TestCases_AdminCRUDAndPublicVisibility(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, testAdminUser, testAdminPass)

	rec := env.do(t, http.MethodPost, "/api/admin/cases", map[string]any{
		"title":     "Hilux fleet refit",
		"brand":     "Toyota",
		"model":     "Hilux",
		"yearStart": 2015,
		"yearEnd":   2023,
		"media": []map[string]any{
			{"kind": "before", "type": "image", "url": "/uploads/before.jpg"},
			{"kind": "after", "type": "image", "url": "/uploads/after.jpg"},
		},
	}, admin)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Case struct {
			ID    string `json:"id"`
			Media []struct {
				Kind string `json:"kind"`
			} `json:"media"`
		} `json:"case"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.Case.ID)
	require.Len(t, created.Case.Media, 2)
	require.Equal(t, "BEFORE", created.Case.Media[0].Kind)

	// Drafts are invisible publicly.
	rec = env.do(t, http.MethodGet, "/api/cases/"+created.Case.ID, nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPatch, "/api/admin/cases/"+created.Case.ID,
		map[string]any{"published": true}, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/cases/"+created.Case.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/cases", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Hilux fleet refit")

	rec = env.do(t, http.MethodDelete, "/api/admin/cases/"+created.Case.ID, nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/cases/"+created.Case.ID, nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpload_StoreListAndServe(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, testAdminUser, testAdminPass)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "seats.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake jpeg bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(admin)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var uploaded struct {
		URL  string `json:"url"`
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploaded))
	require.Equal(t, "IMAGE", uploaded.Type)

	rec = env.do(t, http.MethodGet, "/api/admin/media", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "seats.jpg")

	// The stored file is served back at its URL.
	rec = env.do(t, http.MethodGet, uploaded.URL, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "fake jpeg bytes", rec.Body.String())
}

func TestUpload_RequiresFileField(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, testAdminUser, testAdminPass)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("other", "value"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(admin)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/livez", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = env.do(t, http.MethodGet, "/readyz", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"database":"ok"`)
}
