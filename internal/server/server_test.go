package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"scribe/internal/config"
	"scribe/internal/models"
	"scribe/internal/service"
	"scribe/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type renderCall struct {
	name    string
	binding fiber.Map
}

// recordingViews is a fiber.Views that records every render instead of executing templates.
type recordingViews struct {
	mu    sync.Mutex
	calls []renderCall
}

func (v *recordingViews) Load() error { return nil }

func (v *recordingViews) Render(w io.Writer, name string, binding interface{}, _ ...string) error {
	m, _ := binding.(fiber.Map)
	v.mu.Lock()
	v.calls = append(v.calls, renderCall{name: name, binding: m})
	v.mu.Unlock()
	_, err := io.WriteString(w, "view:"+name)
	return err
}

func (v *recordingViews) last(t *testing.T) renderCall {
	t.Helper()
	v.mu.Lock()
	defer v.mu.Unlock()
	require.NotEmpty(t, v.calls, "nothing was rendered")
	return v.calls[len(v.calls)-1]
}

type testEnv struct {
	t     *testing.T
	db    *gorm.DB
	srv   *Server
	app   *fiber.App
	views *recordingViews
	mr    *miniredis.Miniredis
}

func testConfig() *config.Config {
	return &config.Config{
		Env:             "test",
		SessionSecret:   "test-secret",
		SessionCookie:   "scribe_session",
		SessionTTLHours: 24,
	}
}

// newTestEnv builds a server over in-memory sqlite and miniredis with routes but without
// the outer middleware stack.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	srv, err := NewServerWithDeps(testConfig(), db, rdb)
	require.NoError(t, err)
	views := &recordingViews{}
	srv.WithViews(views)
	srv.authService = service.NewAuthService(srv.userRepo, bcrypt.MinCost)

	app := srv.newFiber()
	srv.SetupRoutes(app)

	return &testEnv{t: t, db: db, srv: srv, app: app, views: views, mr: mr}
}

func (e *testEnv) do(req *http.Request) *http.Response {
	e.t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	return resp
}

func (e *testEnv) get(path string, cookies ...*http.Cookie) *http.Response {
	e.t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return e.do(req)
}

func (e *testEnv) postForm(path string, form url.Values, cookies ...*http.Cookie) *http.Response {
	e.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return e.do(req)
}

// sessionFor returns a valid session cookie for user.
func (e *testEnv) sessionFor(user *models.User) *http.Cookie {
	e.t.Helper()
	token, _, err := e.srv.newSessionToken(user, time.Now())
	require.NoError(e.t, err)
	return &http.Cookie{Name: e.srv.config.SessionCookie, Value: token}
}

func (e *testEnv) user(username string) *models.User {
	e.t.Helper()
	return testutil.CreateUser(e.t, e.db, username, username+"@example.com", "plum-orchard-42")
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func assertRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, location, resp.Header.Get("Location"))
}

func TestHealthChecks(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get("/health/live")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.get("/health/ready")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ready", body["status"])
	assert.Equal(t, "healthy", body["database"])
	assert.Equal(t, "healthy", body["redis"])

	env.mr.Close()
	resp = env.get("/health/ready")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body = nil
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "degraded", body["redis"])
}

func TestNotFound(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/post/999/", "/post/abc/", "/post/0/", "/no-such-page/"} {
		resp := env.get(path)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, path)
		assert.Equal(t, "not_found", env.views.last(t).name, path)
	}

	alice := env.user("alice")
	resp := env.get("/update-post/42/", env.sessionFor(alice))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp = env.postForm("/delete-comment/42/", url.Values{}, env.sessionFor(alice))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAuthRequiredRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/create-post/"},
		{http.MethodPost, "/create-post/"},
		{http.MethodGet, "/update-post/1/"},
		{http.MethodGet, "/delete-post/1/"},
		{http.MethodGet, "/delete-comment/1/"},
		{http.MethodPost, "/post/1/"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		resp := env.do(req)
		assertRedirect(t, resp, "/login/?next="+url.QueryEscape(tt.path))
	}
}

func TestFullApp_CSRF(t *testing.T) {
	env := newTestEnv(t)
	app := env.srv.NewApp()
	env.user("alice")

	req := httptest.NewRequest(http.MethodPost, "/login/", strings.NewReader("email=alice%40example.com&password=plum-orchard-42"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "error", env.views.last(t).name)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/login/", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	csrfCookie := findCookie(resp, "csrf_")
	require.NotNil(t, csrfCookie)
	token, _ := env.views.last(t).binding["csrf"].(string)
	require.NotEmpty(t, token)
	assert.NotEmpty(t, resp.Header.Get("X-Content-Type-Options"))

	form := url.Values{"email": {"alice@example.com"}, "password": {"plum-orchard-42"}, "csrf_token": {token}}
	req = httptest.NewRequest(http.MethodPost, "/login/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(csrfCookie)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assertRedirect(t, resp, "/")
	assert.NotNil(t, findCookie(resp, "scribe_session"))
}
