package handlers_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/passauth/internal/accounts"
	"github.com/nfrund/passauth/internal/authform"
	"github.com/nfrund/passauth/internal/database"
	"github.com/nfrund/passauth/internal/handlers"
	"github.com/nfrund/passauth/internal/middleware"
	"github.com/nfrund/passauth/internal/password"
	"github.com/nfrund/passauth/internal/rendering"
	"github.com/nfrund/passauth/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionSecret = "a-very-secret-key-for-testing-!"

// outbox records sent emails.
type outbox struct {
	mu     sync.Mutex
	bodies []string
}

func (o *outbox) Send(_ context.Context, _, _, body string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.bodies = append(o.bodies, body)
	return nil
}

func (o *outbox) last() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.bodies) == 0 {
		return ""
	}
	return o.bodies[len(o.bodies)-1]
}

type authTest struct {
	e     *echo.Echo
	repo  *database.MemoryUserStore
	mails *outbox
	logs  *bytes.Buffer
}

func setupAuthTest(t *testing.T) *authTest {
	t.Helper()
	tokens, err := token.NewManager(token.Config{Secret: []byte("0123456789abcdef0123456789abcdef"), TTL: time.Hour})
	require.NoError(t, err)
	repo := database.NewMemoryUserStore(password.NewHasher(password.Params{Memory: 1024, Time: 1, Parallelism: 1}), tokens)
	mails := &outbox{}
	svc := accounts.NewService(repo, mails, nil, "http://localhost:8080")
	h := handlers.NewAuthHandler(svc, nil, time.Hour)

	logs := &bytes.Buffer{}
	e := echo.New()
	e.Use(middleware.Logger(slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	e.Renderer = rendering.New()
	e.Validator = handlers.NewValidator()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(testSessionSecret))))

	for _, m := range authform.Modes() {
		e.GET(m.Path(), h.ShowForm(m))
		e.POST(m.Path(), h.Submit(m))
	}
	e.GET("/auth/view/:mode", h.ChangeMode)
	e.GET("/reset-password", h.ResetPasswordGet)
	e.POST("/reset-password", h.ResetPasswordPost)
	e.POST("/logout", h.Logout)
	e.GET("/", handlers.HomeGet, middleware.Auth(repo))

	return &authTest{e: e, repo: repo, mails: mails, logs: logs}
}

func (a *authTest) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *authTest) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func cookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// assertFlashMessage decodes the flash session cookie set on rec.
func assertFlashMessage(t *testing.T, rec *httptest.ResponseRecorder, key, expectedMessage string) {
	t.Helper()

	// Every save appends a Set-Cookie; the last one holds the full session.
	var latest *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "flash-session" {
			latest = c
		}
	}
	require.NotNil(t, latest, "no flash session cookie was set")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(latest)
	sess, err := sessions.NewCookieStore([]byte(testSessionSecret)).Get(req, "flash-session")
	require.NoError(t, err)

	flashes := sess.Flashes(key)
	require.NotEmpty(t, flashes, "expected flash message but found none for key: %s", key)
	assert.Equal(t, expectedMessage, flashes[0])
}

func TestShowForm(t *testing.T) {
	a := setupAuthTest(t)

	rec := a.get("/forgot-password")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Forgot your Password?")
	assert.Contains(t, body, "<!DOCTYPE html>")
	assert.NotContains(t, body, `name="password"`)
}

func TestChangeMode(t *testing.T) {
	a := setupAuthTest(t)

	rec := a.get("/auth/view/signup")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/signup", rec.Header().Get("HX-Push-Url"))
	assert.Contains(t, rec.Body.String(), `action="/signup"`)
	assert.NotContains(t, rec.Body.String(), "<!DOCTYPE html>")

	rec = a.get("/auth/view/magic-link")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), authform.ErrUnknownView.Error())
}

func TestChangeMode_LogsOrigin(t *testing.T) {
	a := setupAuthTest(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/view/forgot-password", nil)
	req.Header.Set("HX-Current-URL", "http://localhost:8080/login?next=%2F")
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	logs := a.logs.String()
	assert.Contains(t, logs, `msg="Auth form mode change"`)
	assert.Contains(t, logs, "from=/login")
	assert.Contains(t, logs, "to=forgot-password")
}

func TestShowForm_FlashRendersInsideForm(t *testing.T) {
	a := setupAuthTest(t)

	rec := a.post("/login", url.Values{"email": {"ghost@example.com"}, "password": {"secret1"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	var flash *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "flash-session" {
			flash = c
		}
	}
	require.NotNil(t, flash)

	page := a.get("/login", flash)
	require.Equal(t, http.StatusOK, page.Code)
	body := page.Body.String()
	formAt := strings.Index(body, `id="auth-form"`)
	alertAt := strings.Index(body, accounts.MsgUserNotFound)
	require.NotEqual(t, -1, formAt)
	require.NotEqual(t, -1, alertAt)
	assert.Greater(t, alertAt, formAt, "error alert must sit inside the swappable form")
	assert.Equal(t, 1, strings.Count(body, `class="alert alert-error"`))
	assert.Contains(t, body, `value="ghost@example.com"`)

	// The htmx swap replaces the whole form, alert included.
	frag := a.get("/auth/view/signup")
	require.Equal(t, http.StatusOK, frag.Code)
	assert.NotContains(t, frag.Body.String(), `class="alerts"`)
	assert.NotContains(t, frag.Body.String(), accounts.MsgUserNotFound)
}

func TestSubmit_SignupThenLogin(t *testing.T) {
	a := setupAuthTest(t)

	rec := a.post("/signup", url.Values{"email": {"ada@example.com"}, "password": {"secret1"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	auth := cookie(rec, middleware.AuthCookieName)
	require.NotNil(t, auth)
	assert.True(t, auth.HttpOnly)

	home := a.get("/", auth)
	assert.Equal(t, http.StatusOK, home.Code)
	assert.Contains(t, home.Body.String(), "ada@example.com")

	rec = a.post("/login", url.Values{"email": {"ada@example.com"}, "password": {"secret1"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.NotNil(t, cookie(rec, middleware.AuthCookieName))
}

func TestSubmit_ValidationRendersInline(t *testing.T) {
	a := setupAuthTest(t)

	rec := a.post("/login", url.Values{"email": {"not-an-email"}, "password": {"123"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Please, provide a valid email address")
	assert.Contains(t, body, "Please, at least 6 characters long")
	assert.Contains(t, body, `value="not-an-email"`)
}

func TestSubmit_ServerErrorFlashes(t *testing.T) {
	a := setupAuthTest(t)

	rec := a.post("/login", url.Values{"email": {"ghost@example.com"}, "password": {"secret1"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assertFlashMessage(t, rec, "error", accounts.MsgUserNotFound)
	assertFlashMessage(t, rec, "form_email", "ghost@example.com")
}

func TestSubmit_HoneypotAborts(t *testing.T) {
	a := setupAuthTest(t)

	rec := a.post("/signup", url.Values{"email": {"bot@example.com"}, "password": {"secret1"}, "website": {"http://spam"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Nil(t, cookie(rec, middleware.AuthCookieName))

	u, err := a.repo.FindUserByEmail(context.Background(), "bot@example.com")
	require.NoError(t, err)
	assert.Nil(t, u, "aborted signup must not create a user")
}

func TestForgotAndResetPassword(t *testing.T) {
	a := setupAuthTest(t)
	a.post("/signup", url.Values{"email": {"ada@example.com"}, "password": {"secret1"}})

	rec := a.post("/forgot-password", url.Values{"email": {"ada@example.com"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assertFlashMessage(t, rec, "success", authform.ResetEmailSent)

	m := regexp.MustCompile(`token=([0-9a-f]+)`).FindStringSubmatch(a.mails.last())
	require.Len(t, m, 2)
	tok := m[1]

	page := a.get("/reset-password?token=" + tok)
	assert.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), tok)

	rec = a.post("/reset-password", url.Values{"token": {tok}, "password": {"brand-new"}, "confirm_password": {"different"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Passwords do not match.")

	rec = a.post("/reset-password", url.Values{"token": {tok}, "password": {"brand-new"}, "confirm_password": {"brand-new"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.NotNil(t, cookie(rec, middleware.AuthCookieName))
	assertFlashMessage(t, rec, "success", handlers.MsgPasswordReset)

	rec = a.post("/reset-password", url.Values{"token": {tok}, "password": {"brand-new"}, "confirm_password": {"brand-new"}})
	assert.Equal(t, "/forgot-password", rec.Header().Get("Location"))
	assertFlashMessage(t, rec, "error", accounts.MsgInvalidResetLink)
}

func TestResetPasswordGet_MissingToken(t *testing.T) {
	a := setupAuthTest(t)
	rec := a.get("/reset-password")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/forgot-password", rec.Header().Get("Location"))
}

func TestLogout(t *testing.T) {
	a := setupAuthTest(t)
	rec := a.post("/logout", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	c := cookie(rec, middleware.AuthCookieName)
	require.NotNil(t, c)
	assert.Equal(t, -1, c.MaxAge)
	assertFlashMessage(t, rec, "success", handlers.MsgLoggedOut)
}
