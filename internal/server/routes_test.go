package server_test

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nfrund/passauth/internal/app"
	"github.com/nfrund/passauth/internal/domain"
	"github.com/nfrund/passauth/internal/server"
	"github.com/nfrund/passauth/internal/testutils"
	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingSender keeps the last email instead of sending it.
type capturingSender struct {
	mu   sync.Mutex
	to   string
	body string
}

func (s *capturingSender) Send(_ context.Context, to, _, htmlBody string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.to, s.body = to, htmlBody
	return nil
}

func (s *capturingSender) last() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.to, s.body
}

var resetTokenPattern = regexp.MustCompile(`token=([0-9a-f]+)`)

// setupIntegrationTest starts the full application on an httptest server
// with an in-memory store and a capturing mailer.
func setupIntegrationTest(t *testing.T) (*httptest.Server, *http.Client, *capturingSender) {
	t.Helper()

	i := app.NewInjector(testutils.MemoryConfig(), nil)
	mailer := &capturingSender{}
	do.OverrideValue[domain.EmailSender](i, mailer)

	s, err := server.New(i)
	require.NoError(t, err)
	s.RegisterRoutes()

	ts := httptest.NewServer(s.E)
	t.Cleanup(func() {
		ts.Close()
		assert.NoError(t, app.Shutdown(context.Background(), i))
	})

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return ts, client, mailer
}

func postForm(t *testing.T, client *http.Client, target string, form url.Values) *http.Response {
	t.Helper()
	res, err := client.PostForm(target, form)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func get(t *testing.T, client *http.Client, target string, header http.Header) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}
	res, err := client.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(body)
}

func TestAuthFlow_Integration(t *testing.T) {
	ts, client, mailer := setupIntegrationTest(t)

	email := "ada@example.com"
	credentials := url.Values{"email": {email}, "password": {"a-secure-password-123"}}

	t.Run("home requires a session", func(t *testing.T) {
		res, _ := get(t, client, ts.URL+"/", nil)
		assert.Equal(t, http.StatusSeeOther, res.StatusCode)
		assert.Equal(t, "/login", res.Header.Get("Location"))
	})

	t.Run("signup signs the user in", func(t *testing.T) {
		res := postForm(t, client, ts.URL+"/signup", credentials)
		assert.Equal(t, http.StatusSeeOther, res.StatusCode)
		assert.Equal(t, "/", res.Header.Get("Location"))

		home, body := get(t, client, ts.URL+"/", nil)
		assert.Equal(t, http.StatusOK, home.StatusCode)
		assert.Contains(t, body, email)
	})

	t.Run("logout clears the session", func(t *testing.T) {
		res := postForm(t, client, ts.URL+"/logout", nil)
		assert.Equal(t, http.StatusSeeOther, res.StatusCode)
		assert.Equal(t, "/login", res.Header.Get("Location"))

		_, body := get(t, client, ts.URL+"/login", nil)
		assert.Contains(t, body, "You have been logged out.")

		home, _ := get(t, client, ts.URL+"/", nil)
		assert.Equal(t, http.StatusSeeOther, home.StatusCode)
	})

	t.Run("wrong password is flashed back", func(t *testing.T) {
		res := postForm(t, client, ts.URL+"/login", url.Values{"email": {email}, "password": {"not-the-password"}})
		assert.Equal(t, http.StatusSeeOther, res.StatusCode)
		assert.Equal(t, "/login", res.Header.Get("Location"))

		_, body := get(t, client, ts.URL+"/login", nil)
		assert.Contains(t, body, "Incorrect password")
		assert.Contains(t, body, email)
	})

	t.Run("login succeeds", func(t *testing.T) {
		res := postForm(t, client, ts.URL+"/login", credentials)
		assert.Equal(t, http.StatusSeeOther, res.StatusCode)
		assert.Equal(t, "/", res.Header.Get("Location"))
	})

	t.Run("forgot password emails a working link", func(t *testing.T) {
		res := postForm(t, client, ts.URL+"/forgot-password", url.Values{"email": {email}})
		assert.Equal(t, http.StatusSeeOther, res.StatusCode)
		assert.Equal(t, "/forgot-password", res.Header.Get("Location"))

		_, body := get(t, client, ts.URL+"/forgot-password", nil)
		assert.Contains(t, body, "A new email has been sent to your inbox!")

		to, mail := mailer.last()
		assert.Equal(t, email, to)
		m := resetTokenPattern.FindStringSubmatch(mail)
		require.Len(t, m, 2)

		page, _ := get(t, client, ts.URL+"/reset-password?token="+m[1], nil)
		assert.Equal(t, http.StatusOK, page.StatusCode)

		reset := postForm(t, client, ts.URL+"/reset-password", url.Values{
			"token":            {m[1]},
			"password":         {"brand-new-password"},
			"confirm_password": {"brand-new-password"},
		})
		assert.Equal(t, http.StatusSeeOther, reset.StatusCode)
		assert.Equal(t, "/", reset.Header.Get("Location"))

		reused := postForm(t, client, ts.URL+"/reset-password", url.Values{
			"token":            {m[1]},
			"password":         {"another-password"},
			"confirm_password": {"another-password"},
		})
		assert.Equal(t, "/forgot-password", reused.Header.Get("Location"))
	})
}

func TestValidationErrors_RenderInline(t *testing.T) {
	ts, client, _ := setupIntegrationTest(t)

	res := postForm(t, client, ts.URL+"/signup", url.Values{"email": {"not-an-email"}, "password": {"123"}})
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Please, at least 6 characters long")
}

func TestChangeMode_Fragment(t *testing.T) {
	ts, client, _ := setupIntegrationTest(t)

	header := http.Header{"Hx-Request": {"true"}, "Hx-Current-Url": {ts.URL + "/login"}}
	res, body := get(t, client, ts.URL+"/auth/view/signup", header)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "/signup", res.Header.Get("HX-Push-Url"))
	assert.Contains(t, body, "Sign Up")
	assert.NotContains(t, strings.ToLower(body), "<html")

	missing, _ := get(t, client, ts.URL+"/auth/view/magic-link", header)
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestHealthAndStatic(t *testing.T) {
	ts, client, _ := setupIntegrationTest(t)

	res, body := get(t, client, ts.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)

	css, _ := get(t, client, ts.URL+"/static/app.css", nil)
	assert.Equal(t, http.StatusOK, css.StatusCode)
}

func TestStart_StopsOnContextCancel(t *testing.T) {
	i := app.NewInjector(testutils.MemoryConfig(), nil)
	s, err := server.New(i)
	require.NoError(t, err)
	s.RegisterRoutes()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
