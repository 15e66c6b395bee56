package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/passauth/internal/domain"
)

const (
	// UserContextKey is where Auth stores the *domain.User.
	UserContextKey = "user"
	// AuthCookieName holds the session token.
	AuthCookieName = "auth_token"
	// LoginPath is where unauthenticated requests are sent.
	LoginPath = "/login"
)

// Auth creates a middleware that protects routes that require authentication.
func Auth(store domain.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(AuthCookieName)
			if err != nil || cookie.Value == "" {
				return c.Redirect(http.StatusSeeOther, LoginPath)
			}

			user, err := store.Authenticate(c.Request().Context(), cookie.Value)
			if err != nil || user == nil {
				FromContext(c.Request().Context()).Debug("Rejected session token", "error", err)
				ClearAuthCookie(c)
				return c.Redirect(http.StatusSeeOther, LoginPath)
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the user set by Auth, or nil.
func CurrentUser(c echo.Context) *domain.User {
	u, _ := c.Get(UserContextKey).(*domain.User)
	return u
}

// ClearAuthCookie expires the session cookie.
func ClearAuthCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
