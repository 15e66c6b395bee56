package handlers

import (
	"context"
	"errors"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/passauth/internal/authform"
	"github.com/nfrund/passauth/internal/middleware"
	"github.com/nfrund/passauth/web/src/templates/pages"
)

var errHoneypot = errors.New("honeypot field was filled in")

// requestHooks ties form events to the current HTTP request.
type requestHooks struct {
	authform.NoopHooks
	c    echo.Context
	mode authform.Mode
}

func newRequestHooks(c echo.Context, mode authform.Mode) *requestHooks {
	return &requestHooks{c: c, mode: mode}
}

// OnBefore turns away submissions that filled the hidden honeypot input.
func (h *requestHooks) OnBefore(ctx context.Context) error {
	if h.c.FormValue(pages.HoneypotField) != "" {
		middleware.FromContext(ctx).Warn("Dropped auth submission", "mode", h.mode, "reason", errHoneypot, "ip", h.c.RealIP())
		return errHoneypot
	}
	return nil
}

func (h *requestHooks) OnClientError(ctx context.Context, err *authform.ValidationError) {
	middleware.FromContext(ctx).Debug("Auth form rejected", "mode", h.mode, "errors", err.Error())
}

func (h *requestHooks) OnServerError(ctx context.Context, err error) {
	middleware.FromContext(ctx).Info("Auth form failed", "mode", h.mode, "error", err)
}

func (h *requestHooks) OnLoginSuccess(ctx context.Context, s authform.Session) {
	middleware.FromContext(ctx).Info("User logged in", "user_id", s.UserID)
}

func (h *requestHooks) OnSignupSuccess(ctx context.Context, s authform.Session) {
	middleware.FromContext(ctx).Info("User signed up", "user_id", s.UserID)
}

// currentPath is the page the htmx request came from, if known.
func currentPath(c echo.Context) string {
	raw := c.Request().Header.Get("HX-Current-URL")
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Path
}
