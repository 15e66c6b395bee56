package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/passauth/internal/accounts"
	"github.com/nfrund/passauth/internal/authevents"
	"github.com/nfrund/passauth/internal/authform"
	"github.com/nfrund/passauth/internal/middleware"
	"github.com/nfrund/passauth/internal/pubsub"
	"github.com/nfrund/passauth/internal/view"
	"github.com/nfrund/passauth/web/src/templates/layouts"
	"github.com/nfrund/passauth/web/src/templates/pages"
	cmp "maragu.dev/gomponents"
)

// Flash messages for flows outside the password form.
const (
	MsgLoggedOut     = "You have been logged out."
	MsgPasswordReset = "Your password has been reset."
)

// AuthHandler serves the password form and the pages around it.
type AuthHandler struct {
	accounts  *accounts.Service
	pub       pubsub.Publisher
	validator authform.Validator
	cookieTTL time.Duration
}

// NewAuthHandler creates a new AuthHandler. pub may be nil, in which case no
// auth events are published.
func NewAuthHandler(svc *accounts.Service, pub pubsub.Publisher, cookieTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		accounts:  svc,
		pub:       pub,
		validator: authform.NewValidator(),
		cookieTTL: cookieTTL,
	}
}

// newController builds the per-request form controller. onModeChange may be
// nil when the request never changes mode.
func (h *AuthHandler) newController(c echo.Context, mode authform.Mode, onModeChange func(authform.Mode)) (*authform.Controller, error) {
	if onModeChange == nil {
		onModeChange = func(authform.Mode) {}
	}
	hooks := authform.MultiHooks{newRequestHooks(c, mode)}
	if h.pub != nil {
		hooks = append(hooks, authevents.NewHooks(h.pub, mode))
	}
	return authform.NewController(authform.Config{
		Mode:         mode,
		OnModeChange: onModeChange,
		Hooks:        hooks,
		Actions:      h.accounts,
		Validator:    h.validator,
	})
}

// ShowForm renders the full page for mode (GET /login, /signup, /forgot-password).
func (h *AuthHandler) ShowForm(mode authform.Mode) echo.HandlerFunc {
	return func(c echo.Context) error {
		flash := view.GetFlashData(c)
		v, _ := authform.View(mode)
		// Flashes go inside the form so a mode swap replaces them.
		return renderPage(c, http.StatusOK, v.Title, view.FlashData{}, pages.AuthForm(pages.AuthFormProps{
			Mode:  mode,
			View:  v,
			Email: flash.Email,
			State: flashState(flash),
		}))
	}
}

// ChangeMode swaps the form to another mode (GET /auth/view/:mode). It
// returns only the form fragment for htmx and pushes the mode's page URL.
func (h *AuthHandler) ChangeMode(c echo.Context) error {
	requested, _ := authform.ParseMode(c.Param("mode"))
	middleware.FromContext(c.Request().Context()).Debug("Auth form mode change",
		"from", currentPath(c), "to", c.Param("mode"))

	var target authform.Mode
	ctrl, err := h.newController(c, authform.ModeLogin, func(m authform.Mode) { target = m })
	if err != nil {
		return err
	}
	ctrl.ChangeMode(requested)

	v, ok := ctrl.View()
	if !ok {
		return renderFragment(c, http.StatusNotFound, pages.UnknownMode())
	}
	c.Response().Header().Set("HX-Push-Url", target.Path())
	return renderFragment(c, http.StatusOK, pages.AuthForm(pages.AuthFormProps{
		Mode:     target,
		View:     v,
		State:    ctrl.State(),
		Disabled: ctrl.Disabled(),
	}))
}

// Submit handles a POST of the form in mode. Validation failures are
// rendered inline; everything else follows post/redirect/get with flashes.
func (h *AuthHandler) Submit(mode authform.Mode) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctrl, err := h.newController(c, mode, nil)
		if err != nil {
			return err
		}
		values := authform.Values{Email: c.FormValue("email"), Password: c.FormValue("password")}
		res := ctrl.Submit(c.Request().Context(), values)

		switch res.Outcome {
		case authform.Aborted:
			// Look like a normal round trip to whatever tripped the gate.
			return c.Redirect(http.StatusSeeOther, mode.Path())

		case authform.Rejected:
			v, _ := authform.View(mode)
			return renderPage(c, http.StatusUnprocessableEntity, v.Title, view.FlashData{}, pages.AuthForm(pages.AuthFormProps{
				Mode:        mode,
				View:        v,
				Email:       values.Email,
				FieldErrors: byField(res.Err),
				State:       res.State,
			}))

		case authform.Failed:
			msg := res.State.ServerError
			if msg == "" {
				msg = authform.ErrorMessage(res.Err)
			}
			view.SetFlashError(c, msg)
			view.SetFlashEmail(c, values.Email)
			return c.Redirect(http.StatusSeeOther, mode.Path())

		default:
			if res.Session.Token != "" {
				h.setAuthCookie(c, res.Session.Token)
				return c.Redirect(http.StatusSeeOther, "/")
			}
			if res.State.ServerSuccess != "" {
				view.SetFlashSuccess(c, res.State.ServerSuccess)
			}
			return c.Redirect(http.StatusSeeOther, mode.Path())
		}
	}
}

// ResetPasswordGet renders the page reached from the emailed link.
func (h *AuthHandler) ResetPasswordGet(c echo.Context) error {
	tok := c.QueryParam("token")
	if tok == "" {
		view.SetFlashError(c, accounts.MsgInvalidResetLink)
		return c.Redirect(http.StatusSeeOther, authform.ModeForgotPassword.Path())
	}
	return renderPage(c, http.StatusOK, "Reset Password", view.GetFlashData(c),
		pages.ResetPassword(pages.ResetPasswordProps{Token: tok}))
}

// ResetPasswordPost redeems the token and signs the user in.
func (h *AuthHandler) ResetPasswordPost(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)

	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form submission")
	}
	if err := c.Validate(&req); err != nil {
		return renderPage(c, http.StatusUnprocessableEntity, "Reset Password", view.FlashData{},
			pages.ResetPassword(pages.ResetPasswordProps{Token: req.Token, FieldErrors: fieldErrors(err)}))
	}

	session, err := h.accounts.ResetPassword(ctx, req.Token, req.Password)
	if err != nil {
		logger.Info("Password reset rejected", "error", err)
		view.SetFlashError(c, authform.ErrorMessage(err))
		return c.Redirect(http.StatusSeeOther, authform.ModeForgotPassword.Path())
	}

	h.setAuthCookie(c, session.Token)
	view.SetFlashSuccess(c, MsgPasswordReset)
	return c.Redirect(http.StatusSeeOther, "/")
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	middleware.ClearAuthCookie(c)
	view.SetFlashSuccess(c, MsgLoggedOut)
	return c.Redirect(http.StatusSeeOther, authform.ModeLogin.Path())
}

// setAuthCookie stores the session token in an HttpOnly cookie.
func (h *AuthHandler) setAuthCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().UTC().Add(h.cookieTTL),
		HttpOnly: true,
		// Secure only when served over TLS so local development works.
		Secure:   c.Request().TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func byField(err error) map[authform.Field]string {
	var verr *authform.ValidationError
	if errors.As(err, &verr) {
		return verr.ByField()
	}
	return nil
}

// flashState carries the latest flash of each kind into the form alerts.
func flashState(flash view.FlashData) authform.FormState {
	var st authform.FormState
	if n := len(flash.Error); n > 0 {
		st.ServerError = flash.Error[n-1]
	}
	if n := len(flash.Success); n > 0 {
		st.ServerSuccess = flash.Success[n-1]
	}
	return st
}

func renderPage(c echo.Context, status int, title string, flash view.FlashData, node cmp.Node) error {
	return c.Render(status, "", layouts.Base(title, flash, view.GomponentToTempl(node)))
}

func renderFragment(c echo.Context, status int, node cmp.Node) error {
	return c.Render(status, "", node)
}
