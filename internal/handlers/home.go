package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/passauth/internal/middleware"
	"github.com/nfrund/passauth/internal/view"
	"github.com/nfrund/passauth/web/src/templates/pages"
)

// HomeGet renders the signed-in landing page. It sits behind middleware.Auth.
func HomeGet(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
	}
	return renderPage(c, http.StatusOK, "Home", view.GetFlashData(c), pages.Home(user.Email))
}

// Health reports liveness.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
