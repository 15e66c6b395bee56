// Package server assembles the echo application for passauth.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/passauth/internal/app"
	"github.com/nfrund/passauth/internal/domain"
	"github.com/nfrund/passauth/internal/handlers"
	"github.com/nfrund/passauth/internal/middleware"
	"github.com/nfrund/passauth/internal/rendering"
	"github.com/nfrund/passauth/web"
	"github.com/samber/do/v2"
)

const sessionMaxAge = 86400 * 7 // 7 days

// Server holds the dependencies for the HTTP server.
type Server struct {
	E        *echo.Echo
	injector *do.RootScope
	deps     app.Dependencies
	logger   *slog.Logger
}

// New resolves the services registered on i and builds the echo instance
// around them. Routes are added by RegisterRoutes.
func New(i *do.RootScope) (*Server, error) {
	deps, err := app.Resolve(i)
	if err != nil {
		return nil, err
	}
	logger := do.MustInvoke[*slog.Logger](i)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	setupErrorHandling(e)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.Logger(logger))

	store := sessions.NewCookieStore([]byte(deps.Config.GetSessionSecret()))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))

	e.StaticFS("/static", echo.MustSubFS(web.FS, "static"))
	e.Renderer = rendering.New()
	e.Validator = handlers.NewValidator()

	return &Server{
		E:        e,
		injector: i,
		deps:     deps,
		logger:   logger,
	}, nil
}

// UserStore is a getter for the server's user store, useful for testing.
func (s *Server) UserStore() domain.UserRepository {
	return s.deps.Users
}
