package server

import (
	"github.com/nfrund/passauth/internal/accounts"
	"github.com/nfrund/passauth/internal/authform"
	"github.com/nfrund/passauth/internal/handlers"
	"github.com/nfrund/passauth/internal/middleware"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() {
	auth := s.deps.Auth
	rateLimiter := middleware.RateLimiter()

	for _, mode := range authform.Modes() {
		s.E.GET(mode.Path(), auth.ShowForm(mode))
		s.E.POST(mode.Path(), auth.Submit(mode), rateLimiter)
	}
	s.E.GET("/auth/view/:mode", auth.ChangeMode)

	s.E.GET(accounts.ResetPasswordPath, auth.ResetPasswordGet)
	s.E.POST(accounts.ResetPasswordPath, auth.ResetPasswordPost, rateLimiter)
	s.E.POST("/logout", auth.Logout)

	s.E.GET("/", handlers.HomeGet, middleware.Auth(s.deps.Users))
	s.E.GET("/health", handlers.Health)
}
