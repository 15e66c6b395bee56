// Package accounts implements the account actions behind the auth form on
// top of a domain.UserRepository.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/nfrund/passauth/internal/authevents"
	"github.com/nfrund/passauth/internal/authform"
	"github.com/nfrund/passauth/internal/domain"
	"github.com/nfrund/passauth/internal/pubsub"
)

// Messages shown to the user for known failures.
const (
	MsgUserNotFound      = "User not found"
	MsgIncorrectPassword = "Incorrect password"
	MsgEmailExists       = "Email already exists."
	MsgInvalidResetLink  = "Invalid or expired reset link"
)

// ResetPasswordPath is where reset links point.
const ResetPasswordPath = "/reset-password"

// Service implements authform.Actions.
type Service struct {
	repo    domain.UserRepository
	mailer  domain.EmailSender
	pub     pubsub.Publisher
	baseURL string
}

var _ authform.Actions = (*Service)(nil)

// NewService wires the service. pub may be nil.
func NewService(repo domain.UserRepository, mailer domain.EmailSender, pub pubsub.Publisher, baseURL string) *Service {
	return &Service{repo: repo, mailer: mailer, pub: pub, baseURL: baseURL}
}

// LoginWithPassword signs in an existing user.
func (s *Service) LoginWithPassword(ctx context.Context, email, password string) (authform.Session, error) {
	user := &domain.User{Email: email}
	tok, err := s.repo.SignIn(ctx, user, password)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return authform.Session{}, domain.NewUserError(MsgUserNotFound, err)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return authform.Session{}, domain.NewUserError(MsgIncorrectPassword, err)
	case err != nil:
		slog.ErrorContext(ctx, "Sign in failed", "error", err)
		return authform.Session{}, domain.NewUserError("", err)
	}
	return authform.Session{UserID: user.ID, Email: user.Email, Token: tok}, nil
}

// CreateUser registers a user and signs them in.
func (s *Service) CreateUser(ctx context.Context, email, password string) (authform.Session, error) {
	user := &domain.User{Email: email}
	tok, err := s.repo.SignUp(ctx, user, password)
	switch {
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return authform.Session{}, domain.NewUserError(MsgEmailExists, err)
	case err != nil:
		slog.ErrorContext(ctx, "Sign up failed", "error", err)
		return authform.Session{}, domain.NewUserError("", err)
	}
	return authform.Session{UserID: user.ID, Email: user.Email, Token: tok}, nil
}

// SendResetPasswordEmail mails a reset link. Unknown addresses succeed
// silently so the form cannot be used to probe for accounts.
func (s *Service) SendResetPasswordEmail(ctx context.Context, email string) error {
	tok, err := s.repo.GenerateResetToken(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		slog.InfoContext(ctx, "Password reset requested for unknown email")
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "Failed to generate reset token", "error", err)
		return domain.NewUserError("", err)
	}

	body, err := renderResetEmail(s.ResetLink(tok))
	if err != nil {
		return domain.NewUserError("", err)
	}
	if err := s.mailer.Send(ctx, email, resetEmailSubject, body); err != nil {
		slog.ErrorContext(ctx, "Failed to send reset email", "error", err)
		return domain.NewUserError("", fmt.Errorf("send reset email: %w", err))
	}
	return nil
}

// ResetPassword redeems a reset token, sets newPassword and signs the user
// in with it.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) (authform.Session, error) {
	user, err := s.repo.ResetPassword(ctx, token, newPassword)
	if errors.Is(err, domain.ErrInvalidResetToken) {
		return authform.Session{}, domain.NewUserError(MsgInvalidResetLink, err)
	}
	if err != nil {
		slog.ErrorContext(ctx, "Password reset failed", "error", err)
		return authform.Session{}, domain.NewUserError("", err)
	}

	if s.pub != nil {
		ev := authevents.PasswordResetEvent{UserID: user.ID, Email: user.Email}
		if err := pubsub.Publish(ctx, s.pub, authevents.PasswordReset, user.ID, ev); err != nil {
			slog.WarnContext(ctx, "Failed to publish password reset event", "error", err)
		}
	}
	return s.LoginWithPassword(ctx, user.Email, newPassword)
}

// CurrentUser resolves a session token.
func (s *Service) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	return s.repo.Authenticate(ctx, token)
}

// ResetLink builds the absolute URL mailed to the user.
func (s *Service) ResetLink(token string) string {
	return s.baseURL + ResetPasswordPath + "?token=" + url.QueryEscape(token)
}
