package domain

import "errors"

// Sentinel errors for the domain layer. These provide consistent, checkable
// errors for common business logic failures.
var (
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials provided")
	ErrInvalidResetToken  = errors.New("invalid or expired password reset token")
	ErrInvalidToken       = errors.New("invalid session token")
)

// UserError pairs a message that is safe to show with the internal cause.
// An empty Display means the user should only see a generic message.
type UserError struct {
	Display  string
	Internal error
}

// NewUserError wraps internal with a display message.
func NewUserError(display string, internal error) *UserError {
	return &UserError{Display: display, Internal: internal}
}

func (e *UserError) Error() string {
	switch {
	case e.Internal == nil:
		return e.Display
	case e.Display == "":
		return e.Internal.Error()
	default:
		return e.Display + ": " + e.Internal.Error()
	}
}

// Message is the user-facing text.
func (e *UserError) Message() string { return e.Display }

func (e *UserError) Unwrap() error { return e.Internal }
