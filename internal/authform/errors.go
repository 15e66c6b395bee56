package authform

import "errors"

const (
	// UnexpectedError is shown when an action fails without a usable message.
	UnexpectedError = "Unexpected error"

	// ResetEmailSent is the confirmation shown after a reset link is sent.
	ResetEmailSent = "A new email has been sent to your inbox!"
)

// ErrUnknownView is reported when the controller runs in an unrecognized mode.
var ErrUnknownView = errors.New("View option does not exist")

// ErrAborted is the Result error for a submission stopped by OnBefore.
var ErrAborted = errors.New("submission aborted before validation")

type messager interface {
	Message() string
}

// ErrorMessage extracts the user-facing message from an action error.
// Errors implementing Message() string supply it directly; otherwise the
// error text is used. An empty message falls back to UnexpectedError.
func ErrorMessage(err error) string {
	if err == nil {
		return UnexpectedError
	}
	var m messager
	if errors.As(err, &m) {
		if msg := m.Message(); msg != "" {
			return msg
		}
		return UnexpectedError
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return UnexpectedError
}
