// Package authevents publishes auth form outcomes on the message bus and
// keeps an audit log of them.
package authevents

import (
	"github.com/nfrund/passauth/internal/pubsub"
)

// SessionEvent is published after a login or signup.
type SessionEvent struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// ResetRequestedEvent is published when a reset link was requested.
type ResetRequestedEvent struct {
	Email string `json:"email"`
}

// PasswordResetEvent is published after a reset token was redeemed.
type PasswordResetEvent struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// FailureEvent is published for rejected and failed submissions.
type FailureEvent struct {
	Mode    string            `json:"mode"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

var (
	LoginSucceeded     = pubsub.NewEvent[SessionEvent]("auth.login.succeeded")
	SignupSucceeded    = pubsub.NewEvent[SessionEvent]("auth.signup.succeeded")
	ResetRequested     = pubsub.NewEvent[ResetRequestedEvent]("auth.reset.requested")
	PasswordReset      = pubsub.NewEvent[PasswordResetEvent]("auth.password.reset")
	SubmissionRejected = pubsub.NewEvent[FailureEvent]("auth.submission.rejected")
	SubmissionFailed   = pubsub.NewEvent[FailureEvent]("auth.submission.failed")
)

// Topics lists every topic this package publishes.
func Topics() []string {
	return []string{
		LoginSucceeded.Name(),
		SignupSucceeded.Name(),
		ResetRequested.Name(),
		PasswordReset.Name(),
		SubmissionRejected.Name(),
		SubmissionFailed.Name(),
	}
}
