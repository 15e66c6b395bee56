package authevents

import (
	"context"
	"log/slog"

	"github.com/nfrund/passauth/internal/authform"
	"github.com/nfrund/passauth/internal/pubsub"
)

// Hooks publishes form outcomes. Publishing is best effort: a failed publish
// is logged and never changes the form's result.
type Hooks struct {
	authform.NoopHooks
	pub  pubsub.Publisher
	mode authform.Mode
}

var _ authform.Hooks = (*Hooks)(nil)

// NewHooks returns hooks for a form currently in mode.
func NewHooks(pub pubsub.Publisher, mode authform.Mode) *Hooks {
	return &Hooks{pub: pub, mode: mode}
}

func (h *Hooks) OnClientError(ctx context.Context, err *authform.ValidationError) {
	fields := make(map[string]string, len(err.Errors))
	for f, msg := range err.ByField() {
		fields[string(f)] = msg
	}
	h.report(ctx, pubsub.Publish(ctx, h.pub, SubmissionRejected, "", FailureEvent{
		Mode:    string(h.mode),
		Message: err.Error(),
		Fields:  fields,
	}))
}

func (h *Hooks) OnServerError(ctx context.Context, err error) {
	h.report(ctx, pubsub.Publish(ctx, h.pub, SubmissionFailed, "", FailureEvent{
		Mode:    string(h.mode),
		Message: err.Error(),
	}))
}

func (h *Hooks) OnLoginSuccess(ctx context.Context, s authform.Session) {
	h.report(ctx, pubsub.Publish(ctx, h.pub, LoginSucceeded, s.UserID, SessionEvent{UserID: s.UserID, Email: s.Email}))
}

func (h *Hooks) OnSignupSuccess(ctx context.Context, s authform.Session) {
	h.report(ctx, pubsub.Publish(ctx, h.pub, SignupSucceeded, s.UserID, SessionEvent{UserID: s.UserID, Email: s.Email}))
}

func (h *Hooks) OnSendResetSuccess(ctx context.Context, email string) {
	h.report(ctx, pubsub.Publish(ctx, h.pub, ResetRequested, "", ResetRequestedEvent{Email: email}))
}

func (h *Hooks) report(ctx context.Context, err error) {
	if err != nil {
		slog.WarnContext(ctx, "Failed to publish auth event", "mode", h.mode, "error", err)
	}
}
