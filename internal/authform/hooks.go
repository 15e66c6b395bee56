package authform

import "context"

// Hooks receives the controller's lifecycle events. Implementations usually
// embed NoopHooks and override the events they care about.
type Hooks interface {
	// OnBefore runs first on every submission. A non-nil error aborts the
	// submission without surfacing anything to the user.
	OnBefore(ctx context.Context) error
	OnClientError(ctx context.Context, err *ValidationError)
	OnServerError(ctx context.Context, err error)
	OnLoginSuccess(ctx context.Context, session Session)
	OnSignupSuccess(ctx context.Context, session Session)
	OnSendResetSuccess(ctx context.Context, email string)
}

// NoopHooks ignores every event.
type NoopHooks struct{}

var _ Hooks = NoopHooks{}

func (NoopHooks) OnBefore(context.Context) error                  { return nil }
func (NoopHooks) OnClientError(context.Context, *ValidationError) {}
func (NoopHooks) OnServerError(context.Context, error)            {}
func (NoopHooks) OnLoginSuccess(context.Context, Session)         {}
func (NoopHooks) OnSignupSuccess(context.Context, Session)        {}
func (NoopHooks) OnSendResetSuccess(context.Context, string)      {}

// MultiHooks fans events out to several listeners in order. OnBefore stops
// at the first listener that returns an error.
type MultiHooks []Hooks

var _ Hooks = MultiHooks(nil)

func (m MultiHooks) OnBefore(ctx context.Context) error {
	for _, h := range m {
		if err := h.OnBefore(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (m MultiHooks) OnClientError(ctx context.Context, err *ValidationError) {
	for _, h := range m {
		h.OnClientError(ctx, err)
	}
}

func (m MultiHooks) OnServerError(ctx context.Context, err error) {
	for _, h := range m {
		h.OnServerError(ctx, err)
	}
}

func (m MultiHooks) OnLoginSuccess(ctx context.Context, session Session) {
	for _, h := range m {
		h.OnLoginSuccess(ctx, session)
	}
}

func (m MultiHooks) OnSignupSuccess(ctx context.Context, session Session) {
	for _, h := range m {
		h.OnSignupSuccess(ctx, session)
	}
}

func (m MultiHooks) OnSendResetSuccess(ctx context.Context, email string) {
	for _, h := range m {
		h.OnSendResetSuccess(ctx, email)
	}
}
