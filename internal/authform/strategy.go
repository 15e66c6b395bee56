package authform

import "context"

// strategy is the per-mode dispatch entry.
type strategy struct {
	dispatch       func(ctx context.Context, a Actions, creds Credentials) (Session, error)
	succeed        func(ctx context.Context, h Hooks, s Session, creds Credentials)
	successMessage string
}

var strategies = map[Mode]strategy{
	ModeLogin: {
		dispatch: func(ctx context.Context, a Actions, creds Credentials) (Session, error) {
			return a.LoginWithPassword(ctx, creds.Email, creds.Password)
		},
		succeed: func(ctx context.Context, h Hooks, s Session, _ Credentials) {
			h.OnLoginSuccess(ctx, s)
		},
	},
	ModeSignup: {
		dispatch: func(ctx context.Context, a Actions, creds Credentials) (Session, error) {
			return a.CreateUser(ctx, creds.Email, creds.Password)
		},
		succeed: func(ctx context.Context, h Hooks, s Session, _ Credentials) {
			h.OnSignupSuccess(ctx, s)
		},
	},
	ModeForgotPassword: {
		dispatch: func(ctx context.Context, a Actions, creds Credentials) (Session, error) {
			return Session{Email: creds.Email}, a.SendResetPasswordEmail(ctx, creds.Email)
		},
		succeed: func(ctx context.Context, h Hooks, _ Session, creds Credentials) {
			h.OnSendResetSuccess(ctx, creds.Email)
		},
		successMessage: ResetEmailSent,
	},
}
