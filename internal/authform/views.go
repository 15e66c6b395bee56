package authform

import "strings"

// Mode identifies which variant of the password form is active.
type Mode string

const (
	ModeLogin          Mode = "login"
	ModeSignup         Mode = "signup"
	ModeForgotPassword Mode = "forgotPassword"
)

// Field names a form input.
type Field string

const (
	FieldEmail    Field = "email"
	FieldPassword Field = "password"
)

// Link points at another mode of the form.
type Link struct {
	Mode  Mode
	Label string
}

// ViewConfig holds the display metadata for a mode.
type ViewConfig struct {
	Title    string
	Subtitle string
	// LinkTo and LinkText describe the link rendered next to the subtitle.
	// Both are empty when the view has no such link.
	LinkTo      Mode
	LinkText    string
	Fields      []Field
	ButtonText  string
	FooterLinks []Link
}

// Shows reports whether the view renders the given field.
func (v ViewConfig) Shows(f Field) bool {
	for _, field := range v.Fields {
		if field == f {
			return true
		}
	}
	return false
}

// HasLink reports whether the view renders a link beside its subtitle.
func (v ViewConfig) HasLink() bool {
	return v.LinkTo != "" && v.LinkText != ""
}

var views = map[Mode]ViewConfig{
	ModeLogin: {
		Title:       "Log In",
		Subtitle:    "Don't have an account?",
		LinkTo:      ModeSignup,
		LinkText:    "Sign Up",
		Fields:      []Field{FieldEmail, FieldPassword},
		ButtonText:  "Log In",
		FooterLinks: []Link{{Mode: ModeForgotPassword, Label: "Forgot Password?"}},
	},
	ModeSignup: {
		Title:      "Sign Up",
		Subtitle:   "Already have an account?",
		LinkTo:     ModeLogin,
		LinkText:   "Log In",
		Fields:     []Field{FieldEmail, FieldPassword},
		ButtonText: "Sign Up",
	},
	ModeForgotPassword: {
		Title:      "Forgot your Password?",
		Subtitle:   "We'll send a link to your email to reset your password and get you back on track.",
		Fields:     []Field{FieldEmail},
		ButtonText: "Send Link",
		FooterLinks: []Link{
			{Mode: ModeLogin, Label: "Log In"},
			{Mode: ModeSignup, Label: "Sign Up"},
		},
	},
}

// View returns the display metadata for m. The boolean is false for an
// unrecognized mode.
func View(m Mode) (ViewConfig, bool) {
	v, ok := views[m]
	return v, ok
}

// Modes lists the recognized modes in display order.
func Modes() []Mode {
	return []Mode{ModeLogin, ModeSignup, ModeForgotPassword}
}

// ParseMode accepts either a mode tag or its URL slug ("forgot-password").
func ParseMode(s string) (Mode, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "/")
	for _, m := range Modes() {
		if s == string(m) || s == m.Slug() {
			return m, true
		}
	}
	return Mode(s), false
}

// Slug is the path segment used for the mode in URLs.
func (m Mode) Slug() string {
	switch m {
	case ModeForgotPassword:
		return "forgot-password"
	default:
		return string(m)
	}
}

// Path is the page URL for the mode.
func (m Mode) Path() string {
	return "/" + m.Slug()
}
