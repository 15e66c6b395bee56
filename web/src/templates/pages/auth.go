package pages

import (
	"github.com/nfrund/passauth/internal/authform"
	"github.com/nfrund/passauth/web/src/templates/components"
	cmp "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	g "maragu.dev/gomponents/html"
)

// AuthFormID is the element id htmx swaps when the mode changes.
const AuthFormID = "auth-form"

// HoneypotField is a hidden input that people never fill in.
const HoneypotField = "website"

// AuthFormProps is everything the password form needs to render.
type AuthFormProps struct {
	Mode        authform.Mode
	View        authform.ViewConfig
	Email       string
	FieldErrors map[authform.Field]string
	State       authform.FormState
	Disabled    bool
}

// AuthForm renders the password form for one mode.
func AuthForm(p AuthFormProps) cmp.Node {
	v := p.View
	return g.Div(
		g.ID(AuthFormID),
		g.Class("auth-card"),
		g.H1(cmp.Text(v.Title)),
		g.P(
			g.Class("auth-subtitle"),
			cmp.Text(v.Subtitle),
			cmp.If(v.HasLink(), cmp.Group{cmp.Text(" "), modeLink(v.LinkTo, v.LinkText)}),
		),
		components.Alerts(nonEmpty(p.State.ServerError), nonEmpty(p.State.ServerSuccess)),
		g.Form(
			g.Method("post"),
			g.Action(p.Mode.Path()),
			cmp.Attr("novalidate"),
			cmp.If(v.Shows(authform.FieldEmail), g.Div(
				g.Class("field"),
				g.Label(g.For("email"), cmp.Text("Email")),
				g.Input(
					g.Type("email"), g.ID("email"), g.Name("email"),
					g.Value(p.Email), g.AutoComplete("email"), g.Placeholder("you@example.com"),
				),
				components.FieldError(p.FieldErrors[authform.FieldEmail]),
			)),
			cmp.If(v.Shows(authform.FieldPassword), g.Div(
				g.Class("field"),
				g.Label(g.For("password"), cmp.Text("Password")),
				g.Input(
					g.Type("password"), g.ID("password"), g.Name("password"),
					g.AutoComplete(passwordAutocomplete(p.Mode)),
				),
				components.FieldError(p.FieldErrors[authform.FieldPassword]),
			)),
			g.Div(
				g.Class("honeypot"),
				cmp.Attr("aria-hidden", "true"),
				g.Input(g.Type("text"), g.Name(HoneypotField), g.TabIndex("-1"), g.AutoComplete("off")),
			),
			g.Button(
				g.Type("submit"),
				g.Class("btn-primary"),
				cmp.If(p.Disabled, g.Disabled()),
				cmp.Text(v.ButtonText),
			),
		),
		cmp.If(len(v.FooterLinks) > 0, g.Nav(
			g.Class("auth-footer"),
			cmp.Map(v.FooterLinks, func(l authform.Link) cmp.Node {
				return modeLink(l.Mode, l.Label)
			}),
		)),
	)
}

// UnknownMode is shown when a mode has no view configuration.
func UnknownMode() cmp.Node {
	return g.Div(
		g.ID(AuthFormID),
		g.Class("auth-card"),
		components.Alerts([]string{authform.ErrUnknownView.Error()}, nil),
	)
}

// modeLink falls back to a plain navigation when htmx is unavailable.
func modeLink(m authform.Mode, label string) cmp.Node {
	return g.A(
		g.Href(m.Path()),
		hx.Get("/auth/view/"+m.Slug()),
		hx.Target("#"+AuthFormID),
		hx.Swap("outerHTML"),
		hx.PushURL(m.Path()),
		cmp.Text(label),
	)
}

func passwordAutocomplete(m authform.Mode) string {
	if m == authform.ModeSignup {
		return "new-password"
	}
	return "current-password"
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}
