package pages

import (
	"github.com/nfrund/passauth/internal/authform"
	"github.com/nfrund/passauth/web/src/templates/components"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// ResetPasswordProps drives the choose-a-new-password page.
type ResetPasswordProps struct {
	Token       string
	FieldErrors map[string]string
	Error       string
}

// ResetPassword renders the form reached from the emailed link.
func ResetPassword(p ResetPasswordProps) cmp.Node {
	return g.Div(
		g.Class("auth-card"),
		g.H1(cmp.Text("Choose a new password")),
		components.Alerts(nonEmpty(p.Error), nil),
		g.Form(
			g.Method("post"),
			g.Action("/reset-password"),
			g.Input(g.Type("hidden"), g.Name("token"), g.Value(p.Token)),
			g.Div(
				g.Class("field"),
				g.Label(g.For("password"), cmp.Text("New password")),
				g.Input(g.Type("password"), g.ID("password"), g.Name("password"), g.AutoComplete("new-password")),
				components.FieldError(p.FieldErrors["password"]),
			),
			g.Div(
				g.Class("field"),
				g.Label(g.For("confirm_password"), cmp.Text("Confirm password")),
				g.Input(g.Type("password"), g.ID("confirm_password"), g.Name("confirm_password"), g.AutoComplete("new-password")),
				components.FieldError(p.FieldErrors["confirm_password"]),
			),
			g.Button(g.Type("submit"), g.Class("btn-primary"), cmp.Text("Reset Password")),
		),
		g.Nav(
			g.Class("auth-footer"),
			g.A(g.Href(authform.ModeLogin.Path()), cmp.Text("Log In")),
		),
	)
}
