package accounts

import (
	"strings"

	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

const resetEmailSubject = "Reset Your Password"

func resetEmail(link string) cmp.Node {
	return g.Div(
		g.P(cmp.Text("Someone asked to reset the password for your account.")),
		g.P(cmp.Text("Click the link below to choose a new one. The link expires in 24 hours.")),
		g.P(g.A(g.Href(link), cmp.Text("Reset Password"))),
		g.P(g.Small(cmp.Text("If you did not ask for this, you can ignore this email."))),
	)
}

func renderResetEmail(link string) (string, error) {
	var sb strings.Builder
	if err := resetEmail(link).Render(&sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}
