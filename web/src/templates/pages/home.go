package pages

import (
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// Home is the signed-in landing page.
func Home(email string) cmp.Node {
	return g.Div(
		g.Class("auth-card"),
		g.H1(cmp.Text("Welcome")),
		g.P(cmp.Text("Signed in as "), g.Strong(cmp.Text(email))),
		g.Form(
			g.Method("post"),
			g.Action("/logout"),
			g.Button(g.Type("submit"), g.Class("btn-secondary"), cmp.Text("Log Out")),
		),
	)
}
