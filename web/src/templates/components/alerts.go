package components

import (
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// Alerts renders error and success messages. It renders nothing when both
// are empty.
func Alerts(errs, successes []string) cmp.Node {
	if len(errs) == 0 && len(successes) == 0 {
		return nil
	}
	return g.Div(
		g.Class("alerts"),
		cmp.Map(errs, func(msg string) cmp.Node {
			return g.Div(g.Class("alert alert-error"), g.Role("alert"), cmp.Text(msg))
		}),
		cmp.Map(successes, func(msg string) cmp.Node {
			return g.Div(g.Class("alert alert-success"), g.Role("status"), cmp.Text(msg))
		}),
	)
}

// FieldError renders the message under an input.
func FieldError(msg string) cmp.Node {
	if msg == "" {
		return nil
	}
	return g.P(g.Class("field-error"), cmp.Text(msg))
}
