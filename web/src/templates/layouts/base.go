package layouts

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/nfrund/passauth/internal/view"
	"github.com/nfrund/passauth/web/src/templates/components"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

const htmxSrc = "https://unpkg.com/htmx.org@2.0.4"

// Base wraps body in the HTML document shell. Flash messages are shown
// above the content.
func Base(title string, flash view.FlashData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		doc := cmp.Group{
			cmp.Raw("<!DOCTYPE html>"),
			g.HTML(
				g.Lang("en"),
				g.Head(
					g.Meta(g.Charset("utf-8")),
					g.Meta(g.Name("viewport"), g.Content("width=device-width, initial-scale=1")),
					g.TitleEl(cmp.Text(CalculateTitle(title))),
					g.Link(g.Rel("stylesheet"), g.Href("/static/app.css")),
					g.Script(g.Src(htmxSrc), g.Defer()),
				),
				g.Body(
					g.Main(
						g.Class("container"),
						components.Alerts(flash.Error, flash.Success),
						view.TemplToGomponent(ctx, body),
					),
				),
			),
		}
		return doc.Render(w)
	})
}
