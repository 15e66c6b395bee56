package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
	cmp "maragu.dev/gomponents"
)

// GomponentToTempl wraps a gomponents node so it can be passed wherever a
// templ.Component is expected.
func GomponentToTempl(node cmp.Node) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return node.Render(w)
	})
}

// TemplToGomponent wraps a templ component for use inside a gomponents tree.
// gomponents does not pass a context, so ctx is captured up front.
func TemplToGomponent(ctx context.Context, component templ.Component) cmp.Node {
	return cmp.NodeFunc(func(w io.Writer) error {
		return component.Render(ctx, w)
	})
}
