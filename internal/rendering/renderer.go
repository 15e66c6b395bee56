package rendering

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Renderer is an echo.Renderer for templ components and gomponents nodes.
// The component is passed as the data argument of c.Render; the name is
// ignored.
type Renderer struct{}

var _ echo.Renderer = (*Renderer)(nil)

// New returns a Renderer.
func New() *Renderer {
	return &Renderer{}
}

// gomponentNode matches gomponents.Node without importing it.
type gomponentNode interface {
	Render(w io.Writer) error
}

// Component renders component to w.
func Component(ctx context.Context, w io.Writer, component any) error {
	switch c := component.(type) {
	case templ.Component:
		return c.Render(ctx, w)
	case gomponentNode:
		return c.Render(w)
	default:
		return fmt.Errorf("unsupported component type %T", component)
	}
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, _ string, data any, c echo.Context) error {
	if c.Response().Header().Get(echo.HeaderContentType) == "" {
		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	}
	return Component(c.Request().Context(), w, data)
}
