package view

import (
	"fmt"
	"log/slog"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	flashSessionName = "flash-session"
	flashKeySuccess  = "success"
	flashKeyError    = "error"
	flashKeyEmail    = "form_email"
)

// FlashData is the set of one-shot messages read for a single render.
type FlashData struct {
	Success []string
	Error   []string
	// Email is the address the user last typed, so a redirect after a
	// failed submission can refill the form.
	Email string
}

// HasAny reports whether there is a message to show.
func (f FlashData) HasAny() bool {
	return len(f.Success) > 0 || len(f.Error) > 0
}

func setFlash(c echo.Context, key, message string) {
	sess, err := session.Get(flashSessionName, c)
	if err != nil {
		slog.WarnContext(c.Request().Context(), "Failed to load flash session", "error", err)
	}
	sess.AddFlash(message, key)
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		slog.WarnContext(c.Request().Context(), "Failed to save flash session", "error", err)
	}
}

// SetFlashSuccess sets a success flash message.
func SetFlashSuccess(c echo.Context, message string) {
	setFlash(c, flashKeySuccess, message)
}

// SetFlashError sets an error flash message.
func SetFlashError(c echo.Context, message string) {
	setFlash(c, flashKeyError, message)
}

// SetFlashEmail remembers the submitted email across a redirect.
func SetFlashEmail(c echo.Context, email string) {
	if email != "" {
		setFlash(c, flashKeyEmail, email)
	}
}

// GetFlashData retrieves and clears flash messages from the session.
func GetFlashData(c echo.Context) FlashData {
	sess, err := session.Get(flashSessionName, c)
	if err != nil {
		return FlashData{}
	}

	data := FlashData{
		Success: toStrings(sess.Flashes(flashKeySuccess)),
		Error:   toStrings(sess.Flashes(flashKeyError)),
	}
	if emails := toStrings(sess.Flashes(flashKeyEmail)); len(emails) > 0 {
		data.Email = emails[len(emails)-1]
	}

	// Flashes() clears what it returns; persist the clearing.
	if data.HasAny() || data.Email != "" {
		_ = sess.Save(c.Request(), c.Response())
	}
	return data
}

func toStrings(values []any) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, fmt.Sprint(v))
	}
	return out
}
