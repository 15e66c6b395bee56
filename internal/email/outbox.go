package email

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"time"

	"github.com/spf13/afero"
)

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9@._-]+`)

// FileSender writes each email as an HTML file into an outbox directory, so
// reset links can be followed locally without a mail server.
type FileSender struct {
	fs  afero.Fs
	dir string
	now func() time.Time
}

// NewFileSender writes to dir on fs.
func NewFileSender(fs afero.Fs, dir string) *FileSender {
	return &FileSender{fs: fs, dir: dir, now: time.Now}
}

func (s *FileSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create outbox: %w", err)
	}

	name := fmt.Sprintf("%d-%s.html", s.now().UnixNano(), unsafeName.ReplaceAllString(to, "_"))
	path := filepath.Join(s.dir, name)
	content := fmt.Sprintf("<!-- To: %s -->\n<!-- Subject: %s -->\n%s\n", to, subject, htmlBody)

	if err := afero.WriteFile(s.fs, path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write email to outbox: %w", err)
	}
	slog.InfoContext(ctx, "Email written to outbox", "to", to, "path", path)
	return nil
}
