package authevents

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nfrund/passauth/internal/pubsub"
)

// Audit writes every auth event to a structured log.
type Audit struct {
	logger *slog.Logger
}

// NewAudit logs to logger, or to slog.Default when logger is nil.
func NewAudit(logger *slog.Logger) *Audit {
	if logger == nil {
		logger = slog.Default()
	}
	return &Audit{logger: logger.With("component", "auth_audit")}
}

// Start subscribes to all auth topics. Subscriptions end with ctx.
func (a *Audit) Start(ctx context.Context, sub pubsub.Subscriber) error {
	for _, topic := range Topics() {
		if err := sub.Subscribe(ctx, topic, a.handle); err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
		}
	}
	return nil
}

func (a *Audit) handle(ctx context.Context, msg pubsub.Message) error {
	level := slog.LevelInfo
	if msg.Topic == SubmissionFailed.Name() {
		level = slog.LevelWarn
	}
	a.logger.Log(ctx, level, "Auth event",
		"topic", msg.Topic,
		"user_id", msg.UserID,
		"payload", string(msg.Payload),
	)
	return nil
}
