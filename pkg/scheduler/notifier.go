package scheduler

import (
	"context"
	"log/slog"
)

// Notifier delivers a message to a user. The chat platform supplies the real
// implementation; the core only depends on this contract.
type Notifier interface {
	Notify(ctx context.Context, userID int64, message string) error
}

// LogNotifier writes notifications to the log. It is the default sink when
// no chat platform is wired in.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(_ context.Context, userID int64, message string) error {
	n.logger.Info("notification", "user_id", userID, "message", message)
	return nil
}
