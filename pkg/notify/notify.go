// Package notify delivers user-facing notifications.
//
// The dashboard surfaces these as toasts; server-side they are fanned out to
// the notification channel for the user's active session. Services depend on
// the Notifier interface so tests can assert on what the user would have seen.
package notify

import (
	"context"
	"log/slog"

	id "museforge/pkg/domain"
)

// Level classifies a notification for presentation.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is a single user-facing message.
type Notification struct {
	UserID  id.UserID
	Level   Level
	Message string
}

// Notifier delivers notifications to a user. Implementations must not block
// on delivery; a dropped notification is preferable to a stalled request.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// LogNotifier writes notifications to the structured log. It is the default
// sink when no push channel is wired, and keeps services honest about what
// the user is told.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a Notifier backed by the given logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Notify(ctx context.Context, n Notification) {
	if l.logger == nil {
		return
	}
	l.logger.InfoContext(ctx, "user notification",
		"user_id", n.UserID.String(),
		"level", string(n.Level),
		"message", n.Message,
	)
}

// Recorder captures notifications for tests.
type Recorder struct {
	Notifications []Notification
}

func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.Notifications = append(r.Notifications, n)
}

// Last returns the most recent notification, or a zero value when none were
// delivered.
func (r *Recorder) Last() Notification {
	if len(r.Notifications) == 0 {
		return Notification{}
	}
	return r.Notifications[len(r.Notifications)-1]
}
