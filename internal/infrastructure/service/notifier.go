// Package service contains infrastructure-side implementations of
// application ports.
package service

import (
	"context"
	"sync"

	"github.com/roster-hub/student-roster-hub/internal/application/roster"
	"github.com/roster-hub/student-roster-hub/pkg/logger"
)

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	if log == nil {
		log = logger.Default()
	}
	return &LogNotifier{log: log.With(logger.Component("notifier"))}
}

func (n *LogNotifier) Notify(ctx context.Context, notification roster.Notification) {
	fields := []logger.Field{
		logger.String("title", notification.Title),
		logger.String("severity", string(notification.Severity)),
	}
	if notification.Severity == roster.SeverityDestructive {
		n.log.Warn(notification.Message, fields...)
		return
	}
	n.log.Info(notification.Message, fields...)
}

// NotificationFeed keeps the most recent notifications in memory so the
// HTTP interface can surface them as toasts. Oldest entries are dropped
// once the feed is full.
type NotificationFeed struct {
	mu      sync.RWMutex
	entries []roster.Notification
	limit   int
}

// NewNotificationFeed creates a feed holding at most limit notifications.
func NewNotificationFeed(limit int) *NotificationFeed {
	if limit <= 0 {
		limit = 50
	}
	return &NotificationFeed{limit: limit}
}

func (f *NotificationFeed) Notify(ctx context.Context, notification roster.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries = append(f.entries, notification)
	if len(f.entries) > f.limit {
		f.entries = f.entries[len(f.entries)-f.limit:]
	}
}

// Recent returns the stored notifications, newest first.
func (f *NotificationFeed) Recent() []roster.Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]roster.Notification, len(f.entries))
	for i, n := range f.entries {
		out[len(f.entries)-1-i] = n
	}
	return out
}

// MultiNotifier fans a notification out to several notifiers.
type MultiNotifier struct {
	notifiers []roster.Notifier
}

// NewMultiNotifier creates a MultiNotifier. Nil entries are skipped.
func NewMultiNotifier(notifiers ...roster.Notifier) *MultiNotifier {
	out := make([]roster.Notifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			out = append(out, n)
		}
	}
	return &MultiNotifier{notifiers: out}
}

func (m *MultiNotifier) Notify(ctx context.Context, notification roster.Notification) {
	for _, n := range m.notifiers {
		n.Notify(ctx, notification)
	}
}
