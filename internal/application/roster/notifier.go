// Package roster contains the client cache and mutation orchestrator: the
// application layer mediating between the view boundary and the record
// store facade.
package roster

import (
	"context"
	"time"
)

// Severity classifies a user-visible notification.
type Severity string

const (
	// SeverityNormal is an informational notification.
	SeverityNormal Severity = "normal"

	// SeverityDestructive marks a failure or a destructive outcome.
	SeverityDestructive Severity = "destructive"
)

// Notification is a transient user-visible message emitted when a mutation
// settles or fails.
type Notification struct {
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier is the "show transient message" sink. Implementations live in
// infrastructure/service.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(context.Context, Notification) {}
