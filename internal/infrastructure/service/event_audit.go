package service

import (
	"sync/atomic"

	"github.com/roster-hub/student-roster-hub/internal/domain/shared"
	"github.com/roster-hub/student-roster-hub/pkg/logger"
)

// EventAuditor subscribes to the event bus and writes every domain event to
// the structured log, giving operators an audit trail of roster mutations
// and auth activity.
type EventAuditor struct {
	log  *logger.Logger
	seen atomic.Int64
}

// NewEventAuditor creates an EventAuditor.
func NewEventAuditor(log *logger.Logger) *EventAuditor {
	if log == nil {
		log = logger.Default()
	}
	return &EventAuditor{
		log: log.With(logger.Component("audit")),
	}
}

// Handle implements shared.EventHandler.
func (a *EventAuditor) Handle(event shared.Event) error {
	a.seen.Add(1)

	a.log.Info("domain event",
		logger.String("event_type", string(event.EventType())),
		logger.String("aggregate_id", event.AggregateID()),
		logger.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}

// Seen returns the number of events handled so far.
func (a *EventAuditor) Seen() int64 {
	return a.seen.Load()
}
