// Package shared contains common domain types, errors, and events that are
// used across all domain packages.
package shared

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Each event represents a settled or failed roster
// mutation or an auth action; subscribers (audit log, diagnostics) react
// to them.
const (
	// Roster events
	EventStudentCreated EventType = "roster.student_created"
	EventStudentUpdated EventType = "roster.student_updated"
	EventStudentDeleted EventType = "roster.student_deleted"
	EventMutationFailed EventType = "roster.mutation_failed"

	// Auth events
	EventAccountSignedUp EventType = "auth.account_signed_up"
	EventAccountSignedIn EventType = "auth.account_signed_in"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string
}

// EventHandler processes a published event.
type EventHandler func(event Event) error

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Roster Events
// ═══════════════════════════════════════════════════════════════════════════

// StudentCreatedEvent is emitted after a create mutation settles.
type StudentCreatedEvent struct {
	BaseEvent
	Name string `json:"name"`
}

// NewStudentCreatedEvent creates a StudentCreatedEvent.
func NewStudentCreatedEvent(studentID, name string) StudentCreatedEvent {
	return StudentCreatedEvent{
		BaseEvent: NewBaseEvent(EventStudentCreated, studentID),
		Name:      name,
	}
}

// StudentUpdatedEvent is emitted after an update mutation settles.
type StudentUpdatedEvent struct {
	BaseEvent
	Name string `json:"name"`
}

// NewStudentUpdatedEvent creates a StudentUpdatedEvent.
func NewStudentUpdatedEvent(studentID, name string) StudentUpdatedEvent {
	return StudentUpdatedEvent{
		BaseEvent: NewBaseEvent(EventStudentUpdated, studentID),
		Name:      name,
	}
}

// StudentDeletedEvent is emitted after a delete mutation settles.
type StudentDeletedEvent struct {
	BaseEvent
}

// NewStudentDeletedEvent creates a StudentDeletedEvent.
func NewStudentDeletedEvent(studentID string) StudentDeletedEvent {
	return StudentDeletedEvent{
		BaseEvent: NewBaseEvent(EventStudentDeleted, studentID),
	}
}

// MutationFailedEvent is emitted when a mutation fails against the store.
type MutationFailedEvent struct {
	BaseEvent
	Mutation string `json:"mutation"`
	Reason   string `json:"reason"`
}

// NewMutationFailedEvent creates a MutationFailedEvent.
func NewMutationFailedEvent(studentID, mutation, reason string) MutationFailedEvent {
	return MutationFailedEvent{
		BaseEvent: NewBaseEvent(EventMutationFailed, studentID),
		Mutation:  mutation,
		Reason:    reason,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Auth Events
// ═══════════════════════════════════════════════════════════════════════════

// AccountSignedUpEvent is emitted when a new account is created.
type AccountSignedUpEvent struct {
	BaseEvent
	Email string `json:"email"`
}

// NewAccountSignedUpEvent creates an AccountSignedUpEvent.
func NewAccountSignedUpEvent(accountID, email string) AccountSignedUpEvent {
	return AccountSignedUpEvent{
		BaseEvent: NewBaseEvent(EventAccountSignedUp, accountID),
		Email:     email,
	}
}

// AccountSignedInEvent is emitted on successful sign-in.
type AccountSignedInEvent struct {
	BaseEvent
	Email string `json:"email"`
}

// NewAccountSignedInEvent creates an AccountSignedInEvent.
func NewAccountSignedInEvent(accountID, email string) AccountSignedInEvent {
	return AccountSignedInEvent{
		BaseEvent: NewBaseEvent(EventAccountSignedIn, accountID),
		Email:     email,
	}
}
