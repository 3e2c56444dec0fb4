package roster

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/roster-hub/student-roster-hub/internal/domain/shared"
	"github.com/roster-hub/student-roster-hub/internal/domain/student"
	"github.com/roster-hub/student-roster-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MUTATION LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// MutationKind identifies one of the three roster mutations.
type MutationKind string

const (
	MutationCreate MutationKind = "create"
	MutationUpdate MutationKind = "update"
	MutationDelete MutationKind = "delete"
)

// MutationState is the lifecycle state of a mutation kind.
// Transitions: idle → pending → settled | failed. Terminal states are not
// retried automatically; the user must re-trigger the action.
type MutationState string

const (
	StateIdle    MutationState = "idle"
	StatePending MutationState = "pending"
	StateSettled MutationState = "settled"
	StateFailed  MutationState = "failed"
)

// Stats summarizes the snapshot for the dashboard cards.
type Stats struct {
	Total     int `json:"total"`
	Studying  int `json:"studying"`
	Working   int `json:"working"`
	Graduated int `json:"graduated"`
}

// EventPublisher publishes domain events after a mutation settles or fails.
type EventPublisher interface {
	Publish(event shared.Event) error
}

// ══════════════════════════════════════════════════════════════════════════════
// ORCHESTRATOR
// ══════════════════════════════════════════════════════════════════════════════

// Orchestrator owns the in-memory snapshot of the roster and the mutation
// lifecycle. The snapshot is a read-through, write-invalidate mirror of the
// remote store: it is only ever replaced wholesale by a List refetch, never
// patched, so it cannot silently diverge from the store's canonical state.
//
// The snapshot is the record set that duplicate detection and search run
// against. It is never the source of truth.
type Orchestrator struct {
	repo     student.Repository
	notifier Notifier
	bus      EventPublisher
	log      *logger.Logger

	mu          sync.RWMutex
	snapshot    []*student.Student
	loaded      bool
	refreshedAt time.Time

	stateMu sync.RWMutex
	states  map[MutationKind]MutationState
}

// New creates an Orchestrator. The bus is optional.
func New(repo student.Repository, notifier Notifier, bus EventPublisher, log *logger.Logger) *Orchestrator {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if log == nil {
		log = logger.Default()
	}

	return &Orchestrator{
		repo:     repo,
		notifier: notifier,
		bus:      bus,
		log:      log.With(logger.Component("roster")),
		states: map[MutationKind]MutationState{
			MutationCreate: StateIdle,
			MutationUpdate: StateIdle,
			MutationDelete: StateIdle,
		},
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Read path
// ─────────────────────────────────────────────────────────────────────────────

// Refresh fetches the full list from the store and replaces the snapshot
// wholesale. Called once on startup and again after every successful
// mutation.
func (o *Orchestrator) Refresh(ctx context.Context) error {
	students, err := o.repo.List(ctx)
	if err != nil {
		o.log.Error("failed to refresh roster snapshot", logger.Err(err))
		return err
	}

	o.mu.Lock()
	o.snapshot = students
	o.loaded = true
	o.refreshedAt = time.Now().UTC()
	o.mu.Unlock()

	o.log.Debug("roster snapshot refreshed", logger.Int("students", len(students)))
	return nil
}

// Loaded reports whether an initial Refresh has succeeded.
func (o *Orchestrator) Loaded() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.loaded
}

// RefreshedAt returns when the snapshot was last replaced.
func (o *Orchestrator) RefreshedAt() time.Time {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.refreshedAt
}

// Snapshot returns a copy of the current snapshot, most recently created
// first. Callers may not mutate the returned records.
func (o *Orchestrator) Snapshot() []*student.Student {
	o.mu.RLock()
	defer o.mu.RUnlock()

	out := make([]*student.Student, len(o.snapshot))
	for i, s := range o.snapshot {
		out[i] = s.Clone()
	}
	return out
}

// Get returns the snapshot record with the given ID.
func (o *Orchestrator) Get(id string) (*student.Student, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	for _, s := range o.snapshot {
		if s.ID == id {
			return s.Clone(), true
		}
	}
	return nil, false
}

// Search returns snapshot records whose name, email, or grade contains the
// term, case-insensitively. An empty term matches everything.
func (o *Orchestrator) Search(term string) []*student.Student {
	return o.Filter(term, "")
}

// FilterByStatus returns snapshot records with the given status.
func (o *Orchestrator) FilterByStatus(status student.Status) []*student.Student {
	return o.Filter("", status)
}

// Filter returns snapshot records matching both the search term and the
// status. A record matches the term when its name, email, or grade contains
// it, case-insensitively. An empty term matches every record; an empty
// status matches every status.
func (o *Orchestrator) Filter(term string, status student.Status) []*student.Student {
	term = strings.ToLower(strings.TrimSpace(term))

	o.mu.RLock()
	defer o.mu.RUnlock()

	out := make([]*student.Student, 0, len(o.snapshot))
	for _, s := range o.snapshot {
		if status != "" && s.Status != status {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(s.Name), term) &&
			!strings.Contains(strings.ToLower(s.Email), term) &&
			!strings.Contains(strings.ToLower(s.Grade), term) {
			continue
		}
		out = append(out, s.Clone())
	}
	return out
}

// Stats returns per-status counts over the snapshot.
func (o *Orchestrator) Stats() Stats {
	o.mu.RLock()
	defer o.mu.RUnlock()

	stats := Stats{Total: len(o.snapshot)}
	for _, s := range o.snapshot {
		switch s.Status {
		case student.StatusStudying:
			stats.Studying++
		case student.StatusWorking:
			stats.Working++
		case student.StatusGraduated:
			stats.Graduated++
		}
	}
	return stats
}

// State returns the lifecycle state of the given mutation kind.
func (o *Orchestrator) State(kind MutationKind) MutationState {
	o.stateMu.RLock()
	defer o.stateMu.RUnlock()
	return o.states[kind]
}

func (o *Orchestrator) setState(kind MutationKind, state MutationState) {
	o.stateMu.Lock()
	o.states[kind] = state
	o.stateMu.Unlock()
}

// ─────────────────────────────────────────────────────────────────────────────
// Mutations
// Each mutation runs validate → facade call → refetch → notify sequentially.
// Concurrent mutations of different kinds are not serialized against each
// other; the store alone determines final persisted state.
// ─────────────────────────────────────────────────────────────────────────────

// Create validates and submits a new student. Validation and duplicate
// failures are returned without any remote call and without notification;
// the form surfaces them field by field.
func (o *Orchestrator) Create(ctx context.Context, form student.FormData) (*student.Student, error) {
	form = form.Normalize()
	if err := student.ValidateForm(form); err != nil {
		return nil, err
	}
	if match := student.FindDuplicate(form, o.current(), ""); match != nil {
		return nil, student.DuplicateError("Create", match)
	}

	o.setState(MutationCreate, StatePending)

	created, err := o.repo.Create(ctx, form)
	if err != nil {
		o.fail(ctx, MutationCreate, "", "Failed to add student", err)
		return nil, err
	}

	o.settle(ctx, MutationCreate, "Student added successfully")
	o.publish(shared.NewStudentCreatedEvent(created.ID, created.Name))
	return created, nil
}

// Update validates and submits a full-record replacement. The record being
// edited is excluded from duplicate detection so it does not collide with
// itself.
func (o *Orchestrator) Update(ctx context.Context, id string, form student.FormData) (*student.Student, error) {
	form = form.Normalize()
	if err := student.ValidateForm(form); err != nil {
		return nil, err
	}
	if match := student.FindDuplicate(form, o.current(), id); match != nil {
		return nil, student.DuplicateError("Update", match)
	}

	o.setState(MutationUpdate, StatePending)

	updated, err := o.repo.Update(ctx, id, form)
	if err != nil {
		o.fail(ctx, MutationUpdate, id, "Failed to update student", err)
		return nil, err
	}

	o.settle(ctx, MutationUpdate, "Student updated successfully")
	o.publish(shared.NewStudentUpdatedEvent(updated.ID, updated.Name))
	return updated, nil
}

// Delete removes a student. Deleting an ID that no longer exists fails with
// the store's not-found diagnostic.
func (o *Orchestrator) Delete(ctx context.Context, id string) error {
	o.setState(MutationDelete, StatePending)

	if err := o.repo.Delete(ctx, id); err != nil {
		o.fail(ctx, MutationDelete, id, "Failed to delete student", err)
		return err
	}

	o.settle(ctx, MutationDelete, "Student deleted successfully")
	o.publish(shared.NewStudentDeletedEvent(id))
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Lifecycle helpers
// ─────────────────────────────────────────────────────────────────────────────

// settle refetches the list, then emits the success notification. A failed
// refetch leaves the snapshot stale until the next refresh; the mutation
// itself succeeded, so success is still reported.
func (o *Orchestrator) settle(ctx context.Context, kind MutationKind, message string) {
	if err := o.Refresh(ctx); err != nil {
		o.log.Warn("refetch after mutation failed; snapshot is stale",
			logger.String("mutation", string(kind)),
			logger.Err(err),
		)
	}

	o.setState(kind, StateSettled)
	o.notifier.Notify(ctx, Notification{
		Title:     "Success",
		Message:   message,
		Severity:  SeverityNormal,
		CreatedAt: time.Now().UTC(),
	})
}

// fail leaves the snapshot untouched, emits the destructive notification
// carrying the store diagnostic, and logs the failure.
func (o *Orchestrator) fail(ctx context.Context, kind MutationKind, id, message string, err error) {
	o.setState(kind, StateFailed)

	o.log.Error(message,
		logger.String("mutation", string(kind)),
		logger.StudentID(id),
		logger.Err(err),
	)

	o.notifier.Notify(ctx, Notification{
		Title:     "Error",
		Message:   message + ": " + err.Error(),
		Severity:  SeverityDestructive,
		CreatedAt: time.Now().UTC(),
	})

	o.publish(shared.NewMutationFailedEvent(id, string(kind), err.Error()))
}

// current returns the raw snapshot for duplicate detection.
func (o *Orchestrator) current() []*student.Student {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.snapshot
}

func (o *Orchestrator) publish(event shared.Event) {
	if o.bus == nil {
		return
	}
	if err := o.bus.Publish(event); err != nil {
		o.log.Warn("failed to publish event", logger.String("event", string(event.EventType())), logger.Err(err))
	}
}
