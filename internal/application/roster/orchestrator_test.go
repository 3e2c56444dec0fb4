package roster

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roster-hub/student-roster-hub/internal/domain/shared"
	"github.com/roster-hub/student-roster-hub/internal/domain/student"
)

// ─────────────────────────────────────────────────────────────────────────────
// Test doubles
// ─────────────────────────────────────────────────────────────────────────────

// fakeRepo is an in-memory record store standing in for the remote facade.
type fakeRepo struct {
	mu       sync.Mutex
	students []*student.Student
	nextID   int

	failCreate error
	failUpdate error
	failDelete error
	failList   error

	createCalls int
	listCalls   int
}

func newFakeRepo(seed ...*student.Student) *fakeRepo {
	return &fakeRepo{students: seed, nextID: len(seed) + 1}
}

func (r *fakeRepo) List(ctx context.Context) ([]*student.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	if r.failList != nil {
		return nil, r.failList
	}
	out := make([]*student.Student, len(r.students))
	copy(out, r.students)
	return out, nil
}

func (r *fakeRepo) Create(ctx context.Context, form student.FormData) (*student.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if r.failCreate != nil {
		return nil, r.failCreate
	}
	s := &student.Student{
		ID:        fmt.Sprintf("s%d", r.nextID),
		Name:      form.Name,
		Phone:     form.Phone,
		Email:     form.Email,
		Status:    form.Status,
		CreatedAt: time.Now().UTC(),
	}
	r.nextID++
	r.students = append([]*student.Student{s}, r.students...)
	return s, nil
}

func (r *fakeRepo) Update(ctx context.Context, id string, form student.FormData) (*student.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdate != nil {
		return nil, r.failUpdate
	}
	for i, s := range r.students {
		if s.ID == id {
			updated := &student.Student{
				ID:     id,
				Name:   form.Name,
				Phone:  form.Phone,
				Email:  form.Email,
				Status: form.Status,
			}
			r.students[i] = updated
			return updated, nil
		}
	}
	return nil, shared.WrapError("student", "Update", shared.ErrRemote, "update failed", shared.ErrStudentNotFound)
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failDelete != nil {
		return r.failDelete
	}
	for i, s := range r.students {
		if s.ID == id {
			r.students = append(r.students[:i], r.students[i+1:]...)
			return nil
		}
	}
	return shared.WrapError("student", "Delete", shared.ErrRemote, "delete failed", shared.ErrStudentNotFound)
}

// recordingNotifier captures notifications in order.
type recordingNotifier struct {
	mu            sync.Mutex
	notifications []Notification
}

func (n *recordingNotifier) Notify(ctx context.Context, notification Notification) {
	n.mu.Lock()
	n.notifications = append(n.notifications, notification)
	n.mu.Unlock()
}

func (n *recordingNotifier) all() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notification(nil), n.notifications...)
}

func (n *recordingNotifier) last() (Notification, bool) {
	all := n.all()
	if len(all) == 0 {
		return Notification{}, false
	}
	return all[len(all)-1], true
}

func seedStudent(id, name, phone string) *student.Student {
	return &student.Student{ID: id, Name: name, Phone: phone, Status: student.StatusStudying}
}

func newTestOrchestrator(t *testing.T, repo *fakeRepo) (*Orchestrator, *recordingNotifier) {
	t.Helper()
	notifier := &recordingNotifier{}
	o := New(repo, notifier, nil, nil)
	require.NoError(t, o.Refresh(context.Background()))
	return o, notifier
}

// ─────────────────────────────────────────────────────────────────────────────
// Create
// ─────────────────────────────────────────────────────────────────────────────

func TestCreate_Success(t *testing.T) {
	repo := newFakeRepo(seedStudent("s0", "Bob Lee", "+7 701 000 0000"))
	o, notifier := newTestOrchestrator(t, repo)

	created, err := o.Create(context.Background(), student.FormData{
		Name:   "Alice Johnson",
		Phone:  "+7 700 123 4567",
		Status: student.StatusStudying,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	// Snapshot is refetched wholesale, not patched locally.
	snap := o.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, created.ID, snap[0].ID)

	assert.Equal(t, StateSettled, o.State(MutationCreate))

	last, ok := notifier.last()
	require.True(t, ok)
	assert.Equal(t, SeverityNormal, last.Severity)
	assert.Equal(t, "Student added successfully", last.Message)
}

func TestCreate_ValidationFailureSkipsRemote(t *testing.T) {
	repo := newFakeRepo()
	o, notifier := newTestOrchestrator(t, repo)

	_, err := o.Create(context.Background(), student.FormData{Phone: "+7 700 123 4567"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrValidation))

	assert.Equal(t, 0, repo.createCalls)
	assert.Empty(t, notifier.all(), "validation failures surface in the form, not as notifications")
	assert.Equal(t, StateIdle, o.State(MutationCreate))
}

func TestCreate_DuplicateSkipsRemote(t *testing.T) {
	repo := newFakeRepo(seedStudent("s1", "Alice Johnson", "+7 700 123 4567"))
	o, notifier := newTestOrchestrator(t, repo)

	// Same phone, name differing only in case.
	_, err := o.Create(context.Background(), student.FormData{
		Name:   "alice johnson",
		Phone:  "+7 700 123 4567",
		Status: student.StatusStudying,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrDuplicate))

	assert.Equal(t, 0, repo.createCalls)
	assert.Empty(t, notifier.all())
}

func TestCreate_RemoteFailureLeavesSnapshotUntouched(t *testing.T) {
	repo := newFakeRepo(seedStudent("s1", "Bob Lee", "+7 701 000 0000"))
	o, notifier := newTestOrchestrator(t, repo)
	before := o.Snapshot()

	storeErr := shared.WrapError("student", "Create", shared.ErrRemote, "insert failed", errors.New("connection reset"))
	repo.failCreate = storeErr

	_, err := o.Create(context.Background(), student.FormData{
		Name:   "Alice Johnson",
		Phone:  "+7 700 123 4567",
		Status: student.StatusStudying,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrRemote))

	assert.Equal(t, before, o.Snapshot())
	assert.Equal(t, StateFailed, o.State(MutationCreate))

	last, ok := notifier.last()
	require.True(t, ok)
	assert.Equal(t, SeverityDestructive, last.Severity)
	assert.Contains(t, last.Message, "Failed to add student")
	assert.Contains(t, last.Message, "connection reset", "notification carries the store diagnostic")
}

// ─────────────────────────────────────────────────────────────────────────────
// Update
// ─────────────────────────────────────────────────────────────────────────────

func TestUpdate_Success(t *testing.T) {
	repo := newFakeRepo(seedStudent("s1", "Alice Johnson", "+7 700 123 4567"))
	o, notifier := newTestOrchestrator(t, repo)

	updated, err := o.Update(context.Background(), "s1", student.FormData{
		Name:   "Alice Johnson",
		Phone:  "+7 700 999 9999",
		Status: student.StatusWorking,
	})
	require.NoError(t, err)
	assert.Equal(t, student.StatusWorking, updated.Status)

	snap := o.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "+7 700 999 9999", snap[0].Phone)

	last, ok := notifier.last()
	require.True(t, ok)
	assert.Equal(t, "Student updated successfully", last.Message)
	assert.Equal(t, StateSettled, o.State(MutationUpdate))
}

func TestUpdate_SelfIsNotADuplicate(t *testing.T) {
	repo := newFakeRepo(seedStudent("s1", "Alice Johnson", "+7 700 123 4567"))
	o, _ := newTestOrchestrator(t, repo)

	// Re-submitting the unchanged identity for the same record must pass.
	_, err := o.Update(context.Background(), "s1", student.FormData{
		Name:   "Alice Johnson",
		Phone:  "+7 700 123 4567",
		Status: student.StatusStudying,
	})
	assert.NoError(t, err)
}

func TestUpdate_DuplicateAgainstOtherRecord(t *testing.T) {
	repo := newFakeRepo(
		seedStudent("s1", "Alice Johnson", "+7 700 123 4567"),
		seedStudent("s2", "Bob Lee", "+7 701 000 0000"),
	)
	o, _ := newTestOrchestrator(t, repo)

	_, err := o.Update(context.Background(), "s2", student.FormData{
		Name:   "ALICE JOHNSON",
		Phone:  "+7 700 123 4567",
		Status: student.StatusStudying,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrDuplicate))
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete
// ─────────────────────────────────────────────────────────────────────────────

func TestDelete_Success(t *testing.T) {
	repo := newFakeRepo(seedStudent("s1", "Alice Johnson", "+7 700 123 4567"))
	o, notifier := newTestOrchestrator(t, repo)

	require.NoError(t, o.Delete(context.Background(), "s1"))
	assert.Empty(t, o.Snapshot())

	last, ok := notifier.last()
	require.True(t, ok)
	assert.Equal(t, "Student deleted successfully", last.Message)
}

func TestDelete_MissingIDFailsWithStoreDiagnostic(t *testing.T) {
	repo := newFakeRepo(seedStudent("s1", "Alice Johnson", "+7 700 123 4567"))
	o, notifier := newTestOrchestrator(t, repo)

	require.NoError(t, o.Delete(context.Background(), "s1"))

	// Second delete of the same ID: the store reports not-found and the
	// failure is surfaced, never swallowed.
	err := o.Delete(context.Background(), "s1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrNotFound))

	assert.Equal(t, StateFailed, o.State(MutationDelete))

	last, ok := notifier.last()
	require.True(t, ok)
	assert.Equal(t, SeverityDestructive, last.Severity)
	assert.Contains(t, last.Message, "Failed to delete student")
}

// ─────────────────────────────────────────────────────────────────────────────
// Refetch behavior
// ─────────────────────────────────────────────────────────────────────────────

func TestSettle_RefetchFailureKeepsStaleSnapshotButReportsSuccess(t *testing.T) {
	repo := newFakeRepo()
	o, notifier := newTestOrchestrator(t, repo)

	repo.failList = shared.WrapError("student", "List", shared.ErrRemote, "list failed", errors.New("timeout"))

	created, err := o.Create(context.Background(), student.FormData{
		Name:   "Alice Johnson",
		Phone:  "+7 700 123 4567",
		Status: student.StatusStudying,
	})
	require.NoError(t, err, "the mutation itself succeeded")
	require.NotNil(t, created)

	// Snapshot is stale: the new record is not visible locally.
	assert.Empty(t, o.Snapshot())
	assert.Equal(t, StateSettled, o.State(MutationCreate))

	last, ok := notifier.last()
	require.True(t, ok)
	assert.Equal(t, SeverityNormal, last.Severity)
}

// ─────────────────────────────────────────────────────────────────────────────
// Read side
// ─────────────────────────────────────────────────────────────────────────────

func TestSnapshot_ReturnsIndependentCopies(t *testing.T) {
	repo := newFakeRepo(seedStudent("s1", "Alice Johnson", "+7 700 123 4567"))
	o, _ := newTestOrchestrator(t, repo)

	snap := o.Snapshot()
	snap[0].Name = "mutated"

	again := o.Snapshot()
	assert.Equal(t, "Alice Johnson", again[0].Name)
}

func TestSearch(t *testing.T) {
	alice := seedStudent("s1", "Alice Johnson", "+7 700 123 4567")
	alice.Email = "alice@example.com"
	alice.Grade = "Sophomore"
	bob := seedStudent("s2", "Bob Lee", "+7 701 000 0000")

	repo := newFakeRepo(alice, bob)
	o, _ := newTestOrchestrator(t, repo)

	assert.Len(t, o.Search(""), 2)
	assert.Len(t, o.Search("ALICE"), 1)
	assert.Len(t, o.Search("example.com"), 1)
	assert.Len(t, o.Search("sopho"), 1)
	assert.Empty(t, o.Search("nobody"))
}

func TestFilter_TermAndStatusCombine(t *testing.T) {
	alice := seedStudent("s1", "Alice Johnson", "+7 700 123 4567")
	bob := seedStudent("s2", "Bob Lee", "+7 701 000 0000")
	grad := seedStudent("s3", "Alice Smith", "+7 702 000 0000")
	grad.Status = student.StatusGraduated

	repo := newFakeRepo(alice, bob, grad)
	o, _ := newTestOrchestrator(t, repo)

	// Both conditions must hold.
	assert.Len(t, o.Filter("alice", student.StatusStudying), 1)
	assert.Len(t, o.Filter("alice", student.StatusGraduated), 1)
	assert.Empty(t, o.Filter("bob", student.StatusGraduated))
	assert.Empty(t, o.Filter("nobody", student.StatusStudying))

	// Either side empty relaxes that side only.
	assert.Len(t, o.Filter("", student.StatusStudying), 2)
	assert.Len(t, o.Filter("alice", ""), 2)
	assert.Len(t, o.Filter("", ""), 3)
}

func TestFilterByStatusAndStats(t *testing.T) {
	alice := seedStudent("s1", "Alice Johnson", "+7 700 123 4567")
	bob := seedStudent("s2", "Bob Lee", "+7 701 000 0000")
	bob.Status = student.StatusGraduated

	repo := newFakeRepo(alice, bob)
	o, _ := newTestOrchestrator(t, repo)

	assert.Len(t, o.FilterByStatus(student.StatusStudying), 1)
	assert.Len(t, o.FilterByStatus(student.StatusGraduated), 1)
	assert.Empty(t, o.FilterByStatus(student.StatusWorking))

	stats := o.Stats()
	assert.Equal(t, Stats{Total: 2, Studying: 1, Graduated: 1}, stats)
}

func TestGet(t *testing.T) {
	repo := newFakeRepo(seedStudent("s1", "Alice Johnson", "+7 700 123 4567"))
	o, _ := newTestOrchestrator(t, repo)

	got, ok := o.Get("s1")
	require.True(t, ok)
	assert.Equal(t, "Alice Johnson", got.Name)

	_, ok = o.Get("missing")
	assert.False(t, ok)
}

func TestStateLifecycle_InitiallyIdle(t *testing.T) {
	repo := newFakeRepo()
	o, _ := newTestOrchestrator(t, repo)

	assert.Equal(t, StateIdle, o.State(MutationCreate))
	assert.Equal(t, StateIdle, o.State(MutationUpdate))
	assert.Equal(t, StateIdle, o.State(MutationDelete))
	assert.True(t, o.Loaded())
}
