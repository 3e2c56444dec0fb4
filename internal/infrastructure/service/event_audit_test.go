package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roster-hub/student-roster-hub/internal/domain/shared"
	"github.com/roster-hub/student-roster-hub/internal/infrastructure/messaging"
)

func TestEventAuditor_HandlesEvents(t *testing.T) {
	auditor := NewEventAuditor(nil)

	require.NoError(t, auditor.Handle(shared.NewStudentCreatedEvent("s1", "Alice Johnson")))
	require.NoError(t, auditor.Handle(shared.NewMutationFailedEvent("s1", "update", "connection reset")))

	assert.Equal(t, int64(2), auditor.Seen())
}

func TestEventAuditor_ConsumesBusEvents(t *testing.T) {
	bus := messaging.NewInMemoryEventBus(nil)
	defer func() { _ = bus.Close() }()

	auditor := NewEventAuditor(nil)
	require.NoError(t, bus.SubscribeAll(auditor.Handle))

	require.NoError(t, bus.Publish(shared.NewStudentDeletedEvent("s2")))
	require.NoError(t, bus.Publish(shared.NewAccountSignedUpEvent("acct-1", "alice@example.com")))

	assert.Equal(t, int64(2), auditor.Seen())
}
