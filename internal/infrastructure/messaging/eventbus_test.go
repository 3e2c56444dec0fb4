package messaging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roster-hub/student-roster-hub/internal/domain/shared"
)

func TestPublish_TypedAndAllHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(nil)

	var typed, all []shared.EventType
	require.NoError(t, bus.Subscribe(shared.EventStudentCreated, func(e shared.Event) error {
		typed = append(typed, e.EventType())
		return nil
	}))
	require.NoError(t, bus.SubscribeAll(func(e shared.Event) error {
		all = append(all, e.EventType())
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewStudentCreatedEvent("s1", "Alice Johnson")))
	require.NoError(t, bus.Publish(shared.NewStudentDeletedEvent("s1")))

	assert.Equal(t, []shared.EventType{shared.EventStudentCreated}, typed)
	assert.Equal(t, []shared.EventType{shared.EventStudentCreated, shared.EventStudentDeleted}, all)
}

func TestPublish_HandlerErrorIsSwallowed(t *testing.T) {
	bus := NewInMemoryEventBus(nil)

	calls := 0
	require.NoError(t, bus.SubscribeAll(func(e shared.Event) error {
		calls++
		return errors.New("subscriber broke")
	}))

	// The publisher must not see subscriber failures.
	assert.NoError(t, bus.Publish(shared.NewMutationFailedEvent("s1", "create", "insert failed")))
	assert.Equal(t, 1, calls)
}

func TestClosedBusRejectsOperations(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close()) // idempotent

	err := bus.Publish(shared.NewStudentCreatedEvent("s1", "Alice Johnson"))
	assert.ErrorIs(t, err, ErrEventBusClosed)

	err = bus.Subscribe(shared.EventStudentCreated, func(shared.Event) error { return nil })
	assert.ErrorIs(t, err, ErrEventBusClosed)
}

func TestPublish_NilEventAndNilHandler(t *testing.T) {
	bus := NewInMemoryEventBus(nil)

	assert.Error(t, bus.Publish(nil))
	assert.Error(t, bus.Subscribe(shared.EventStudentCreated, nil))
	assert.Error(t, bus.SubscribeAll(nil))
}
