package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubHandler records received events and optionally fails.
type stubHandler struct {
	received []*JobRequestEvent
	err      error
}

func (h *stubHandler) HandleEvent(ctx context.Context, event *JobRequestEvent) error {
	h.received = append(h.received, event)
	return h.err
}

func TestNewJobRequestEvent(t *testing.T) {
	t.Parallel()

	event, err := NewJobRequestEvent("welcome_email", map[string]string{"email": "a@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "welcome_email", event.Type)
	assert.NotEqual(t, [16]byte{}, [16]byte(event.ID))
	assert.False(t, event.CreatedAt.IsZero())

	var payload map[string]string
	require.NoError(t, event.UnmarshalPayload(&payload))
	assert.Equal(t, "a@example.com", payload["email"])
}

func TestNewJobRequestEventRejectsUnserializablePayload(t *testing.T) {
	t.Parallel()

	_, err := NewJobRequestEvent("bad", func() {})
	require.Error(t, err)
}

func TestEmitEventReachesAllHandlers(t *testing.T) {
	t.Parallel()

	emitter := NewInMemoryEventEmitter(testLogger())
	first := &stubHandler{}
	second := &stubHandler{}
	emitter.RegisterHandler(first)
	emitter.RegisterHandler(second)

	event, err := NewJobRequestEvent("welcome_email", map[string]string{})
	require.NoError(t, err)

	require.NoError(t, emitter.EmitEvent(context.Background(), event))
	require.Len(t, first.received, 1)
	require.Len(t, second.received, 1)
	assert.Equal(t, event.ID, first.received[0].ID)
}

func TestEmitEventWithoutHandlersIsNotAnError(t *testing.T) {
	t.Parallel()

	emitter := NewInMemoryEventEmitter(testLogger())

	event, err := NewJobRequestEvent("welcome_email", map[string]string{})
	require.NoError(t, err)

	assert.NoError(t, emitter.EmitEvent(context.Background(), event))
}

func TestEmitEventReturnsFirstErrorButContinues(t *testing.T) {
	t.Parallel()

	emitter := NewInMemoryEventEmitter(testLogger())
	firstErr := errors.New("first failure")
	failing := &stubHandler{err: firstErr}
	alsoFailing := &stubHandler{err: errors.New("second failure")}
	succeeding := &stubHandler{}
	emitter.RegisterHandler(failing)
	emitter.RegisterHandler(alsoFailing)
	emitter.RegisterHandler(succeeding)

	event, err := NewJobRequestEvent("welcome_email", map[string]string{})
	require.NoError(t, err)

	err = emitter.EmitEvent(context.Background(), event)
	require.ErrorIs(t, err, firstErr)

	// A failing handler does not stop delivery to the rest.
	assert.Len(t, succeeding.received, 1)
}
