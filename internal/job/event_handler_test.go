package job

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/jdavey/taskhub-api/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleEventEnqueuesEmailJob(t *testing.T) {
	t.Parallel()

	jobStore := newMemoryJobStore()
	runner := NewRunner(jobStore, testRunnerConfig(), testLogger())
	handler := NewEmailEventHandler(runner, &recordingSender{}, testLogger())

	event, err := events.NewJobRequestEvent(TypeEmail, EmailPayload{
		Subject:   "Welcome to Task Manager",
		Recipient: "dave@example.com",
		Body:      "Your account has been created successfully.",
	})
	require.NoError(t, err)

	require.NoError(t, handler.HandleEvent(context.Background(), event))

	pending, err := jobStore.GetPendingJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)

	var payload EmailPayload
	require.NoError(t, json.Unmarshal(pending[0].Payload, &payload))
	assert.Equal(t, "dave@example.com", payload.Recipient)
}

func TestHandleEventIgnoresOtherEventTypes(t *testing.T) {
	t.Parallel()

	jobStore := newMemoryJobStore()
	runner := NewRunner(jobStore, testRunnerConfig(), testLogger())
	handler := NewEmailEventHandler(runner, &recordingSender{}, testLogger())

	event, err := events.NewJobRequestEvent("reindex_search", nil)
	require.NoError(t, err)

	require.NoError(t, handler.HandleEvent(context.Background(), event))

	pending, err := jobStore.GetPendingJobs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestHandleEventRejectsCorruptPayload(t *testing.T) {
	t.Parallel()

	jobStore := newMemoryJobStore()
	runner := NewRunner(jobStore, testRunnerConfig(), testLogger())
	handler := NewEmailEventHandler(runner, &recordingSender{}, testLogger())

	event := &events.JobRequestEvent{Type: TypeEmail, Payload: []byte("not json")}
	assert.Error(t, handler.HandleEvent(context.Background(), event))
}
