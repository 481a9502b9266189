package messaging

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"papers-backend/pkg/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryQueueDrainAfterClose(t *testing.T) {
	queue := NewInMemoryQueue()

	payload := models.IngestTaskPayload{DatasetId: uuid.New()}
	require.NoError(t, queue.PublishIngestTask(context.Background(), payload))

	queue.Close()

	// Tasks published before Close must still be delivered.
	select {
	case task, ok := <-queue.Tasks():
		require.True(t, ok)
		assert.Equal(t, IngestQueue, task.Type())

		var receivedPayload models.IngestTaskPayload
		require.NoError(t, json.Unmarshal(task.Payload(), &receivedPayload))
		assert.Equal(t, payload, receivedPayload)

		require.NoError(t, task.Ack())
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for task")
	}

	// After the backlog drains, the channel reports closed instead of
	// blocking, so ranging consumers exit.
	select {
	case _, ok := <-queue.Tasks():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for closed channel")
	}
}

func TestInMemoryQueueCloseIsIdempotent(t *testing.T) {
	queue := NewInMemoryQueue()
	queue.Close()

	assert.NotPanics(t, queue.Close)
}
