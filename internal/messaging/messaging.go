package messaging

import (
	"context"
	"time"

	"papers-backend/pkg/models"
)

const (
	IngestQueue     = "ingest_queue"
	RetryDelay      = 5 * time.Second
	MaxConnectRetry = 5
)

type Task interface {
	Type() string

	Payload() []byte

	Ack() error

	Nack() error

	Reject() error
}

type Publisher interface {
	PublishIngestTask(ctx context.Context, payload models.IngestTaskPayload) error

	Close()
}

type Reciever interface {
	Tasks() <-chan Task

	Close()
}
