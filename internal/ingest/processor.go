package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"papers-backend/internal/database"
	"papers-backend/internal/dataset"
	"papers-backend/internal/messaging"
	"papers-backend/internal/storage"
	"papers-backend/pkg/models"

	"gorm.io/gorm"
)

// Processor consumes ingest tasks, drives the registered dataset reader over
// the dataset's source, and records the outcome in the catalog. Reader
// errors abort the run: the dataset is marked FAILED with the error attached
// and whatever was counted so far is discarded.
type Processor struct {
	db       *gorm.DB
	fetcher  *storage.Fetcher
	reciever messaging.Reciever

	readerCfg dataset.ReaderConfig
}

func NewProcessor(db *gorm.DB, fetcher *storage.Fetcher, reciever messaging.Reciever, readerCfg dataset.ReaderConfig) *Processor {
	return &Processor{
		db:        db,
		fetcher:   fetcher,
		reciever:  reciever,
		readerCfg: readerCfg,
	}
}

func (proc *Processor) Start() {
	slog.Info("starting ingest processor")

	for task := range proc.reciever.Tasks() {
		proc.ProcessTask(task)
	}
}

func (proc *Processor) Stop() {
	slog.Info("stopping ingest processor")

	proc.reciever.Close()
}

func (proc *Processor) ProcessTask(task messaging.Task) {
	ctx := context.Background()

	if task.Type() != messaging.IngestQueue {
		slog.Error("received unknown task type", "queue", task.Type())
		if err := task.Reject(); err != nil {
			slog.Error("error rejecting message from queue", "error", err)
		}
		return
	}

	var payload models.IngestTaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		slog.Error("error unmarshalling ingest task", "error", err)
		if err := task.Reject(); err != nil { // Discard malformed message
			slog.Error("error rejecting message from queue", "error", err)
		}
		return
	}

	if err := proc.processIngestTask(ctx, payload); err != nil {
		slog.Error("error processing ingest task", "dataset_id", payload.DatasetId, "error", err)
		if err := task.Nack(); err != nil {
			slog.Error("error reporting processing failure on message from queue", "error", err)
		}
	} else {
		slog.Info("successfully processed ingest task", "dataset_id", payload.DatasetId)
		if err := task.Ack(); err != nil {
			slog.Error("error acknowledging message from queue", "error", err)
		}
	}
}

func (proc *Processor) processIngestTask(ctx context.Context, payload models.IngestTaskPayload) error {
	slog.Info("processing ingest task", "dataset_id", payload.DatasetId)

	var ds database.Dataset
	if err := proc.db.WithContext(ctx).First(&ds, "id = ?", payload.DatasetId).Error; err != nil {
		return fmt.Errorf("error fetching dataset %s: %w", payload.DatasetId, err)
	}

	if err := database.UpdateDatasetStatus(ctx, proc.db, ds.Id, database.DatasetIngesting); err != nil {
		return fmt.Errorf("error marking dataset as ingesting: %w", err)
	}

	count, err := proc.runReader(ctx, ds)
	if err != nil {
		database.RecordDatasetError(ctx, proc.db, ds.Id, err)               //nolint:errcheck
		database.UpdateDatasetStatus(ctx, proc.db, ds.Id, database.DatasetFailed) //nolint:errcheck
		return err
	}

	updates := map[string]any{
		"instance_count":  count,
		"status":          database.DatasetReady,
		"completion_time": time.Now().UTC(),
	}
	if err := proc.db.WithContext(ctx).Model(&database.Dataset{Id: ds.Id}).Updates(updates).Error; err != nil {
		return fmt.Errorf("error recording ingest result: %w", err)
	}

	slog.Info("dataset ingested", "dataset_id", ds.Id, "instances", count)
	return nil
}

func (proc *Processor) runReader(ctx context.Context, ds database.Dataset) (int, error) {
	readerType, err := dataset.ToReaderType(ds.ReaderType)
	if err != nil {
		return 0, err
	}

	reader, err := dataset.NewReader(readerType, proc.readerCfg)
	if err != nil {
		return 0, err
	}

	source, err := proc.fetcher.Resolve(ctx, ds.SourcePath)
	if err != nil {
		return 0, err
	}

	if !proc.readerCfg.Lazy {
		instances, err := dataset.ReadAll(ctx, reader, source)
		if err != nil {
			return 0, err
		}
		return len(instances), nil
	}

	count := 0
	for _, err := range reader.Read(ctx, source) {
		if err != nil {
			return 0, err
		}
		count++
	}
	return count, nil
}
