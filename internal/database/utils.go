package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func UpdateDatasetStatus(ctx context.Context, txn *gorm.DB, datasetId uuid.UUID, status string) error {
	updates := map[string]any{"status": status}
	if status == DatasetReady || status == DatasetFailed {
		updates["completion_time"] = time.Now().UTC()
	}

	if err := txn.WithContext(ctx).Model(&Dataset{Id: datasetId}).Updates(updates).Error; err != nil {
		slog.Error("error updating dataset status", "dataset_id", datasetId, "status", status, "error", err)
		return err
	}
	return nil
}

func RecordDatasetError(ctx context.Context, txn *gorm.DB, datasetId uuid.UUID, datasetErr error) error {
	record := DatasetError{
		DatasetId: datasetId,
		ErrorId:   uuid.New(),
		Error:     datasetErr.Error(),
		Timestamp: time.Now().UTC(),
	}
	if err := txn.WithContext(ctx).Create(&record).Error; err != nil {
		slog.Error("error recording dataset error", "dataset_id", datasetId, "error", err)
		return err
	}
	return nil
}
