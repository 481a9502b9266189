package database

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const (
	DatasetQueued    string = "QUEUED"
	DatasetIngesting string = "INGESTING"
	DatasetReady     string = "READY"
	DatasetFailed    string = "FAILED"
)

// Dataset is one catalog entry: a registered record source plus the reader
// that converts it into instances, with counts from the latest ingestion run.
type Dataset struct {
	Id uuid.UUID `gorm:"type:uuid;primaryKey"`

	Name       string `gorm:"not null"`
	ReaderType string `gorm:"size:32;not null"`
	SourcePath string

	Status string `gorm:"size:20;not null"`

	InstanceCount int `gorm:"default:0"`

	CreationTime   time.Time
	CompletionTime sql.NullTime

	Errors []DatasetError `gorm:"foreignKey:DatasetId;constraint:OnDelete:CASCADE"`
}

type DatasetError struct {
	DatasetId uuid.UUID `gorm:"type:uuid;primaryKey"`
	ErrorId   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Error     string
	Timestamp time.Time
}
