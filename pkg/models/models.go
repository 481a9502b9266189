package models

import (
	"time"

	"github.com/google/uuid"
)

// --- Prediction ---

// PredictRequest carries a single paper to classify. Title and abstract are
// pointers so a missing key can be told apart from an empty string.
type PredictRequest struct {
	Title    *string `json:"title"`
	Abstract *string `json:"abstract"`
}

type LabelScore struct {
	Label string  `json:"label"`
	Score float32 `json:"score"`
}

type PredictResponse struct {
	Labels []LabelScore `json:"labels"`
}

type LabelNamesResponse struct {
	Labels []string `json:"labels"`
}

// --- Dataset catalog ---

type CreateDatasetRequest struct {
	Name       string `json:"name"`
	ReaderType string `json:"reader_type"`
	SourcePath string `json:"source_path"`
}

type CreateDatasetResponse struct {
	Message   string    `json:"message"`
	DatasetId uuid.UUID `json:"dataset_id"`
}

type DatasetResponse struct {
	Id         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	ReaderType string    `json:"reader_type"`
	SourcePath string    `json:"source_path"`
	Status     string    `json:"status"`

	InstanceCount int `json:"instance_count"`

	CreationTime   time.Time  `json:"creation_time"`
	CompletionTime *time.Time `json:"completion_time,omitempty"`

	Errors []string `json:"errors,omitempty"`
}

type ListDatasetsQuery struct {
	Status string `schema:"status"`
	Limit  int    `schema:"limit"`
}

// --- Task payloads ---

type IngestTaskPayload struct {
	DatasetId uuid.UUID
}
