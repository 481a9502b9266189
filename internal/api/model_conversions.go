package api

import (
	"papers-backend/internal/database"
	"papers-backend/pkg/models"
)

func ToDatasetResponse(ds database.Dataset) models.DatasetResponse {
	res := models.DatasetResponse{
		Id:            ds.Id,
		Name:          ds.Name,
		ReaderType:    ds.ReaderType,
		SourcePath:    ds.SourcePath,
		Status:        ds.Status,
		InstanceCount: ds.InstanceCount,
		CreationTime:  ds.CreationTime,
	}
	if ds.CompletionTime.Valid {
		t := ds.CompletionTime.Time
		res.CompletionTime = &t
	}
	for _, e := range ds.Errors {
		res.Errors = append(res.Errors, e.Error)
	}
	return res
}
