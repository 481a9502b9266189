package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"papers-backend/internal/database"
	"papers-backend/internal/dataset"
	"papers-backend/internal/messaging"
	"papers-backend/internal/predictor"
	"papers-backend/pkg/models"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultListLimit = 100

type BackendService struct {
	db        *gorm.DB
	publisher messaging.Publisher
	predictor *predictor.Predictor

	// classifier is nil when the service runs without a loaded model; the
	// prediction endpoint then reports unavailability while /predict/labels
	// keeps working.
	classifier predictor.Classifier
}

func NewBackendService(db *gorm.DB, pub messaging.Publisher, pred *predictor.Predictor, classifier predictor.Classifier) *BackendService {
	return &BackendService{db: db, publisher: pub, predictor: pred, classifier: classifier}
}

func (s *BackendService) AddRoutes(r chi.Router) {
	r.Get("/health", RestHandler(func(r *http.Request) (any, error) { return nil, nil }))
	r.Route("/predict", func(r chi.Router) {
		r.Post("/", RestHandler(s.Predict))
		r.Get("/labels", RestHandler(s.GetLabels))
	})
	r.Route("/datasets", func(r chi.Router) {
		r.Post("/", RestHandler(s.CreateDataset))
		r.Get("/", RestHandler(s.ListDatasets))
		r.Get("/{dataset_id}", RestHandler(s.GetDataset))
	})
}

func (s *BackendService) Predict(r *http.Request) (any, error) {
	req, err := ParseRequest[models.PredictRequest](r)
	if err != nil {
		return nil, err
	}

	instance, err := s.predictor.RequestToInstance(req)
	if err != nil {
		if errors.Is(err, predictor.ErrMissingTitle) || errors.Is(err, predictor.ErrMissingAbstract) {
			return nil, CodedError(http.StatusUnprocessableEntity, err)
		}
		return nil, CodedErrorf(http.StatusInternalServerError, "error building instance: %v", err)
	}

	if s.classifier == nil {
		return nil, CodedErrorf(http.StatusServiceUnavailable, "no classifier model is loaded")
	}

	scores, err := s.classifier.Predict(instance)
	if err != nil {
		slog.Error("error running classifier", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error running classifier")
	}

	labels := s.predictor.LabelNames()
	if len(scores) != len(labels) {
		slog.Error("classifier returned unexpected score count", "scores", len(scores), "labels", len(labels))
		return nil, CodedErrorf(http.StatusInternalServerError, "classifier returned %d scores for %d labels", len(scores), len(labels))
	}

	res := models.PredictResponse{Labels: make([]models.LabelScore, len(labels))}
	for i, label := range labels {
		res.Labels[i] = models.LabelScore{Label: label, Score: scores[i]}
	}
	return res, nil
}

func (s *BackendService) GetLabels(r *http.Request) (any, error) {
	return models.LabelNamesResponse{Labels: s.predictor.LabelNames()}, nil
}

func (s *BackendService) CreateDataset(r *http.Request) (any, error) {
	req, err := ParseRequest[models.CreateDatasetRequest](r)
	if err != nil {
		return nil, err
	}

	if err := validateName(req.Name); err != nil {
		return nil, err
	}

	readerType, err := dataset.ToReaderType(req.ReaderType)
	if err != nil {
		return nil, CodedErrorf(http.StatusUnprocessableEntity, "invalid reader_type: %v", err)
	}

	if readerType != dataset.SemanticScholarType && req.SourcePath == "" {
		return nil, CodedErrorf(http.StatusUnprocessableEntity, "source_path is required for reader_type %s", readerType)
	}

	ctx := r.Context()

	ds := database.Dataset{
		Id:           uuid.New(),
		Name:         req.Name,
		ReaderType:   string(readerType),
		SourcePath:   req.SourcePath,
		Status:       database.DatasetQueued,
		CreationTime: time.Now().UTC(),
	}

	if err := s.db.WithContext(ctx).Create(&ds).Error; err != nil {
		slog.Error("error creating dataset", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to create dataset entry")
	}

	if err := s.publisher.PublishIngestTask(ctx, models.IngestTaskPayload{DatasetId: ds.Id}); err != nil {
		slog.Error("error publishing ingest task", "dataset_id", ds.Id, "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "failed to queue ingest task")
	}

	slog.Info("submitted ingest job for dataset", "dataset_id", ds.Id, "reader_type", readerType)
	return models.CreateDatasetResponse{Message: "Ingest job submitted", DatasetId: ds.Id}, nil
}

func (s *BackendService) ListDatasets(r *http.Request) (any, error) {
	query, err := ParseRequestQueryParams[models.ListDatasetsQuery](r)
	if err != nil {
		return nil, err
	}

	limit := query.Limit
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}

	tx := s.db.WithContext(r.Context()).Order("creation_time DESC").Limit(limit)
	if query.Status != "" {
		tx = tx.Where("status = ?", query.Status)
	}

	var datasets []database.Dataset
	if err := tx.Find(&datasets).Error; err != nil {
		slog.Error("error listing datasets", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error listing datasets")
	}

	res := make([]models.DatasetResponse, len(datasets))
	for i, ds := range datasets {
		res[i] = ToDatasetResponse(ds)
	}
	return res, nil
}

func (s *BackendService) GetDataset(r *http.Request) (any, error) {
	datasetId, err := URLParamUUID(r, "dataset_id")
	if err != nil {
		return nil, err
	}

	var ds database.Dataset
	if err := s.db.WithContext(r.Context()).Preload("Errors").First(&ds, "id = ?", datasetId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, CodedErrorf(http.StatusNotFound, "dataset not found")
		}
		slog.Error("error getting dataset", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "error retrieving dataset record")
	}

	return ToDatasetResponse(ds), nil
}
