package predictor

import (
	"errors"

	"papers-backend/internal/dataset"
	"papers-backend/pkg/models"
)

var (
	ErrMissingTitle    = errors.New("prediction request is missing 'title'")
	ErrMissingAbstract = errors.New("prediction request is missing 'abstract'")
)

// Predictor converts an inbound classification request into the same
// Instance representation the dataset readers produce, and supplies the
// label names the caller zips against the model's output scores.
type Predictor struct {
	tokenizer dataset.Tokenizer
	indexer   string
}

func New(tokenizer dataset.Tokenizer, indexer string) *Predictor {
	if tokenizer == nil {
		tokenizer = dataset.WordTokenizer{}
	}
	if indexer == "" {
		indexer = dataset.SingleIdIndexer
	}
	return &Predictor{tokenizer: tokenizer, indexer: indexer}
}

// RequestToInstance mirrors the Scopus reader's tokenized-text construction
// but attaches no label fields; the prediction path never trains. Absent
// title or abstract keys are an error.
func (p *Predictor) RequestToInstance(req models.PredictRequest) (*dataset.Instance, error) {
	if req.Title == nil {
		return nil, ErrMissingTitle
	}
	if req.Abstract == nil {
		return nil, ErrMissingAbstract
	}

	return dataset.NewInstance(map[string]dataset.Field{
		dataset.TitleFieldName:    &dataset.TextField{Tokens: p.tokenizer.Tokenize(*req.Title), Indexer: p.indexer},
		dataset.AbstractFieldName: &dataset.TextField{Tokens: p.tokenizer.Tokenize(*req.Abstract), Indexer: p.indexer},
	}), nil
}

// LabelNames returns the fixed, ordered label-name list for response
// shaping. It is independent of any model state.
func (p *Predictor) LabelNames() []string {
	return dataset.SubjectLabelNames()
}
