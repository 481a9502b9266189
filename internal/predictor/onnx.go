package predictor

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"papers-backend/internal/dataset"

	"github.com/daulet/tokenizers"
	ort "github.com/yalue/onnxruntime_go"
)

// Classifier is the boundary to the externally trained subject classifier.
// It consumes the Instance built by the Predictor and returns one score per
// canonical subject label, in the same order as dataset.SubjectLabelNames.
type Classifier interface {
	Predict(instance *dataset.Instance) ([]float32, error)

	Release()
}

// OnnxClassifier runs the exported classifier via onnxruntime. The model
// directory holds model.onnx plus the tokenizer.json it was trained with.
// Everything about the model itself (architecture, vocabulary, training) is
// owned by the exporting framework.
type OnnxClassifier struct {
	session   *ort.DynamicAdvancedSession
	tokenizer *tokenizers.Tokenizer
}

func LoadOnnxClassifier(modelDir string) (*OnnxClassifier, error) {
	tk, err := tokenizers.FromFile(filepath.Join(modelDir, "tokenizer.json"))
	if err != nil {
		return nil, fmt.Errorf("tokenizer load: %w", err)
	}

	session, err := ort.NewDynamicAdvancedSession(
		filepath.Join(modelDir, "model.onnx"),
		[]string{"input_ids", "attention_mask"},
		[]string{"logits"},
		nil,
	)
	if err != nil {
		tk.Close()
		return nil, fmt.Errorf("failed to create onnx session: %w", err)
	}

	return &OnnxClassifier{session: session, tokenizer: tk}, nil
}

func (m *OnnxClassifier) Predict(instance *dataset.Instance) ([]float32, error) {
	// The exported model runs its own subword tokenizer over the raw-ish
	// text, so the instance's word tokens are rejoined here.
	text := fieldText(instance, dataset.TitleFieldName) + "\n" + fieldText(instance, dataset.AbstractFieldName)

	enc := m.tokenizer.EncodeWithOptions(text, true, tokenizers.WithReturnAllAttributes())
	if len(enc.IDs) == 0 {
		return nil, fmt.Errorf("empty encoding for prediction input")
	}

	seqLen := int64(len(enc.IDs))
	ids := make([]int64, seqLen)
	mask := make([]int64, seqLen)
	for i, v := range enc.IDs {
		ids[i] = int64(v)
		mask[i] = int64(enc.AttentionMask[i])
	}

	idsT, err := ort.NewTensor(ort.NewShape(1, seqLen), ids)
	if err != nil {
		return nil, err
	}
	defer idsT.Destroy()

	maskT, err := ort.NewTensor(ort.NewShape(1, seqLen), mask)
	if err != nil {
		return nil, err
	}
	defer maskT.Destroy()

	numLabels := int64(len(dataset.SubjectLabelNames()))
	outT, err := ort.NewEmptyTensor[float32](ort.NewShape(1, numLabels))
	if err != nil {
		return nil, err
	}
	defer outT.Destroy()

	if err := m.session.Run([]ort.Value{idsT, maskT}, []ort.Value{outT}); err != nil {
		return nil, fmt.Errorf("session run error: %w", err)
	}

	logits := outT.GetData()
	scores := make([]float32, len(logits))
	for i, v := range logits {
		scores[i] = sigmoid(v)
	}
	return scores, nil
}

func (m *OnnxClassifier) Release() {
	m.session.Destroy() //nolint:errcheck
	m.tokenizer.Close()
}

// sigmoid maps each subject logit to an independent probability; the four
// subjects are not mutually exclusive.
func sigmoid(x float32) float32 {
	return float32(1.0 / (1.0 + math.Exp(-float64(x))))
}

func fieldText(instance *dataset.Instance, name string) string {
	field, ok := instance.Field(name)
	if !ok {
		return ""
	}
	text, ok := field.(*dataset.TextField)
	if !ok {
		return ""
	}
	return strings.Join(text.Tokens, " ")
}
