package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordTokenizer(t *testing.T) {
	tokenizer := WordTokenizer{}

	tests := []struct {
		text   string
		tokens []string
	}{
		{"A Study of Frogs", []string{"A", "Study", "of", "Frogs"}},
		{"We show results.", []string{"We", "show", "results", "."}},
		{"Is it so? Yes.", []string{"Is", "it", "so", "?", "Yes", "."}},
		{"(preliminary) findings", []string{"(", "preliminary", ")", "findings"}},
		{"", []string{}},
		{"   ", []string{}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.tokens, tokenizer.Tokenize(tt.text), "text: %q", tt.text)
	}
}

func TestInstanceFields(t *testing.T) {
	inst := NewInstance(map[string]Field{
		TitleFieldName:  &TextField{Tokens: []string{"A", "Study"}, Indexer: SingleIdIndexer},
		LabelsFieldName: &MultiLabelField{Indices: []int{0, 0, 0, 0}},
	})

	assert.True(t, inst.HasField(TitleFieldName))
	assert.False(t, inst.HasField(AbstractFieldName))
	assert.Equal(t, []string{LabelsFieldName, TitleFieldName}, inst.FieldNames())

	field, ok := inst.Field(TitleFieldName)
	assert.True(t, ok)
	assert.Equal(t, "text", field.FieldType())
}
