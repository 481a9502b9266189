package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemanticScholarTextToInstance(t *testing.T) {
	reader := NewSemanticScholarReader(ReaderConfig{})

	inst := reader.TextToInstance("Deep Parsing", "We parse deeply.", "ACL")

	assert.Equal(t, []string{"Deep", "Parsing"}, textField(t, inst, TitleFieldName).Tokens)
	assert.Equal(t, []string{"We", "parse", "deeply", "."}, textField(t, inst, AbstractFieldName).Tokens)

	field, ok := inst.Field(LabelFieldName)
	require.True(t, ok)
	label, ok := field.(*LabelField)
	require.True(t, ok)
	assert.Equal(t, "ACL", label.Label)
}

// Venue is a categorical label: attached raw when present, omitted entirely
// when absent. Index resolution happens in the framework's vocabulary.
func TestSemanticScholarTextToInstanceNoVenue(t *testing.T) {
	reader := NewSemanticScholarReader(ReaderConfig{})

	inst := reader.TextToInstance("Deep Parsing", "We parse deeply.", "")

	assert.False(t, inst.HasField(LabelFieldName))
	assert.Equal(t, []string{AbstractFieldName, TitleFieldName}, inst.FieldNames())
}

func TestMongoConfigDefaults(t *testing.T) {
	cfg := MongoConfig{}.withDefaults()
	assert.Equal(t, "mongodb://10.243.98.93:27017", cfg.URI)
	assert.Equal(t, "semanticscholar", cfg.Database)
	assert.Equal(t, "papers", cfg.Collection)

	override := MongoConfig{URI: "mongodb://localhost:27017", Database: "test", Collection: "docs"}.withDefaults()
	assert.Equal(t, "mongodb://localhost:27017", override.URI)
	assert.Equal(t, "test", override.Database)
	assert.Equal(t, "docs", override.Collection)
}
