package predictor

import (
	"testing"

	"papers-backend/internal/dataset"
	"papers-backend/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestRequestToInstance(t *testing.T) {
	p := New(nil, "")

	inst, err := p.RequestToInstance(models.PredictRequest{
		Title:    strPtr("A Study"),
		Abstract: strPtr("We show..."),
	})
	require.NoError(t, err)

	title, ok := inst.Field(dataset.TitleFieldName)
	require.True(t, ok)
	assert.Equal(t, []string{"A", "Study"}, title.(*dataset.TextField).Tokens)

	abstract, ok := inst.Field(dataset.AbstractFieldName)
	require.True(t, ok)
	assert.Equal(t, []string{"We", "show..."}, abstract.(*dataset.TextField).Tokens)

	// The prediction path never trains: no label fields of either kind.
	assert.False(t, inst.HasField(dataset.LabelFieldName))
	assert.False(t, inst.HasField(dataset.LabelsFieldName))
}

func TestRequestToInstanceMissingKeys(t *testing.T) {
	p := New(nil, "")

	_, err := p.RequestToInstance(models.PredictRequest{Abstract: strPtr("We show...")})
	assert.ErrorIs(t, err, ErrMissingTitle)

	_, err = p.RequestToInstance(models.PredictRequest{Title: strPtr("A Study")})
	assert.ErrorIs(t, err, ErrMissingAbstract)

	// Empty strings are present keys, not missing ones.
	_, err = p.RequestToInstance(models.PredictRequest{Title: strPtr(""), Abstract: strPtr("")})
	assert.NoError(t, err)
}

func TestLabelNamesFixedOrder(t *testing.T) {
	p := New(nil, "")
	assert.Equal(t,
		[]string{"health_sciences", "life_sciences", "physical_sciences", "social_sciences"},
		p.LabelNames(),
	)
}
