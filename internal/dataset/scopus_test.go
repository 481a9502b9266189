package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "papers.csv")
	content := ""
	for _, row := range rows {
		content += row + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const csvHeader = "abstract,source,title,health,life,physical,social"

func textField(t *testing.T, inst *Instance, name string) *TextField {
	t.Helper()
	field, ok := inst.Field(name)
	require.True(t, ok, "missing field %s", name)
	text, ok := field.(*TextField)
	require.True(t, ok, "field %s is not a TextField", name)
	return text
}

func labelIndices(t *testing.T, inst *Instance) []int {
	t.Helper()
	field, ok := inst.Field(LabelsFieldName)
	require.True(t, ok, "missing labels field")
	labels, ok := field.(*MultiLabelField)
	require.True(t, ok, "labels field is not a MultiLabelField")
	return labels.Indices
}

func TestScopusReader(t *testing.T) {
	path := writeCSV(t,
		csvHeader,
		"We study frogs.,scopus,Frog Anatomy,1,0,1,0",
		"We study markets.,scopus,Market Dynamics,0,0,0,1",
	)

	reader := NewScopusReader(ReaderConfig{})
	instances, err := ReadAll(context.Background(), reader, path)
	require.NoError(t, err)
	require.Len(t, instances, 2)

	assert.Equal(t, []string{"Frog", "Anatomy"}, textField(t, instances[0], TitleFieldName).Tokens)
	assert.Equal(t, []string{"We", "study", "frogs", "."}, textField(t, instances[0], AbstractFieldName).Tokens)
	assert.Equal(t, []int{1, 0, 1, 0}, labelIndices(t, instances[0]))
	assert.Equal(t, []int{0, 0, 0, 1}, labelIndices(t, instances[1]))
}

func TestScopusReaderUnlabeledRows(t *testing.T) {
	path := writeCSV(t,
		"abstract,source,title",
		"An abstract.,scopus,A Title",
	)

	reader := NewScopusReader(ReaderConfig{})
	instances, err := ReadAll(context.Background(), reader, path)
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, []int{0, 0, 0, 0}, labelIndices(t, instances[0]))
}

func TestScopusReaderSkipsHeader(t *testing.T) {
	path := writeCSV(t, csvHeader)

	reader := NewScopusReader(ReaderConfig{})
	instances, err := ReadAll(context.Background(), reader, path)
	require.NoError(t, err)
	assert.Empty(t, instances)
}

func TestScopusReaderMalformedRow(t *testing.T) {
	path := writeCSV(t,
		csvHeader,
		"We study frogs.,scopus,Frog Anatomy,1,0,1,0",
		"only,two",
	)

	reader := NewScopusReader(ReaderConfig{})

	var seen int
	var readErr error
	for _, err := range reader.Read(context.Background(), path) {
		if err != nil {
			readErr = err
			break
		}
		seen++
	}

	assert.Equal(t, 1, seen, "rows before the malformed one should still be yielded")
	assert.ErrorContains(t, readErr, "at least 3 columns")
}

func TestScopusReaderLabelShapeError(t *testing.T) {
	path := writeCSV(t,
		csvHeader,
		"An abstract.,scopus,A Title,1,0",
	)

	reader := NewScopusReader(ReaderConfig{})
	_, err := ReadAll(context.Background(), reader, path)
	assert.ErrorContains(t, err, "expected 0 or 4 label columns")
}

func TestScopusReaderLabelTypeError(t *testing.T) {
	path := writeCSV(t,
		csvHeader,
		"An abstract.,scopus,A Title,1,0,yes,0",
	)

	reader := NewScopusReader(ReaderConfig{})
	_, err := ReadAll(context.Background(), reader, path)
	assert.ErrorContains(t, err, "not an integer")
}

func TestScopusReaderMissingFile(t *testing.T) {
	reader := NewScopusReader(ReaderConfig{})
	_, err := ReadAll(context.Background(), reader, filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorContains(t, err, "error opening dataset file")
}

func TestScopusReaderStopsWhenCallerStopsPulling(t *testing.T) {
	path := writeCSV(t,
		csvHeader,
		"a.,s,T1,1,0,0,0",
		"b.,s,T2,0,1,0,0",
		"c.,s,T3,0,0,1,0",
	)

	reader := NewScopusReader(ReaderConfig{})
	var seen int
	for _, err := range reader.Read(context.Background(), path) {
		require.NoError(t, err)
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestScopusAbstractReader(t *testing.T) {
	path := writeCSV(t,
		"abstract,source,extra,title,health,life,physical,social",
		"We study cells.,scopus,x,Cell Biology,0,1,0,0",
	)

	reader := NewScopusAbstractReader(ReaderConfig{})
	instances, err := ReadAll(context.Background(), reader, path)
	require.NoError(t, err)
	require.Len(t, instances, 1)

	assert.Equal(t, []string{"We", "study", "cells", "."}, textField(t, instances[0], AbstractFieldName).Tokens)
	assert.Equal(t, []int{0, 1, 0, 0}, labelIndices(t, instances[0]))
}

// The abstract-only variant reads the title column but never emits a title
// field, matching the reader it reproduces.
func TestScopusAbstractReaderOmitsTitle(t *testing.T) {
	path := writeCSV(t,
		"abstract,source,extra,title,health,life,physical,social",
		"An abstract.,scopus,x,A Discarded Title,1,1,1,1",
	)

	reader := NewScopusAbstractReader(ReaderConfig{})
	instances, err := ReadAll(context.Background(), reader, path)
	require.NoError(t, err)
	require.Len(t, instances, 1)

	assert.False(t, instances[0].HasField(TitleFieldName))
	assert.Equal(t, []string{AbstractFieldName, LabelsFieldName}, instances[0].FieldNames())
}

func TestScopusAbstractReaderMalformedRow(t *testing.T) {
	path := writeCSV(t,
		"abstract,source,extra,title",
		"one,two,three",
	)

	reader := NewScopusAbstractReader(ReaderConfig{})
	_, err := ReadAll(context.Background(), reader, path)
	assert.ErrorContains(t, err, "at least 4 columns")
}

func TestNewReaderRegistry(t *testing.T) {
	for tag, want := range map[ReaderType]any{
		ScopusReaderType:         &ScopusReader{},
		ScopusAbstractReaderType: &ScopusAbstractReader{},
		SemanticScholarType:      &SemanticScholarReader{},
	} {
		reader, err := NewReader(tag, ReaderConfig{})
		require.NoError(t, err)
		assert.IsType(t, want, reader)
	}

	_, err := NewReader("unknown", ReaderConfig{})
	assert.ErrorContains(t, err, "unknown reader type")
}

func TestToReaderType(t *testing.T) {
	readerType, err := ToReaderType("scopus")
	require.NoError(t, err)
	assert.Equal(t, ScopusReaderType, readerType)

	_, err = ToReaderType("s3_papers")
	assert.Error(t, err)
}
