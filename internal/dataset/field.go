package dataset

import (
	"fmt"
	"sort"
	"strings"
)

// Field names used across readers. Consumers of an Instance look fields up by
// these names, so they are part of the contract with the training framework.
const (
	TitleFieldName    = "title"
	AbstractFieldName = "abstract"
	LabelFieldName    = "label"
	LabelsFieldName   = "labels"
)

// Field is one named component of an Instance. Concrete field types mirror
// the training framework's field objects; this package only constructs them,
// the framework consumes them.
type Field interface {
	FieldType() string
}

// TextField holds a tokenized piece of text along with the name of the
// token-indexing scheme the framework should apply. The indexer itself lives
// in the framework; we pass the scheme name through verbatim.
type TextField struct {
	Tokens  []string
	Indexer string
}

func (f *TextField) FieldType() string { return "text" }

func (f *TextField) String() string {
	return fmt.Sprintf("TextField(%d tokens, indexer=%s)", len(f.Tokens), f.Indexer)
}

// LabelField holds a single categorical label. The raw label string is
// resolved to an index later by the framework's vocabulary; no coercion
// happens here.
type LabelField struct {
	Label string
}

func (f *LabelField) FieldType() string { return "label" }

// MultiLabelField holds an ordered sequence of literal label indices. The
// indices are used as-is by the framework (skip-indexing semantics), never
// run through a vocabulary lookup.
type MultiLabelField struct {
	Indices []int
}

func (f *MultiLabelField) FieldType() string { return "multi_label" }

// Instance is one unit of model input handed to the training framework. It is
// constructed once per input record and never mutated afterwards.
type Instance struct {
	fields map[string]Field
}

func NewInstance(fields map[string]Field) *Instance {
	copied := make(map[string]Field, len(fields))
	for name, field := range fields {
		copied[name] = field
	}
	return &Instance{fields: copied}
}

func (in *Instance) Field(name string) (Field, bool) {
	field, ok := in.fields[name]
	return field, ok
}

func (in *Instance) HasField(name string) bool {
	_, ok := in.fields[name]
	return ok
}

// FieldNames returns the instance's field names in sorted order.
func (in *Instance) FieldNames() []string {
	names := make([]string, 0, len(in.fields))
	for name := range in.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (in *Instance) String() string {
	return fmt.Sprintf("Instance(%s)", strings.Join(in.FieldNames(), ", "))
}
