package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// SubjectLabelNames is the canonical subject-label order. The classifier's
// four output scores are zipped against this list position by position, so
// the order must never change.
func SubjectLabelNames() []string {
	return []string{"health_sciences", "life_sciences", "physical_sciences", "social_sciences"}
}

// SubjectIndicators is the named form of the four binary subject labels.
// Making the schema explicit avoids the silent reordering bugs that
// positional destructuring invites.
type SubjectIndicators struct {
	HealthSciences   int
	LifeSciences     int
	PhysicalSciences int
	SocialSciences   int
}

// ParseSubjectIndicators converts raw label columns into the canonical
// 4-way indicator set. An empty sequence means the record is unlabeled and
// maps to all zeros. Any other length than 4 is a shape error, and values
// that do not parse as integers are a type error; both abort the read.
//
// Values outside {0,1} are passed through unchanged. That permissiveness is
// deliberate: the framework treats these as literal indices and any range
// enforcement belongs there.
func ParseSubjectIndicators(values []string) (SubjectIndicators, error) {
	if len(values) == 0 {
		return SubjectIndicators{}, nil
	}
	if len(values) != 4 {
		return SubjectIndicators{}, fmt.Errorf("expected 0 or 4 label columns, got %d", len(values))
	}

	parsed := make([]int, 4)
	for i, raw := range values {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return SubjectIndicators{}, fmt.Errorf("label column %d: %q is not an integer", i, raw)
		}
		parsed[i] = v
	}

	return SubjectIndicators{
		HealthSciences:   parsed[0],
		LifeSciences:     parsed[1],
		PhysicalSciences: parsed[2],
		SocialSciences:   parsed[3],
	}, nil
}

// Field renders the indicators as a MultiLabelField in canonical order.
func (s SubjectIndicators) Field() *MultiLabelField {
	return &MultiLabelField{Indices: []int{
		s.HealthSciences,
		s.LifeSciences,
		s.PhysicalSciences,
		s.SocialSciences,
	}}
}
