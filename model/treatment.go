package model

import (
	"regexp"
	"sort"
)

// treatmentIDPattern is the identifier-safe alphabet accepted for ids that
// end up in parameter names such as "d.A.B".
var treatmentIDPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Treatment is a distinct intervention compared across studies.
// Equality and ordering are by ID.
type Treatment struct {
	ID          string
	Description string
}

// NewTreatment returns a Treatment with the given id and description.
func NewTreatment(id, description string) *Treatment {
	return &Treatment{ID: id, Description: description}
}

// ValidTreatmentID reports whether id may be used as a treatment identifier.
func ValidTreatmentID(id string) bool {
	return treatmentIDPattern.MatchString(id)
}

func (t *Treatment) String() string { return t.ID }

// Less orders treatments by ID.
func (t *Treatment) Less(o *Treatment) bool { return t.ID < o.ID }

// SortTreatments sorts ts in place by ID and returns it.
func SortTreatments(ts []*Treatment) []*Treatment {
	sort.Slice(ts, func(i, j int) bool { return ts[i].ID < ts[j].ID })
	return ts
}

// LeastTreatment returns the treatment with the smallest ID, or nil.
func LeastTreatment(ts []*Treatment) *Treatment {
	var least *Treatment
	for _, t := range ts {
		if least == nil || t.ID < least.ID {
			least = t
		}
	}

	return least
}
