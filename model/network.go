package model

import (
	"fmt"
	"sort"
)

// Network is a set of treatments and the studies comparing them.
type Network struct {
	Description string
	Type        DataType
	Treatments  []*Treatment
	Studies     []*Study
}

// Treatment returns the member treatment with the given id.
func (n *Network) Treatment(id string) (*Treatment, bool) {
	for _, t := range n.Treatments {
		if t.ID == id {
			return t, true
		}
	}

	return nil, false
}

// Study returns the study with the given id.
func (n *Network) Study(id string) (*Study, bool) {
	for _, s := range n.Studies {
		if s.ID == id {
			return s, true
		}
	}

	return nil, false
}

// SortedTreatments returns a copy of the treatment set ordered by ID.
func (n *Network) SortedTreatments() []*Treatment {
	out := append([]*Treatment(nil), n.Treatments...)
	return SortTreatments(out)
}

// SortedStudies returns a copy of the study set ordered by ID.
func (n *Network) SortedStudies() []*Study {
	out := append([]*Study(nil), n.Studies...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// Restrict returns a shallow copy of n whose measurements keep only the
// fields relevant to dt.
func (n *Network) Restrict(dt DataType) *Network {
	out := &Network{Description: n.Description, Type: dt, Treatments: n.Treatments}
	for _, s := range n.Studies {
		ms := make([]Measurement, len(s.Measurements))
		for i, m := range s.Measurements {
			ms[i] = m.Restrict(dt)
		}
		out.Studies = append(out.Studies, &Study{ID: s.ID, Measurements: ms})
	}

	return out
}

// Validate checks the structural invariants: unique ids, one measurement
// per (study, treatment), every arm referencing the network's own
// Treatment instance, and outcome fields matching n.Type.
func (n *Network) Validate() error {
	byID := make(map[string]*Treatment, len(n.Treatments))
	for _, t := range n.Treatments {
		if _, dup := byID[t.ID]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateTreatment, t.ID)
		}
		byID[t.ID] = t
	}

	studies := make(map[string]struct{}, len(n.Studies))
	for _, s := range n.Studies {
		if _, dup := studies[s.ID]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateStudy, s.ID)
		}
		studies[s.ID] = struct{}{}

		arms := make(map[string]struct{}, len(s.Measurements))
		for _, m := range s.Measurements {
			if err := m.Validate(n.Type); err != nil {
				return fmt.Errorf("study %q: %w", s.ID, err)
			}
			canonical, ok := byID[m.Treatment.ID]
			if !ok {
				return fmt.Errorf("%w: study %q references %q", ErrUnknownTreatment, s.ID, m.Treatment.ID)
			}
			if canonical != m.Treatment {
				return fmt.Errorf("%w: study %q, treatment %q", ErrForeignTreatment, s.ID, m.Treatment.ID)
			}
			if _, dup := arms[m.Treatment.ID]; dup {
				return fmt.Errorf("%w: study %q, treatment %q", ErrDuplicateMeasurement, s.ID, m.Treatment.ID)
			}
			arms[m.Treatment.ID] = struct{}{}
		}
	}

	return nil
}

// Intern re-points every measurement of n at the canonical Treatment held
// in n.Treatments (matched by ID). It fails with ErrUnknownTreatment when an
// arm names a treatment that is not a member.
func Intern(n *Network) error {
	byID := make(map[string]*Treatment, len(n.Treatments))
	for _, t := range n.Treatments {
		byID[t.ID] = t
	}
	for _, s := range n.Studies {
		for i := range s.Measurements {
			m := &s.Measurements[i]
			if m.Treatment == nil {
				return fmt.Errorf("%w: study %q has an arm without treatment", ErrInvalidMeasurement, s.ID)
			}
			canonical, ok := byID[m.Treatment.ID]
			if !ok {
				return fmt.Errorf("%w: study %q references %q", ErrUnknownTreatment, s.ID, m.Treatment.ID)
			}
			m.Treatment = canonical
		}
	}

	return nil
}
