package model

// Study is a single trial reporting one Measurement per arm.
type Study struct {
	ID           string
	Measurements []Measurement
}

// NewStudy returns a Study with the given measurements.
func NewStudy(id string, ms ...Measurement) *Study {
	return &Study{ID: id, Measurements: ms}
}

// Treatments returns the study's arms sorted by ID.
func (s *Study) Treatments() []*Treatment {
	ts := make([]*Treatment, 0, len(s.Measurements))
	for _, m := range s.Measurements {
		ts = append(ts, m.Treatment)
	}

	return SortTreatments(ts)
}

// ContainsTreatment reports whether t is one of the study's arms (by ID).
func (s *Study) ContainsTreatment(t *Treatment) bool {
	_, ok := s.Measurement(t)
	return ok
}

// Measurement returns the arm measuring t.
func (s *Study) Measurement(t *Treatment) (Measurement, bool) {
	if t == nil {
		return Measurement{}, false
	}
	for _, m := range s.Measurements {
		if m.Treatment != nil && m.Treatment.ID == t.ID {
			return m, true
		}
	}

	return Measurement{}, false
}

func (s *Study) String() string { return s.ID }
