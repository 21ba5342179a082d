package model

import (
	"fmt"
	"sort"
)

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithDataType sets the outcome type of the built network.
func WithDataType(dt DataType) BuilderOption {
	return func(b *Builder) { b.dataType = dt }
}

// WithDescription sets the network description.
func WithDescription(desc string) BuilderOption {
	return func(b *Builder) { b.description = desc }
}

// WithTreatmentID derives treatment identifiers from external keys.
// The default uses the key unchanged. Derived ids must match
// [A-Za-z0-9_]+.
func WithTreatmentID(fn func(key string) string) BuilderOption {
	return func(b *Builder) {
		if fn != nil {
			b.idOf = fn
		}
	}
}

// WithTreatmentDescription derives a description for keys added without one.
func WithTreatmentDescription(fn func(key string) string) BuilderOption {
	return func(b *Builder) {
		if fn != nil {
			b.describe = fn
		}
	}
}

// Builder assembles a Network from (study, treatment key, measurement)
// triples. Treatments are keyed by an external key and given an
// identifier-safe id; key→Treatment and id→key are kept side by side.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	dataType    DataType
	description string
	idOf        func(string) string
	describe    func(string) string

	byKey   map[string]*Treatment
	keyByID map[string]string
	keys    []string

	studies map[string]*Study
	order   []string
}

// NewBuilder returns an empty Builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		idOf:     func(k string) string { return k },
		describe: func(string) string { return "" },
		byKey:    make(map[string]*Treatment),
		keyByID:  make(map[string]string),
		studies:  make(map[string]*Study),
	}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// AddTreatment registers key (idempotent) and returns its Treatment. An
// empty description falls back to the WithTreatmentDescription function.
func (b *Builder) AddTreatment(key, description string) (*Treatment, error) {
	if t, ok := b.byKey[key]; ok {
		if description != "" {
			t.Description = description
		}
		return t, nil
	}
	id := b.idOf(key)
	if !ValidTreatmentID(id) {
		return nil, fmt.Errorf("%w: %q (from key %q)", ErrIllegalTreatmentID, id, key)
	}
	if other, taken := b.keyByID[id]; taken {
		return nil, fmt.Errorf("%w: keys %q and %q both map to %q", ErrDuplicateTreatment, other, key, id)
	}
	if description == "" {
		description = b.describe(key)
	}
	t := NewTreatment(id, description)
	b.byKey[key] = t
	b.keyByID[id] = key
	b.keys = append(b.keys, key)

	return t, nil
}

// Treatment returns the treatment registered under key.
func (b *Builder) Treatment(key string) (*Treatment, bool) {
	t, ok := b.byKey[key]
	return t, ok
}

// Key returns the external key the treatment was registered under.
func (b *Builder) Key(t *Treatment) (string, bool) {
	k, ok := b.keyByID[t.ID]
	return k, ok
}

// Add records measurement m for treatmentKey in studyID. The treatment of
// m is replaced by the builder's canonical instance.
func (b *Builder) Add(studyID, treatmentKey string, m Measurement) error {
	t, err := b.AddTreatment(treatmentKey, "")
	if err != nil {
		return err
	}
	s, ok := b.studies[studyID]
	if !ok {
		s = &Study{ID: studyID}
		b.studies[studyID] = s
		b.order = append(b.order, studyID)
	}
	if s.ContainsTreatment(t) {
		return fmt.Errorf("%w: study %q, treatment %q", ErrDuplicateMeasurement, studyID, t.ID)
	}
	m.Treatment = t
	s.Measurements = append(s.Measurements, m)

	return nil
}

// AddNone records an arm without outcome data.
func (b *Builder) AddNone(studyID, treatmentKey string) error {
	return b.Add(studyID, treatmentKey, Measurement{})
}

// AddRate records a dichotomous arm.
func (b *Builder) AddRate(studyID, treatmentKey string, responders, sampleSize int) error {
	return b.Add(studyID, treatmentKey, NewRateMeasurement(nil, responders, sampleSize))
}

// AddContinuous records a continuous arm.
func (b *Builder) AddContinuous(studyID, treatmentKey string, mean, stdDev float64, sampleSize int) error {
	return b.Add(studyID, treatmentKey, NewContinuousMeasurement(nil, mean, stdDev, sampleSize))
}

// Build returns the network. Treatments are ordered by id and studies by
// insertion; every measurement is interned and the result validated.
func (b *Builder) Build() (*Network, error) {
	n := &Network{Description: b.description, Type: b.dataType}
	for _, k := range b.keys {
		n.Treatments = append(n.Treatments, b.byKey[k])
	}
	sort.Slice(n.Treatments, func(i, j int) bool { return n.Treatments[i].ID < n.Treatments[j].ID })
	for _, id := range b.order {
		n.Studies = append(n.Studies, b.studies[id])
	}
	if err := Intern(n); err != nil {
		return nil, err
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}

	return n, nil
}
