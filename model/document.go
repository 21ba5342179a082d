package model

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

// Document is the plain, serializable form of a Network accepted from
// external loaders. YAML and JSON are both decoded by Decode.
type Document struct {
	Description string              `yaml:"description,omitempty" json:"description,omitempty"`
	Type        DataType            `yaml:"type" json:"type"`
	Treatments  []TreatmentDocument `yaml:"treatments" json:"treatments" validate:"required,min=1,dive"`
	Studies     []StudyDocument     `yaml:"studies" json:"studies" validate:"dive"`
}

// TreatmentDocument declares one treatment.
type TreatmentDocument struct {
	ID          string `yaml:"id" json:"id" validate:"required"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// StudyDocument declares one study and its arms.
type StudyDocument struct {
	ID           string                `yaml:"id" json:"id" validate:"required"`
	Measurements []MeasurementDocument `yaml:"measurements" json:"measurements" validate:"required,min=1,dive"`
}

// MeasurementDocument declares one arm; the treatment is referenced by id.
type MeasurementDocument struct {
	Treatment  string   `yaml:"treatment" json:"treatment" validate:"required"`
	Responders *int     `yaml:"responders,omitempty" json:"responders,omitempty" validate:"omitempty,gte=0"`
	SampleSize *int     `yaml:"sampleSize,omitempty" json:"sampleSize,omitempty" validate:"omitempty,gte=0"`
	Mean       *float64 `yaml:"mean,omitempty" json:"mean,omitempty"`
	StdDev     *float64 `yaml:"stdDev,omitempty" json:"stdDev,omitempty" validate:"omitempty,gte=0"`
}

// JSONSchema describes DataType as a string enumeration.
func (DataType) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "string",
		Enum: []any{None.String(), Rate.String(), Continuous.String()},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode reads a Document (YAML or JSON) from r and validates its shape.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrInvalidDocument)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := validate.Struct(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	return &doc, nil
}

// Network builds the network described by d.
func (d *Document) Network() (*Network, error) {
	b := NewBuilder(WithDataType(d.Type), WithDescription(d.Description))
	for _, t := range d.Treatments {
		if _, ok := b.Treatment(t.ID); ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTreatment, t.ID)
		}
		if _, err := b.AddTreatment(t.ID, t.Description); err != nil {
			return nil, err
		}
	}
	for _, s := range d.Studies {
		for _, m := range s.Measurements {
			if _, ok := b.Treatment(m.Treatment); !ok {
				return nil, fmt.Errorf("%w: study %q references %q", ErrUnknownTreatment, s.ID, m.Treatment)
			}
			arm := Measurement{
				Responders: m.Responders,
				SampleSize: m.SampleSize,
				Mean:       m.Mean,
				StdDev:     m.StdDev,
			}
			if err := b.Add(s.ID, m.Treatment, arm); err != nil {
				return nil, err
			}
		}
	}

	return b.Build()
}

// NewDocument returns the serializable form of n.
func NewDocument(n *Network) *Document {
	d := &Document{Description: n.Description, Type: n.Type}
	for _, t := range n.SortedTreatments() {
		d.Treatments = append(d.Treatments, TreatmentDocument{ID: t.ID, Description: t.Description})
	}
	for _, s := range n.Studies {
		sd := StudyDocument{ID: s.ID}
		for _, m := range s.Measurements {
			sd.Measurements = append(sd.Measurements, MeasurementDocument{
				Treatment:  m.Treatment.ID,
				Responders: m.Responders,
				SampleSize: m.SampleSize,
				Mean:       m.Mean,
				StdDev:     m.StdDev,
			})
		}
		d.Studies = append(d.Studies, sd)
	}

	return d
}

// DocumentSchema returns the JSON Schema of Document.
func DocumentSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{DoNotReference: true}
	return r.Reflect(&Document{})
}
