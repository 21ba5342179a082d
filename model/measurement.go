package model

import (
	"fmt"
	"strings"
)

// DataType selects which outcome fields of a Measurement are meaningful.
type DataType int

const (
	// None carries no outcome data: only the arm's treatment.
	None DataType = iota
	// Rate is dichotomous data: responders out of sample size.
	Rate
	// Continuous is mean and standard deviation over sample size.
	Continuous
)

func (d DataType) String() string {
	switch d {
	case Rate:
		return "rate"
	case Continuous:
		return "continuous"
	default:
		return "none"
	}
}

// ParseDataType is the inverse of DataType.String (case-insensitive).
func ParseDataType(s string) (DataType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "rate", "dichotomous":
		return Rate, nil
	case "continuous":
		return Continuous, nil
	}

	return None, fmt.Errorf("%w: unknown data type %q", ErrInvalidMeasurement, s)
}

// MarshalText implements encoding.TextMarshaler.
func (d DataType) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *DataType) UnmarshalText(b []byte) error {
	v, err := ParseDataType(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Measurement is the outcome reported for one arm of one study.
// Nil fields are absent.
type Measurement struct {
	Treatment  *Treatment
	Responders *int
	SampleSize *int
	Mean       *float64
	StdDev     *float64
}

// NewRateMeasurement returns a dichotomous measurement.
func NewRateMeasurement(t *Treatment, responders, sampleSize int) Measurement {
	return Measurement{Treatment: t, Responders: &responders, SampleSize: &sampleSize}
}

// NewContinuousMeasurement returns a continuous measurement.
func NewContinuousMeasurement(t *Treatment, mean, stdDev float64, sampleSize int) Measurement {
	return Measurement{Treatment: t, Mean: &mean, StdDev: &stdDev, SampleSize: &sampleSize}
}

// Restrict returns a copy of m keeping only the fields relevant to dt.
// The treatment reference is always preserved.
func (m Measurement) Restrict(dt DataType) Measurement {
	out := Measurement{Treatment: m.Treatment}
	switch dt {
	case Rate:
		out.Responders = copyPtr(m.Responders)
		out.SampleSize = copyPtr(m.SampleSize)
	case Continuous:
		out.Mean = copyPtr(m.Mean)
		out.StdDev = copyPtr(m.StdDev)
		out.SampleSize = copyPtr(m.SampleSize)
	}

	return out
}

// Validate checks the outcome fields required by dt.
func (m Measurement) Validate(dt DataType) error {
	if m.Treatment == nil {
		return fmt.Errorf("%w: missing treatment", ErrInvalidMeasurement)
	}
	if m.SampleSize != nil && *m.SampleSize < 0 {
		return fmt.Errorf("%w: %s: negative sample size", ErrInvalidMeasurement, m.Treatment.ID)
	}
	switch dt {
	case Rate:
		if m.Responders == nil || m.SampleSize == nil {
			return fmt.Errorf("%w: %s: rate data needs responders and sample size", ErrInvalidMeasurement, m.Treatment.ID)
		}
		if *m.Responders < 0 || *m.Responders > *m.SampleSize {
			return fmt.Errorf("%w: %s: responders %d outside [0,%d]", ErrInvalidMeasurement, m.Treatment.ID, *m.Responders, *m.SampleSize)
		}
	case Continuous:
		if m.Mean == nil || m.StdDev == nil || m.SampleSize == nil {
			return fmt.Errorf("%w: %s: continuous data needs mean, std dev and sample size", ErrInvalidMeasurement, m.Treatment.ID)
		}
		if *m.StdDev < 0 {
			return fmt.Errorf("%w: %s: negative std dev", ErrInvalidMeasurement, m.Treatment.ID)
		}
	}

	return nil
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
