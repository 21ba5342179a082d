package model

import (
	"fmt"

	"github.com/katalvlaran/mtc/mtcerr"
)

var (
	// ErrDuplicateMeasurement indicates two measurements for the same
	// (study, treatment) pair.
	ErrDuplicateMeasurement = fmt.Errorf("%w: model: duplicate measurement", mtcerr.ErrConfiguration)

	// ErrIllegalTreatmentID indicates a treatment identifier outside [A-Za-z0-9_]+.
	ErrIllegalTreatmentID = fmt.Errorf("%w: model: illegal treatment id", mtcerr.ErrConfiguration)

	// ErrDuplicateTreatment indicates two treatments with the same identifier.
	ErrDuplicateTreatment = fmt.Errorf("%w: model: duplicate treatment", mtcerr.ErrConfiguration)

	// ErrDuplicateStudy indicates two studies with the same identifier.
	ErrDuplicateStudy = fmt.Errorf("%w: model: duplicate study", mtcerr.ErrConfiguration)

	// ErrInvalidMeasurement indicates outcome fields that cannot describe an arm.
	ErrInvalidMeasurement = fmt.Errorf("%w: model: invalid measurement", mtcerr.ErrConfiguration)

	// ErrInvalidDocument indicates a network document that fails decoding or
	// shape validation.
	ErrInvalidDocument = fmt.Errorf("%w: model: invalid network document", mtcerr.ErrConfiguration)

	// ErrUnknownTreatment indicates a study arm referencing a treatment that is
	// not a member of the network.
	ErrUnknownTreatment = fmt.Errorf("%w: model: unknown treatment", mtcerr.ErrStructural)

	// ErrForeignTreatment indicates an arm referencing an equal but distinct
	// Treatment instance; run Intern first.
	ErrForeignTreatment = fmt.Errorf("%w: model: treatment not interned", mtcerr.ErrStructural)
)
