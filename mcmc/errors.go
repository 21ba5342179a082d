package mcmc

import (
	"fmt"

	"github.com/katalvlaran/mtc/mtcerr"
)

var (
	// ErrUnavailable is returned by reads before the results are published.
	ErrUnavailable = fmt.Errorf("%w: mcmc: samples not available", mtcerr.ErrAvailability)

	// ErrOutOfRange is returned for parameter, chain or sample indexes
	// outside the provider.
	ErrOutOfRange = fmt.Errorf("%w: mcmc: index out of range", mtcerr.ErrAvailability)

	// ErrInvalidShape is returned when results are created with a
	// non-positive number of parameters, chains or samples.
	ErrInvalidShape = fmt.Errorf("%w: mcmc: invalid results shape", mtcerr.ErrConfiguration)

	// ErrMalformedTrace is returned by ReadCSV for input that does not match
	// the declared shape.
	ErrMalformedTrace = fmt.Errorf("%w: mcmc: malformed trace", mtcerr.ErrConfiguration)
)
