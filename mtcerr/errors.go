// Package mtcerr defines the error categories shared by every mtc package.
//
// Each package declares its own sentinels wrapping exactly one category, so a
// caller can either match the precise failure or the whole family:
//
//	errors.Is(err, spanningtree.ErrDisconnected) // precise
//	errors.Is(err, mtcerr.ErrStructural)         // family
//
// None of the categories is retryable: computation is deterministic over
// already-validated inputs, so a failure always indicates caller error.
package mtcerr

import "errors"

var (
	// ErrStructural marks failures caused by the shape of the evidence network:
	// disconnected comparison graphs, references to unknown treatments.
	ErrStructural = errors.New("structural error")

	// ErrConfiguration marks invalid caller-supplied settings: duplicate
	// measurements, illegal identifiers, bad baseline assignments.
	ErrConfiguration = errors.New("configuration error")

	// ErrNumeric marks inputs a statistic cannot be computed for.
	ErrNumeric = errors.New("numeric error")

	// ErrAvailability marks reads from a results provider that is not ready.
	ErrAvailability = errors.New("availability error")
)

// Category returns the category sentinel wrapped by err, or nil if err does
// not belong to any category.
func Category(err error) error {
	for _, c := range []error{ErrStructural, ErrConfiguration, ErrNumeric, ErrAvailability} {
		if errors.Is(err, c) {
			return c
		}
	}
	return nil
}
