package convergence

import (
	"fmt"

	"github.com/katalvlaran/mtc/mtcerr"
)

var (
	// ErrSingleChain is returned for results with fewer than two chains.
	ErrSingleChain = fmt.Errorf("%w: convergence: at least two chains required", mtcerr.ErrNumeric)

	// ErrOddSampleCount is returned when the chains cannot be split in halves.
	ErrOddSampleCount = fmt.Errorf("%w: convergence: odd number of samples", mtcerr.ErrNumeric)

	// ErrTooFewSamples is returned for chains shorter than four samples.
	ErrTooFewSamples = fmt.Errorf("%w: convergence: at least four samples required", mtcerr.ErrNumeric)

	// ErrDegenerateVariance describes a zero within-chain variance. It is
	// never returned; GelmanRubin reports it through Diagnostic.Degenerate.
	ErrDegenerateVariance = fmt.Errorf("%w: convergence: zero within-chain variance", mtcerr.ErrNumeric)

	// ErrUnknownParameter is returned for a parameter the results do not hold.
	ErrUnknownParameter = fmt.Errorf("%w: convergence: unknown parameter", mtcerr.ErrStructural)
)
