package parameterization

import (
	"fmt"

	"github.com/katalvlaran/mtc/mtcerr"
)

var (
	// ErrInvalidBaseline indicates an explicit baseline that is not an arm of
	// its study, or that names an unknown study.
	ErrInvalidBaseline = fmt.Errorf("%w: parameterization: invalid baseline", mtcerr.ErrConfiguration)

	// ErrUnknownModel indicates a model name other than consistency,
	// inconsistency or node-split.
	ErrUnknownModel = fmt.Errorf("%w: parameterization: unknown model", mtcerr.ErrConfiguration)

	// ErrInvalidSplit indicates a node-split comparison that is missing, is
	// not a comparison of the network, or has no indirect evidence.
	ErrInvalidSplit = fmt.Errorf("%w: parameterization: invalid split comparison", mtcerr.ErrConfiguration)

	// ErrInvalidTree indicates a WithTree tree that does not span the
	// comparison graph or contains the split comparison.
	ErrInvalidTree = fmt.Errorf("%w: parameterization: invalid spanning tree", mtcerr.ErrConfiguration)

	// ErrNoTreePath indicates two treatments the spanning tree does not join.
	ErrNoTreePath = fmt.Errorf("%w: parameterization: no spanning-tree path", mtcerr.ErrStructural)

	// ErrNoBaselineAssignment indicates that no spanning tree admits study
	// baselines identifying every inconsistency parameter.
	ErrNoBaselineAssignment = fmt.Errorf("%w: parameterization: no feasible baseline assignment", mtcerr.ErrStructural)

	// ErrDegreesOfFreedom indicates a parameter count that disagrees with the
	// degrees of freedom of the network.
	ErrDegreesOfFreedom = fmt.Errorf("%w: parameterization: degrees of freedom mismatch", mtcerr.ErrStructural)
)
