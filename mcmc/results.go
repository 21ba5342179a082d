package mcmc

import "slices"

// Parameter is anything with a name that samples are recorded for.
type Parameter interface {
	Name() string
}

// NamedParameter is a Parameter that is only a name.
type NamedParameter string

// Name returns the parameter name.
func (p NamedParameter) Name() string { return string(p) }

func (p NamedParameter) String() string { return string(p) }

// Listener is notified when a results provider becomes available.
type Listener func(Results)

// Results is a read-only view of MCMC samples indexed by parameter, chain
// and sample.
type Results interface {
	// Parameters returns the parameters in index order.
	Parameters() []Parameter
	// FindParameter returns the index of the parameter with p's name, or -1.
	FindParameter(p Parameter) int
	NumberOfChains() int
	// NumberOfSamples is the per-chain sample count; 0 while unavailable.
	NumberOfSamples() int
	Sample(p, c, i int) (float64, error)
	// Samples returns a copy of one chain of one parameter.
	Samples(p, c int) ([]float64, error)
	Available() bool
	// AddListener registers fn and returns its handle for RemoveListener.
	AddListener(fn Listener) int
	RemoveListener(id int)
}

// FindParameter returns the index of the parameter named like p in ps, or -1.
func FindParameter(ps []Parameter, p Parameter) int {
	return slices.IndexFunc(ps, func(q Parameter) bool { return q.Name() == p.Name() })
}

// ParameterNames returns the names of ps in order.
func ParameterNames(ps []Parameter) []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name()
	}
	return names
}
