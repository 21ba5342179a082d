// Package mtc is a toolkit for Bayesian network meta-analysis
// (multiple-treatment comparison): it turns a network of clinical studies into
// an identifiable set of model parameters and diagnoses convergence of the
// MCMC chains sampled for those parameters.
//
// What is in the box?
//
//	model/             Treatment, Measurement, Study, Network + NetworkBuilder
//	core/              thread-safe string-keyed multigraph substrate
//	bfs/               breadth-first traversal (connectivity, tree paths)
//	comparison/        comparison multigraph: one edge per (study, treatment pair)
//	search/            generic state-space search with pluggable queue strategy
//	spanningtree/      deterministic spanning tree of basic comparisons
//	cycles/            fundamental cycles grouped into cycle classes
//	parameterization/  consistency and inconsistency parameterizations
//	mcmc/              MCMCResults capability, readiness, windows, CSV traces
//	convergence/       Gelman–Rubin potential scale reduction factor
//	summary/           posterior summaries driven by result readiness
//	backend/           closed lookup table of sampler backends
//	config/            YAML configuration with embedded defaults
//	cmd/mtc/           command line front-end
//
// Quick ASCII example (three two-arm studies closing one loop):
//
//	    A───B
//	     \ /
//	      C
//
// A spanning tree takes two of the three comparisons as basic parameters;
// the third closes a cycle and receives one inconsistency parameter.
package mtc
