// Package summary computes posterior summaries from MCMC results.
//
// Every summary is computed from the second half of each chain, pooled over
// chains. A summary registers itself as a listener on its results when
// created: if the results are already available it is computed at once,
// otherwise on the readiness event. Defined reports whether a value is
// present; before that every accessor returns zero values.
//
// NodeSplitPValue compares the direct and indirect estimates of a
// node-split model.
package summary
