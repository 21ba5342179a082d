// Package backend turns an evidence network into a runnable MCMC model.
//
// Sampler implementations are selected through an explicit lookup table
// keyed by Backend. Each Factory builds a consistency, inconsistency or
// node-split Model: the parameterization, the run settings, an initially unavailable
// results provider, and a run id for log and trace correlation. Model.Run
// fills the results and publishes them, which fires the readiness event.
//
// Two backends exist:
//
//	synthetic  independent normal draws per chain, one goroutine per chain
//	replay     samples read from a CSV trace written by a real sampler
//
// Neither implements a sampler for the network model itself.
package backend
