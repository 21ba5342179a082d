// Package mcmc defines the read side of MCMC output: named parameters,
// chains of samples, and the readiness signal that tells consumers when
// samples may be read.
//
// A Results provider starts out unavailable. Reads fail with ErrUnavailable
// until the provider is published, at which point every registered listener
// is called once, synchronously, in registration order. Windows project a
// sample range of another provider without copying it and share its
// readiness.
//
// MemoryResults is the in-memory provider used by the sampler backends and
// by ReadCSV.
package mcmc
