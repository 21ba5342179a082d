// Package model holds the evidence network: treatments, studies and the
// per-arm measurements they report.
//
// Values in this package are plain data with structural queries only. The
// one rule that carries weight everywhere else is identity: every
// Measurement of a Network must point at the very *Treatment stored in
// Network.Treatments, not an equal copy, because graph algorithms key on
// pointers. Builder and Intern establish that invariant; Network.Validate
// checks it.
package model
