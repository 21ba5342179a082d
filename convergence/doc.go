// Package convergence implements the Gelman-Rubin potential scale reduction
// factor (PSRF) for multi-chain MCMC output, with the Brooks-Gelman
// degrees-of-freedom correction.
//
// Only the second half of each chain is used. With m chains of n retained
// samples each, chain means x̄ᵢ, unbiased chain variances sᵢ² and grand
// mean x̄:
//
//	W     = mean(sᵢ²)
//	B     = n·Σ(x̄ᵢ − x̄)² / (m − 1)
//	σ̂²    = W(n − 1)/n + B/n
//	V̂     = σ̂² + B/(m·n)
//	d     = 2V̂² / Var(V̂)
//	R̂c    = √(((d + 3)/(d + 1)) · V̂/W)
//
// Var(V̂) combines the sampling variances of W and B and their covariance.
// A parameter whose chains are all constant (W = 0) is reported with
// Diagnostic.Degenerate set: PSRF is 1 when the chains agree (B = 0) and
// +Inf when they are stuck at different values.
package convergence
