// Package meiosis models one father→son transmission of a Y-STR haplotype:
// for every marker it defines the true mutation distribution over the
// marker's allele domain and a biased proposal distribution used for
// importance sampling, and it can both draw from and evaluate either one.
//
// # Mutation model
//
// The true kernel is a stepwise model truncated to the allele domain.
// For a parent allele at domain position p, the unnormalized mass is
//
//	stay:            1 − μ
//	k steps up:      μ · up · (1−q) · q^(k−1)
//	k steps down:    μ · (1−up) · (1−q) · q^(k−1)
//
// renormalized exactly over the domain, so boundary truncation never leaks
// probability. q is the step-decay (WithStepDecay); the default q = 0
// recovers the classic single-step model P(Δ=0)=1−μ, P(Δ=±1)=μ/2.
// Steps are counted in domain positions, so intermediate alleles (17.2)
// are simply adjacent positions of the declared domain.
//
// # Proposal
//
// The proposal kernel mixes the true kernel with a geometric pull toward
// the evidence (target) allele:
//
//	P_prop = (1−β) · P_true + β · Pull,   Pull(v) ∝ t^dist(v, target)
//
// Because β < 1 is enforced, the proposal strictly dominates the true
// kernel, so the importance weight P_true/P_prop is always defined.
//
// Multi-copy markers transmit each copy independently: probabilities are
// per-copy products and draws are independent per copy, copy i conditioned
// on parent copy i and pulled toward target copy i.
//
// All kernels are precomputed at NewModel; Prob and LogProb are pure table
// lookups and Sample is a single inverse-CDF scan per copy, deterministic
// for a given *rand.Rand state.
package meiosis
