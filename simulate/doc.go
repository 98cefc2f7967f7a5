// Package simulate runs the importance-sampled Monte Carlo estimation of a
// Y-line likelihood ratio over a pedigree.
//
// One iteration walks the pedigree's cached founder-to-leaf order once.
// Latent individuals are sampled marker by marker from the meiosis
// proposal, conditioned on their father's already-fixed haplotype; latent
// founders are drawn from the population prior mixed with the evidence
// pull; observed individuals are fixed evidence and are never sampled.
// The iteration's importance weight is accumulated in log space:
//
//	sampled non-founder:  log P_true − log P_proposal  per marker
//	sampled founder:      log prior  − log P_proposal  per marker copy
//	edge into an observed individual: log P_true (pure likelihood factor)
//
// and converted to linear space only when folded into the lr.Estimator
// together with the match indicator (suspect's final haplotype equals the
// evidence haplotype).
//
// Iterations are embarrassingly parallel: each draws from its own
// iteration-indexed random stream and writes only worker-private
// accumulators, merged in worker order afterwards, so a fixed
// (seed, workers) pair reproduces results bit for bit regardless of
// scheduling. Cancellation via WithContext stops between iterations;
// completed iterations stay valid and Run returns the partial Result
// alongside the context error.
//
// All structural validation (pedigree, markers, haplotypes, proposal
// configuration) happens before the first iteration — never mid-run.
package simulate
