// Package lr turns the simulator's stream of (importance weight, match
// indicator) pairs into a likelihood ratio with a quantified error bound.
//
// The Estimator keeps O(1) running accumulators (iteration count, Σw, Σw²,
// Σw·I, Σw²·I) and folds one iteration in per Update; Finalize computes the
// self-normalized importance-sampling estimate
//
//	p̂₁ = Σ(w·I) / Σw          (match probability under the pedigree)
//	LR  = p̂₁ / p₂             (p₂ = population random-match probability)
//
// with the delta-method standard error Var(p̂₁) ≈ Σ w²(I−p̂₁)² / (Σw)² and
// the weight-skew diagnostic ESS = (Σw)²/Σw². Finalize is idempotent and
// seals the estimator; a heavily skewed weight distribution is surfaced as
// WarnLowEffectiveSampleSize on the Result rather than silently trusted.
//
// Estimators merge associatively (Merge), so parallel workers fold partial
// accumulators that are summed afterwards, independent of completion order.
//
// FrequencyTable supplies the unrelated-population baseline p₂ from a
// per-marker allele-frequency table; computing those frequencies is outside
// this package's scope.
//
// Exact enumerates a single transmission edge in closed form and is the
// reference value the Monte Carlo estimate must converge to in tests.
package lr
