// Package lr declares the estimator options, sentinel errors, and the
// Result type. The estimator itself lives in estimator.go, the population
// baseline in freq.go, and the enumeration reference in exact.go.
package lr

import (
	"errors"
	"fmt"
)

// Sentinel errors and warnings for estimation.
var (
	// ErrFinalized is returned by Update and Merge after Finalize.
	ErrFinalized = errors.New("lr: estimator already finalized")

	// ErrBadWeight indicates a negative, NaN, or infinite importance weight.
	ErrBadWeight = errors.New("lr: bad importance weight")

	// ErrInvalidBaseline indicates a baseline probability outside (0,1].
	ErrInvalidBaseline = errors.New("lr: baseline probability outside (0,1]")

	// ErrInvalidFrequency indicates a population allele frequency outside (0,1].
	ErrInvalidFrequency = errors.New("lr: allele frequency outside (0,1]")

	// WarnLowEffectiveSampleSize is carried in Result.Warnings when the
	// weight distribution is so skewed that the variance estimate is
	// unreliable. Non-fatal: the estimate is still returned.
	WarnLowEffectiveSampleSize = errors.New("lr: low effective sample size, variance estimate unreliable")
)

// DefaultESSThreshold is the fraction of the iteration count below which
// the effective sample size triggers WarnLowEffectiveSampleSize.
const DefaultESSThreshold = 0.05

// DefaultMinFreq is the floor applied to population allele frequencies for
// alleles missing from the table, the usual haplotype-survey correction for
// unobserved alleles.
const DefaultMinFreq = 1e-4

// Option configures an Estimator via functional arguments.
type Option func(*Estimator)

// WithESSThreshold sets the low-ESS warning threshold as a fraction of the
// iteration count. Values outside (0,1) are rejected at New.
func WithESSThreshold(frac float64) Option {
	return func(e *Estimator) {
		if frac <= 0 || frac >= 1 {
			e.err = fmt.Errorf("%w: ESS threshold %v outside (0,1)", ErrInvalidBaseline, frac)
			return
		}
		e.essThreshold = frac
	}
}

// Result is the finalized estimate. Never mutated after Finalize.
type Result struct {
	// LR is the likelihood ratio: MatchProbability / Baseline.
	LR float64

	// StandardError is the delta-method standard error of LR.
	StandardError float64

	// MatchProbability is p̂₁, the self-normalized estimate of the suspect
	// matching the evidence haplotype under the pedigree hypothesis.
	MatchProbability float64

	// Baseline is p₂, the population random-match probability of the
	// evidence haplotype.
	Baseline float64

	// EffectiveSampleSize is (Σw)²/Σw², the weight-skew diagnostic.
	EffectiveSampleSize float64

	// Iterations is the number of folded iterations.
	Iterations int

	// Warnings carries non-fatal diagnostics such as
	// WarnLowEffectiveSampleSize.
	Warnings []error
}
