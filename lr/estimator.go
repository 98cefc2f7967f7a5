package lr

import (
	"fmt"
	"math"
)

// Estimator folds (importance weight, match indicator) pairs into running
// accumulators and finalizes them into a Result exactly once.
//
// An Estimator is single-goroutine; for parallel simulation each worker
// owns one and the partials are combined with Merge (commutative and
// associative), so the reduction is independent of completion order.
type Estimator struct {
	baseline     float64
	essThreshold float64

	n      int
	sumW   float64 // Σw
	sumW2  float64 // Σw²
	sumWI  float64 // Σw·I
	sumW2I float64 // Σw²·I

	final *Result // non-nil once Finalize ran
	err   error   // first option error, surfaced by New
}

// New creates an Estimator for the given population baseline p₂.
// The baseline must lie in (0,1]: a zero random-match probability would
// make every LR infinite.
func New(baseline float64, opts ...Option) (*Estimator, error) {
	if math.IsNaN(baseline) || baseline <= 0 || baseline > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseline, baseline)
	}
	e := &Estimator{
		baseline:     baseline,
		essThreshold: DefaultESSThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.err != nil {
		return nil, e.err
	}

	return e, nil
}

// Update folds one iteration's (weight, match) pair in O(1).
// Weights must be finite and non-negative; Update after Finalize is
// ErrFinalized.
func (e *Estimator) Update(weight float64, match bool) error {
	if e.final != nil {
		return ErrFinalized
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
		return fmt.Errorf("%w: %v", ErrBadWeight, weight)
	}

	e.n++
	e.sumW += weight
	e.sumW2 += weight * weight
	if match {
		e.sumWI += weight
		e.sumW2I += weight * weight
	}

	return nil
}

// Merge folds another estimator's accumulators into e. Both must share the
// same baseline and must not be finalized.
func (e *Estimator) Merge(other *Estimator) error {
	if e.final != nil || other.final != nil {
		return ErrFinalized
	}
	if other.baseline != e.baseline {
		return fmt.Errorf("%w: merging baselines %v and %v", ErrInvalidBaseline, e.baseline, other.baseline)
	}

	e.n += other.n
	e.sumW += other.sumW
	e.sumW2 += other.sumW2
	e.sumWI += other.sumWI
	e.sumW2I += other.sumW2I

	return nil
}

// Iterations returns the number of folded iterations so far.
func (e *Estimator) Iterations() int { return e.n }

// Finalize computes the Result once and seals the estimator. Repeated calls
// return the same Result; no accumulator mutates afterwards.
func (e *Estimator) Finalize() Result {
	if e.final != nil {
		return *e.final
	}

	res := Result{
		Baseline:   e.baseline,
		Iterations: e.n,
	}
	if e.n == 0 || e.sumW <= 0 {
		// Nothing usable was folded: every weight zero (an impossible
		// observed transition) or no iterations ran.
		res.Warnings = append(res.Warnings, WarnLowEffectiveSampleSize)
		e.final = &res

		return res
	}

	p1 := e.sumWI / e.sumW
	// Self-normalized IS variance:
	// Σ w²(I−p̂₁)² = (1−2p̂₁)·Σw²I + p̂₁²·Σw²  since I² = I.
	varNum := (1-2*p1)*e.sumW2I + p1*p1*e.sumW2
	if varNum < 0 {
		varNum = 0 // numeric guard near p̂₁ ∈ {0,1}
	}
	seP1 := math.Sqrt(varNum) / e.sumW

	res.MatchProbability = p1
	res.LR = p1 / e.baseline
	res.StandardError = seP1 / e.baseline
	res.EffectiveSampleSize = e.sumW * e.sumW / e.sumW2
	if res.EffectiveSampleSize < e.essThreshold*float64(e.n) {
		res.Warnings = append(res.Warnings, WarnLowEffectiveSampleSize)
	}
	e.final = &res

	return res
}
