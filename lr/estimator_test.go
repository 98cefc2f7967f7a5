package lr_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ystrlr/lr"
)

// TestEstimator_UnitWeights checks the estimate against hand-computed
// values in the degenerate case where every weight is one, so the
// self-normalized estimator reduces to a plain match fraction.
func TestEstimator_UnitWeights(t *testing.T) {
	e, err := lr.New(0.01)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, e.Update(1, i < 3))
	}
	res := e.Finalize()

	require.Equal(t, 10, res.Iterations)
	require.InDelta(t, 0.3, res.MatchProbability, 1e-12)
	require.InDelta(t, 30.0, res.LR, 1e-12)
	require.InDelta(t, 10.0, res.EffectiveSampleSize, 1e-12)

	// Σ w²(I−p̂₁)² = 3·0.7² + 7·0.3² = 2.1 with unit weights.
	seP1 := math.Sqrt(2.1) / 10
	require.InDelta(t, seP1/0.01, res.StandardError, 1e-12)
	require.Empty(t, res.Warnings)
}

// TestEstimator_WeightInvariance verifies the self-normalized estimate is
// invariant under a common rescaling of every weight.
func TestEstimator_WeightInvariance(t *testing.T) {
	run := func(scale float64) lr.Result {
		e, err := lr.New(0.05)
		require.NoError(t, err)
		weights := []float64{0.2, 1.7, 0.9, 3.1, 0.4}
		matches := []bool{true, false, true, false, false}
		for i, w := range weights {
			require.NoError(t, e.Update(w*scale, matches[i]))
		}
		return e.Finalize()
	}

	a, b := run(1), run(1e6)
	require.InDelta(t, a.MatchProbability, b.MatchProbability, 1e-12)
	require.InDelta(t, a.LR, b.LR, 1e-9)
	require.InDelta(t, a.EffectiveSampleSize, b.EffectiveSampleSize, 1e-9)
}

// TestEstimator_FinalizeSeals verifies Finalize is idempotent and seals the
// accumulators against further updates.
func TestEstimator_FinalizeSeals(t *testing.T) {
	e, err := lr.New(0.5)
	require.NoError(t, err)
	require.NoError(t, e.Update(1, true))

	first := e.Finalize()
	second := e.Finalize()
	require.Equal(t, first, second)

	require.ErrorIs(t, e.Update(1, true), lr.ErrFinalized)

	other, err := lr.New(0.5)
	require.NoError(t, err)
	require.ErrorIs(t, e.Merge(other), lr.ErrFinalized)
	require.ErrorIs(t, other.Merge(e), lr.ErrFinalized)
}

// TestEstimator_Merge verifies a split-and-merge reduction reproduces the
// single-estimator result exactly.
func TestEstimator_Merge(t *testing.T) {
	// Dyadic weights keep every partial sum exact, so the split-and-merge
	// reduction is bit-identical to the sequential one.
	weights := []float64{0.25, 2.5, 1.0, 0.75, 5.0, 0.25, 1.0, 0.875}
	matches := []bool{true, false, false, true, true, false, false, true}

	whole, err := lr.New(0.02)
	require.NoError(t, err)
	for i, w := range weights {
		require.NoError(t, whole.Update(w, matches[i]))
	}

	left, err := lr.New(0.02)
	require.NoError(t, err)
	right, err := lr.New(0.02)
	require.NoError(t, err)
	for i, w := range weights {
		e := left
		if i >= 4 {
			e = right
		}
		require.NoError(t, e.Update(w, matches[i]))
	}
	require.NoError(t, left.Merge(right))

	require.Equal(t, whole.Finalize(), left.Finalize())
}

// TestEstimator_MergeBaselineMismatch rejects combining incompatible runs.
func TestEstimator_MergeBaselineMismatch(t *testing.T) {
	a, err := lr.New(0.01)
	require.NoError(t, err)
	b, err := lr.New(0.02)
	require.NoError(t, err)
	require.ErrorIs(t, a.Merge(b), lr.ErrInvalidBaseline)
}

// TestEstimator_BadInputs covers construction and update rejection.
func TestEstimator_BadInputs(t *testing.T) {
	for _, baseline := range []float64{0, -0.1, 1.5, math.NaN()} {
		_, err := lr.New(baseline)
		require.ErrorIs(t, err, lr.ErrInvalidBaseline, "baseline %v", baseline)
	}
	_, err := lr.New(0.01, lr.WithESSThreshold(0))
	require.Error(t, err)
	_, err = lr.New(0.01, lr.WithESSThreshold(1))
	require.Error(t, err)

	e, err := lr.New(0.01)
	require.NoError(t, err)
	require.ErrorIs(t, e.Update(-1, true), lr.ErrBadWeight)
	require.ErrorIs(t, e.Update(math.NaN(), true), lr.ErrBadWeight)
	require.ErrorIs(t, e.Update(math.Inf(1), true), lr.ErrBadWeight)
	require.Equal(t, 0, e.Iterations())
}

// TestEstimator_LowESSWarning triggers the skewed-weights diagnostic: one
// dominant weight collapses the effective sample size to ~1.
func TestEstimator_LowESSWarning(t *testing.T) {
	e, err := lr.New(0.01)
	require.NoError(t, err)
	require.NoError(t, e.Update(1e9, true))
	for i := 0; i < 99; i++ {
		require.NoError(t, e.Update(1, false))
	}
	res := e.Finalize()
	require.Less(t, res.EffectiveSampleSize, 2.0)
	require.Contains(t, res.Warnings, lr.WarnLowEffectiveSampleSize)
}

// TestEstimator_EmptyAndZeroWeight covers runs with nothing usable folded.
func TestEstimator_EmptyAndZeroWeight(t *testing.T) {
	e, err := lr.New(0.01)
	require.NoError(t, err)
	res := e.Finalize()
	require.Zero(t, res.LR)
	require.Contains(t, res.Warnings, lr.WarnLowEffectiveSampleSize)

	z, err := lr.New(0.01)
	require.NoError(t, err)
	require.NoError(t, z.Update(0, true))
	res = z.Finalize()
	require.Zero(t, res.MatchProbability)
	require.Contains(t, res.Warnings, lr.WarnLowEffectiveSampleSize)
}
