// Package meiosis declares the transmission Mode, the Model options, and
// the sentinel errors. Kernel construction and sampling live in model.go.
package meiosis

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/ystrlr/core"
)

// Mode selects which transmission distribution a draw or evaluation uses.
//
//   - True     — the declared mutation model itself.
//   - Proposal — the importance-sampling proposal, biased toward the
//     evidence haplotype so that matches with rare evidence occur often
//     enough to estimate efficiently.
type Mode int

const (
	// True mode: the unconditioned mutation distribution.
	True Mode = iota

	// Proposal mode: the evidence-biased importance-sampling distribution.
	Proposal
)

// String implements fmt.Stringer for diagnostics.
func (m Mode) String() string {
	switch m {
	case True:
		return "true"
	case Proposal:
		return "proposal"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Sentinel errors for model configuration and use.
var (
	// ErrNilModel is returned when a nil model pointer is used.
	ErrNilModel = errors.New("meiosis: model is nil")

	// ErrNilRand is returned when Sample is called without a random source.
	ErrNilRand = errors.New("meiosis: rand source is nil")

	// ErrBadMode is returned for a Mode outside {True, Proposal}.
	ErrBadMode = errors.New("meiosis: unknown transmission mode")

	// ErrNoTarget is returned when Proposal mode is used on a model built
	// without WithTarget.
	ErrNoTarget = errors.New("meiosis: proposal mode requires a target haplotype")
)

// Default kernel parameters.
const (
	// DefaultStepDecay recovers the single-step mutation model.
	DefaultStepDecay = 0.0

	// DefaultProposalBias is the mixture weight of the evidence pull.
	DefaultProposalBias = 0.5

	// DefaultProposalPull is the geometric decay of the evidence pull.
	DefaultProposalPull = 0.5
)

// Option configures a Model via functional arguments. Invalid values are
// recorded and surfaced by NewModel as core.ErrInvalidMarker: a proposal
// configuration that cannot produce valid importance weights is a marker
// model defect, detected before any simulation work.
type Option func(*Model)

// WithStepDecay sets q, the geometric decay of multi-step mutations.
//
//	q == 0:      single-step model only (default)
//	0 < q < 1:   mass (1−q)·q^(k−1) on k-step mutations
//	otherwise:   invalid → core.ErrInvalidMarker
func WithStepDecay(q float64) Option {
	return func(m *Model) {
		if q < 0 || q >= 1 {
			m.err = fmt.Errorf("%w: step decay %v outside [0,1)", core.ErrInvalidMarker, q)
			return
		}
		m.stepDecay = q
	}
}

// WithProposalBias sets β, the mixture weight of the evidence pull.
// β must lie in [0,1): β = 1 would let the proposal assign zero mass where
// the true kernel is positive, making importance weights undefined.
func WithProposalBias(beta float64) Option {
	return func(m *Model) {
		if beta < 0 || beta >= 1 {
			m.err = fmt.Errorf("%w: proposal bias %v outside [0,1)", core.ErrInvalidMarker, beta)
			return
		}
		m.bias = beta
	}
}

// WithProposalPull sets t, the geometric decay of the pull toward the
// target allele; smaller t concentrates the proposal harder on the target.
// t must lie in (0,1].
func WithProposalPull(t float64) Option {
	return func(m *Model) {
		if t <= 0 || t > 1 {
			m.err = fmt.Errorf("%w: proposal pull %v outside (0,1]", core.ErrInvalidMarker, t)
			return
		}
		m.pull = t
	}
}

// WithTarget sets the evidence haplotype the proposal is biased toward.
// The haplotype must be total over the model's MarkerSet.
func WithTarget(h *core.Haplotype) Option {
	return func(m *Model) {
		if h == nil {
			m.err = fmt.Errorf("%w: nil target haplotype", core.ErrInvalidMarker)
			return
		}
		m.target = h
	}
}
