package meiosis

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/ystrlr/core"
)

// Model holds the precomputed true and proposal transmission kernels for
// every marker of one MarkerSet. A Model is immutable after NewModel and
// safe for concurrent use; randomness enters only through the *rand.Rand
// passed to Sample.
type Model struct {
	set       *core.MarkerSet
	stepDecay float64
	bias      float64
	pull      float64
	target    *core.Haplotype

	kernels map[string]*kernel

	// first option error, surfaced by NewModel
	err error
}

// kernel caches the per-marker transition tables.
// trueP[p][c] is the true probability of child position c given parent
// position p; propP[k] is the proposal table for marker copy k.
type kernel struct {
	trueP   [][]float64
	trueCum [][]float64
	propP   [][][]float64
	propCum [][][]float64
	pull    [][]float64 // per copy: normalized pull toward the target
}

// NewModel precomputes transmission kernels for every marker in ms.
//
// Option violations and kernel defects (a parent position from which no
// transmission is possible, a target outside the domain) are reported as
// core.ErrInvalidMarker or core.ErrHaplotypeMismatch here — never during
// simulation. Complexity: O(markers · copies · |domain|²).
func NewModel(ms *core.MarkerSet, opts ...Option) (*Model, error) {
	if ms == nil || ms.Len() == 0 {
		return nil, fmt.Errorf("%w: empty marker set", core.ErrInvalidMarker)
	}
	m := &Model{
		set:       ms,
		stepDecay: DefaultStepDecay,
		bias:      DefaultProposalBias,
		pull:      DefaultProposalPull,
		kernels:   make(map[string]*kernel, ms.Len()),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.target != nil {
		if m.target.MarkerSet() != ms {
			return nil, fmt.Errorf("%w: target bound to a different marker set", core.ErrHaplotypeMismatch)
		}
		if err := m.target.Validate(); err != nil {
			return nil, fmt.Errorf("target haplotype: %w", err)
		}
	}

	for _, marker := range ms.Markers() {
		k, err := m.buildKernel(marker)
		if err != nil {
			return nil, err
		}
		m.kernels[marker.Name()] = k
	}

	return m, nil
}

// buildKernel assembles the normalized true table and, when a target is
// set, one proposal table per marker copy.
func (m *Model) buildKernel(marker *core.Marker) (*kernel, error) {
	d := marker.DomainSize()
	k := &kernel{
		trueP:   make([][]float64, d),
		trueCum: make([][]float64, d),
	}
	for p := 0; p < d; p++ {
		row, err := m.trueRow(marker, p)
		if err != nil {
			return nil, err
		}
		k.trueP[p] = row
		k.trueCum[p] = cumRow(row)
	}

	if m.target == nil {
		return k, nil
	}
	targetCopies, err := m.target.Alleles(marker.Name())
	if err != nil {
		return nil, err
	}
	k.propP = make([][][]float64, len(targetCopies))
	k.propCum = make([][][]float64, len(targetCopies))
	k.pull = make([][]float64, len(targetCopies))
	for c, tv := range targetCopies {
		ti, err := marker.DomainIndex(tv)
		if err != nil {
			return nil, err
		}
		pullRow := make([]float64, d)
		for j := range pullRow {
			dist := j - ti
			if dist < 0 {
				dist = -dist
			}
			pullRow[j] = math.Pow(m.pull, float64(dist))
		}
		floats.Scale(1/floats.Sum(pullRow), pullRow)
		k.pull[c] = pullRow

		k.propP[c] = make([][]float64, d)
		k.propCum[c] = make([][]float64, d)
		for p := 0; p < d; p++ {
			row := make([]float64, d)
			for j := range row {
				row[j] = (1-m.bias)*k.trueP[p][j] + m.bias*pullRow[j]
			}
			k.propP[c][p] = row
			k.propCum[c][p] = cumRow(row)
		}
	}

	return k, nil
}

// trueRow computes the normalized true transition distribution for one
// parent domain position: stepwise mass decaying geometrically with the
// distance in domain positions, truncated and renormalized to the domain.
func (m *Model) trueRow(marker *core.Marker, parent int) ([]float64, error) {
	var (
		d   = marker.DomainSize()
		mu  = marker.Rate()
		up  = marker.UpShare()
		q   = m.stepDecay
		row = make([]float64, d)
	)
	for j := range row {
		switch {
		case j == parent:
			row[j] = 1 - mu
		case j > parent:
			row[j] = mu * up * stepMass(q, j-parent)
		default:
			row[j] = mu * (1 - up) * stepMass(q, parent-j)
		}
	}
	total := floats.Sum(row)
	if total <= 0 {
		return nil, fmt.Errorf("%w: %s: no transmission possible from %v (rate %v, domain size %d)",
			core.ErrInvalidMarker, marker.Name(), float64(marker.DomainValue(parent)), mu, d)
	}
	floats.Scale(1/total, row)

	return row, nil
}

// stepMass returns the unnormalized geometric mass (1−q)·q^(k−1) of a
// k-step mutation. q = 0 leaves mass only on k = 1 (0⁰ = 1).
func stepMass(q float64, k int) float64 {
	return (1 - q) * math.Pow(q, float64(k-1))
}

// cumRow returns the running sum of row with the final entry clamped to 1,
// so inverse-CDF search can never run off the end.
func cumRow(row []float64) []float64 {
	cum := make([]float64, len(row))
	floats.CumSum(cum, row)
	cum[len(cum)-1] = 1

	return cum
}

// MarkerSet returns the set the model was built over.
func (m *Model) MarkerSet() *core.MarkerSet { return m.set }

// Target returns the evidence haplotype the proposal is biased toward,
// or nil if none was configured.
func (m *Model) Target() *core.Haplotype { return m.target }

// Bias returns β, the proposal's evidence-pull mixture weight.
func (m *Model) Bias() float64 { return m.bias }

// TrueRow returns the true transition distribution from one parent allele,
// aligned to the marker's domain positions. Every copy of a marker shares
// the same true kernel. Used by exact-enumeration references.
func (m *Model) TrueRow(marker *core.Marker, parent core.Allele) ([]float64, error) {
	k, ok := m.kernels[marker.Name()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownMarker, marker.Name())
	}
	pi, err := marker.DomainIndex(parent)
	if err != nil {
		return nil, err
	}
	row := make([]float64, len(k.trueP[pi]))
	copy(row, k.trueP[pi])

	return row, nil
}

// PullRow returns the normalized pull distribution toward the target for
// one marker copy, aligned to the marker's domain positions. The simulator
// mixes it with population priors when proposing founder haplotypes.
// Returns ErrNoTarget when the model has no target.
func (m *Model) PullRow(marker *core.Marker, copyIdx int) ([]float64, error) {
	k, ok := m.kernels[marker.Name()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownMarker, marker.Name())
	}
	if k.pull == nil {
		return nil, ErrNoTarget
	}
	if copyIdx < 0 || copyIdx >= len(k.pull) {
		return nil, fmt.Errorf("%w: %s: copy %d of %d", core.ErrHaplotypeMismatch, marker.Name(), copyIdx, len(k.pull))
	}
	row := make([]float64, len(k.pull[copyIdx]))
	copy(row, k.pull[copyIdx])

	return row, nil
}

// table selects the (probability, cumulative) tables for one marker copy
// under the given mode.
func (m *Model) table(marker *core.Marker, copyIdx int, mode Mode) (probs, cums [][]float64, err error) {
	k, ok := m.kernels[marker.Name()]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", core.ErrUnknownMarker, marker.Name())
	}
	switch mode {
	case True:
		return k.trueP, k.trueCum, nil
	case Proposal:
		if k.propP == nil {
			return nil, nil, ErrNoTarget
		}
		return k.propP[copyIdx], k.propCum[copyIdx], nil
	default:
		return nil, nil, fmt.Errorf("%w: %v", ErrBadMode, mode)
	}
}

// checkCopies validates a copy-set length against the marker.
func checkCopies(marker *core.Marker, values []core.Allele) error {
	if len(values) != marker.Copies() {
		return fmt.Errorf("%w: %s: got %d values, marker carries %d copies",
			core.ErrHaplotypeMismatch, marker.Name(), len(values), marker.Copies())
	}
	return nil
}

// Prob returns the exact probability mass the given mode assigns to the
// parent→child transition of one marker: the product of the per-copy
// transition probabilities. Pure and side-effect-free.
func (m *Model) Prob(marker *core.Marker, parent, child []core.Allele, mode Mode) (float64, error) {
	if m == nil {
		return 0, ErrNilModel
	}
	if err := checkCopies(marker, parent); err != nil {
		return 0, err
	}
	if err := checkCopies(marker, child); err != nil {
		return 0, err
	}

	prob := 1.0
	for c := range parent {
		probs, _, err := m.table(marker, c, mode)
		if err != nil {
			return 0, err
		}
		pi, err := marker.DomainIndex(parent[c])
		if err != nil {
			return 0, err
		}
		ci, err := marker.DomainIndex(child[c])
		if err != nil {
			return 0, err
		}
		prob *= probs[pi][ci]
	}

	return prob, nil
}

// LogProb is Prob in log space; a zero-mass transition yields −Inf.
func (m *Model) LogProb(marker *core.Marker, parent, child []core.Allele, mode Mode) (float64, error) {
	p, err := m.Prob(marker, parent, child, mode)
	if err != nil {
		return 0, err
	}
	return math.Log(p), nil
}

// Sample draws a child copy-set for one marker from the parent copy-set
// under the given mode. Each copy is drawn independently by inverse-CDF
// over the precomputed kernel. Deterministic for a given rng state.
func (m *Model) Sample(rng *rand.Rand, marker *core.Marker, parent []core.Allele, mode Mode) ([]core.Allele, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	if rng == nil {
		return nil, ErrNilRand
	}
	if err := checkCopies(marker, parent); err != nil {
		return nil, err
	}

	child := make([]core.Allele, len(parent))
	for c := range parent {
		_, cums, err := m.table(marker, c, mode)
		if err != nil {
			return nil, err
		}
		pi, err := marker.DomainIndex(parent[c])
		if err != nil {
			return nil, err
		}
		// Smallest j with cum[j] > u: skips zero-mass plateaus, so a
		// zero-probability value can never be drawn (u < 1 guarantees a hit).
		row := cums[pi]
		u := rng.Float64()
		j := sort.Search(len(row), func(i int) bool { return row[i] > u })
		if j >= len(row) {
			j = len(row) - 1
		}
		child[c] = marker.DomainValue(j)
	}

	return child, nil
}

// HaplotypeLogProb sums LogProb over every marker of the model's set,
// reading both copy-sets from total haplotypes. Used for whole-transmission
// weights. Pure.
func (m *Model) HaplotypeLogProb(parent, child *core.Haplotype, mode Mode) (float64, error) {
	if m == nil {
		return 0, ErrNilModel
	}
	sum := 0.0
	for _, marker := range m.set.Markers() {
		pv, err := parent.Alleles(marker.Name())
		if err != nil {
			return 0, err
		}
		cv, err := child.Alleles(marker.Name())
		if err != nil {
			return 0, err
		}
		lp, err := m.LogProb(marker, pv, cv, mode)
		if err != nil {
			return 0, err
		}
		sum += lp
	}

	return sum, nil
}
