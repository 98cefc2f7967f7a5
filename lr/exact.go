package lr

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/ystrlr/core"
	"github.com/katalvlaran/ystrlr/meiosis"
	"github.com/katalvlaran/ystrlr/pedigree"
)

// ErrUnsupportedExact is returned by ExactMatchProbability for pedigrees
// that are not a single known-rooted chain down to the suspect.
var ErrUnsupportedExact = errors.New("lr: exact enumeration supports only a single known-to-suspect chain")

// ExactMatchProbability enumerates the suspect's match probability in
// closed form for pedigrees where the suspect descends from exactly one
// known individual through latent intermediates only (a chain), with no
// other known individuals constraining the walk.
//
// Per marker copy, the k-step transition matrix is the k-th power of the
// true kernel over the allele domain; the match probability is the product
// over markers and copies of the (known allele → evidence allele) entry.
// This is the reference value Monte Carlo estimates must converge to.
func ExactMatchProbability(ped *pedigree.Pedigree, model *meiosis.Model, evidence *core.Haplotype) (float64, error) {
	if ped == nil {
		return 0, pedigree.ErrNilPedigree
	}
	if err := evidence.Validate(); err != nil {
		return 0, err
	}

	// Walk suspect → ancestors until the first known individual.
	steps := 0
	id := ped.Suspect()
	for {
		ind, err := ped.Individual(id)
		if err != nil {
			return 0, err
		}
		if ind.Known() {
			break
		}
		father, ok := ped.Father(id)
		if !ok {
			return 0, fmt.Errorf("%w: suspect's line has no known ancestor", ErrUnsupportedExact)
		}
		id = father.ID
		steps++
	}
	if known := ped.Known(); len(known) != 1 || known[0] != id {
		return 0, fmt.Errorf("%w: %d known individuals", ErrUnsupportedExact, len(ped.Known()))
	}
	root, err := ped.Individual(id)
	if err != nil {
		return 0, err
	}
	if steps == 0 {
		// Suspect itself is the known individual: match is deterministic.
		if root.Observed.Equal(evidence) {
			return 1, nil
		}
		return 0, nil
	}

	p := 1.0
	for _, marker := range ped.MarkerSet().Markers() {
		rootValues, err := root.Observed.Alleles(marker.Name())
		if err != nil {
			return 0, err
		}
		evValues, err := evidence.Alleles(marker.Name())
		if err != nil {
			return 0, err
		}
		kernel, err := trueKernel(model, marker)
		if err != nil {
			return 0, err
		}
		stepK := matPow(kernel, steps)
		for c := range rootValues {
			ri, err := marker.DomainIndex(rootValues[c])
			if err != nil {
				return 0, err
			}
			ei, err := marker.DomainIndex(evValues[c])
			if err != nil {
				return 0, err
			}
			p *= stepK.At(ri, ei)
		}
	}

	return p, nil
}

// trueKernel assembles the marker's true transition matrix row by row.
func trueKernel(model *meiosis.Model, marker *core.Marker) (*mat.Dense, error) {
	d := marker.DomainSize()
	k := mat.NewDense(d, d, nil)
	for i := 0; i < d; i++ {
		row, err := model.TrueRow(marker, marker.DomainValue(i))
		if err != nil {
			return nil, err
		}
		k.SetRow(i, row)
	}
	return k, nil
}

// matPow returns a^n for n ≥ 1 by repeated multiplication; chain depths are
// tiny, so no squaring tricks are needed.
func matPow(a *mat.Dense, n int) *mat.Dense {
	r, _ := a.Dims()
	out := mat.DenseCopyOf(a)
	for i := 1; i < n; i++ {
		next := mat.NewDense(r, r, nil)
		next.Mul(out, a)
		out = next
	}
	return out
}
