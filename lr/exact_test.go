package lr_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ystrlr/core"
	"github.com/katalvlaran/ystrlr/lr"
	"github.com/katalvlaran/ystrlr/meiosis"
	"github.com/katalvlaran/ystrlr/pedigree"
)

func chainFixture(t *testing.T) (*core.MarkerSet, *meiosis.Model) {
	t.Helper()
	set := core.NewMarkerSet()
	m, err := core.NewMarker("DYS19", 0.1, core.StepDomain(10, 20))
	require.NoError(t, err)
	require.NoError(t, set.Add(m))
	model, err := meiosis.NewModel(set)
	require.NoError(t, err)

	return set, model
}

func chainHaplotype(t *testing.T, set *core.MarkerSet, v core.Allele) *core.Haplotype {
	t.Helper()
	h := core.NewHaplotype(set)
	require.NoError(t, h.Set("DYS19", v))

	return h
}

// TestExactMatchProbability_TwoStepChain checks the matrix-power enumeration
// against hand-computed path sums for a grandfather→father→suspect chain
// with μ = 0.1 and an interior allele.
func TestExactMatchProbability_TwoStepChain(t *testing.T) {
	set, model := chainFixture(t)
	ped, err := pedigree.New(set).
		AddIndividual("grandfather").
		AddIndividual("father").
		AddIndividual("suspect").
		SetFather("father", "grandfather").
		SetFather("suspect", "father").
		Observe("grandfather", chainHaplotype(t, set, 14)).
		SetSuspect("suspect").
		Build()
	require.NoError(t, err)

	// Two stay/stay, up/down, down/up paths: 0.9² + 0.05² + 0.05².
	p, err := lr.ExactMatchProbability(ped, model, chainHaplotype(t, set, 14))
	require.NoError(t, err)
	require.InDelta(t, 0.815, p, 1e-12)

	// One net step up: stay·up + up·stay.
	p, err = lr.ExactMatchProbability(ped, model, chainHaplotype(t, set, 15))
	require.NoError(t, err)
	require.InDelta(t, 0.09, p, 1e-12)

	// Two net steps in one meiosis are impossible under q = 0, but two
	// meioses can stack single steps: up·up.
	p, err = lr.ExactMatchProbability(ped, model, chainHaplotype(t, set, 16))
	require.NoError(t, err)
	require.InDelta(t, 0.0025, p, 1e-12)
}

// TestExactMatchProbability_OneStep reads the kernel row directly.
func TestExactMatchProbability_OneStep(t *testing.T) {
	set, model := chainFixture(t)
	ped, err := pedigree.New(set).
		AddIndividual("father").
		AddIndividual("suspect").
		SetFather("suspect", "father").
		Observe("father", chainHaplotype(t, set, 14)).
		SetSuspect("suspect").
		Build()
	require.NoError(t, err)

	p, err := lr.ExactMatchProbability(ped, model, chainHaplotype(t, set, 14))
	require.NoError(t, err)
	require.InDelta(t, 0.9, p, 1e-12)
}

// TestExactMatchProbability_SuspectKnown covers the zero-step chain: the
// suspect's own typed haplotype either matches the evidence or it does not.
func TestExactMatchProbability_SuspectKnown(t *testing.T) {
	set, model := chainFixture(t)
	ped, err := pedigree.New(set).
		AddIndividual("suspect").
		Observe("suspect", chainHaplotype(t, set, 14)).
		SetSuspect("suspect").
		Build()
	require.NoError(t, err)

	p, err := lr.ExactMatchProbability(ped, model, chainHaplotype(t, set, 14))
	require.NoError(t, err)
	require.Equal(t, 1.0, p)

	p, err = lr.ExactMatchProbability(ped, model, chainHaplotype(t, set, 15))
	require.NoError(t, err)
	require.Equal(t, 0.0, p)
}

// TestExactMatchProbability_Unsupported rejects pedigrees that are not a
// single known-rooted chain.
func TestExactMatchProbability_Unsupported(t *testing.T) {
	set, model := chainFixture(t)

	t.Run("known relative off the suspect's line", func(t *testing.T) {
		ped, err := pedigree.New(set).
			AddIndividual("grandfather").
			AddIndividual("uncle").
			AddIndividual("father").
			AddIndividual("suspect").
			SetFather("uncle", "grandfather").
			SetFather("father", "grandfather").
			SetFather("suspect", "father").
			Observe("uncle", chainHaplotype(t, set, 14)).
			SetSuspect("suspect").
			Build()
		require.NoError(t, err)
		_, err = lr.ExactMatchProbability(ped, model, chainHaplotype(t, set, 14))
		require.ErrorIs(t, err, lr.ErrUnsupportedExact)
	})

	t.Run("two known individuals", func(t *testing.T) {
		ped, err := pedigree.New(set).
			AddIndividual("grandfather").
			AddIndividual("father").
			AddIndividual("suspect").
			SetFather("father", "grandfather").
			SetFather("suspect", "father").
			Observe("grandfather", chainHaplotype(t, set, 14)).
			Observe("father", chainHaplotype(t, set, 14)).
			SetSuspect("suspect").
			Build()
		require.NoError(t, err)
		_, err = lr.ExactMatchProbability(ped, model, chainHaplotype(t, set, 14))
		require.ErrorIs(t, err, lr.ErrUnsupportedExact)
	})
}
