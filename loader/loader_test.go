package loader_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ystrlr/core"
	"github.com/katalvlaran/ystrlr/loader"
	"github.com/katalvlaran/ystrlr/lr"
)

const markerCSV = `marker,rate
DYS19,0.0021
DYS385,0.0041
DYS390,0.0020
`

// TestMarkerSet reads the rate table and applies domain and copy overrides.
func TestMarkerSet(t *testing.T) {
	set, err := loader.MarkerSet(strings.NewReader(markerCSV),
		loader.WithCopies("DYS385", 2),
		loader.WithDomain("DYS19", core.StepDomain(10, 19)))
	require.NoError(t, err)
	require.Equal(t, 3, set.Len())

	m, err := set.ByName("DYS19")
	require.NoError(t, err)
	require.Equal(t, 0.0021, m.Rate())
	require.Equal(t, 10, m.DomainSize())

	dual, err := set.ByName("DYS385")
	require.NoError(t, err)
	require.Equal(t, 2, dual.Copies())

	// DYS390 keeps the default whole-repeat domain.
	def, err := set.ByName("DYS390")
	require.NoError(t, err)
	require.Equal(t, len(core.StepDomain(5, 35)), def.DomainSize())
}

func TestMarkerSet_Errors(t *testing.T) {
	t.Run("non-numeric rate", func(t *testing.T) {
		_, err := loader.MarkerSet(strings.NewReader("marker,rate\nDYS19,fast\n"))
		require.ErrorIs(t, err, loader.ErrBadFormat)
	})
	t.Run("wrong column count", func(t *testing.T) {
		_, err := loader.MarkerSet(strings.NewReader("marker,rate\nDYS19,0.002,extra\n"))
		require.ErrorIs(t, err, loader.ErrBadFormat)
	})
	t.Run("empty file", func(t *testing.T) {
		_, err := loader.MarkerSet(strings.NewReader(""))
		require.ErrorIs(t, err, loader.ErrBadFormat)
	})
	t.Run("invalid rate propagates marker validation", func(t *testing.T) {
		_, err := loader.MarkerSet(strings.NewReader("marker,rate\nDYS19,1.5\n"))
		require.ErrorIs(t, err, core.ErrInvalidMarker)
	})
	t.Run("duplicate marker", func(t *testing.T) {
		_, err := loader.MarkerSet(strings.NewReader("marker,rate\nDYS19,0.002\nDYS19,0.004\n"))
		require.ErrorIs(t, err, core.ErrDuplicateMarker)
	})
}

const pedigreeTGF = `1 grandfather
2 father
3 suspect
#
1 2
2 3
`

// TestPedigree reads a TGF ancestry graph into an open builder; observation
// and suspect selection stay with the caller.
func TestPedigree(t *testing.T) {
	set, err := loader.MarkerSet(strings.NewReader("marker,rate\nDYS19,0.002\n"),
		loader.WithDefaultDomain(core.StepDomain(10, 19)))
	require.NoError(t, err)

	b, err := loader.Pedigree(strings.NewReader(pedigreeTGF), set)
	require.NoError(t, err)

	typed := core.NewHaplotype(set)
	require.NoError(t, typed.Set("DYS19", 14))
	ped, err := b.Observe("grandfather", typed).SetSuspect("suspect").Build()
	require.NoError(t, err)

	require.Equal(t, []string{"grandfather", "father", "suspect"}, ped.TopoOrder())
	f, ok := ped.Father("suspect")
	require.True(t, ok)
	require.Equal(t, "father", f.ID)
}

func TestPedigree_Errors(t *testing.T) {
	set, err := loader.MarkerSet(strings.NewReader("marker,rate\nDYS19,0.002\n"))
	require.NoError(t, err)

	t.Run("edge references unknown node", func(t *testing.T) {
		_, err := loader.Pedigree(strings.NewReader("1 a\n#\n1 9\n"), set)
		require.ErrorIs(t, err, loader.ErrBadFormat)
	})
	t.Run("malformed line", func(t *testing.T) {
		_, err := loader.Pedigree(strings.NewReader("1 a b\n#\n"), set)
		require.ErrorIs(t, err, loader.ErrBadFormat)
	})
}

// TestHaplotype reads single- and multi-copy rows, repeated rows binding
// copies in order.
func TestHaplotype(t *testing.T) {
	set, err := loader.MarkerSet(
		strings.NewReader("marker,rate\nDYS19,0.002\nDYS385,0.004\n"),
		loader.WithCopies("DYS385", 2))
	require.NoError(t, err)

	h, err := loader.Haplotype(strings.NewReader("marker,value\nDYS19,14\nDYS385,11\nDYS385,14\n"), set)
	require.NoError(t, err)
	require.NoError(t, h.Validate())

	vs, err := h.Alleles("DYS385")
	require.NoError(t, err)
	require.Equal(t, []core.Allele{11, 14}, vs)
}

func TestHaplotype_Errors(t *testing.T) {
	set, err := loader.MarkerSet(
		strings.NewReader("marker,rate\nDYS19,0.002\nDYS385,0.004\n"),
		loader.WithCopies("DYS385", 2))
	require.NoError(t, err)

	t.Run("non-numeric allele", func(t *testing.T) {
		_, err := loader.Haplotype(strings.NewReader("marker,value\nDYS19,tall\n"), set)
		require.ErrorIs(t, err, loader.ErrBadFormat)
	})
	t.Run("missing marker", func(t *testing.T) {
		_, err := loader.Haplotype(strings.NewReader("marker,value\nDYS19,14\n"), set)
		require.ErrorIs(t, err, core.ErrHaplotypeMismatch)
	})
	t.Run("copy count mismatch", func(t *testing.T) {
		_, err := loader.Haplotype(strings.NewReader("marker,value\nDYS19,14\nDYS385,11\n"), set)
		require.ErrorIs(t, err, core.ErrHaplotypeMismatch)
	})
	t.Run("unknown marker", func(t *testing.T) {
		_, err := loader.Haplotype(strings.NewReader("marker,value\nDYS999,14\n"), set)
		require.ErrorIs(t, err, core.ErrHaplotypeMismatch)
	})
}

// TestFrequencies reads the three-column table and applies the floor option.
func TestFrequencies(t *testing.T) {
	ft, err := loader.Frequencies(
		strings.NewReader("marker,allele,frequency\nDYS19,14,0.3\nDYS19,15,0.2\n"),
		lr.WithMinFreq(0.01))
	require.NoError(t, err)
	require.Equal(t, 0.3, ft.Freq("DYS19", 14))
	require.Equal(t, 0.01, ft.Freq("DYS19", 16))
}

func TestFrequencies_Errors(t *testing.T) {
	t.Run("non-numeric frequency", func(t *testing.T) {
		_, err := loader.Frequencies(strings.NewReader("marker,allele,frequency\nDYS19,14,common\n"))
		require.ErrorIs(t, err, loader.ErrBadFormat)
	})
	t.Run("frequency outside range", func(t *testing.T) {
		_, err := loader.Frequencies(strings.NewReader("marker,allele,frequency\nDYS19,14,1.5\n"))
		require.ErrorIs(t, err, lr.ErrInvalidFrequency)
	})
	t.Run("non-numeric allele", func(t *testing.T) {
		_, err := loader.Frequencies(strings.NewReader("marker,allele,frequency\nDYS19,low,0.3\n"))
		require.ErrorIs(t, err, loader.ErrBadFormat)
	})
}
