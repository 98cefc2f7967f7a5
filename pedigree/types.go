// Package pedigree declares the Individual and Pedigree types, the Builder,
// and the sentinel errors. Validation and the topological order live in
// pedigree.go.
package pedigree

import (
	"errors"

	"github.com/katalvlaran/ystrlr/core"
)

// Sentinel errors for pedigree construction and lookup.
var (
	// ErrNilPedigree is returned when a nil pedigree or builder is used.
	ErrNilPedigree = errors.New("pedigree: pedigree is nil")

	// ErrInvalidPedigree indicates a structural violation: a cycle along
	// father→child edges, a duplicate individual, a second father for one
	// individual, a missing suspect, no known individuals, or evidence
	// disconnected from the suspect's male line.
	ErrInvalidPedigree = errors.New("pedigree: invalid pedigree")

	// ErrUnknownIndividual indicates that the suspect, an observed
	// haplotype, or an edge references an individual that was never added.
	ErrUnknownIndividual = errors.New("pedigree: unknown individual")
)

// Individual is one member of the male lineage.
//
// Observed is non-nil for known (evidence) individuals and nil for latent
// ones, whose haplotypes are sampled anew every simulation iteration.
type Individual struct {
	// ID uniquely identifies this individual within its Pedigree.
	ID string

	// Father is the ID of this individual's father, or "" for founders.
	Father string

	// Observed is the attached evidence haplotype, nil if latent.
	Observed *core.Haplotype
}

// Known reports whether this individual carries an observed haplotype.
func (ind *Individual) Known() bool { return ind.Observed != nil }

// Builder accumulates individuals, father→child edges, observed haplotypes,
// and the suspect designation, then seals them into a Pedigree via Build.
// A Builder is single-goroutine; the built Pedigree is freely shared.
type Builder struct {
	set     *core.MarkerSet
	order   []string // insertion order, for deterministic diagnostics
	members map[string]*Individual
	suspect string
	err     error // first construction error, surfaced by Build
}

// Pedigree is the sealed, validated paternal-lineage graph.
type Pedigree struct {
	set      *core.MarkerSet
	members  map[string]*Individual
	children map[string][]string // father ID → sorted child IDs
	topo     []string            // founders first, leaves last
	founders []string            // sorted IDs without a father
	known    []string            // sorted IDs with observed haplotypes
	suspect  string
}
