// Package pedigree provides the immutable paternal-lineage graph the
// simulation walks: individuals connected by father→child edges, with
// observed (evidence) haplotypes attached to known individuals and one
// individual designated as the suspect.
//
// A Pedigree is assembled through a Builder and sealed by Build, which
// validates the structural invariants once:
//
//   - every referenced individual exists,
//   - at most one father per individual,
//   - no cycle along father→child edges (the male line is a forest),
//   - the suspect and every known individual live in one connected
//     component (no disconnected evidence),
//   - at least one known individual.
//
// Build also computes the founder-to-leaf topological order once; every
// simulation iteration reuses that cached order instead of re-walking the
// graph. The built Pedigree is read-only and safe for concurrent use.
//
// Errors:
//
//	ErrNilPedigree       - nil pedigree or builder passed.
//	ErrInvalidPedigree   - cycle, duplicate individual, second father,
//	                       missing suspect, or disconnected evidence.
//	ErrUnknownIndividual - suspect, haplotype, or edge references an
//	                       individual that was never added.
package pedigree
