// Package loader reads the flat on-disk inputs of a likelihood-ratio run
// and assembles the validated in-memory objects the engine consumes:
//
//   - mutation-rate CSV  (marker,rate with a header)       → core.MarkerSet
//   - TGF pedigree       (node lines, "#", edge lines)     → pedigree.Builder
//   - haplotype CSV      (marker,value with a header)      → core.Haplotype
//   - frequency CSV      (marker,allele,frequency, header) → lr.FrequencyTable
//
// The loaders are orchestration only: every semantic check is delegated to
// the constructors of core, pedigree, and lr, so malformed content surfaces
// the same error taxonomy as programmatic construction. Purely syntactic
// problems (wrong column count, non-numeric fields) are ErrBadFormat.
//
// The rate table carries no allele domains, so MarkerSet applies a default
// whole-repeat domain, overridable per marker with WithDomain and
// WithCopies for multi-copy loci.
package loader
