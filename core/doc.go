// Package core defines the central Marker, MarkerSet, Allele, and Haplotype
// types that every other ystrlr package builds on.
//
// A Marker describes one Y-STR locus: its per-meiosis mutation rate, how many
// copies a haplotype carries (multi-copy loci such as DYS385 carry two), the
// ordered domain of permissible allele values (which may include intermediate
// alleles such as 17.2), and an optional up/down mutation asymmetry.
// A MarkerSet is an ordered, unique-keyed collection of Markers; a Haplotype
// is a total assignment of allele values over one MarkerSet.
//
// All core types are immutable after construction: validation happens in the
// constructors, never downstream. Sampling, transition probabilities, and
// estimation live in the meiosis, simulate, and lr packages.
//
// Errors:
//
//	ErrInvalidMarker       - malformed marker definition (rate, copies, domain).
//	ErrDuplicateMarker     - marker name already present in the MarkerSet.
//	ErrUnknownMarker       - marker name absent from the MarkerSet.
//	ErrHaplotypeMismatch   - haplotype does not cover its MarkerSet.
//	ErrAlleleOutsideDomain - allele value not in the marker's domain.
package core
