package core

import "fmt"

// Haplotype is a total assignment of allele values over one MarkerSet:
// for every marker, exactly Copies() allele values drawn from its domain.
//
// A Haplotype is built with Set calls and then checked with Validate;
// simulation code only ever sees validated (total) haplotypes.
type Haplotype struct {
	set     *MarkerSet
	alleles map[string][]Allele
}

// NewHaplotype creates an empty haplotype bound to ms.
func NewHaplotype(ms *MarkerSet) *Haplotype {
	return &Haplotype{
		set:     ms,
		alleles: make(map[string][]Allele, ms.Len()),
	}
}

// MarkerSet returns the set this haplotype is bound to.
func (h *Haplotype) MarkerSet() *MarkerSet { return h.set }

// Set assigns the allele values for one marker.
//
// The marker must exist in the bound MarkerSet (ErrUnknownMarker via
// ErrHaplotypeMismatch), the number of values must equal the marker's copy
// count (ErrHaplotypeMismatch), and every value must lie in the marker's
// domain (ErrAlleleOutsideDomain).
func (h *Haplotype) Set(name string, values ...Allele) error {
	m, err := h.set.ByName(name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHaplotypeMismatch, err)
	}
	if len(values) != m.Copies() {
		return fmt.Errorf("%w: %s: got %d values, marker carries %d copies",
			ErrHaplotypeMismatch, name, len(values), m.Copies())
	}
	for _, v := range values {
		if _, err = m.DomainIndex(v); err != nil {
			return err
		}
	}
	stored := make([]Allele, len(values))
	copy(stored, values)
	h.alleles[name] = stored

	return nil
}

// Alleles returns the allele values for one marker, in copy order.
// The returned slice is the stored one: callers must not mutate it.
func (h *Haplotype) Alleles(name string) ([]Allele, error) {
	vs, ok := h.alleles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s not assigned", ErrHaplotypeMismatch, name)
	}
	return vs, nil
}

// Validate checks totality: every marker of the bound MarkerSet has an
// assignment. Per-marker copy count and domain membership were already
// enforced by Set. Returns ErrHaplotypeMismatch on the first gap.
func (h *Haplotype) Validate() error {
	for _, m := range h.set.order {
		if _, ok := h.alleles[m.name]; !ok {
			return fmt.Errorf("%w: marker %s not assigned", ErrHaplotypeMismatch, m.name)
		}
	}
	return nil
}

// Equal reports whether h and other carry identical allele values for every
// marker of h's MarkerSet. Haplotypes bound to different sets are unequal.
func (h *Haplotype) Equal(other *Haplotype) bool {
	if other == nil || h.set != other.set {
		return false
	}
	for _, m := range h.set.order {
		a, okA := h.alleles[m.name]
		b, okB := other.alleles[m.name]
		if okA != okB || len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy sharing the (immutable) MarkerSet.
func (h *Haplotype) Clone() *Haplotype {
	c := NewHaplotype(h.set)
	for name, vs := range h.alleles {
		stored := make([]Allele, len(vs))
		copy(stored, vs)
		c.alleles[name] = stored
	}
	return c
}
