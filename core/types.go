// Package core declares Allele, Marker, the sentinel errors, and the
// NewMarker constructor. MarkerSet and Haplotype live in their own files.
package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for marker and haplotype validation.
var (
	// ErrInvalidMarker indicates a malformed marker definition:
	// mutation rate outside [0,1], copy count < 1, or a bad allele domain.
	ErrInvalidMarker = errors.New("core: invalid marker")

	// ErrDuplicateMarker indicates a marker name already present in a MarkerSet.
	ErrDuplicateMarker = fmt.Errorf("%w: duplicate marker name", ErrInvalidMarker)

	// ErrUnknownMarker indicates a marker name absent from a MarkerSet.
	ErrUnknownMarker = errors.New("core: unknown marker")

	// ErrHaplotypeMismatch indicates a haplotype whose markers do not match
	// the MarkerSet it was validated against (missing marker, wrong copy count).
	ErrHaplotypeMismatch = errors.New("core: haplotype does not match marker set")

	// ErrAlleleOutsideDomain indicates an allele value outside the marker's
	// declared domain.
	ErrAlleleOutsideDomain = fmt.Errorf("%w: allele outside domain", ErrHaplotypeMismatch)
)

// Allele is one repeat-count value at a Y-STR locus.
// Intermediate alleles are fractional (17.2 means 17 repeats plus a partial
// repeat), so the natural representation is a float. Alleles are only ever
// taken from a marker's finite domain, so exact == comparison is well-defined.
type Allele float64

// DefaultUpShare is the default probability share of upward (repeat-gaining)
// mutations among all mutating transmissions. ½ means symmetric up/down.
const DefaultUpShare = 0.5

// Marker describes one Y-STR locus. Immutable after NewMarker.
type Marker struct {
	name    string
	rate    float64  // mutation probability per transmission, in [0,1]
	copies  int      // number of copies a haplotype carries, ≥ 1
	domain  []Allele // strictly ascending permissible values
	upShare float64  // share of mutations that step upward, in [0,1]

	index map[Allele]int // domain value → position, built once
}

// MarkerOption configures optional Marker fields before validation.
type MarkerOption func(*Marker)

// WithCopies sets the marker's copy count (multi-copy loci). Default 1.
func WithCopies(n int) MarkerOption {
	return func(m *Marker) { m.copies = n }
}

// WithUpShare sets the share of mutations that step upward (gain repeats).
// Default DefaultUpShare (symmetric).
func WithUpShare(s float64) MarkerOption {
	return func(m *Marker) { m.upShare = s }
}

// NewMarker validates and constructs a Marker.
//
// name must be non-empty; rate must lie in [0,1]; domain must be non-empty
// and strictly ascending. Violations return ErrInvalidMarker with detail.
// Complexity: O(len(domain)).
func NewMarker(name string, rate float64, domain []Allele, opts ...MarkerOption) (*Marker, error) {
	m := &Marker{
		name:    name,
		rate:    rate,
		copies:  1,
		upShare: DefaultUpShare,
	}
	for _, opt := range opts {
		opt(m)
	}

	if name == "" {
		return nil, fmt.Errorf("%w: empty marker name", ErrInvalidMarker)
	}
	if rate < 0 || rate > 1 {
		return nil, fmt.Errorf("%w: %s: mutation rate %v outside [0,1]", ErrInvalidMarker, name, rate)
	}
	if m.copies < 1 {
		return nil, fmt.Errorf("%w: %s: copy count %d < 1", ErrInvalidMarker, name, m.copies)
	}
	if m.upShare < 0 || m.upShare > 1 {
		return nil, fmt.Errorf("%w: %s: up-share %v outside [0,1]", ErrInvalidMarker, name, m.upShare)
	}
	if len(domain) == 0 {
		return nil, fmt.Errorf("%w: %s: empty allele domain", ErrInvalidMarker, name)
	}
	m.domain = make([]Allele, len(domain))
	copy(m.domain, domain)
	m.index = make(map[Allele]int, len(domain))
	for i, v := range m.domain {
		if i > 0 && v <= m.domain[i-1] {
			return nil, fmt.Errorf("%w: %s: domain not strictly ascending at %v", ErrInvalidMarker, name, v)
		}
		m.index[v] = i
	}

	return m, nil
}

// Name returns the marker identifier.
func (m *Marker) Name() string { return m.name }

// Rate returns the per-transmission mutation probability.
func (m *Marker) Rate() float64 { return m.rate }

// Copies returns how many copies of this marker a haplotype carries.
func (m *Marker) Copies() int { return m.copies }

// UpShare returns the share of mutations that step upward.
func (m *Marker) UpShare() float64 { return m.upShare }

// Domain returns the ordered allele domain. The returned slice is a copy;
// the marker itself stays immutable.
func (m *Marker) Domain() []Allele {
	d := make([]Allele, len(m.domain))
	copy(d, m.domain)
	return d
}

// DomainSize returns the number of permissible allele values.
func (m *Marker) DomainSize() int { return len(m.domain) }

// DomainIndex returns the position of v in the domain, or
// ErrAlleleOutsideDomain if v is not a permissible value.
func (m *Marker) DomainIndex(v Allele) (int, error) {
	i, ok := m.index[v]
	if !ok {
		return 0, fmt.Errorf("%w: %s: %v", ErrAlleleOutsideDomain, m.name, float64(v))
	}
	return i, nil
}

// DomainValue returns the allele at domain position i.
// Callers pass positions obtained from DomainIndex; out-of-range is a
// programmer error and panics like a slice access would.
func (m *Marker) DomainValue(i int) Allele { return m.domain[i] }

// StepDomain builds a contiguous integer-step domain [lo, hi], a convenience
// for the common case of whole-repeat loci.
func StepDomain(lo, hi int) []Allele {
	if hi < lo {
		lo, hi = hi, lo
	}
	d := make([]Allele, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		d = append(d, Allele(v))
	}
	return d
}
