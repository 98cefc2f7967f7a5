package core

import "fmt"

// MarkerSet is an ordered, unique-keyed collection of Markers.
//
// Order is insertion order and is the canonical marker order used by every
// haplotype, loader, and simulation pass. A MarkerSet is append-only: markers
// can be added but never removed or replaced, so readers may share one
// MarkerSet freely once construction is done.
type MarkerSet struct {
	order  []*Marker
	byName map[string]*Marker
}

// NewMarkerSet creates an empty MarkerSet.
// Complexity: O(1).
func NewMarkerSet() *MarkerSet {
	return &MarkerSet{byName: make(map[string]*Marker)}
}

// Add appends a marker, rejecting nil markers and duplicate names.
func (s *MarkerSet) Add(m *Marker) error {
	if m == nil {
		return fmt.Errorf("%w: nil marker", ErrInvalidMarker)
	}
	if _, ok := s.byName[m.name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateMarker, m.name)
	}
	s.order = append(s.order, m)
	s.byName[m.name] = m

	return nil
}

// ByName returns the marker with the given name, or ErrUnknownMarker.
func (s *MarkerSet) ByName(name string) (*Marker, error) {
	m, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMarker, name)
	}
	return m, nil
}

// Has reports whether a marker with the given name exists.
func (s *MarkerSet) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Markers returns the markers in canonical (insertion) order.
// The returned slice is a copy; the set itself stays append-only.
func (s *MarkerSet) Markers() []*Marker {
	out := make([]*Marker, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of markers in the set.
func (s *MarkerSet) Len() int { return len(s.order) }
