package pedigree

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/ystrlr/core"
)

// New creates a Builder for a pedigree whose haplotypes are defined over ms.
func New(ms *core.MarkerSet) *Builder {
	return &Builder{
		set:     ms,
		members: make(map[string]*Individual),
	}
}

// record keeps the first construction error; later calls become no-ops so
// callers can chain Adds and check a single error at Build.
func (b *Builder) record(err error) {
	if b.err == nil {
		b.err = err
	}
}

// AddIndividual registers a new individual ID.
// Duplicate IDs are an ErrInvalidPedigree surfaced by Build.
func (b *Builder) AddIndividual(id string) *Builder {
	if id == "" {
		b.record(fmt.Errorf("%w: empty individual ID", ErrInvalidPedigree))
		return b
	}
	if _, ok := b.members[id]; ok {
		b.record(fmt.Errorf("%w: duplicate individual %q", ErrInvalidPedigree, id))
		return b
	}
	b.members[id] = &Individual{ID: id}
	b.order = append(b.order, id)

	return b
}

// SetFather records the father→child edge. Both IDs must already exist;
// a second father for the same child is an ErrInvalidPedigree.
func (b *Builder) SetFather(child, father string) *Builder {
	c, ok := b.members[child]
	if !ok {
		b.record(fmt.Errorf("%w: child %q", ErrUnknownIndividual, child))
		return b
	}
	if _, ok = b.members[father]; !ok {
		b.record(fmt.Errorf("%w: father %q", ErrUnknownIndividual, father))
		return b
	}
	if c.Father != "" && c.Father != father {
		b.record(fmt.Errorf("%w: %q has two fathers (%q, %q)", ErrInvalidPedigree, child, c.Father, father))
		return b
	}
	c.Father = father

	return b
}

// Observe attaches an evidence haplotype to an individual, making it known.
// The haplotype must be total over the builder's MarkerSet.
func (b *Builder) Observe(id string, h *core.Haplotype) *Builder {
	ind, ok := b.members[id]
	if !ok {
		b.record(fmt.Errorf("%w: %q", ErrUnknownIndividual, id))
		return b
	}
	if h == nil || h.MarkerSet() != b.set {
		b.record(fmt.Errorf("%w: haplotype for %q bound to a different marker set", core.ErrHaplotypeMismatch, id))
		return b
	}
	if err := h.Validate(); err != nil {
		b.record(fmt.Errorf("individual %q: %w", id, err))
		return b
	}
	ind.Observed = h

	return b
}

// SetSuspect designates the individual whose relatedness is being tested.
func (b *Builder) SetSuspect(id string) *Builder {
	if _, ok := b.members[id]; !ok {
		b.record(fmt.Errorf("%w: suspect %q", ErrUnknownIndividual, id))
		return b
	}
	b.suspect = id

	return b
}

// Build validates the accumulated structure and seals it into a Pedigree.
// All structural errors are detected here, before any simulation work.
func (b *Builder) Build() (*Pedigree, error) {
	if b == nil {
		return nil, ErrNilPedigree
	}
	if b.err != nil {
		return nil, b.err
	}
	if len(b.members) == 0 {
		return nil, fmt.Errorf("%w: no individuals", ErrInvalidPedigree)
	}
	if b.suspect == "" {
		return nil, fmt.Errorf("%w: no suspect designated", ErrInvalidPedigree)
	}

	p := &Pedigree{
		set:      b.set,
		members:  b.members,
		children: make(map[string][]string, len(b.members)),
		suspect:  b.suspect,
	}
	for _, id := range b.order {
		ind := b.members[id]
		if ind.Father != "" {
			p.children[ind.Father] = append(p.children[ind.Father], id)
		} else {
			p.founders = append(p.founders, id)
		}
		if ind.Known() {
			p.known = append(p.known, id)
		}
	}
	sort.Strings(p.founders)
	sort.Strings(p.known)
	for _, kids := range p.children {
		sort.Strings(kids)
	}
	if len(p.known) == 0 {
		return nil, fmt.Errorf("%w: no known individuals", ErrInvalidPedigree)
	}

	if err := p.buildTopo(); err != nil {
		return nil, err
	}
	if err := p.checkConnected(); err != nil {
		return nil, err
	}

	return p, nil
}

// buildTopo runs a Kahn-style pass over father→child edges, founders first.
// Since each individual has at most one father, in-degree is 0 or 1 and any
// individual never reached from a founder sits on a cycle.
func (p *Pedigree) buildTopo() error {
	p.topo = make([]string, 0, len(p.members))
	queue := append([]string(nil), p.founders...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		p.topo = append(p.topo, id)
		queue = append(queue, p.children[id]...)
	}
	if len(p.topo) != len(p.members) {
		return fmt.Errorf("%w: cycle along father→child edges (%d of %d reachable from founders)",
			ErrInvalidPedigree, len(p.topo), len(p.members))
	}
	return nil
}

// checkConnected verifies that the suspect and every known individual share
// one component of the male-line forest (edges taken as undirected).
// Evidence in a separate tree can never constrain the suspect.
func (p *Pedigree) checkConnected() error {
	// Root of each individual's tree identifies its component.
	rootOf := func(id string) string {
		for p.members[id].Father != "" {
			id = p.members[id].Father
		}
		return id
	}
	want := rootOf(p.suspect)
	for _, id := range p.known {
		if got := rootOf(id); got != want {
			return fmt.Errorf("%w: known individual %q disconnected from suspect %q",
				ErrInvalidPedigree, id, p.suspect)
		}
	}
	return nil
}

// MarkerSet returns the marker set the pedigree's haplotypes are bound to.
func (p *Pedigree) MarkerSet() *core.MarkerSet { return p.set }

// Individual returns the member with the given ID.
func (p *Pedigree) Individual(id string) (*Individual, error) {
	ind, ok := p.members[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownIndividual, id)
	}
	return ind, nil
}

// Father returns the father of id, or ok=false for founders.
func (p *Pedigree) Father(id string) (*Individual, bool) {
	ind, ok := p.members[id]
	if !ok || ind.Father == "" {
		return nil, false
	}
	return p.members[ind.Father], true
}

// Children returns the sorted child IDs of id.
func (p *Pedigree) Children(id string) []string {
	return append([]string(nil), p.children[id]...)
}

// Founders returns the sorted IDs of individuals without a father.
func (p *Pedigree) Founders() []string {
	return append([]string(nil), p.founders...)
}

// Known returns the sorted IDs of individuals with observed haplotypes.
func (p *Pedigree) Known() []string {
	return append([]string(nil), p.known...)
}

// Suspect returns the designated suspect's ID.
func (p *Pedigree) Suspect() string { return p.suspect }

// TopoOrder returns the cached founder-to-leaf topological order.
// The returned slice is shared and must not be mutated; it is computed once
// at Build and reused by every simulation iteration.
func (p *Pedigree) TopoOrder() []string { return p.topo }

// Len returns the number of individuals.
func (p *Pedigree) Len() int { return len(p.members) }
