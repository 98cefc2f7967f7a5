package loader

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/katalvlaran/ystrlr/core"
	"github.com/katalvlaran/ystrlr/lr"
	"github.com/katalvlaran/ystrlr/pedigree"
)

// ErrBadFormat indicates a syntactically malformed input file.
var ErrBadFormat = errors.New("loader: malformed input")

// Default allele domain applied to markers without an explicit override:
// whole repeats across the range observed at common Y-STR loci.
var defaultDomain = core.StepDomain(5, 35)

// Option configures MarkerSet loading.
type Option func(*config)

type config struct {
	domain  []core.Allele
	domains map[string][]core.Allele
	copies  map[string]int
}

// WithDefaultDomain replaces the default allele domain for all markers.
func WithDefaultDomain(domain []core.Allele) Option {
	return func(c *config) { c.domain = domain }
}

// WithDomain overrides the allele domain of one marker, e.g. to add
// intermediate alleles.
func WithDomain(marker string, domain []core.Allele) Option {
	return func(c *config) { c.domains[marker] = domain }
}

// WithCopies declares a multi-copy marker.
func WithCopies(marker string, n int) Option {
	return func(c *config) { c.copies[marker] = n }
}

// MarkerSet reads a mutation-rate CSV (header line, then "name,rate" rows)
// into a validated core.MarkerSet.
func MarkerSet(r io.Reader, opts ...Option) (*core.MarkerSet, error) {
	cfg := config{
		domain:  defaultDomain,
		domains: make(map[string][]core.Allele),
		copies:  make(map[string]int),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	rows, err := readCSV(r, 2)
	if err != nil {
		return nil, err
	}
	set := core.NewMarkerSet()
	for _, row := range rows {
		name := strings.TrimSpace(row[0])
		rate, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: marker %q: rate %q", ErrBadFormat, name, row[1])
		}
		domain := cfg.domain
		if d, ok := cfg.domains[name]; ok {
			domain = d
		}
		var mOpts []core.MarkerOption
		if n, ok := cfg.copies[name]; ok {
			mOpts = append(mOpts, core.WithCopies(n))
		}
		m, err := core.NewMarker(name, rate, domain, mOpts...)
		if err != nil {
			return nil, err
		}
		if err = set.Add(m); err != nil {
			return nil, err
		}
	}

	return set, nil
}

// Pedigree reads a TGF graph description: "id name" node lines, a single
// "#" separator, then "parentID childID" edge lines. It returns an open
// pedigree.Builder so the caller can attach observed haplotypes and the
// suspect before Build.
func Pedigree(r io.Reader, ms *core.MarkerSet) (*pedigree.Builder, error) {
	b := pedigree.New(ms)
	names := make(map[string]string) // node id → individual name

	inEdges := false
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "#" {
			inEdges = true
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: line %q", ErrBadFormat, line)
		}
		if !inEdges {
			names[fields[0]] = fields[1]
			b.AddIndividual(fields[1])
			continue
		}
		father, ok := names[fields[0]]
		if !ok {
			return nil, fmt.Errorf("%w: edge references node %q", ErrBadFormat, fields[0])
		}
		child, ok := names[fields[1]]
		if !ok {
			return nil, fmt.Errorf("%w: edge references node %q", ErrBadFormat, fields[1])
		}
		b.SetFather(child, father)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return b, nil
}

// Haplotype reads a haplotype CSV (header line, then "marker,value" rows)
// into a validated core.Haplotype. Multi-copy markers repeat their row once
// per copy, in copy order.
func Haplotype(r io.Reader, ms *core.MarkerSet) (*core.Haplotype, error) {
	rows, err := readCSV(r, 2)
	if err != nil {
		return nil, err
	}
	values := make(map[string][]core.Allele)
	order := make([]string, 0, ms.Len())
	for _, row := range rows {
		name := strings.TrimSpace(row[0])
		v, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: marker %q: allele %q", ErrBadFormat, name, row[1])
		}
		if _, seen := values[name]; !seen {
			order = append(order, name)
		}
		values[name] = append(values[name], core.Allele(v))
	}

	h := core.NewHaplotype(ms)
	for _, name := range order {
		if err := h.Set(name, values[name]...); err != nil {
			return nil, err
		}
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}

	return h, nil
}

// Frequencies reads a population-frequency CSV (header line, then
// "marker,allele,frequency" rows) into an lr.FrequencyTable.
func Frequencies(r io.Reader, opts ...lr.FrequencyOption) (*lr.FrequencyTable, error) {
	rows, err := readCSV(r, 3)
	if err != nil {
		return nil, err
	}
	table, err := lr.NewFrequencyTable(opts...)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		name := strings.TrimSpace(row[0])
		allele, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: marker %q: allele %q", ErrBadFormat, name, row[1])
		}
		freq, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: marker %q: frequency %q", ErrBadFormat, name, row[2])
		}
		if err = table.Set(name, core.Allele(allele), freq); err != nil {
			return nil, err
		}
	}

	return table, nil
}

// readCSV consumes the header line and returns the remaining records,
// enforcing the expected column count.
func readCSV(r io.Reader, columns int) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = columns
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrBadFormat)
	}

	return records[1:], nil // drop header
}
