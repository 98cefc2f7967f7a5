package lr

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/ystrlr/core"
)

// FrequencyTable holds per-marker population allele frequencies, the
// unrelated-population side of the likelihood ratio. It is consumed as a
// numeric table; surveying frequencies is out of scope.
//
// Alleles absent from the table fall back to the configured minimum
// frequency (DefaultMinFreq), the standard correction for alleles never
// seen in the population survey.
type FrequencyTable struct {
	freqs   map[string]map[core.Allele]float64
	minFreq float64
}

// FrequencyOption configures a FrequencyTable.
type FrequencyOption func(*FrequencyTable)

// WithMinFreq sets the floor frequency for unobserved alleles.
// Values outside (0,1] are rejected at NewFrequencyTable.
func WithMinFreq(f float64) FrequencyOption {
	return func(t *FrequencyTable) { t.minFreq = f }
}

// NewFrequencyTable creates an empty table.
func NewFrequencyTable(opts ...FrequencyOption) (*FrequencyTable, error) {
	t := &FrequencyTable{
		freqs:   make(map[string]map[core.Allele]float64),
		minFreq: DefaultMinFreq,
	}
	for _, opt := range opts {
		opt(t)
	}
	if math.IsNaN(t.minFreq) || t.minFreq <= 0 || t.minFreq > 1 {
		return nil, fmt.Errorf("%w: min frequency %v", ErrInvalidFrequency, t.minFreq)
	}

	return t, nil
}

// Set records the population frequency of one allele at one marker.
func (t *FrequencyTable) Set(marker string, allele core.Allele, freq float64) error {
	if math.IsNaN(freq) || freq <= 0 || freq > 1 {
		return fmt.Errorf("%w: %s allele %v: %v", ErrInvalidFrequency, marker, float64(allele), freq)
	}
	row, ok := t.freqs[marker]
	if !ok {
		row = make(map[core.Allele]float64)
		t.freqs[marker] = row
	}
	row[allele] = freq

	return nil
}

// Freq returns the population frequency of one allele, floored at the
// configured minimum for alleles missing from the table.
func (t *FrequencyTable) Freq(marker string, allele core.Allele) float64 {
	if f, ok := t.freqs[marker][allele]; ok {
		return f
	}
	return t.minFreq
}

// Dist returns the population distribution over the marker's domain,
// aligned to domain positions, floored and renormalized to sum to 1.
// The simulator uses it as the founder (population) prior.
func (t *FrequencyTable) Dist(marker *core.Marker) []float64 {
	domain := marker.Domain()
	dist := make([]float64, len(domain))
	for i, v := range domain {
		dist[i] = t.Freq(marker.Name(), v)
	}
	floats.Scale(1/floats.Sum(dist), dist)

	return dist
}

// RandomMatchProbability returns p₂ for a total haplotype: the product of
// the population frequencies of its alleles across all markers and copies.
func (t *FrequencyTable) RandomMatchProbability(h *core.Haplotype) (float64, error) {
	if err := h.Validate(); err != nil {
		return 0, err
	}
	p := 1.0
	for _, m := range h.MarkerSet().Markers() {
		values, err := h.Alleles(m.Name())
		if err != nil {
			return 0, err
		}
		for _, v := range values {
			p *= t.Freq(m.Name(), v)
		}
	}

	return p, nil
}
