package simulate

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/ystrlr/core"
	"github.com/katalvlaran/ystrlr/lr"
	"github.com/katalvlaran/ystrlr/meiosis"
	"github.com/katalvlaran/ystrlr/pedigree"
)

// streamStride separates per-iteration random streams derived from the
// root seed. Odd so that consecutive iterations never share a source.
const streamStride int64 = 2654435761

// Run estimates the likelihood ratio for ped's suspect by importance
// sampling: iterations independent pedigree walks, each sampling every
// latent individual from the meiosis proposal and folding
// (importance weight, match indicator) into the streaming estimator.
//
// The evidence haplotype is the model's proposal target (meiosis.WithTarget);
// the unrelated-population baseline is freq's random-match probability of
// that evidence. All validation happens before the first iteration.
//
// On cancellation Run returns the partial Result built from completed
// iterations together with the context's error.
func Run(ped *pedigree.Pedigree, model *meiosis.Model, freq *lr.FrequencyTable, iterations int, opts ...Option) (*Result, error) {
	if ped == nil || model == nil || freq == nil {
		return nil, ErrNilArgument
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if iterations <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadIterations, iterations)
	}
	evidence := model.Target()
	if evidence == nil {
		return nil, meiosis.ErrNoTarget
	}
	if model.MarkerSet() != ped.MarkerSet() {
		return nil, fmt.Errorf("%w: model and pedigree use different marker sets", core.ErrHaplotypeMismatch)
	}

	baseline, err := freq.RandomMatchProbability(evidence)
	if err != nil {
		return nil, err
	}
	var estOpts []lr.Option
	if o.essThreshold != 0 {
		estOpts = append(estOpts, lr.WithESSThreshold(o.essThreshold))
	}

	plan, err := compile(ped, model, freq, evidence)
	if err != nil {
		return nil, err
	}

	workers := o.workers
	if workers > iterations {
		workers = iterations
	}

	runID := uuid.NewString()
	o.logger.Info("simulation started",
		"runID", runID, "iterations", iterations, "seed", o.seed,
		"workers", workers, "individuals", ped.Len(), "markers", ped.MarkerSet().Len())
	start := time.Now()

	// One private estimator per worker; merged in worker order below, so
	// the reduction is independent of scheduling.
	parts := make([]*lr.Estimator, workers)
	for w := range parts {
		if parts[w], err = lr.New(baseline, estOpts...); err != nil {
			return nil, err
		}
	}

	g, ctx := errgroup.WithContext(o.ctx)
	chunk := iterations / workers
	rem := iterations % workers
	lo := 0
	for w := 0; w < workers; w++ {
		hi := lo + chunk
		if w < rem {
			hi++
		}
		first, last, part := lo, hi, parts[w] // loop variables are reused across turns under go1.21; pin this worker's range
		g.Go(func() error {
			for i := first; i < last; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				rng := rand.New(rand.NewSource(o.seed + int64(i)*streamStride + 1))
				weight, match, err := plan.iterate(rng)
				if err != nil {
					return err
				}
				if err := part.Update(weight, match); err != nil {
					return err
				}
				if o.onIteration != nil {
					o.onIteration(i, weight, match)
				}
			}
			return nil
		})
		lo = hi
	}
	runErr := g.Wait()
	if runErr != nil && o.ctx.Err() == nil {
		// A defect, not a cancellation: no partial result is meaningful.
		return nil, runErr
	}

	for w := 1; w < workers; w++ {
		if err := parts[0].Merge(parts[w]); err != nil {
			return nil, err
		}
	}
	res := &Result{
		Result:  parts[0].Finalize(),
		RunID:   runID,
		Seed:    o.seed,
		Workers: workers,
		Elapsed: time.Since(start),
	}
	o.logger.Info("simulation finished",
		"runID", runID, "lr", res.LR, "stdErr", res.StandardError,
		"ess", res.EffectiveSampleSize, "iterations", res.Iterations,
		"elapsed", res.Elapsed)
	for _, warn := range res.Warnings {
		o.logger.Info("simulation warning", "runID", runID, "warning", warn.Error())
	}

	return res, runErr
}

// node is one pedigree member compiled for the hot loop.
type node struct {
	id       string
	father   int             // index into the topo-ordered nodes, -1 for founders
	observed [][]core.Allele // per marker (topo of the marker set), nil if latent
}

// founderKernel is the sampling table for latent founders of one marker:
// the population prior mixed with the evidence pull, per marker copy.
type founderKernel struct {
	prior []float64   // population distribution over domain positions
	props [][]float64 // per copy: (1−β)·prior + β·pull
	cums  [][]float64 // per copy: running sums of props, last entry 1
}

// plan is the compiled, read-only iteration program: topo-ordered nodes,
// marker tables, and the evidence matrix. Shared by all workers.
type plan struct {
	model    *meiosis.Model
	markers  []*core.Marker
	nodes    []node
	suspect  int
	evidence [][]core.Allele
	founder  []founderKernel // per marker
}

// compile flattens the pedigree and evidence into index-addressed tables so
// the per-iteration walk does no map lookups or haplotype bookkeeping.
func compile(ped *pedigree.Pedigree, model *meiosis.Model, freq *lr.FrequencyTable, evidence *core.Haplotype) (*plan, error) {
	markers := ped.MarkerSet().Markers()
	topo := ped.TopoOrder()
	pos := make(map[string]int, len(topo))
	for i, id := range topo {
		pos[id] = i
	}

	p := &plan{
		model:   model,
		markers: markers,
		nodes:   make([]node, len(topo)),
		suspect: pos[ped.Suspect()],
	}
	for i, id := range topo {
		ind, err := ped.Individual(id)
		if err != nil {
			return nil, err
		}
		n := node{id: id, father: -1}
		if ind.Father != "" {
			n.father = pos[ind.Father]
		}
		if ind.Known() {
			if n.observed, err = alleleMatrix(ind.Observed, markers); err != nil {
				return nil, err
			}
		}
		p.nodes[i] = n
	}
	var err error
	if p.evidence, err = alleleMatrix(evidence, markers); err != nil {
		return nil, err
	}

	p.founder = make([]founderKernel, len(markers))
	for mi, m := range markers {
		fk := founderKernel{
			prior: freq.Dist(m),
			props: make([][]float64, m.Copies()),
			cums:  make([][]float64, m.Copies()),
		}
		for c := 0; c < m.Copies(); c++ {
			pull, err := model.PullRow(m, c)
			if err != nil {
				return nil, err
			}
			prop := make([]float64, len(fk.prior))
			cum := make([]float64, len(fk.prior))
			beta := model.Bias()
			total := 0.0
			for j := range prop {
				prop[j] = (1-beta)*fk.prior[j] + beta*pull[j]
				total += prop[j]
				cum[j] = total
			}
			cum[len(cum)-1] = 1
			fk.props[c] = prop
			fk.cums[c] = cum
		}
		p.founder[mi] = fk
	}

	return p, nil
}

// alleleMatrix reads a total haplotype into marker-indexed copy slices.
func alleleMatrix(h *core.Haplotype, markers []*core.Marker) ([][]core.Allele, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	out := make([][]core.Allele, len(markers))
	for i, m := range markers {
		values, err := h.Alleles(m.Name())
		if err != nil {
			return nil, err
		}
		out[i] = values
	}
	return out, nil
}

// iterate runs one full pedigree walk and returns the linear importance
// weight and the match indicator. The weight product is accumulated in log
// space and exponentiated only here, at the fold boundary.
func (p *plan) iterate(rng *rand.Rand) (weight float64, match bool, err error) {
	vals := make([][][]core.Allele, len(p.nodes))
	logW := 0.0

	for ni := range p.nodes {
		n := &p.nodes[ni]
		if n.observed != nil {
			vals[ni] = n.observed
			if n.father >= 0 {
				// Edge into fixed evidence: pure likelihood factor, no
				// sampling choice was made here.
				lp, err := p.edgeLogTrue(vals[n.father], n.observed)
				if err != nil {
					return 0, false, err
				}
				logW += lp
			}
			continue
		}

		sampled := make([][]core.Allele, len(p.markers))
		if n.father < 0 {
			// Latent founder: population prior mixed with the evidence pull.
			for mi, m := range p.markers {
				values, dLog, err := p.sampleFounder(rng, mi, m)
				if err != nil {
					return 0, false, err
				}
				sampled[mi] = values
				logW += dLog
			}
		} else {
			// Latent non-founder: proposal draw conditioned on the father.
			for mi, m := range p.markers {
				child, err := p.model.Sample(rng, m, vals[n.father][mi], meiosis.Proposal)
				if err != nil {
					return 0, false, err
				}
				lpTrue, err := p.model.LogProb(m, vals[n.father][mi], child, meiosis.True)
				if err != nil {
					return 0, false, err
				}
				lpProp, err := p.model.LogProb(m, vals[n.father][mi], child, meiosis.Proposal)
				if err != nil {
					return 0, false, err
				}
				sampled[mi] = child
				logW += lpTrue - lpProp
			}
		}
		vals[ni] = sampled
	}

	if math.IsNaN(logW) {
		// Proposal mass vanished where true mass is positive: a kernel
		// configuration defect, surfaced as an invalid marker model.
		return 0, false, fmt.Errorf("%w: proposal assigns zero mass to a sampled transition", core.ErrInvalidMarker)
	}

	return math.Exp(logW), matrixEqual(vals[p.suspect], p.evidence), nil
}

// edgeLogTrue sums the true log transition probability over all markers of
// one father→child edge.
func (p *plan) edgeLogTrue(parent, child [][]core.Allele) (float64, error) {
	sum := 0.0
	for mi, m := range p.markers {
		lp, err := p.model.LogProb(m, parent[mi], child[mi], meiosis.True)
		if err != nil {
			return 0, err
		}
		sum += lp
	}
	return sum, nil
}

// sampleFounder draws one marker's copy-set for a latent founder and
// returns it with its log prior/proposal ratio.
func (p *plan) sampleFounder(rng *rand.Rand, mi int, m *core.Marker) ([]core.Allele, float64, error) {
	fk := &p.founder[mi]
	values := make([]core.Allele, m.Copies())
	dLog := 0.0
	for c := range values {
		cum := fk.cums[c]
		u := rng.Float64()
		j := sort.Search(len(cum), func(i int) bool { return cum[i] > u })
		if j >= len(cum) {
			j = len(cum) - 1
		}
		values[c] = m.DomainValue(j)
		dLog += math.Log(fk.prior[j]) - math.Log(fk.props[c][j])
	}
	return values, dLog, nil
}

// matrixEqual compares two marker-indexed copy matrices.
func matrixEqual(a, b [][]core.Allele) bool {
	for mi := range a {
		if len(a[mi]) != len(b[mi]) {
			return false
		}
		for c := range a[mi] {
			if a[mi][c] != b[mi][c] {
				return false
			}
		}
	}
	return true
}
