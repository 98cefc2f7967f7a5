package simulate_test

import (
	"fmt"

	"github.com/katalvlaran/ystrlr/core"
	"github.com/katalvlaran/ystrlr/lr"
	"github.com/katalvlaran/ystrlr/meiosis"
	"github.com/katalvlaran/ystrlr/pedigree"
	"github.com/katalvlaran/ystrlr/simulate"
)

// ExampleRun estimates the LR for a fully typed father→son pair whose son
// matches the evidence exactly. With nothing latent the match probability
// is 1, so the LR is the reciprocal of the population baseline.
func ExampleRun() {
	set := core.NewMarkerSet()
	m, _ := core.NewMarker("DYS19", 0.002, core.StepDomain(10, 19))
	_ = set.Add(m)

	evidence := core.NewHaplotype(set)
	_ = evidence.Set("DYS19", 14)

	ped, _ := pedigree.New(set).
		AddIndividual("father").
		AddIndividual("suspect").
		SetFather("suspect", "father").
		Observe("father", evidence.Clone()).
		Observe("suspect", evidence.Clone()).
		SetSuspect("suspect").
		Build()

	model, _ := meiosis.NewModel(set, meiosis.WithTarget(evidence))
	freq, _ := lr.NewFrequencyTable()
	_ = freq.Set("DYS19", 14, 0.01)

	res, _ := simulate.Run(ped, model, freq, 1000, simulate.WithSeed(1))

	fmt.Printf("match probability: %.2f\n", res.MatchProbability)
	fmt.Printf("LR: %.0f\n", res.LR)
	fmt.Println("iterations:", res.Iterations)
	// Output:
	// match probability: 1.00
	// LR: 100
	// iterations: 1000
}
