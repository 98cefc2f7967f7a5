package pedigree_test

import (
	"fmt"

	"github.com/katalvlaran/ystrlr/core"
	"github.com/katalvlaran/ystrlr/pedigree"
)

// ExampleBuilder assembles the classic uncle case: the suspect's uncle is
// typed, the suspect's father and grandfather are not.
//
//	grandfather
//	   /    \
//	uncle  father
//	         |
//	      suspect
func ExampleBuilder() {
	ms := core.NewMarkerSet()
	m, _ := core.NewMarker("DYS19", 0.002, core.StepDomain(10, 19))
	_ = ms.Add(m)

	typed := core.NewHaplotype(ms)
	_ = typed.Set("DYS19", 14)

	ped, err := pedigree.New(ms).
		AddIndividual("grandfather").
		AddIndividual("uncle").
		AddIndividual("father").
		AddIndividual("suspect").
		SetFather("uncle", "grandfather").
		SetFather("father", "grandfather").
		SetFather("suspect", "father").
		Observe("uncle", typed).
		SetSuspect("suspect").
		Build()
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("founders:", ped.Founders())
	fmt.Println("known:", ped.Known())
	fmt.Println("order:", ped.TopoOrder())
	// Output:
	// founders: [grandfather]
	// known: [uncle]
	// order: [grandfather father uncle suspect]
}
