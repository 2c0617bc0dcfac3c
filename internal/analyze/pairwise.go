package analyze

import (
	"sync"

	"github.com/rawblock/logiclock/internal/simulate"
	"github.com/rawblock/logiclock/pkg/models"
)

type candidatePair struct{ i, j int }

// Pairwise computes the pairwise-security graph over candidates
// (spec.md §4.3.1): for every pair (a,b), four simulation passes
// (toggle ∅, {a}, {b}, {a,b}) decide whether the pair is pairwise
// secure, and the same-impact rule prunes redundant pairs (buffer
// chains, XOR trees) that would otherwise be formally secure but
// useless.
func (a *Analyzer) Pairwise(candidates []models.Candidate) *models.PairwiseGraph {
	n := len(candidates)
	graph := models.NewPairwiseGraph(n)
	if n < 2 {
		return graph
	}

	pairs := make([]candidatePair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, candidatePair{i, j})
		}
	}

	var mu sync.Mutex
	a.parallelFor(len(pairs), func(idx int, sim *simulate.Simulator) {
		p := pairs[idx]
		ca, cb := candidates[p.i], candidates[p.j]
		insecure, redundant := a.evaluatePair(sim, ca.Node, cb.Node)
		if insecure || redundant {
			return
		}
		mu.Lock()
		graph.AddEdge(p.i, p.j)
		mu.Unlock()
	})
	return graph
}

// evaluatePair runs the four toggle passes for one candidate pair
// across every test-vector batch and returns whether the pair fails
// the pairwise-secure predicate, and whether it is same-impact
// redundant.
func (a *Analyzer) evaluatePair(sim *simulate.Simulator, nodeA, nodeB models.NodeIndex) (insecure, redundant bool) {
	toggleA := simulate.NewToggleSet(nodeA)
	toggleB := simulate.NewToggleSet(nodeB)
	toggleAB := simulate.NewToggleSet(nodeA, nodeB)

	redundant = true
	for k, batch := range a.batches {
		empty := a.empty[k]
		outA := sim.Run(batch, toggleA)
		outB := sim.Run(batch, toggleB)
		outAB := sim.Run(batch, toggleAB)

		for _, o := range a.outputs {
			sensA := (empty[o] ^ outA[o]) | (outB[o] ^ outAB[o])
			sensB := (empty[o] ^ outB[o]) | (outA[o] ^ outAB[o])
			if sensA^sensB != 0 {
				// Once the pair fails the pairwise-secure predicate
				// it is rejected regardless of redundancy, so there
				// is nothing left worth computing.
				return true, false
			}
			if outA[o]^outB[o] != 0 {
				redundant = false
			}
		}
	}
	return false, redundant
}
