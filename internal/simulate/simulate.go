// Package simulate implements the bit-parallel combinational simulator
// (component B): one forward sweep of the AIG node array, 64 test
// vectors wide, with an optional toggle set modeling a cut wire fed
// the opposite value downstream.
package simulate

import (
	"github.com/rawblock/logiclock/internal/aig"
	"github.com/rawblock/logiclock/pkg/models"
)

const allOnes = ^uint64(0)

// Simulator evaluates one AIG. It holds no per-call state beyond a
// reusable scratch buffer, so a single Simulator may be reused
// (sequentially) across many Run calls — exactly the O(|candidates|²)
// call pattern the pairwise analysis needs.
type Simulator struct {
	a       *aig.AIG
	scratch []uint64
}

// New builds a Simulator over a.
func New(a *aig.AIG) *Simulator {
	return &Simulator{a: a, scratch: make([]uint64, len(a.Nodes))}
}

// Clone returns a new Simulator over the same AIG with its own
// scratch buffer, so multiple goroutines can each drive their own
// Simulator instance over shared, read-only AIG state concurrently.
func (s *Simulator) Clone() *Simulator {
	return &Simulator{a: s.a, scratch: make([]uint64, len(s.a.Nodes))}
}

// Outputs returns the combinational output signal order this
// Simulator's underlying AIG was built with.
func (s *Simulator) Outputs() []models.SignalID {
	return append([]models.SignalID{}, s.a.Outputs...)
}

// ToggleSet is the set of AIG node indices whose computed value (an
// AND result or an input word) is XORed with all-ones during one Run.
type ToggleSet map[models.NodeIndex]bool

// NewToggleSet builds a ToggleSet from individual node indices.
func NewToggleSet(nodes ...models.NodeIndex) ToggleSet {
	t := make(ToggleSet, len(nodes))
	for _, n := range nodes {
		t[n] = true
	}
	return t
}

// Run evaluates the AIG over one packed 64-vector batch and the given
// toggle set, returning one 64-bit word per combinational output.
// Ordering guarantee: since every AND node's fan-ins reference
// strictly lower-indexed nodes, one left-to-right pass over the node
// array suffices — no fixpoint iteration.
func (s *Simulator) Run(batch models.TestVectorBatch, toggle ToggleSet) map[models.SignalID]uint64 {
	values := s.scratch
	values[0] = 0 // constant-zero sentinel

	for idx := 1; idx < len(s.a.Nodes); idx++ {
		node := s.a.Nodes[idx]
		var v uint64
		switch node.Kind {
		case aig.NodeInput:
			v = batch.Words[node.Signal]
		case aig.NodeAnd:
			v = fetch(values, node.Fanin0) & fetch(values, node.Fanin1)
		}
		if toggle[models.NodeIndex(idx)] {
			v ^= allOnes
		}
		values[idx] = v
	}

	out := make(map[models.SignalID]uint64, len(s.a.Outputs))
	for _, sig := range s.a.Outputs {
		out[sig] = fetch(values, s.a.SignalLiteral[sig])
	}
	return out
}

func fetch(values []uint64, lit models.Literal) uint64 {
	v := values[lit.Node()]
	if lit.Inverted() {
		return v ^ allOnes
	}
	return v
}
