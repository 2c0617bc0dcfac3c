package analyze

import (
	"github.com/rawblock/logiclock/internal/simulate"
	"github.com/rawblock/logiclock/pkg/models"
)

// Corruption computes the output-corruption matrix (spec.md §4.3.2):
// for each candidate, one toggle-{a} pass per batch, XORed bitwise
// against the cached empty-toggle pass for every output.
func (a *Analyzer) Corruption(candidates []models.Candidate) *models.CorruptionMatrix {
	matrix := models.NewCorruptionMatrix(len(candidates), a.outputs, len(a.batches))
	a.parallelFor(len(candidates), func(i int, sim *simulate.Simulator) {
		toggle := simulate.NewToggleSet(candidates[i].Node)
		row := matrix.Row(i)
		for k, batch := range a.batches {
			out := sim.Run(batch, toggle)
			empty := a.empty[k]
			for oi, o := range a.outputs {
				row[oi][k] = empty[o] ^ out[o]
			}
		}
	})
	return matrix
}
