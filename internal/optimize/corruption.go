package optimize

import "github.com/rawblock/logiclock/pkg/models"

// Corruption runs greedy maximum-coverage selection over m (spec.md
// §4.5). prefix is a mandatory set of candidate indices already
// selected (the hybrid path's largest pairwise clique); it counts
// against budget and is kept ahead of every greedy pick, except that a
// prefix longer than budget is truncated to its first budget entries.
// In every greedy round, candidates whose corruption row is
// bit-identical to an already-selected row are skipped, since they can
// never contribute marginal coverage.
// numVectors is the exact test-vector count (the final batch may be
// partially populated).
func Corruption(m *models.CorruptionMatrix, budget int, prefix []int, numVectors int) []int {
	selected := append([]int{}, prefix...)
	if len(selected) > budget {
		selected = selected[:budget]
	}

	chosen := make(map[int]bool, len(selected))
	for _, c := range selected {
		chosen[c] = true
	}

	for len(selected) < budget {
		best, bestGain := -1, -1
		for c := 0; c < m.NumCandidates(); c++ {
			if chosen[c] {
				continue
			}
			if duplicatesSelected(m, c, selected, chosen) {
				continue
			}
			gain := m.MarginalGain(selected, c, numVectors)
			if gain > bestGain || (gain == bestGain && (best == -1 || c < best)) {
				bestGain, best = gain, c
			}
		}
		if best == -1 || bestGain <= 0 {
			break
		}
		selected = append(selected, best)
		chosen[best] = true
	}
	return selected
}

// duplicatesSelected reports whether candidate c's corruption row is
// bit-identical to any already-selected candidate's row.
func duplicatesSelected(m *models.CorruptionMatrix, c int, selected []int, chosen map[int]bool) bool {
	for _, s := range selected {
		if chosen[s] && m.SameRow(c, s) {
			return true
		}
	}
	return false
}
