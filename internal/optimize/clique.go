// Package optimize implements the two combinatorial optimizers: the
// clique optimizer (component D) over the pairwise-security graph, and
// the corruption optimizer (component E) over the corruption matrix.
package optimize

import (
	"sort"

	"github.com/rawblock/logiclock/pkg/models"
)

// Clique partitions up to budget vertices of g into disjoint cliques,
// greedily maximizing total satisfied-pair value (spec.md §4.4):
// repeatedly grow a maximal clique in the remaining induced subgraph,
// emit it, remove its vertices, and repeat. Once no multi-vertex
// clique remains, any unused budget is filled with singletons in
// ascending vertex-index order. Ties throughout are broken by lowest
// vertex index for determinism.
func Clique(g *models.PairwiseGraph, budget int) [][]int {
	if budget <= 0 {
		return nil
	}
	remaining := make(map[int]bool, g.N())
	for v := 0; v < g.N(); v++ {
		remaining[v] = true
	}

	var cliques [][]int
	used := 0
	for used < budget && len(remaining) > 0 {
		set := sortedKeys(remaining)
		clique := greedyMaximalClique(g, set, budget-used)
		if len(clique) < 2 {
			break
		}
		cliques = append(cliques, clique)
		for _, v := range clique {
			delete(remaining, v)
		}
		used += len(clique)
	}

	if used < budget && len(remaining) > 0 {
		for _, v := range sortedKeys(remaining) {
			if used >= budget {
				break
			}
			cliques = append(cliques, []int{v})
			used++
		}
	}
	return cliques
}

// greedyMaximalClique grows one maximal clique from vertices, starting
// at the highest-degree vertex (within vertices) and repeatedly adding
// the highest-degree remaining candidate, stopping at budget.
func greedyMaximalClique(g *models.PairwiseGraph, vertices []int, budget int) []int {
	if budget < 1 || len(vertices) == 0 {
		return nil
	}
	start := pickHighestDegree(g, vertices, vertices)
	if start == -1 {
		return nil
	}
	clique := []int{start}
	candidates := neighborsIn(g, start, vertices)
	for len(clique) < budget && len(candidates) > 0 {
		next := pickHighestDegree(g, candidates, candidates)
		clique = append(clique, next)
		candidates = neighborsIn(g, next, candidates)
	}
	return clique
}

// pickHighestDegree returns the vertex in pool with the most neighbors
// within degreeSet, breaking ties by lowest vertex index.
func pickHighestDegree(g *models.PairwiseGraph, pool []int, degreeSet []int) int {
	best, bestDeg := -1, -1
	for _, v := range pool {
		d := degreeWithin(g, v, degreeSet)
		if d > bestDeg || (d == bestDeg && (best == -1 || v < best)) {
			bestDeg, best = d, v
		}
	}
	return best
}

func degreeWithin(g *models.PairwiseGraph, v int, set []int) int {
	d := 0
	for _, u := range set {
		if u != v && g.HasEdge(v, u) {
			d++
		}
	}
	return d
}

func neighborsIn(g *models.PairwiseGraph, v int, set []int) []int {
	out := make([]int, 0, len(set))
	for _, u := range set {
		if u != v && g.HasEdge(v, u) {
			out = append(out, u)
		}
	}
	return out
}

func sortedKeys(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// ExhaustiveMaxClique finds a true maximum clique among vertices by
// branch-and-bound search, for use on small graphs where the greedy
// heuristic's approximation is worth trading for exact optimality
// (spec.md §4.4's "brute-force variant ... optionally available for
// small graphs"). Ties are broken lexicographically by ascending
// vertex index.
func ExhaustiveMaxClique(g *models.PairwiseGraph, vertices []int) []int {
	sorted := append([]int{}, vertices...)
	sort.Ints(sorted)

	var best []int
	var search func(candidates, current []int)
	search = func(candidates, current []int) {
		if len(current)+len(candidates) <= len(best) {
			return
		}
		if len(candidates) == 0 {
			if len(current) > len(best) {
				best = append([]int{}, current...)
			}
			return
		}
		v := candidates[0]
		rest := candidates[1:]

		withV := append(append([]int{}, current...), v)
		search(neighborsIn(g, v, rest), withV)
		search(rest, current)
	}
	search(sorted, nil)
	return best
}
