package models

import "sort"

// PairwiseGraph is the undirected, simple pairwise-security graph:
// vertices are locking-candidate indices, edges connect pairs deemed
// pairwise-secure. No self-loops, no multi-edges.
type PairwiseGraph struct {
	n   int
	adj []map[int]struct{}
}

// NewPairwiseGraph allocates an edgeless graph over n candidate
// vertices.
func NewPairwiseGraph(n int) *PairwiseGraph {
	adj := make([]map[int]struct{}, n)
	for i := range adj {
		adj[i] = make(map[int]struct{})
	}
	return &PairwiseGraph{n: n, adj: adj}
}

// N returns the number of vertices.
func (g *PairwiseGraph) N() int { return g.n }

// AddEdge connects a and b. Self-loops are silently ignored, matching
// the pairwise-irreflexivity invariant.
func (g *PairwiseGraph) AddEdge(a, b int) {
	if a == b {
		return
	}
	g.adj[a][b] = struct{}{}
	g.adj[b][a] = struct{}{}
}

// HasEdge reports whether a and b are connected.
func (g *PairwiseGraph) HasEdge(a, b int) bool {
	if a == b {
		return false
	}
	_, ok := g.adj[a][b]
	return ok
}

// Neighbors returns the sorted neighbor list of vertex v.
func (g *PairwiseGraph) Neighbors(v int) []int {
	out := make([]int, 0, len(g.adj[v]))
	for u := range g.adj[v] {
		out = append(out, u)
	}
	sort.Ints(out)
	return out
}

// Degree returns the number of edges incident to v.
func (g *PairwiseGraph) Degree(v int) int {
	return len(g.adj[v])
}

// IsClique reports whether the given vertex set induces a complete
// subgraph (every pair connected).
func (g *PairwiseGraph) IsClique(vertices []int) bool {
	for i := 0; i < len(vertices); i++ {
		for j := i + 1; j < len(vertices); j++ {
			if !g.HasEdge(vertices[i], vertices[j]) {
				return false
			}
		}
	}
	return true
}
