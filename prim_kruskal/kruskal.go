// Package prim_kruskal provides an implementation of Kruskal’s Minimum Spanning Tree algorithm.
// It consumes the topology's directed links and a fresh disjoint set, and produces the tree edges.
package prim_kruskal

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/kruskalctl/core"
	"github.com/katalvlaran/kruskalctl/disjoint"
)

// Kruskal computes the minimum spanning forest of the given links.
// Each directed link is treated as an undirected edge between its endpoints;
// the second direction of a pair is discarded as a cycle once the first is kept.
//
// Error Conditions:
//   - ErrNilDisjointSet        : if set is nil.
//   - disjoint.ErrOutOfRange   : (wrapped) if any endpoint is outside 1..set.Len().
//
// Steps:
//  1. Validate set != nil.
//  2. Copy the links and sort them with lessEdge (weight, pair, direction).
//  3. For each link (u,v) in order: if find(u) != find(v), union them and keep the link.
//  4. Continue until every link has been examined.
//
// The set is consumed: after Kruskal returns it reflects the forest's components.
// Complexity: O(E log E + α(V)·E). Memory: O(E).
func Kruskal(edges []core.Link, set *disjoint.Set) (*Tree, error) {
	// 1. A nil set is a wiring error, not an empty topology.
	if set == nil {
		return nil, ErrNilDisjointSet
	}

	// 2. Sort a private copy so the caller's slice order is preserved.
	sorted := make([]core.Link, len(edges))
	copy(sorted, edges)
	sort.Slice(sorted, func(i, j int) bool { return lessEdge(sorted[i], sorted[j]) })

	// 3. Greedy selection.
	capacity := set.Len() - 1
	if capacity < 0 {
		capacity = 0
	}
	tree := newTree(capacity)
	for _, e := range sorted {
		ru, err := set.Find(int(e.Src))
		if err != nil {
			return nil, fmt.Errorf("kruskal: link %v->%v: %w", e.Src, e.Dst, err)
		}
		rv, err := set.Find(int(e.Dst))
		if err != nil {
			return nil, fmt.Errorf("kruskal: link %v->%v: %w", e.Src, e.Dst, err)
		}
		if ru == rv {
			// Would close a cycle.
			continue
		}
		if _, err = set.Union(ru, rv); err != nil {
			return nil, fmt.Errorf("kruskal: link %v->%v: %w", e.Src, e.Dst, err)
		}
		tree.add(e)
	}

	// 4. Every link examined; the forest is complete.
	return tree, nil
}
