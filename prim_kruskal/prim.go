// Package prim_kruskal provides an implementation of Prim’s algorithm, extended to
// spanning forests by restarting from the lowest unvisited switch of each component.
package prim_kruskal

import (
	"container/heap"
	"sort"

	"github.com/katalvlaran/kruskalctl/core"
)

// Prim computes the minimum spanning forest of the given links.
//
// switches lists vertices that must be covered even without links (isolated
// switches yield a single-vertex tree with no edges). Link endpoints absent from
// switches are added implicitly.
//
// Steps:
//  1. Build an undirected incidence list: every link is reachable from both endpoints.
//  2. For each switch in ascending id order that is not yet visited:
//     a. Mark it visited and push its incident links onto a min-heap (lessEdge order).
//     b. Pop the smallest link; skip it if both endpoints are visited.
//     c. Otherwise keep it, visit the new endpoint and push that endpoint's links.
//  3. Return the forest.
//
// Complexity: O(E log E) time, O(V + E) memory.
func Prim(edges []core.Link, switches []core.SwitchID) (*Tree, error) {
	// 1. Incidence list and vertex set.
	incident := make(map[core.SwitchID][]core.Link, len(switches))
	vertexSet := make(map[core.SwitchID]struct{}, len(switches))
	for _, id := range switches {
		vertexSet[id] = struct{}{}
	}
	for _, e := range edges {
		incident[e.Src] = append(incident[e.Src], e)
		if e.Dst != e.Src {
			incident[e.Dst] = append(incident[e.Dst], e)
		}
		vertexSet[e.Src] = struct{}{}
		vertexSet[e.Dst] = struct{}{}
	}
	vertices := make([]core.SwitchID, 0, len(vertexSet))
	for id := range vertexSet {
		vertices = append(vertices, id)
	}
	sort.Slice(vertices, func(i, j int) bool { return vertices[i] < vertices[j] })

	// 2. Grow one tree per component.
	visited := make(map[core.SwitchID]bool, len(vertices))
	tree := newTree(len(vertices))
	pq := &edgePQ{}
	for _, root := range vertices {
		if visited[root] {
			continue
		}
		visited[root] = true
		for _, e := range incident[root] {
			heap.Push(pq, e)
		}
		for pq.Len() > 0 {
			e := heap.Pop(pq).(core.Link)
			next := e.Dst
			if visited[next] {
				next = e.Src
			}
			if visited[next] {
				// Both endpoints already in the tree: cycle edge.
				continue
			}
			visited[next] = true
			tree.add(e)
			for _, ne := range incident[next] {
				if !visited[ne.Src] || !visited[ne.Dst] {
					heap.Push(pq, ne)
				}
			}
		}
	}

	// 3. Forest complete.
	return tree, nil
}

// edgePQ implements heap.Interface for a min-heap of core.Link ordered by lessEdge.
type edgePQ []core.Link

// Len returns the number of edges in the priority queue.
func (pq edgePQ) Len() int { return len(pq) }

// Less reports whether element i should sort before j.
func (pq edgePQ) Less(i, j int) bool { return lessEdge(pq[i], pq[j]) }

// Swap swaps elements at indices i and j.
func (pq edgePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

// Push appends a new core.Link to the heap. Called by heap.Push.
func (pq *edgePQ) Push(x interface{}) { *pq = append(*pq, x.(core.Link)) }

// Pop removes and returns the last element. Called by heap.Pop.
func (pq *edgePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	edge := old[n-1]
	*pq = old[:n-1]

	return edge
}
