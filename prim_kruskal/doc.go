// Package prim_kruskal computes the spanning tree the controller keeps active.
// Every discovered link outside that tree is administratively disabled, so
// flooded frames can never circulate.
//
// What & Why
//
//   - A Minimum Spanning Tree (MST) of a connected weighted graph is a subset of
//     edges that connects every switch with minimum total weight and no cycle.
//
//   - When discovery reports several islands, the result is a spanning forest:
//     one tree per connected component. That is not an error; each component is
//     independently loop-free.
//
// Algorithms Provided
//
//   - Kruskal(edges []core.Link, set *disjoint.Set) (*Tree, error)
//
//   - Strategy: sort all edges ascending, walk them in order, and keep an edge
//     (u,v) when find(u) != find(v), merging the two components.
//
//   - Termination: after every edge has been examined, regardless of
//     connectivity, so an out-of-range switch id anywhere in the input surfaces
//     as disjoint.ErrOutOfRange.
//
//   - Complexity: O(E log E + α(V)·E) time, O(E) extra memory.
//
//   - Prim(edges []core.Link, switches []core.SwitchID) (*Tree, error)
//
//   - Strategy: grow a tree from the lowest unvisited switch with a min-heap of
//     frontier edges; repeat for every component to obtain a spanning forest.
//
//   - Used as an independent cross-check of Kruskal and selectable through
//     MSTOptions.
//
//   - Complexity: O(E log E) time, O(V + E) memory.
//
// Tie-breaking
//
//	Equal-weight edges are ordered by (min(u,v), max(u,v), src, dst) ascending.
//	This makes the edge order a strict total order, so the minimum spanning
//	forest is unique: Kruskal and Prim return the same set of switch pairs for
//	the same input, independent of discovery order.
//
// Error Conditions
//
//   - ErrNilDisjointSet: Kruskal was called without a disjoint set.
//   - ErrUnknownMethod:  MSTOptions.Method is neither MethodKruskal nor MethodPrim.
//   - disjoint.ErrOutOfRange (wrapped): a link endpoint lies outside 1..n.
package prim_kruskal
