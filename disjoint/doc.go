// Package disjoint implements the disjoint-set (union-find) structure used while
// building a spanning tree over switch identifiers.
//
// What & Why
//
//   - A Set of size n tracks a partition of the identifiers 1..n (plus a sentinel
//     slot 0) into connected components. Kruskal's algorithm asks one question per
//     edge: "are u and v already connected?" and merges their components when not.
//
//   - Find walks parent pointers to the representative of a component and then
//     relinks every visited slot straight to that representative (two passes,
//     no recursion), so repeated lookups are O(1) amortized.
//
//   - Union attaches the representative of y under the representative of x.
//     There is no rank or size balancing; path compression alone keeps the trees
//     flat enough for topologies of a few thousand switches.
//
// Lifetime
//
//	A Set is scoped to a single spanning-tree computation and discarded after it.
//	There is no removal operation. The structure is not safe for concurrent use;
//	the caller owns it for the duration of one computation.
//
// Error Conditions
//
//   - ErrOutOfRange: an identifier outside 1..n was passed to Find, Union or
//     Connected. This signals a mismatch between the topology and the size the
//     Set was created with, and must not be swallowed by callers.
//
// Complexity
//
//   - New: O(n) time and memory.
//   - Find/Union/Connected: O(α(n)) amortized.
package disjoint
