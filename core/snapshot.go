// File: snapshot.go
// Role: Read-only, pull-based copy of one generation for external renderers.
// Determinism:
//   - Switches sorted by ID, edges sorted by (Src, Dst, SrcPort), tree pairs sorted by (A, B).
// Concurrency:
//   - Built from the locked accessors; the result shares no memory with the Topology.

package core

// Spanning is the view of a spanning tree that Snapshot needs.
// *prim_kruskal.Tree implements it, including as a nil pointer.
type Spanning interface {
	// Pairs returns the switch pairs joined by the tree.
	Pairs() PairSet
	// Carries reports whether l is the cable chosen for its pair.
	Carries(l Link) bool
}

// SnapshotEdge is one directed link plus its tree membership.
type SnapshotEdge struct {
	Link
	InTree bool `json:"in_tree"`
}

// Snapshot is a self-contained copy of a generation and, optionally, its tree.
type Snapshot struct {
	Generation uint64         `json:"generation"`
	Computed   bool           `json:"computed"`
	Switches   []Switch       `json:"switches"`
	Edges      []SnapshotEdge `json:"edges"`
	Tree       []Pair         `json:"tree"`
}

// Snapshot copies the current generation. tree marks which edges carry the
// most recent spanning tree; pass nil when no tree has been computed. Of several
// parallel cables between a tree pair only the chosen one is marked InTree.
// Complexity: O(S log S + L log L + T log T).
func (t *Topology) Snapshot(tree Spanning) Snapshot {
	t.mu.RLock()
	gen, computed := t.generation, t.computed
	t.mu.RUnlock()

	var pairs PairSet
	if tree != nil {
		pairs = tree.Pairs()
	}

	edges := t.Edges()
	out := Snapshot{
		Generation: gen,
		Computed:   computed,
		Switches:   t.Switches(),
		Edges:      make([]SnapshotEdge, 0, len(edges)),
		Tree:       pairs.Sorted(),
	}
	for _, l := range edges {
		out.Edges = append(out.Edges, SnapshotEdge{Link: l, InTree: tree != nil && tree.Carries(l)})
	}

	return out
}
