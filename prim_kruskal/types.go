// Package prim_kruskal defines the Tree result type, options and sentinel errors.
package prim_kruskal

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/kruskalctl/core"
	"github.com/katalvlaran/kruskalctl/disjoint"
)

// ErrNilDisjointSet indicates Kruskal was called without a disjoint set.
var ErrNilDisjointSet = errors.New("prim_kruskal: disjoint set is nil")

// ErrUnknownMethod indicates an MSTOptions.Method value that names no algorithm.
var ErrUnknownMethod = errors.New("prim_kruskal: unknown MST method")

// MethodPrim selects Prim's algorithm (per-component min-heap growth).
const MethodPrim = "prim"

// MethodKruskal selects Kruskal's algorithm (sort all edges and union-find).
const MethodKruskal = "kruskal"

// Tree is a spanning tree (or forest) over switch pairs.
//
// Edges holds one directed representative per selected pair, in selection order.
// The cable of that representative is the only one of the pair that stays
// forwarding; parallel cables between the same switches close a loop.
type Tree struct {
	Edges  []core.Link
	Weight int64

	pairs  core.PairSet
	cables map[core.Cable]struct{}
}

func newTree(capacity int) *Tree {
	return &Tree{
		Edges:  make([]core.Link, 0, capacity),
		pairs:  make(core.PairSet, capacity),
		cables: make(map[core.Cable]struct{}, capacity),
	}
}

func (t *Tree) add(l core.Link) {
	t.Edges = append(t.Edges, l)
	t.Weight += l.Weight
	t.pairs[l.Pair()] = struct{}{}
	t.cables[l.Cable()] = struct{}{}
}

// Len returns the number of tree edges. A nil Tree has none.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}

	return len(t.Edges)
}

// Contains reports whether the unordered pair (u, v) is a tree edge.
func (t *Tree) Contains(u, v core.SwitchID) bool {
	if t == nil {
		return false
	}

	return t.pairs.Has(u, v)
}

// Carries reports whether l, in either direction, is the cable chosen for its
// pair. A parallel cable of a tree pair is not carried.
func (t *Tree) Carries(l core.Link) bool {
	if t == nil {
		return false
	}
	_, ok := t.cables[l.Cable()]

	return ok
}

// Pairs returns a copy of the tree's pair set.
func (t *Tree) Pairs() core.PairSet {
	if t == nil {
		return nil
	}
	out := make(core.PairSet, len(t.pairs))
	for p := range t.pairs {
		out[p] = struct{}{}
	}

	return out
}

// MSTOptions configures which MST algorithm Compute runs.
// Use DefaultOptions() to get the default setup (Kruskal).
type MSTOptions struct {
	// Method to use: MethodPrim or MethodKruskal.
	Method string
}

// Option configures MSTOptions.
type Option func(*MSTOptions)

// WithMethod returns an Option that sets the algorithm Method.
// Allowed values: MethodPrim, MethodKruskal.
func WithMethod(m string) Option {
	return func(opts *MSTOptions) {
		opts.Method = m
	}
}

// DefaultOptions returns MSTOptions initialized for Kruskal, then applies opts.
func DefaultOptions(opts ...Option) MSTOptions {
	o := MSTOptions{Method: MethodKruskal}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Compute runs the selected algorithm over the topology's current generation.
//
//	– MethodKruskal: Kruskal(t.Edges(), t.NewDisjointSet()).
//	– MethodPrim:    Prim over the same edges, after checking that every
//	                 endpoint lies in 1..SwitchCount() like the disjoint set would.
//	– Otherwise:     ErrUnknownMethod.
func Compute(t *core.Topology, opts MSTOptions) (*Tree, error) {
	switch opts.Method {
	case MethodKruskal:
		return Kruskal(t.Edges(), t.NewDisjointSet())
	case MethodPrim:
		edges := t.Edges()
		n := t.SwitchCount()
		ids := make([]core.SwitchID, 0, n)
		for _, s := range t.Switches() {
			ids = append(ids, s.ID)
		}
		for _, l := range edges {
			for _, id := range [2]core.SwitchID{l.Src, l.Dst} {
				if id < 1 || uint64(id) > uint64(n) {
					return nil, fmt.Errorf("prim: link %v->%v: %w: %d not in [1,%d]",
						l.Src, l.Dst, disjoint.ErrOutOfRange, id, n)
				}
			}
		}
		return Prim(edges, ids)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, opts.Method)
	}
}

// lessEdge is the strict total order used by both algorithms:
// weight, then the unordered pair, then direction, then ports so that
// parallel cables of one pair are ordered too.
func lessEdge(a, b core.Link) bool {
	if a.Weight != b.Weight {
		return a.Weight < b.Weight
	}
	pa, pb := a.Pair(), b.Pair()
	if pa.A != pb.A {
		return pa.A < pb.A
	}
	if pa.B != pb.B {
		return pa.B < pb.B
	}
	if a.Src != b.Src {
		return a.Src < b.Src
	}
	if a.Dst != b.Dst {
		return a.Dst < b.Dst
	}
	if a.SrcPort != b.SrcPort {
		return a.SrcPort < b.SrcPort
	}

	return a.DstPort < b.DstPort
}
