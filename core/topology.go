package core

import (
	"fmt"
	"net"
	"sort"
	"sync"

	"github.com/katalvlaran/kruskalctl/disjoint"
	"github.com/katalvlaran/kruskalctl/weight"
)

// Option configures a Topology at construction.
type Option func(t *Topology)

// WithWeightProvider injects the source of fresh link weights.
// A nil provider is ignored and the default is kept.
func WithWeightProvider(p weight.Provider) Option {
	return func(t *Topology) {
		if p != nil {
			t.provider = p
		}
	}
}

// Topology is the authoritative view of switches and links for one generation.
//
// adjacency[src][srcPort] holds the link leaving src on srcPort, so parallel
// cables between one pair are kept apart; pairWeight caches the weight assigned
// to each unordered pair in this generation and is shared by all of them.
type Topology struct {
	mu sync.RWMutex

	provider weight.Provider

	generation uint64
	computed   bool

	switches   map[SwitchID]*Switch
	ports      map[SwitchID]map[PortNo]net.HardwareAddr
	adjacency  map[SwitchID]map[PortNo]*Link
	pairWeight map[Pair]int64
	linkCount  int
}

// NewTopology creates an empty Topology (generation 0, no switches).
// By default weights are drawn uniformly from [weight.DefaultMin, weight.DefaultMax]
// using a wall-clock seeded source.
// Complexity: O(1).
func NewTopology(opts ...Option) *Topology {
	t := &Topology{
		switches:   make(map[SwitchID]*Switch),
		ports:      make(map[SwitchID]map[PortNo]net.HardwareAddr),
		adjacency:  make(map[SwitchID]map[PortNo]*Link),
		pairWeight: make(map[Pair]int64),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.provider == nil {
		t.provider = weight.Uniform(weight.DefaultMin, weight.DefaultMax, nil)
	}

	return t
}

// Rebuild replaces every switch and link with the given discovery output and
// starts a new generation.
//
// Steps:
//  1. Copy switches and index their ports.
//  2. For each link in order: reuse the pair's weight if either direction was
//     already seen in this rebuild, otherwise draw a fresh one from the provider.
//  3. Swap the new maps in, bump the generation and clear the computed flag.
//
// A link is identified by its source endpoint (Src, SrcPort): a second report
// from the same source port replaces the first, while a cable on another port
// between the same pair is a separate link sharing the pair's weight.
//
// On error the previous generation is left untouched.
// Complexity: O(S + P + L) where P is the total port count.
func (t *Topology) Rebuild(switches []Switch, links []LinkSpec) error {
	// 1. Switches and port index, assembled off-lock.
	sw := make(map[SwitchID]*Switch, len(switches))
	ports := make(map[SwitchID]map[PortNo]net.HardwareAddr, len(switches))
	for _, s := range switches {
		c := s.clone()
		sw[s.ID] = &c
		idx := make(map[PortNo]net.HardwareAddr, len(c.Ports))
		for _, p := range c.Ports {
			idx[p.No] = p.HWAddr
		}
		ports[s.ID] = idx
	}

	// 2. Links with per-pair weights.
	adjacency := make(map[SwitchID]map[PortNo]*Link, len(switches))
	pairWeight := make(map[Pair]int64, len(links)/2+1)
	count := 0
	for _, ls := range links {
		pair := MakePair(ls.Src, ls.Dst)
		w, seen := pairWeight[pair]
		if !seen {
			w = t.provider.Next()
			if w < 1 {
				return fmt.Errorf("link %v->%v: %w (got %d)", ls.Src, ls.Dst, ErrBadWeight, w)
			}
			pairWeight[pair] = w
		}
		out, ok := adjacency[ls.Src]
		if !ok {
			out = make(map[PortNo]*Link)
			adjacency[ls.Src] = out
		}
		if _, dup := out[ls.SrcPort]; !dup {
			count++
		}
		out[ls.SrcPort] = &Link{Src: ls.Src, SrcPort: ls.SrcPort, Dst: ls.Dst, DstPort: ls.DstPort, Weight: w}
	}

	// 3. Swap in.
	t.mu.Lock()
	defer t.mu.Unlock()
	t.switches = sw
	t.ports = ports
	t.adjacency = adjacency
	t.pairWeight = pairWeight
	t.linkCount = count
	t.generation++
	t.computed = false

	return nil
}

// Edges returns every directed link of the current generation, sorted by
// (Src, Dst, SrcPort). The slice is a copy; mutating it does not affect the topology.
// Complexity: O(L log L).
func (t *Topology) Edges() []Link {
	t.mu.RLock()
	out := make([]Link, 0, t.linkCount)
	for _, byPort := range t.adjacency {
		for _, l := range byPort {
			out = append(out, *l)
		}
	}
	t.mu.RUnlock()

	sortLinks(out)

	return out
}

func sortLinks(out []Link) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].Src != out[j].Src {
			return out[i].Src < out[j].Src
		}
		if out[i].Dst != out[j].Dst {
			return out[i].Dst < out[j].Dst
		}
		return out[i].SrcPort < out[j].SrcPort
	})
}

// Switches returns copies of all switches sorted by ID.
// Complexity: O(S log S + P).
func (t *Topology) Switches() []Switch {
	t.mu.RLock()
	out := make([]Switch, 0, len(t.switches))
	for _, s := range t.switches {
		out = append(out, s.clone())
	}
	t.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// Switch returns a copy of the switch with the given id.
func (t *Topology) Switch(id SwitchID) (Switch, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.switches[id]
	if !ok {
		return Switch{}, fmt.Errorf("%w: %v", ErrSwitchNotFound, id)
	}

	return s.clone(), nil
}

// SwitchCount returns the number of switches in the current generation.
func (t *Topology) SwitchCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.switches)
}

// LinkCount returns the number of directed links in the current generation.
func (t *Topology) LinkCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.linkCount
}

// Link returns a directed link src→dst, if present. With parallel cables the
// one leaving src on the lowest port is returned; see Links for all of them.
// Complexity: O(deg(src)).
func (t *Topology) Link(src, dst SwitchID) (Link, bool) {
	links := t.Links(src, dst)
	if len(links) == 0 {
		return Link{}, false
	}

	return links[0], true
}

// Links returns every directed link src→dst sorted by SrcPort.
// Complexity: O(deg(src) log deg(src)).
func (t *Topology) Links(src, dst SwitchID) []Link {
	t.mu.RLock()
	var out []Link
	for _, l := range t.adjacency[src] {
		if l.Dst == dst {
			out = append(out, *l)
		}
	}
	t.mu.RUnlock()

	sortLinks(out)

	return out
}

// Weight returns the weight assigned to the unordered pair (u, v) in this generation.
func (t *Topology) Weight(u, v SwitchID) (int64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	w, ok := t.pairWeight[MakePair(u, v)]

	return w, ok
}

// PortHWAddr returns the hardware address discovery reported for (id, port).
// ok is false when either the switch or the port is unknown to this generation.
func (t *Topology) PortHWAddr(id SwitchID, port PortNo) (net.HardwareAddr, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	hw, ok := t.ports[id][port]
	if !ok {
		return nil, false
	}

	return append(net.HardwareAddr(nil), hw...), true
}

// Generation returns the number of rebuilds applied so far.
func (t *Topology) Generation() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.generation
}

// Computed reports whether the current generation's tree has been computed and enforced.
func (t *Topology) Computed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.computed
}

// MarkComputed flags generation gen as computed. It returns false, and changes
// nothing, when gen is no longer the current generation.
func (t *Topology) MarkComputed(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.generation {
		return false
	}
	t.computed = true

	return true
}

// NewDisjointSet returns a fresh disjoint set sized to the current switch count.
// Switch ids are expected to be 1..SwitchCount(); any other id makes the
// spanning-tree computation fail with disjoint.ErrOutOfRange.
func (t *Topology) NewDisjointSet() *disjoint.Set {
	return disjoint.New(t.SwitchCount())
}
