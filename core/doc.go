// Package core defines the topology model of the controller: switches, their
// ports, the directed weighted links between them, and the Topology that owns one
// generation of that view.
//
// The Topology T = (S, L) is rebuilt wholesale from discovery output:
//
//   - Switches are identified by an opaque SwitchID (the datapath id) and carry an
//     ordered list of ports (number + hardware address).
//   - Links are directed: a physical cable between A and B is normally reported
//     twice, A→B and B→A, each with its own source/destination port. A link is
//     keyed by its source port, so parallel cables between one pair all survive.
//   - Every switch pair has exactly one weight per generation. The first link of a
//     pair draws it from the injected weight.Provider; the sibling link (and any
//     duplicate report) reuses it, so Weight(A,B) == Weight(B,A) always holds.
//
// Why a purpose-built structure?
//
//   - The controller needs exactly three things from its graph: rebuild, list
//     edges, and look up a port. An adjacency map SwitchID → PortNo → *Link
//     serves all of them without general-graph machinery.
//   - Edges are owned by a generation and invalidated together on Rebuild; there
//     is no incremental add/remove of a single link or switch.
//
// Generation state:
//
//	Each Rebuild increments Generation() and resets Computed() to false. The
//	orchestrator marks the generation computed once its spanning tree has been
//	enforced (MarkComputed). Marking is tied to a generation number so a stale
//	computation can never mark a newer topology.
//
// Core Methods:
//
//	NewTopology(opts ...Option) *Topology
//	Rebuild(switches []Switch, links []LinkSpec) error   // O(S + L)
//	Edges() []Link                                       // O(L log L), sorted (Src, Dst, SrcPort)
//	Switches() []Switch                                  // O(S log S), sorted by ID
//	Link(src, dst SwitchID) (Link, bool)                 // lowest-port link src→dst
//	Links(src, dst SwitchID) []Link                      // every parallel link src→dst
//	PortHWAddr(id SwitchID, port PortNo) (net.HardwareAddr, bool)
//	NewDisjointSet() *disjoint.Set                       // fresh set sized to SwitchCount()
//	Snapshot(tree Spanning) Snapshot                     // read-only copy for renderers
//
// Errors:
//
//	ErrBadWeight      – the weight provider produced a value < 1
//	ErrSwitchNotFound – a lookup referenced a switch absent from this generation
//
// Concurrency: a sync.RWMutex guards all state; readers never observe a
// half-applied Rebuild because the new generation is assembled off-lock and
// swapped in at the end.
package core
