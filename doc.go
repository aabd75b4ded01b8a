// Package kruskalctl keeps an OpenFlow switch fabric loop-free.
//
// Every time discovery reports a new set of switches and links, the controller
// rebuilds its topology, assigning each switch pair one weight. The first
// packet-in of that topology generation whose destination is unknown (and so
// must be flooded) triggers a minimum spanning tree computation, and every
// port of every link outside the tree is administratively disabled before the
// flood goes out. Known destinations are forwarded with a learned flow.
//
// Packages:
//
//	disjoint/      union-find over switch ids 1..n with iterative path compression
//	weight/        injectable link-weight providers (uniform, sequence, constant)
//	core/          topology generations: switches, directed weighted links, snapshots
//	prim_kruskal/  spanning forest engine (Kruskal, Prim cross-check), deterministic tie-break
//	ofp/           OpenFlow-shaped requests, switch sessions and their registry
//	enforcer/      port-down requests for every non-tree link endpoint
//	controller/    lifecycle state machine, MAC learning, forwarding decisions, event loop
//	discovery/     topology providers: static and YAML file with change watching
//	builder/       synthetic fabrics (mesh, ring, star, grid, leaf-spine, random)
//	metrics/       Prometheus registry of controller metrics
//	webapi/        HTTP snapshot, metrics and log level endpoints
//	config/        file, environment and flag configuration
//	logging/       zap logger with optional rotated file
//	cmd/kruskalctl  the command-line front end
//
// Lifecycle of one generation:
//
//	rebuild ──► AWAITING_COMPUTATION ──(first flood)──► ENFORCED
//	   ▲                                                   │
//	   └──────────────────── rebuild ◄─────────────────────┘
//
//	go install github.com/katalvlaran/kruskalctl/cmd/kruskalctl@latest
package kruskalctl
