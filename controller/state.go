package controller

import (
	"net"

	"github.com/katalvlaran/kruskalctl/core"
	"github.com/katalvlaran/kruskalctl/enforcer"
	"github.com/katalvlaran/kruskalctl/prim_kruskal"
)

// State is the lifecycle state of the current topology generation.
type State int

const (
	// AwaitingComputation means the spanning tree has not been computed for this generation.
	AwaitingComputation State = iota
	// Enforced means the tree was computed and non-tree links were disabled.
	Enforced
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case AwaitingComputation:
		return "AWAITING_COMPUTATION"
	case Enforced:
		return "ENFORCED"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Action is what the controller did with a packet-in.
type Action int

const (
	// Filtered frames are control-plane traffic and are neither learned nor forwarded.
	Filtered Action = iota
	// Forward sends the frame to a learned port and installs a flow.
	Forward
	// Flood sends the frame out of every port.
	Flood
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case Filtered:
		return "filtered"
	case Forward:
		return "forward"
	case Flood:
		return "flood"
	default:
		return "unknown"
	}
}

// Decision describes how one packet-in was handled.
type Decision struct {
	Action  Action
	OutPort core.PortNo
	// Triggered is true when this packet-in computed the spanning tree.
	Triggered bool
}

// PacketIn is a frame the switch sent to the controller.
type PacketIn struct {
	DatapathID core.SwitchID
	InPort     core.PortNo
	// BufferID references the packet buffered on the switch, or ofp.NoBuffer.
	BufferID uint32
	Data     []byte
}

// Outcome is the spanning tree of one generation and the report of its enforcement.
type Outcome struct {
	Tree   *prim_kruskal.Tree
	Report enforcer.Report
}

// Status is a summary of the controller for operators.
type Status struct {
	ID         string          `json:"id"`
	State      State           `json:"state"`
	Generation uint64          `json:"generation"`
	Switches   int             `json:"switches"`
	Links      int             `json:"links"`
	Sessions   []core.SwitchID `json:"sessions"`
	MACEntries int             `json:"mac_entries"`
	TreeEdges  int             `json:"tree_edges"`
	TreeWeight int64           `json:"tree_weight"`
}

// macKey renders a hardware address as a map key.
func macKey(mac net.HardwareAddr) string { return string(mac) }
