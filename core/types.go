// SPDX-License-Identifier: MIT
package core

import (
	"errors"
	"fmt"
	"net"
	"sort"
)

// Sentinel errors for topology operations.
var (
	// ErrBadWeight indicates the weight provider produced a non-positive weight.
	ErrBadWeight = errors.New("core: link weight must be positive")

	// ErrSwitchNotFound indicates a lookup referenced a switch absent from the current generation.
	ErrSwitchNotFound = errors.New("core: switch not found")
)

// SwitchID is the datapath identifier of a switch, stable for one controller session.
type SwitchID uint64

// String renders the id in the usual zero-padded datapath form.
func (id SwitchID) String() string { return fmt.Sprintf("%016x", uint64(id)) }

// PortNo is a physical port number on a switch.
type PortNo uint32

// Port describes one physical port as reported by discovery.
type Port struct {
	// No is the port number.
	No PortNo `json:"no"`

	// HWAddr is the port's hardware address; port-down requests carry it.
	HWAddr net.HardwareAddr `json:"hw_addr"`
}

// Switch is a discovered switch and its ordered port list.
type Switch struct {
	ID    SwitchID `json:"id"`
	Ports []Port   `json:"ports"`
}

// clone returns a deep copy so callers cannot mutate generation-owned data.
func (s Switch) clone() Switch {
	ports := make([]Port, len(s.Ports))
	for i, p := range s.Ports {
		ports[i] = Port{No: p.No, HWAddr: append(net.HardwareAddr(nil), p.HWAddr...)}
	}

	return Switch{ID: s.ID, Ports: ports}
}

// LinkSpec is one directed link as reported by discovery, before weighting.
type LinkSpec struct {
	Src     SwitchID
	SrcPort PortNo
	Dst     SwitchID
	DstPort PortNo
}

// Pair returns the unordered endpoint pair of l.
func (l LinkSpec) Pair() Pair { return MakePair(l.Src, l.Dst) }

// Link is a directed, weighted edge of the current generation.
type Link struct {
	Src     SwitchID `json:"src"`
	SrcPort PortNo   `json:"src_port"`
	Dst     SwitchID `json:"dst"`
	DstPort PortNo   `json:"dst_port"`
	Weight  int64    `json:"weight"`
}

// Pair returns the unordered endpoint pair of l.
func (l Link) Pair() Pair { return MakePair(l.Src, l.Dst) }

// Cable returns the physical cable l was reported on. Both directions of one
// cable yield the same value; parallel cables between a pair do not.
func (l Link) Cable() Cable {
	a := PortRef{Switch: l.Src, Port: l.SrcPort}
	b := PortRef{Switch: l.Dst, Port: l.DstPort}
	if b.less(a) {
		a, b = b, a
	}

	return Cable{A: a, B: b}
}

// PortRef names one port of one switch.
type PortRef struct {
	Switch SwitchID `json:"switch"`
	Port   PortNo   `json:"port"`
}

func (p PortRef) less(q PortRef) bool {
	if p.Switch != q.Switch {
		return p.Switch < q.Switch
	}
	return p.Port < q.Port
}

// Cable identifies a physical link independent of its report direction; A sorts before B.
type Cable struct {
	A PortRef `json:"a"`
	B PortRef `json:"b"`
}

// Pair is an unordered pair of switches, normalized so that A <= B.
type Pair struct {
	A SwitchID `json:"a"`
	B SwitchID `json:"b"`
}

// MakePair normalizes (u, v) into a Pair.
func MakePair(u, v SwitchID) Pair {
	if v < u {
		u, v = v, u
	}

	return Pair{A: u, B: v}
}

// PairSet is a set of unordered switch pairs, e.g. the edges of a spanning tree.
type PairSet map[Pair]struct{}

// Has reports whether the unordered pair (u, v) is in the set. A nil set has no members.
func (s PairSet) Has(u, v SwitchID) bool {
	_, ok := s[MakePair(u, v)]
	return ok
}

// Sorted returns the pairs ordered by (A, B).
func (s PairSet) Sorted() []Pair {
	out := make([]Pair, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})

	return out
}
