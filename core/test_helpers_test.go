// SPDX-License-Identifier: MIT
// Package core_test contains fixtures shared by the topology tests.

package core_test

import (
	"net"

	"github.com/katalvlaran/kruskalctl/core"
)

// Common switch ids used across tests.
const (
	S1 core.SwitchID = 1
	S2 core.SwitchID = 2
	S3 core.SwitchID = 3
	S4 core.SwitchID = 4
)

// hw builds a locally administered hardware address for (switch, port).
func hw(id core.SwitchID, port core.PortNo) net.HardwareAddr {
	return net.HardwareAddr{0x02, 0x00, 0x00, byte(id), 0x00, byte(port)}
}

// sw builds a switch with ports 1..n.
func sw(id core.SwitchID, n int) core.Switch {
	ports := make([]core.Port, n)
	for i := range ports {
		p := core.PortNo(i + 1)
		ports[i] = core.Port{No: p, HWAddr: hw(id, p)}
	}
	return core.Switch{ID: id, Ports: ports}
}

// both returns the two directed reports of a cable between (a, pa) and (b, pb).
func both(a core.SwitchID, pa core.PortNo, b core.SwitchID, pb core.PortNo) []core.LinkSpec {
	return []core.LinkSpec{
		{Src: a, SrcPort: pa, Dst: b, DstPort: pb},
		{Src: b, SrcPort: pb, Dst: a, DstPort: pa},
	}
}

// triangle returns three switches wired 1-2, 2-3, 1-3 (both directions each).
func triangle() ([]core.Switch, []core.LinkSpec) {
	switches := []core.Switch{sw(S1, 2), sw(S2, 2), sw(S3, 2)}
	var links []core.LinkSpec
	links = append(links, both(S1, 1, S2, 1)...)
	links = append(links, both(S2, 2, S3, 1)...)
	links = append(links, both(S1, 2, S3, 2)...)
	return switches, links
}
