package controller

import (
	"net"

	"github.com/katalvlaran/kruskalctl/core"
)

// MACTable maps (switch, MAC address) to the port the address was last seen on.
// It is not safe for concurrent use; the Controller guards it.
type MACTable struct {
	entries map[core.SwitchID]map[string]core.PortNo
	size    int
}

// NewMACTable returns an empty table.
func NewMACTable() *MACTable {
	return &MACTable{entries: make(map[core.SwitchID]map[string]core.PortNo)}
}

// Learn records that mac was seen on port of switch id.
func (t *MACTable) Learn(id core.SwitchID, mac net.HardwareAddr, port core.PortNo) {
	m, ok := t.entries[id]
	if !ok {
		m = make(map[string]core.PortNo)
		t.entries[id] = m
	}
	if _, seen := m[macKey(mac)]; !seen {
		t.size++
	}
	m[macKey(mac)] = port
}

// Lookup returns the port mac was last seen on at switch id.
func (t *MACTable) Lookup(id core.SwitchID, mac net.HardwareAddr) (core.PortNo, bool) {
	p, ok := t.entries[id][macKey(mac)]
	return p, ok
}

// Forget drops every entry of switch id.
func (t *MACTable) Forget(id core.SwitchID) {
	t.size -= len(t.entries[id])
	delete(t.entries, id)
}

// Clear drops every entry.
func (t *MACTable) Clear() {
	t.entries = make(map[core.SwitchID]map[string]core.PortNo)
	t.size = 0
}

// Len returns the number of (switch, MAC) entries.
func (t *MACTable) Len() int { return t.size }
