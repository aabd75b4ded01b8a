// Package builder: fabric accumulates switches and cables while constructors run.
package builder

import (
	"fmt"

	"github.com/katalvlaran/kruskalctl/core"
)

// fabric is the mutable construction state shared by constructors.
// Switches are addressed by index; ids come from cfg.idFn.
type fabric struct {
	cfg      builderConfig
	order    []core.SwitchID
	nextPort map[core.SwitchID]core.PortNo
	cables   map[core.Pair]bool
	links    []core.LinkSpec
}

func newFabric(cfg builderConfig) *fabric {
	return &fabric{
		cfg:      cfg,
		nextPort: make(map[core.SwitchID]core.PortNo),
		cables:   make(map[core.Pair]bool),
	}
}

// addSwitch ensures switch i exists and returns its id. It is idempotent.
func (f *fabric) addSwitch(i int) core.SwitchID {
	id := f.cfg.idFn(i)
	if _, ok := f.nextPort[id]; !ok {
		f.nextPort[id] = 1
		f.order = append(f.order, id)
	}
	return id
}

// connect cables switch i to switch j on the next free port of each.
// A second cable between the same pair is ignored.
func (f *fabric) connect(method string, i, j int) error {
	if i < 0 || j < 0 {
		return fmt.Errorf("%s: negative index (%d,%d): %w", method, i, j, ErrConstructFailed)
	}
	u, v := f.addSwitch(i), f.addSwitch(j)
	if u == v {
		return fmt.Errorf("%s: cable %v-%v: %w", method, u, v, ErrConstructFailed)
	}
	pair := core.MakePair(u, v)
	if f.cables[pair] {
		return nil
	}
	f.cables[pair] = true

	pu, pv := f.nextPort[u], f.nextPort[v]
	f.nextPort[u], f.nextPort[v] = pu+1, pv+1

	f.links = append(f.links, core.LinkSpec{Src: u, SrcPort: pu, Dst: v, DstPort: pv})
	if !f.cfg.oneWay {
		f.links = append(f.links, core.LinkSpec{Src: v, SrcPort: pv, Dst: u, DstPort: pu})
	}

	return nil
}

// snapshot materializes the switches (in insertion order) with cable and host ports.
func (f *fabric) snapshot() Fabric {
	out := Fabric{
		Switches: make([]core.Switch, 0, len(f.order)),
		Links:    append([]core.LinkSpec(nil), f.links...),
	}
	for _, id := range f.order {
		n := int(f.nextPort[id]-1) + f.cfg.hostPorts
		ports := make([]core.Port, n)
		for k := range ports {
			p := core.PortNo(k + 1)
			ports[k] = core.Port{No: p, HWAddr: f.cfg.hwFn(id, p)}
		}
		out.Switches = append(out.Switches, core.Switch{ID: id, Ports: ports})
	}

	return out
}
