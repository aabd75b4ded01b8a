package controller_test

import (
	"net"
	"testing"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/katalvlaran/kruskalctl/controller"
	"github.com/katalvlaran/kruskalctl/core"
	"github.com/katalvlaran/kruskalctl/ofp"
	"github.com/katalvlaran/kruskalctl/weight"
)

var (
	hostA = net.HardwareAddr{0x00, 0x00, 0x00, 0x00, 0x00, 0x0a}
	hostB = net.HardwareAddr{0x00, 0x00, 0x00, 0x00, 0x00, 0x0b}
)

func hw(id core.SwitchID, port core.PortNo) net.HardwareAddr {
	return net.HardwareAddr{0x02, 0x00, 0x00, byte(id), 0x00, byte(port)}
}

func sw(id core.SwitchID, n int) core.Switch {
	ports := make([]core.Port, n)
	for i := range ports {
		p := core.PortNo(i + 1)
		ports[i] = core.Port{No: p, HWAddr: hw(id, p)}
	}
	return core.Switch{ID: id, Ports: ports}
}

// triangle wires 1:1-2:1 (w=1), 2:2-3:1 (w=2), 1:2-3:2 (w=3), each reported in
// both directions. Port 3 of every switch faces hosts. The tree is {1-2, 2-3}.
func triangle() ([]core.Switch, []core.LinkSpec) {
	return []core.Switch{sw(1, 3), sw(2, 3), sw(3, 3)},
		[]core.LinkSpec{
			{Src: 1, SrcPort: 1, Dst: 2, DstPort: 1},
			{Src: 2, SrcPort: 2, Dst: 3, DstPort: 1},
			{Src: 1, SrcPort: 2, Dst: 3, DstPort: 2},
			{Src: 2, SrcPort: 1, Dst: 1, DstPort: 1},
			{Src: 3, SrcPort: 1, Dst: 2, DstPort: 2},
			{Src: 3, SrcPort: 2, Dst: 1, DstPort: 2},
		}
}

// fixture is a controller over the triangle with every switch connected.
type fixture struct {
	ctl  *controller.Controller
	recs map[core.SwitchID]*ofp.Recorder
}

func newFixture(t *testing.T, opts controller.Options) *fixture {
	t.Helper()
	opts.Logger = zaptest.NewLogger(t)
	topo := core.NewTopology(core.WithWeightProvider(weight.Sequence(1, 2, 3)))
	ctl := controller.New(topo, ofp.NewRegistry(), opts)
	require.NoError(t, ctl.Rebuild(triangle()))

	f := &fixture{ctl: ctl, recs: make(map[core.SwitchID]*ofp.Recorder)}
	for _, id := range []core.SwitchID{1, 2, 3} {
		f.recs[id] = ofp.NewRecorder(id)
		require.NoError(t, ctl.SwitchFeatures(f.recs[id]))
		f.recs[id].Reset()
	}
	return f
}

func (f *fixture) portMods() int {
	n := 0
	for _, r := range f.recs {
		n += len(r.PortMods())
	}
	return n
}

// ethernet serializes an Ethernet frame with a short payload.
func ethernet(t *testing.T, src, dst net.HardwareAddr, et layers.EthernetType) []byte {
	t.Helper()
	buf := gopacket.NewSerializeBuffer()
	eth := &layers.Ethernet{SrcMAC: src, DstMAC: dst, EthernetType: et}
	err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{FixLengths: true},
		eth, gopacket.Payload([]byte("payload")))
	require.NoError(t, err)
	return buf.Bytes()
}

func packetIn(t *testing.T, dpid core.SwitchID, port core.PortNo, src, dst net.HardwareAddr) controller.PacketIn {
	return controller.PacketIn{
		DatapathID: dpid,
		InPort:     port,
		BufferID:   ofp.NoBuffer,
		Data:       ethernet(t, src, dst, layers.EthernetTypeIPv4),
	}
}
