package controller_test

import (
	"testing"

	"github.com/gopacket/gopacket/layers"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/kruskalctl/controller"
	"github.com/katalvlaran/kruskalctl/core"
	"github.com/katalvlaran/kruskalctl/disjoint"
	"github.com/katalvlaran/kruskalctl/metrics"
	"github.com/katalvlaran/kruskalctl/ofp"
	"github.com/katalvlaran/kruskalctl/weight"
)

func TestSwitchFeatures_TableMiss(t *testing.T) {
	ctl := controller.New(core.NewTopology(), ofp.NewRegistry(), controller.DefaultOptions())
	rec := ofp.NewRecorder(4)
	require.NoError(t, ctl.SwitchFeatures(rec))

	require.Len(t, rec.FlowMods(), 1)
	miss := rec.FlowMods()[0]
	assert.Equal(t, uint16(0), miss.Priority)
	assert.True(t, miss.Match.Empty())
	assert.Equal(t, []ofp.Output{{Port: ofp.PortController, MaxLen: ofp.ControllerMaxLenNoBuffer}}, miss.Actions)
	assert.Equal(t, ofp.NoBuffer, miss.BufferID)
	assert.Equal(t, []core.SwitchID{4}, ctl.Status().Sessions)
}

func TestSwitchFeatures_SendError(t *testing.T) {
	ctl := controller.New(core.NewTopology(), ofp.NewRegistry(), controller.DefaultOptions())
	rec := ofp.NewRecorder(4)
	rec.Fail(ofp.ErrSessionClosed)
	assert.ErrorIs(t, ctl.SwitchFeatures(rec), ofp.ErrSessionClosed)
}

// TestFirstFloodTriggersOnce: an unknown destination floods, and only the first
// flood of the generation computes and enforces the tree.
func TestFirstFloodTriggersOnce(t *testing.T) {
	f := newFixture(t, controller.DefaultOptions())
	require.Equal(t, controller.AwaitingComputation, f.ctl.State())

	d, err := f.ctl.PacketIn(packetIn(t, 1, 3, hostA, hostB))
	require.NoError(t, err)
	assert.Equal(t, controller.Flood, d.Action)
	assert.Equal(t, ofp.PortFlood, d.OutPort)
	assert.True(t, d.Triggered)
	assert.Equal(t, controller.Enforced, f.ctl.State())

	// 1-3 blocked at 1:2 and 3:2
	require.Len(t, f.recs[1].PortMods(), 1)
	assert.Equal(t, core.PortNo(2), f.recs[1].PortMods()[0].PortNo)
	require.Len(t, f.recs[3].PortMods(), 1)
	assert.Equal(t, core.PortNo(2), f.recs[3].PortMods()[0].PortNo)
	assert.Empty(t, f.recs[2].PortMods())

	require.Len(t, f.recs[1].PacketOuts(), 1)
	po := f.recs[1].PacketOuts()[0]
	assert.Equal(t, []ofp.Output{{Port: ofp.PortFlood}}, po.Actions)
	assert.Equal(t, core.PortNo(3), po.InPort)
	assert.NotEmpty(t, po.Data)
	assert.Empty(t, f.recs[1].FlowMods(), "floods install no flow")

	d, err = f.ctl.PacketIn(packetIn(t, 2, 3, hostA, hostB))
	require.NoError(t, err)
	assert.Equal(t, controller.Flood, d.Action)
	assert.False(t, d.Triggered)
	assert.Equal(t, 2, f.portMods(), "no second enforcement")
}

// TestRebuildResetsState: a rebuild of an identical topology returns to
// AwaitingComputation and the next flood enforces again.
func TestRebuildResetsState(t *testing.T) {
	f := newFixture(t, controller.DefaultOptions())
	_, err := f.ctl.PacketIn(packetIn(t, 1, 3, hostA, hostB))
	require.NoError(t, err)
	require.Equal(t, controller.Enforced, f.ctl.State())
	gen := f.ctl.Status().Generation

	require.NoError(t, f.ctl.Rebuild(triangle()))
	assert.Equal(t, controller.AwaitingComputation, f.ctl.State())
	assert.Equal(t, gen+1, f.ctl.Status().Generation)
	assert.Nil(t, f.ctl.Tree())
	_, err = f.ctl.LastReport()
	assert.ErrorIs(t, err, controller.ErrNoTree)

	d, err := f.ctl.PacketIn(packetIn(t, 1, 3, hostA, hostB))
	require.NoError(t, err)
	assert.True(t, d.Triggered)
	assert.Equal(t, controller.Enforced, f.ctl.State())
	assert.Equal(t, 4, f.portMods(), "new generation re-issues both endpoints")
}

func TestForwardKnownDestination(t *testing.T) {
	f := newFixture(t, controller.DefaultOptions())

	// A on port 3 floods towards B; A is learned.
	_, err := f.ctl.PacketIn(packetIn(t, 1, 3, hostA, hostB))
	require.NoError(t, err)
	f.recs[1].Reset()

	// B replies from port 1; A is known on port 3.
	d, err := f.ctl.PacketIn(packetIn(t, 1, 1, hostB, hostA))
	require.NoError(t, err)
	assert.Equal(t, controller.Forward, d.Action)
	assert.Equal(t, core.PortNo(3), d.OutPort)
	assert.False(t, d.Triggered)

	require.Len(t, f.recs[1].FlowMods(), 1)
	flow := f.recs[1].FlowMods()[0]
	assert.Equal(t, controller.DefaultFlowPriority, flow.Priority)
	assert.Equal(t, core.PortNo(1), flow.Match.InPort)
	assert.Equal(t, hostA, flow.Match.EthDst)
	assert.Equal(t, hostB, flow.Match.EthSrc)
	assert.Equal(t, []ofp.Output{{Port: 3}}, flow.Actions)

	require.Len(t, f.recs[1].PacketOuts(), 1, "unbuffered packet is sent explicitly")
	assert.NotEmpty(t, f.recs[1].PacketOuts()[0].Data)
}

func TestForwardBufferedPacket(t *testing.T) {
	f := newFixture(t, controller.DefaultOptions())
	_, err := f.ctl.PacketIn(packetIn(t, 1, 3, hostA, hostB))
	require.NoError(t, err)
	f.recs[1].Reset()

	ev := packetIn(t, 1, 1, hostB, hostA)
	ev.BufferID = 42
	d, err := f.ctl.PacketIn(ev)
	require.NoError(t, err)
	assert.Equal(t, controller.Forward, d.Action)

	require.Len(t, f.recs[1].FlowMods(), 1)
	assert.Equal(t, uint32(42), f.recs[1].FlowMods()[0].BufferID)
	assert.Empty(t, f.recs[1].PacketOuts(), "buffer released by the flow")
}

func TestFloodBufferedPacketCarriesNoData(t *testing.T) {
	f := newFixture(t, controller.DefaultOptions())
	ev := packetIn(t, 2, 3, hostA, hostB)
	ev.BufferID = 7
	_, err := f.ctl.PacketIn(ev)
	require.NoError(t, err)

	require.Len(t, f.recs[2].PacketOuts(), 1)
	po := f.recs[2].PacketOuts()[0]
	assert.Equal(t, uint32(7), po.BufferID)
	assert.Nil(t, po.Data)
}

func TestControlPlaneFramesFiltered(t *testing.T) {
	f := newFixture(t, controller.DefaultOptions())

	for _, et := range []layers.EthernetType{layers.EthernetTypeLinkLayerDiscovery, layers.EthernetTypeIPv6} {
		ev := controller.PacketIn{
			DatapathID: 1,
			InPort:     3,
			BufferID:   ofp.NoBuffer,
			Data:       ethernet(t, hostA, hostB, et),
		}
		d, err := f.ctl.PacketIn(ev)
		require.NoError(t, err)
		assert.Equal(t, controller.Filtered, d.Action, et.String())
	}

	_, learned := f.ctl.LookupMAC(1, hostA)
	assert.False(t, learned)
	assert.Equal(t, controller.AwaitingComputation, f.ctl.State())
	assert.Empty(t, f.recs[1].Sent())
}

func TestMACsClearedOnRebuild(t *testing.T) {
	for _, clear := range []bool{true, false} {
		opts := controller.DefaultOptions()
		opts.ClearMACsOnRebuild = clear
		f := newFixture(t, opts)

		_, err := f.ctl.PacketIn(packetIn(t, 1, 3, hostA, hostB))
		require.NoError(t, err)
		port, ok := f.ctl.LookupMAC(1, hostA)
		require.True(t, ok)
		assert.Equal(t, core.PortNo(3), port)

		require.NoError(t, f.ctl.Rebuild(triangle()))
		_, ok = f.ctl.LookupMAC(1, hostA)
		assert.Equal(t, !clear, ok, "clear=%v", clear)
	}
}

// TestOutOfRangeAbortsEvent: a topology whose ids do not fit 1..n fails loudly
// and the generation stays AwaitingComputation.
func TestOutOfRangeAbortsEvent(t *testing.T) {
	topo := core.NewTopology(core.WithWeightProvider(weight.Constant(1)))
	ctl := controller.New(topo, ofp.NewRegistry(), controller.DefaultOptions())
	require.NoError(t, ctl.Rebuild(
		[]core.Switch{sw(1, 2), sw(9, 2)},
		[]core.LinkSpec{{Src: 1, SrcPort: 1, Dst: 9, DstPort: 1}, {Src: 9, SrcPort: 1, Dst: 1, DstPort: 1}},
	))
	rec := ofp.NewRecorder(1)
	require.NoError(t, ctl.SwitchFeatures(rec))
	rec.Reset()

	_, err := ctl.PacketIn(packetIn(t, 1, 2, hostA, hostB))
	assert.ErrorIs(t, err, disjoint.ErrOutOfRange)
	assert.Equal(t, controller.AwaitingComputation, ctl.State())
	assert.Empty(t, rec.Sent(), "aborted event sends nothing")

	_, err = ctl.Recompute()
	assert.ErrorIs(t, err, disjoint.ErrOutOfRange)
}

// TestRecomputeIdempotent: forcing a second computation yields the same tree
// and issues no new port-down requests.
func TestRecomputeIdempotent(t *testing.T) {
	f := newFixture(t, controller.DefaultOptions())
	_, err := f.ctl.PacketIn(packetIn(t, 1, 3, hostA, hostB))
	require.NoError(t, err)
	first := f.ctl.Tree().Pairs()
	firstReport, err := f.ctl.LastReport()
	require.NoError(t, err)

	rep, err := f.ctl.Recompute()
	require.NoError(t, err)
	assert.Equal(t, first, f.ctl.Tree().Pairs())
	assert.Equal(t, firstReport.Blocked, rep.Blocked)
	assert.Empty(t, rep.Sent)
	assert.Equal(t, 2, f.portMods())
	assert.Equal(t, controller.Enforced, f.ctl.State())
}

func TestMalformedFrame(t *testing.T) {
	f := newFixture(t, controller.DefaultOptions())
	_, err := f.ctl.PacketIn(controller.PacketIn{DatapathID: 1, InPort: 1, Data: []byte{1, 2, 3}})
	assert.ErrorIs(t, err, controller.ErrMalformedFrame)
	assert.Equal(t, controller.AwaitingComputation, f.ctl.State())
}

func TestSwitchLeave(t *testing.T) {
	f := newFixture(t, controller.DefaultOptions())
	_, err := f.ctl.PacketIn(packetIn(t, 3, 3, hostA, hostB))
	require.NoError(t, err)

	assert.True(t, f.ctl.SwitchLeave(3))
	assert.False(t, f.ctl.SwitchLeave(3))
	_, ok := f.ctl.LookupMAC(3, hostA)
	assert.False(t, ok)
	assert.Equal(t, []core.SwitchID{1, 2}, f.ctl.Status().Sessions)

	// A packet-in from a switch without session still yields a decision.
	d, err := f.ctl.PacketIn(packetIn(t, 3, 3, hostA, hostB))
	require.NoError(t, err)
	assert.Equal(t, controller.Flood, d.Action)
}

func TestSnapshotAndStatus(t *testing.T) {
	m := metrics.NewRegistry()
	opts := controller.DefaultOptions()
	opts.Metrics = m
	f := newFixture(t, opts)

	snap := f.ctl.Snapshot()
	assert.False(t, snap.Computed)
	assert.Empty(t, snap.Tree)
	assert.Len(t, snap.Edges, 6)

	_, err := f.ctl.PacketIn(packetIn(t, 1, 3, hostA, hostB))
	require.NoError(t, err)

	snap = f.ctl.Snapshot()
	assert.True(t, snap.Computed)
	assert.Equal(t, []core.Pair{{A: 1, B: 2}, {A: 2, B: 3}}, snap.Tree)
	inTree := 0
	for _, e := range snap.Edges {
		if e.InTree {
			inTree++
		}
	}
	assert.Equal(t, 4, inTree)

	st := f.ctl.Status()
	assert.Equal(t, f.ctl.ID().String(), st.ID)
	assert.Equal(t, controller.Enforced, st.State)
	assert.Equal(t, 3, st.Switches)
	assert.Equal(t, 6, st.Links)
	assert.Equal(t, 1, st.MACEntries)
	assert.Equal(t, 2, st.TreeEdges)
	assert.Equal(t, int64(3), st.TreeWeight)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PacketIns.WithLabelValues("flood")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MSTComputations.WithLabelValues("kruskal", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.EnforcerActions.WithLabelValues(metrics.OutcomeSent)))
}

func TestPrimMethod(t *testing.T) {
	opts := controller.DefaultOptions()
	opts.MST.Method = "prim"
	f := newFixture(t, opts)
	d, err := f.ctl.PacketIn(packetIn(t, 1, 3, hostA, hostB))
	require.NoError(t, err)
	assert.True(t, d.Triggered)
	assert.True(t, f.ctl.Tree().Contains(1, 2))
	assert.True(t, f.ctl.Tree().Contains(2, 3))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "AWAITING_COMPUTATION", controller.AwaitingComputation.String())
	assert.Equal(t, "ENFORCED", controller.Enforced.String())
	text, err := controller.Enforced.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "ENFORCED", string(text))
}

// TestOutcome pairs the tree with the report of the same computation.
func TestOutcome(t *testing.T) {
	f := newFixture(t, controller.DefaultOptions())
	_, err := f.ctl.Outcome()
	assert.ErrorIs(t, err, controller.ErrNoTree)

	forced, err := f.ctl.RecomputeOutcome()
	require.NoError(t, err)
	require.NotNil(t, forced.Tree)
	assert.EqualValues(t, 3, forced.Tree.Weight)

	out, err := f.ctl.Outcome()
	require.NoError(t, err)
	assert.Same(t, forced.Tree, out.Tree)
	assert.Equal(t, f.ctl.Status().Generation, out.Report.Generation)
	require.Len(t, out.Report.Blocked, 2)
	assert.Equal(t, core.MakePair(1, 3), out.Report.Blocked[0].Pair())

	require.NoError(t, f.ctl.Rebuild(triangle()))
	_, err = f.ctl.Outcome()
	assert.ErrorIs(t, err, controller.ErrNoTree)
}

// TestOutcome_ConsistentUnderRebuild alternates two weightings of the triangle
// whose trees differ, and checks that a reader never sees a report blocking a
// pair of the tree it was returned with.
func TestOutcome_ConsistentUnderRebuild(t *testing.T) {
	topo := core.NewTopology(core.WithWeightProvider(weight.Sequence(1, 2, 3)))
	ctl := controller.New(topo, ofp.NewRegistry(), controller.DefaultOptions())

	switches, links := triangle()
	// Drawing 1-3 first makes it the lightest pair, so 2-3 is blocked instead.
	reordered := append([]core.LinkSpec{links[2], links[0], links[1]}, links[3:]...)

	var g errgroup.Group
	g.Go(func() error {
		for i := 0; i < 200; i++ {
			order := links
			if i%2 == 1 {
				order = reordered
			}
			if err := ctl.Rebuild(switches, order); err != nil {
				return err
			}
			if _, err := ctl.Recompute(); err != nil {
				return err
			}
		}
		return nil
	})
	g.Go(func() error {
		for i := 0; i < 500; i++ {
			out, err := ctl.Outcome()
			if err != nil {
				continue
			}
			for _, l := range out.Report.Blocked {
				assert.False(t, out.Tree.Carries(l), "blocked link %v->%v is a tree link", l.Src, l.Dst)
			}
			assert.Equal(t, 2, out.Tree.Len())
		}
		return nil
	})
	require.NoError(t, g.Wait())
}
