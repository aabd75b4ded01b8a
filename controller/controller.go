// SPDX-License-Identifier: MIT
package controller

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/katalvlaran/kruskalctl/core"
	"github.com/katalvlaran/kruskalctl/enforcer"
	"github.com/katalvlaran/kruskalctl/metrics"
	"github.com/katalvlaran/kruskalctl/ofp"
	"github.com/katalvlaran/kruskalctl/prim_kruskal"
)

// ErrNoTree is returned by LastReport when no tree was computed this generation.
var ErrNoTree = errors.New("controller: no spanning tree computed for this generation")

// Default flow priorities.
const (
	DefaultFlowPriority uint16 = 1
	DefaultMissPriority uint16 = 0
)

// Options configures a Controller.
type Options struct {
	Logger  *zap.Logger
	Metrics *metrics.Registry

	// MST selects the spanning tree algorithm.
	MST prim_kruskal.MSTOptions
	// ClearMACsOnRebuild drops every learned address when the topology is rebuilt.
	ClearMACsOnRebuild bool
	// FlowPriority is the priority of learned forwarding flows.
	FlowPriority uint16
	// MissPriority is the priority of the table-miss flow.
	MissPriority uint16
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		MST:                prim_kruskal.DefaultOptions(),
		ClearMACsOnRebuild: true,
		FlowPriority:       DefaultFlowPriority,
		MissPriority:       DefaultMissPriority,
	}
}

// Controller serializes every event against the topology, the MAC table and the sessions.
type Controller struct {
	id       uuid.UUID
	logger   *zap.Logger
	metrics  *metrics.Registry
	opts     Options
	topo     *core.Topology
	sessions *ofp.Registry
	enforcer *enforcer.Enforcer

	mu     sync.Mutex
	macs   *MACTable
	tree   *prim_kruskal.Tree
	report *enforcer.Report
}

// New returns a Controller over topo and sessions.
// The Controller must be the only writer of topo.
func New(topo *core.Topology, sessions *ofp.Registry, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MST.Method == "" {
		opts.MST = prim_kruskal.DefaultOptions()
	}
	id := uuid.New()
	logger := opts.Logger.With(zap.String("controller", id.String()))

	return &Controller{
		id:       id,
		logger:   logger,
		metrics:  opts.Metrics,
		opts:     opts,
		topo:     topo,
		sessions: sessions,
		enforcer: enforcer.New(sessions, topo, enforcer.Options{
			Logger:  logger.Named("enforcer"),
			Metrics: opts.Metrics,
		}),
		macs: NewMACTable(),
	}
}

// ID returns the instance id of the controller.
func (c *Controller) ID() uuid.UUID { return c.id }

// Topology returns the topology owned by the controller.
func (c *Controller) Topology() *core.Topology { return c.topo }

// SwitchFeatures registers a newly connected switch and installs its table-miss flow.
// A previous session for the same datapath is replaced.
func (c *Controller) SwitchFeatures(s ofp.Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	dpid := s.DatapathID()
	if prev := c.sessions.Register(s); prev != nil {
		c.logger.Info("switch session replaced", zap.Stringer("dpid", dpid))
	}

	miss := ofp.FlowMod{
		DatapathID: dpid,
		Command:    ofp.FlowAdd,
		Priority:   c.opts.MissPriority,
		Match:      ofp.Match{},
		Actions:    []ofp.Output{{Port: ofp.PortController, MaxLen: ofp.ControllerMaxLenNoBuffer}},
		BufferID:   ofp.NoBuffer,
	}
	if err := s.Send(miss); err != nil {
		return fmt.Errorf("switch %s: install table-miss flow: %w", dpid, err)
	}
	c.logger.Info("switch connected", zap.Stringer("dpid", dpid))

	return nil
}

// SwitchLeave drops the session of switch id and its learned addresses.
// It reports whether a session was registered.
func (c *Controller) SwitchLeave(id core.SwitchID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.macs.Forget(id)
	c.metrics.SetMACEntries(c.macs.Len())
	ok := c.sessions.Unregister(id)
	if ok {
		c.logger.Info("switch disconnected", zap.Stringer("dpid", id))
	}

	return ok
}

// Rebuild replaces the topology and returns the generation to AwaitingComputation.
// On error the previous generation stays in effect.
func (c *Controller) Rebuild(switches []core.Switch, links []core.LinkSpec) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.topo.Rebuild(switches, links); err != nil {
		c.metrics.RecordRebuild(0, 0, 0, err)
		return fmt.Errorf("rebuild topology: %w", err)
	}
	gen := c.topo.Generation()
	c.metrics.RecordRebuild(gen, c.topo.SwitchCount(), c.topo.LinkCount(), nil)

	c.tree = nil
	c.report = nil
	if c.opts.ClearMACsOnRebuild {
		c.macs.Clear()
		c.metrics.SetMACEntries(0)
	}
	c.logger.Info("topology rebuilt",
		zap.Uint64("generation", gen),
		zap.Int("switches", c.topo.SwitchCount()),
		zap.Int("links", c.topo.LinkCount()),
		zap.Stringer("state", AwaitingComputation),
	)

	return nil
}

// PacketIn decodes a packet-in payload and handles it like HandleFrame.
func (c *Controller) PacketIn(ev PacketIn) (Decision, error) {
	frame, err := DecodeFrame(ev.Data)
	if err != nil {
		return Decision{}, fmt.Errorf("switch %s port %d: %w", ev.DatapathID, ev.InPort, err)
	}

	return c.HandleFrame(ev, frame)
}

// HandleFrame takes the forwarding decision for one frame.
//
// Steps:
//  1. Drop control-plane ethertypes (LLDP, IPv6) before learning.
//  2. Learn (switch, source MAC) → ingress port.
//  3. Known destination: install a flow and, when the switch did not buffer the
//     packet, send it out with a packet-out.
//  4. Unknown destination: if the generation is AwaitingComputation, compute the
//     spanning tree and disable non-tree links first; then flood.
//
// Only a computation failure (disjoint.ErrOutOfRange) is returned; the generation
// then stays AwaitingComputation and nothing is sent.
func (c *Controller) HandleFrame(ev PacketIn, frame Frame) (Decision, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	log := c.logger.With(
		zap.Stringer("dpid", ev.DatapathID),
		zap.Uint32("in_port", uint32(ev.InPort)),
		zap.Stringer("src", frame.Src),
		zap.Stringer("dst", frame.Dst),
	)

	// 1. Control-plane traffic.
	if frame.ControlPlane() {
		c.metrics.RecordPacketIn(Filtered.String(), c.macs.Len())
		log.Debug("control-plane frame ignored", zap.Stringer("ethertype", frame.EtherType))
		return Decision{Action: Filtered}, nil
	}

	// 2. Learning.
	c.macs.Learn(ev.DatapathID, frame.Src, ev.InPort)

	// 3. Known destination.
	if out, ok := c.macs.Lookup(ev.DatapathID, frame.Dst); ok {
		d := Decision{Action: Forward, OutPort: out}
		c.metrics.RecordPacketIn(d.Action.String(), c.macs.Len())
		log.Debug("forwarding", zap.Uint32("out_port", uint32(out)))
		c.forward(log, ev, frame, out)
		return d, nil
	}

	// 4. Flood, computing the tree first if this generation has none.
	d := Decision{Action: Flood, OutPort: ofp.PortFlood}
	if !c.topo.Computed() {
		if _, err := c.compute(); err != nil {
			log.Error("spanning tree computation failed", zap.Error(err))
			return Decision{}, err
		}
		d.Triggered = true
	}
	c.metrics.RecordPacketIn(d.Action.String(), c.macs.Len())
	log.Debug("flooding", zap.Bool("triggered", d.Triggered))
	c.flood(log, ev)

	return d, nil
}

// forward installs a flow for (in_port, dst, src) and sends the packet out
// unless the switch will release its buffer through the flow.
func (c *Controller) forward(log *zap.Logger, ev PacketIn, frame Frame, out core.PortNo) {
	sess, ok := c.sessions.Lookup(ev.DatapathID)
	if !ok {
		log.Warn("packet-in from switch without session")
		return
	}
	actions := []ofp.Output{{Port: out}}

	flow := ofp.FlowMod{
		DatapathID: ev.DatapathID,
		Command:    ofp.FlowAdd,
		Priority:   c.opts.FlowPriority,
		Match:      ofp.Match{InPort: ev.InPort, EthDst: frame.Dst, EthSrc: frame.Src},
		Actions:    actions,
		BufferID:   ev.BufferID,
	}
	if err := sess.Send(flow); err != nil {
		log.Warn("flow install failed", zap.Error(err))
	}
	if ev.BufferID != ofp.NoBuffer {
		return
	}
	c.packetOut(log, sess, ev, actions)
}

func (c *Controller) flood(log *zap.Logger, ev PacketIn) {
	sess, ok := c.sessions.Lookup(ev.DatapathID)
	if !ok {
		log.Warn("packet-in from switch without session")
		return
	}
	c.packetOut(log, sess, ev, []ofp.Output{{Port: ofp.PortFlood}})
}

func (c *Controller) packetOut(log *zap.Logger, sess ofp.Session, ev PacketIn, actions []ofp.Output) {
	po := ofp.PacketOut{
		DatapathID: ev.DatapathID,
		BufferID:   ev.BufferID,
		InPort:     ev.InPort,
		Actions:    actions,
	}
	if ev.BufferID == ofp.NoBuffer {
		po.Data = ev.Data
	}
	if err := sess.Send(po); err != nil {
		log.Warn("packet-out failed", zap.Error(err))
	}
}

// compute runs the MST engine and the link enforcer for the current generation
// and marks it Enforced. c.mu must be held.
func (c *Controller) compute() (enforcer.Report, error) {
	gen := c.topo.Generation()
	method := c.opts.MST.Method

	start := time.Now()
	tree, err := prim_kruskal.Compute(c.topo, c.opts.MST)
	c.metrics.RecordMST(method, tree.Len(), treeWeight(tree), time.Since(start), err)
	if err != nil {
		return enforcer.Report{}, fmt.Errorf("generation %d: %w", gen, err)
	}

	report := c.enforcer.Enforce(gen, tree, c.topo.Edges())
	c.topo.MarkComputed(gen)
	c.tree = tree
	c.report = &report

	c.logger.Info("spanning tree enforced",
		zap.Uint64("generation", gen),
		zap.String("method", method),
		zap.Int("tree_edges", tree.Len()),
		zap.Int64("tree_weight", tree.Weight),
		zap.Int("blocked_links", len(report.Blocked)),
		zap.Stringer("state", Enforced),
	)

	return report, nil
}

// Recompute forces a spanning tree computation for the current generation.
// Ports already disabled in this generation are not disabled again.
func (c *Controller) Recompute() (enforcer.Report, error) {
	out, err := c.RecomputeOutcome()
	return out.Report, err
}

// RecomputeOutcome is Recompute returning the enforced tree with its report.
func (c *Controller) RecomputeOutcome() (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	report, err := c.compute()
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{Tree: c.tree, Report: report}, nil
}

// State returns the lifecycle state of the current generation.
func (c *Controller) State() State {
	if c.topo.Computed() {
		return Enforced
	}
	return AwaitingComputation
}

// Tree returns the spanning tree of the current generation, or nil.
func (c *Controller) Tree() *prim_kruskal.Tree {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tree
}

// LastReport returns the enforcement report of the current generation.
func (c *Controller) LastReport() (enforcer.Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.report == nil {
		return enforcer.Report{}, ErrNoTree
	}
	return *c.report, nil
}

// Outcome returns the tree and report of the current generation as one
// consistent read; a concurrent rebuild cannot interleave between them.
func (c *Controller) Outcome() (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.report == nil {
		return Outcome{}, ErrNoTree
	}
	return Outcome{Tree: c.tree, Report: *c.report}, nil
}

// LookupMAC returns the learned port of mac on switch id.
func (c *Controller) LookupMAC(id core.SwitchID, mac net.HardwareAddr) (core.PortNo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.macs.Lookup(id, mac)
}

// Snapshot returns the current topology with tree membership of every edge.
func (c *Controller) Snapshot() core.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.topo.Snapshot(c.tree)
}

// Status summarizes the controller.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		ID:         c.id.String(),
		State:      c.State(),
		Generation: c.topo.Generation(),
		Switches:   c.topo.SwitchCount(),
		Links:      c.topo.LinkCount(),
		Sessions:   c.sessions.IDs(),
		MACEntries: c.macs.Len(),
		TreeEdges:  c.tree.Len(),
		TreeWeight: treeWeight(c.tree),
	}
}

func treeWeight(t *prim_kruskal.Tree) int64 {
	if t == nil {
		return 0
	}
	return t.Weight
}
