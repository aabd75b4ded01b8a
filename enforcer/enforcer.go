// SPDX-License-Identifier: MIT
package enforcer

import (
	"net"
	"sync"

	"go.uber.org/zap"

	"github.com/katalvlaran/kruskalctl/core"
	"github.com/katalvlaran/kruskalctl/metrics"
	"github.com/katalvlaran/kruskalctl/ofp"
)

// Sessions resolves a live control session by datapath id. *ofp.Registry implements it.
type Sessions interface {
	Lookup(id core.SwitchID) (ofp.Session, bool)
}

// Ports resolves a port's hardware address. *core.Topology implements it.
type Ports interface {
	PortHWAddr(id core.SwitchID, port core.PortNo) (net.HardwareAddr, bool)
}

// Tree reports whether a link is the cable the spanning tree keeps for its
// pair. *prim_kruskal.Tree implements it.
type Tree interface {
	Carries(l core.Link) bool
}

// Reason explains why an action was not sent.
type Reason string

// Skip reasons.
const (
	ReasonNoSession     Reason = "no_session"
	ReasonNoPort        Reason = "no_port_descriptor"
	ReasonSendFailed    Reason = "send_failed"
	ReasonAlreadyIssued Reason = "already_issued"
)

// Endpoint is one side of a link: a switch and the port the link uses on it.
type Endpoint struct {
	Switch core.SwitchID `json:"switch"`
	Port   core.PortNo   `json:"port"`
}

// Action is one port-down request derived from a blocked link.
type Action struct {
	Endpoint
	Link core.Link `json:"link"`
}

// Skipped is an Action that was not sent, with the reason.
type Skipped struct {
	Action
	Reason Reason `json:"reason"`
	Err    error  `json:"-"`
}

// Report is the outcome of one Enforce pass.
type Report struct {
	Generation uint64      `json:"generation"`
	Blocked    []core.Link `json:"blocked"`
	Sent       []Action    `json:"sent"`
	Skipped    []Skipped   `json:"skipped"`
}

// Options configures an Enforcer.
type Options struct {
	Logger  *zap.Logger
	Metrics *metrics.Registry
}

// Enforcer issues port-down requests for links outside the spanning tree.
// It is safe for concurrent use; passes are serialized.
type Enforcer struct {
	sessions Sessions
	ports    Ports
	logger   *zap.Logger
	metrics  *metrics.Registry

	mu         sync.Mutex
	generation uint64
	issued     map[Endpoint]struct{}
}

// New returns an Enforcer sending through sessions and resolving ports through ports.
func New(sessions Sessions, ports Ports, opts Options) *Enforcer {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Enforcer{
		sessions: sessions,
		ports:    ports,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		issued:   make(map[Endpoint]struct{}),
	}
}

// Enforce disables both endpoints of every link in edges that the tree does not
// carry. This covers links between non-tree pairs and every parallel cable of a
// tree pair other than the chosen one.
//
// Steps:
//  1. If generation differs from the last pass, forget the endpoints issued so far.
//  2. For each link (in the given order) not carried by the tree, plan the source
//     endpoint (Src, SrcPort) and the destination endpoint (Dst, DstPort).
//  3. For each planned endpoint: skip if already issued this generation, skip if
//     the switch has no session, skip if the port has no descriptor, otherwise
//     send ofp.NewPortDown and remember the endpoint on success.
//
// Enforce never fails; every non-sent action is reported in Report.Skipped.
func (e *Enforcer) Enforce(generation uint64, tree Tree, edges []core.Link) Report {
	e.mu.Lock()
	defer e.mu.Unlock()

	// 1. Generation boundary.
	if generation != e.generation {
		e.generation = generation
		e.issued = make(map[Endpoint]struct{})
	}

	rep := Report{Generation: generation}
	for _, l := range edges {
		// 2. Tree links stay forwarding.
		if tree.Carries(l) {
			continue
		}
		rep.Blocked = append(rep.Blocked, l)

		// 3. One action per endpoint.
		for _, ep := range [2]Endpoint{{Switch: l.Src, Port: l.SrcPort}, {Switch: l.Dst, Port: l.DstPort}} {
			e.apply(&rep, Action{Endpoint: ep, Link: l})
		}
	}

	e.logger.Info("link enforcement complete",
		zap.Uint64("generation", generation),
		zap.Int("blocked_links", len(rep.Blocked)),
		zap.Int("sent", len(rep.Sent)),
		zap.Int("skipped", len(rep.Skipped)),
	)

	return rep
}

func (e *Enforcer) apply(rep *Report, a Action) {
	log := e.logger.With(
		zap.Stringer("dpid", a.Switch),
		zap.Uint32("port", uint32(a.Port)),
		zap.Stringer("link_src", a.Link.Src),
		zap.Stringer("link_dst", a.Link.Dst),
	)

	if _, done := e.issued[a.Endpoint]; done {
		rep.Skipped = append(rep.Skipped, Skipped{Action: a, Reason: ReasonAlreadyIssued})
		e.metrics.RecordEnforcement(metrics.OutcomeDuplicate)
		log.Debug("port already disabled this generation")
		return
	}

	sess, ok := e.sessions.Lookup(a.Switch)
	if !ok {
		rep.Skipped = append(rep.Skipped, Skipped{Action: a, Reason: ReasonNoSession})
		e.metrics.RecordEnforcement(metrics.OutcomeNoSession)
		log.Warn("switch has no session, skipping port-down")
		return
	}

	hw, ok := e.ports.PortHWAddr(a.Switch, a.Port)
	if !ok {
		rep.Skipped = append(rep.Skipped, Skipped{Action: a, Reason: ReasonNoPort})
		e.metrics.RecordEnforcement(metrics.OutcomeNoPort)
		log.Warn("port not reported by discovery, skipping port-down")
		return
	}

	if err := sess.Send(ofp.NewPortDown(a.Switch, a.Port, hw)); err != nil {
		rep.Skipped = append(rep.Skipped, Skipped{Action: a, Reason: ReasonSendFailed, Err: err})
		e.metrics.RecordEnforcement(metrics.OutcomeFailed)
		log.Warn("port-down request failed", zap.Error(err))
		return
	}

	e.issued[a.Endpoint] = struct{}{}
	rep.Sent = append(rep.Sent, a)
	e.metrics.RecordEnforcement(metrics.OutcomeSent)
	log.Debug("port disabled")
}

// Reset forgets every endpoint issued in the current generation.
func (e *Enforcer) Reset() {
	e.mu.Lock()
	e.issued = make(map[Endpoint]struct{})
	e.mu.Unlock()
}

// Issued returns the number of endpoints disabled in the current generation.
func (e *Enforcer) Issued() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.issued)
}
