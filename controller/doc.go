// Package controller is the reactive core of the loop-prevention controller.
//
// A Controller owns one core.Topology, the MAC-learning table and the live
// switch sessions. It reacts to four kinds of events:
//
//   - switch features: the session is registered and a table-miss flow is
//     installed so unmatched packets reach the controller;
//   - switch leave: the session is dropped and the switch's learned MACs are forgotten;
//   - topology update: the topology is rebuilt from a discovery snapshot;
//   - packet-in: the frame is filtered, its source learned and a forwarding
//     decision taken.
//
// # Lifecycle
//
// Each topology generation starts in AwaitingComputation. The first packet-in of
// the generation whose destination is unknown (a flood) computes the spanning
// tree and disables every non-tree link before the flood is sent; the
// generation is then Enforced until the next rebuild. Floods seen before that
// first trigger are not constrained. A rebuild always returns to
// AwaitingComputation, even when the new topology equals the old one.
//
// # Concurrency
//
// Every exported method takes the controller's single lock, so events are
// processed one at a time to completion. Run offers the same guarantee as a
// single-owner loop over an event channel.
package controller
