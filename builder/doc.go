// Package builder produces deterministic switch fabrics for tests, examples and
// the simulator.
//
// A Fabric is exactly what discovery reports: switches with numbered ports
// (each carrying a hardware address) and directed link reports. It is fed to
// core.Topology.Rebuild or to a discovery.StaticProvider.
//
// Components:
//
//   - BuildFabric(bopts, cons...): resolves options and runs constructors in order.
//   - Constructors: Complete, Cycle, Path, Star, Wheel, Grid, LeafSpine,
//     RandomSparse, RandomRegular, Switches, Cable. They address switches by index, so several
//     constructors can be composed over the same switches.
//   - Options: WithIDScheme (index → datapath id, default index+1), WithSeed and
//     WithRand (stochastic constructors), WithHostPorts (extra host-facing
//     ports), WithOneWayReports (one report per cable), WithHWAddrScheme.
//
// Ports are numbered per switch from 1 in cabling order; host ports follow.
// Unless WithOneWayReports is set, each cable yields two link reports
// (u→v and v→u) with matching ports, the way LLDP discovery sees it.
//
// Errors: ErrTooFewSwitches, ErrInvalidProbability, ErrNeedRandSource,
// ErrConstructFailed. Constructors never panic; option constructors panic on
// meaningless values.
package builder
