// Package ofp describes the requests the controller issues to switches and the
// session boundary they travel through.
//
// The values mirror the OpenFlow 1.3 messages the controller needs (port
// modification, flow installation and packet-out) without implementing the wire
// protocol: encoding, handshakes and keep-alives belong to whatever Session
// implementation carries them.
//
// Contents:
//
//   - PortMod, FlowMod, PacketOut, Match, Output: request values.
//   - Reserved port numbers, buffer ids and port-config bits.
//   - Session: one live control channel to a datapath.
//   - Registry: the set of live sessions keyed by datapath id.
//   - Recorder: an in-memory Session that captures requests (tests, dry runs).
//   - LogSession: a Session that logs every request through zap.
package ofp
