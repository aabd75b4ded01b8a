// Package enforcer turns a spanning tree into port state on the switches.
//
// For every discovered link whose endpoint pair is not a tree edge, the
// Enforcer sends one administrative port-down request per endpoint, addressed to
// the port that link uses on that switch. Tree links are never touched.
//
// Failures never abort the pass:
//
//   - an endpoint whose switch has no live session is skipped (ReasonNoSession);
//   - an endpoint whose port was never reported by discovery is skipped (ReasonNoPort);
//   - a session that rejects the request is recorded (ReasonSendFailed).
//
// Every outcome is returned in a Report, logged and counted.
//
// Within one topology generation each endpoint is disabled at most once: a second
// Enforce over the same generation (a forced recomputation) re-plans the same
// actions but reports them as ReasonAlreadyIssued instead of sending again.
// Skipped and failed endpoints are not remembered, so a later pass retries them.
package enforcer
