package ofp

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/katalvlaran/kruskalctl/core"
)

// Recorder is a Session that keeps every request in memory.
// Setting Err makes subsequent Sends fail without recording.
type Recorder struct {
	ID core.SwitchID

	mu   sync.Mutex
	err  error
	sent []Message
}

// NewRecorder returns a Recorder for datapath id.
func NewRecorder(id core.SwitchID) *Recorder {
	return &Recorder{ID: id}
}

// DatapathID implements Session.
func (r *Recorder) DatapathID() core.SwitchID { return r.ID }

// Send implements Session.
func (r *Recorder) Send(msg Message) error {
	if msg.Datapath() != r.ID {
		return fmt.Errorf("%w: %s on %s", ErrWrongDatapath, msg.Datapath(), r.ID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

// Fail makes every later Send return err. Fail(nil) restores normal operation.
func (r *Recorder) Fail(err error) {
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
}

// Sent returns a copy of all recorded messages in send order.
func (r *Recorder) Sent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.sent))
	copy(out, r.sent)
	return out
}

// PortMods returns the recorded PortMod requests.
func (r *Recorder) PortMods() []PortMod {
	var out []PortMod
	for _, m := range r.Sent() {
		if pm, ok := m.(PortMod); ok {
			out = append(out, pm)
		}
	}
	return out
}

// FlowMods returns the recorded FlowMod requests.
func (r *Recorder) FlowMods() []FlowMod {
	var out []FlowMod
	for _, m := range r.Sent() {
		if fm, ok := m.(FlowMod); ok {
			out = append(out, fm)
		}
	}
	return out
}

// PacketOuts returns the recorded PacketOut requests.
func (r *Recorder) PacketOuts() []PacketOut {
	var out []PacketOut
	for _, m := range r.Sent() {
		if po, ok := m.(PacketOut); ok {
			out = append(out, po)
		}
	}
	return out
}

// Reset drops every recorded message.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.sent = nil
	r.mu.Unlock()
}

// LogSession is a Session that writes each request to a zap logger.
// It is used where no switch is attached, such as dry runs and simulations.
type LogSession struct {
	id     core.SwitchID
	logger *zap.Logger
}

// NewLogSession returns a LogSession for datapath id. A nil logger discards output.
func NewLogSession(id core.SwitchID, logger *zap.Logger) *LogSession {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSession{id: id, logger: logger.With(zap.Stringer("dpid", id))}
}

// DatapathID implements Session.
func (s *LogSession) DatapathID() core.SwitchID { return s.id }

// Send implements Session.
func (s *LogSession) Send(msg Message) error {
	if msg.Datapath() != s.id {
		return fmt.Errorf("%w: %s on %s", ErrWrongDatapath, msg.Datapath(), s.id)
	}
	s.logger.Info("openflow request", zap.String("kind", string(msg.Kind())), zap.Object("msg", msg))
	return nil
}
