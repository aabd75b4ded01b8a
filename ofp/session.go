package ofp

import (
	"errors"
	"sort"
	"sync"

	"github.com/katalvlaran/kruskalctl/core"
)

// ErrSessionClosed is returned by sessions that can no longer deliver requests.
var ErrSessionClosed = errors.New("ofp: session closed")

// ErrWrongDatapath is returned when a message is sent on another datapath's session.
var ErrWrongDatapath = errors.New("ofp: message addressed to another datapath")

// Session is one live control channel to a datapath.
type Session interface {
	DatapathID() core.SwitchID
	Send(msg Message) error
}

// Registry tracks live sessions by datapath id. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SwitchID]Session
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[core.SwitchID]Session)}
}

// Register adds s, replacing and returning any previous session for the same datapath.
func (r *Registry) Register(s Session) (previous Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	previous = r.sessions[s.DatapathID()]
	r.sessions[s.DatapathID()] = s
	return previous
}

// Unregister removes the session for id and reports whether one was present.
func (r *Registry) Unregister(id core.SwitchID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	return ok
}

// Lookup returns the live session for id.
func (r *Registry) Lookup(id core.SwitchID) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// IDs returns the registered datapath ids in ascending order.
func (r *Registry) IDs() []core.SwitchID {
	r.mu.RLock()
	ids := make([]core.SwitchID, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
