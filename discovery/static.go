package discovery

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// StaticProvider serves an in-memory snapshot. Set replaces it and notifies watchers.
type StaticProvider struct {
	lock     sync.Mutex
	current  *Snapshot
	watchers map[uuid.UUID]chan *Snapshot
}

// NewStaticProvider returns a provider serving snap.
func NewStaticProvider(snap Snapshot) *StaticProvider {
	return &StaticProvider{
		current:  &snap,
		watchers: make(map[uuid.UUID]chan *Snapshot),
	}
}

// Get implements Provider.
func (p *StaticProvider) Get(ctx context.Context) (*Snapshot, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	snap := *p.current
	return &snap, nil
}

// Set replaces the snapshot and delivers it to every watcher.
// A watcher that has not consumed the previous update only sees the latest one.
func (p *StaticProvider) Set(snap Snapshot) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.current = &snap
	for _, ch := range p.watchers {
		select {
		case <-ch:
		default:
		}
		s := snap
		ch <- &s
	}
}

// Watch implements Provider.
func (p *StaticProvider) Watch(ctx context.Context) (<-chan *Snapshot, error) {
	id := uuid.New()
	ch := make(chan *Snapshot, 1)

	p.lock.Lock()
	snap := *p.current
	ch <- &snap
	p.watchers[id] = ch
	p.lock.Unlock()

	out := make(chan *Snapshot)
	go func() {
		defer close(out)
		defer func() {
			p.lock.Lock()
			delete(p.watchers, id)
			p.lock.Unlock()
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case s := <-ch:
				select {
				case out <- s:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
