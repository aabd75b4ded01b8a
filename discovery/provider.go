// Package discovery supplies the controller with topology snapshots.
//
// A Provider yields the full switch and link lists discovered at one moment;
// every snapshot replaces the previous one wholesale (the controller rebuilds
// its topology from it). StaticProvider serves an in-memory snapshot and
// FileProvider reads a YAML topology file and follows its changes.
package discovery

import (
	"context"
	"errors"

	"github.com/katalvlaran/kruskalctl/core"
)

var (
	// ErrInvalidTopology indicates a snapshot that fails validation.
	ErrInvalidTopology = errors.New("discovery: invalid topology")
	// ErrDuplicateSwitch indicates two switches reported with the same id.
	ErrDuplicateSwitch = errors.New("discovery: duplicate switch id")
)

// Snapshot is one discovery result.
type Snapshot struct {
	Switches []core.Switch
	Links    []core.LinkSpec
}

// Provider is a source of topology snapshots.
//
// Watch delivers the current snapshot first and then one snapshot per change.
// The channel is closed when ctx is done.
type Provider interface {
	Get(ctx context.Context) (*Snapshot, error)
	Watch(ctx context.Context) (<-chan *Snapshot, error)
}
