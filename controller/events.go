package controller

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/katalvlaran/kruskalctl/core"
	"github.com/katalvlaran/kruskalctl/ofp"
)

// Event is one control-plane event consumed by Run.
type Event interface {
	apply(c *Controller) error
}

// SwitchJoined reports a switch that completed its features handshake.
type SwitchJoined struct {
	Session ofp.Session
}

func (e SwitchJoined) apply(c *Controller) error { return c.SwitchFeatures(e.Session) }

// SwitchLeft reports a switch whose session ended.
type SwitchLeft struct {
	ID core.SwitchID
}

func (e SwitchLeft) apply(c *Controller) error {
	c.SwitchLeave(e.ID)
	return nil
}

// TopologyChanged carries a new discovery snapshot.
type TopologyChanged struct {
	Switches []core.Switch
	Links    []core.LinkSpec
}

func (e TopologyChanged) apply(c *Controller) error { return c.Rebuild(e.Switches, e.Links) }

// PacketReceived carries a packet-in. Decided, when set, receives the decision.
type PacketReceived struct {
	PacketIn
	Decided func(Decision, error)
}

func (e PacketReceived) apply(c *Controller) error {
	d, err := c.PacketIn(e.PacketIn)
	if e.Decided != nil {
		e.Decided(d, err)
	}
	return err
}

// Run applies events in arrival order until ctx is cancelled or events is closed.
// A failing event is logged and does not stop the loop.
// Run returns nil when events is closed and ctx.Err() on cancellation.
func (c *Controller) Run(ctx context.Context, events <-chan Event) error {
	c.logger.Info("controller event loop started")
	defer c.logger.Info("controller event loop stopped")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := ev.apply(c); err != nil {
				lvl := c.logger.Warn
				if !errors.Is(err, ErrMalformedFrame) {
					lvl = c.logger.Error
				}
				lvl("event failed", zap.Error(err))
			}
		}
	}
}
