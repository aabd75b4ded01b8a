package config

import (
	"go.uber.org/zap"

	"github.com/katalvlaran/kruskalctl/controller"
	"github.com/katalvlaran/kruskalctl/discovery"
	"github.com/katalvlaran/kruskalctl/logging"
	"github.com/katalvlaran/kruskalctl/metrics"
	"github.com/katalvlaran/kruskalctl/prim_kruskal"
	"github.com/katalvlaran/kruskalctl/weight"
)

// LoggingOptions returns the logger settings.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{
		Level:     c.Log.Level,
		Format:    c.Log.Format,
		File:      c.Log.File,
		MaxSizeMB: c.Log.MaxSizeMB,
	}
}

// WeightProvider returns a uniform provider over [weight.min, weight.max].
func (c *Config) WeightProvider() weight.Provider {
	return weight.Uniform(c.Weight.Min, c.Weight.Max, weight.NewRand(c.Weight.Seed))
}

// ControllerOptions returns the controller settings.
func (c *Config) ControllerOptions(logger *zap.Logger, reg *metrics.Registry) controller.Options {
	return controller.Options{
		Logger:             logger,
		Metrics:            reg,
		MST:                prim_kruskal.DefaultOptions(prim_kruskal.WithMethod(c.MST.Method)),
		ClearMACsOnRebuild: c.Controller.ClearMACsOnRebuild,
		FlowPriority:       uint16(c.Controller.FlowPriority),
		MissPriority:       uint16(c.Controller.MissPriority),
	}
}

// FileProviderOptions returns the topology file settings.
func (c *Config) FileProviderOptions(logger *zap.Logger, reg *metrics.Registry) discovery.FileProviderOptions {
	return discovery.FileProviderOptions{
		Path:          c.Topology.File,
		Logger:        logger,
		Metrics:       reg,
		ReloadTimeout: c.Topology.ReloadTimeout,
	}
}
