// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/kruskalctl/config"
	"github.com/katalvlaran/kruskalctl/controller"
	"github.com/katalvlaran/kruskalctl/core"
	"github.com/katalvlaran/kruskalctl/discovery"
	"github.com/katalvlaran/kruskalctl/logging"
	"github.com/katalvlaran/kruskalctl/metrics"
	"github.com/katalvlaran/kruskalctl/ofp"
	"github.com/katalvlaran/kruskalctl/webapi"
)

const (
	// eventQueueLength is the buffer between discovery and the controller loop.
	eventQueueLength = 64
	shutdownTimeout  = 5 * time.Second
)

func newRun(pather CommandPather, g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the controller against a watched topology file",
		Long: `'run' loads the topology file, follows its changes and runs the controller
event loop. Every switch in the file is connected through a logging session
that records the OpenFlow requests the controller issues.

SIGHUP reloads the configuration file; only the log level is applied without
a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if cfg.Topology.File == "" {
				return errors.New("no topology file configured (--topology-file)")
			}
			cmd.SilenceUsage = true

			logLevel, logger, err := logging.New(cfg.LoggingOptions())
			if err != nil {
				return errors.Wrap(err, "setting up logging")
			}
			defer func() { _ = logger.Sync() }()
			logger.Info("starting kruskalctl",
				zap.String("command", pather.CommandPath()),
				zap.String("version", buildVersion()),
				zap.String("config", g.cfgFile),
				zap.String("topology", cfg.Topology.File))

			return runController(cmd.Context(), g, cfg, logLevel, logger)
		},
	}
}

func runController(parent context.Context, g *globalFlags, cfg *config.Config,
	logLevel zap.AtomicLevel, logger *zap.Logger) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	reg := metrics.NewRegistry()
	topo := core.NewTopology(core.WithWeightProvider(cfg.WeightProvider()))
	ctl := controller.New(topo, ofp.NewRegistry(), cfg.ControllerOptions(logger.Named("controller"), reg))

	provider, err := discovery.NewFileProvider(cfg.FileProviderOptions(logger.Named("discovery"), reg))
	if err != nil {
		return errors.Wrap(err, "opening topology file")
	}

	reloadConfiguration := func() {
		newCfg, err := g.load()
		if err != nil {
			logger.Warn("failed to reload configuration", zap.Error(err))
			return
		}
		parsed, err := zapcore.ParseLevel(newCfg.Log.Level)
		if err != nil {
			logger.Warn("invalid log level specified, keeping the current one", zap.Error(err))
			return
		}
		logLevel.SetLevel(parsed)
		logger.Info("configuration reloaded", zap.Stringer("log_level", parsed))
	}
	if g.watchConfig && g.cfgFile != "" {
		v, err := config.NewViper(g.configFlags)
		if err != nil {
			return err
		}
		v.SetConfigFile(g.cfgFile)
		v.OnConfigChange(func(in fsnotify.Event) {
			logger.Info("configuration file change detected")
			reloadConfiguration()
		})
		go v.WatchConfig()
	}

	eg, ctx := errgroup.WithContext(ctx)
	events := make(chan controller.Event, eventQueueLength)

	eg.Go(func() error {
		err := ctl.Run(ctx, events)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	eg.Go(func() error {
		return feedTopology(ctx, cfg.Topology.Watch, provider, events, logger)
	})

	if cfg.Web.Addr != "" {
		srv := webapi.New(webapi.Options{
			Logger:   logger.Named("webapi"),
			LogLevel: &logLevel,
			Metrics:  reg,
			Source:   ctl,
			Addr:     cfg.Web.Addr,
		})
		eg.Go(srv.ListenAndServe)
		eg.Go(func() error {
			<-ctx.Done()
			sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer scancel()
			return srv.Shutdown(sctx)
		})
	}

	eg.Go(func() error {
		sigCh := make(chan os.Signal, 10)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		defer signal.Stop(sigCh)

		for {
			select {
			case <-ctx.Done():
				return nil
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGHUP:
					logger.Info("received SIGHUP, reloading configuration...")
					reloadConfiguration()
				default:
					logger.Info("received signal, shutting down", zap.Stringer("signal", sig))
					cancel()
					return nil
				}
			}
		}
	})

	if err := eg.Wait(); err != nil {
		logger.Error("controller stopped with an error", zap.Error(err))
		return err
	}
	logger.Info("controller shutdown gracefully")

	return nil
}

// feedTopology turns discovery snapshots into controller events. Switches that
// appear get a logging session, switches that disappear are disconnected, and
// every snapshot rebuilds the topology.
func feedTopology(ctx context.Context, watch bool, provider discovery.Provider,
	events chan<- controller.Event, logger *zap.Logger) error {
	var snapshots <-chan *discovery.Snapshot
	if watch {
		ch, err := provider.Watch(ctx)
		if err != nil {
			return errors.Wrap(err, "watching topology")
		}
		snapshots = ch
	} else {
		snap, err := provider.Get(ctx)
		if err != nil {
			return errors.Wrap(err, "reading topology")
		}
		ch := make(chan *discovery.Snapshot, 1)
		ch <- snap
		snapshots = ch
	}

	send := func(ev controller.Event) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	sessionLogger := logger.Named("ofp")
	connected := make(map[core.SwitchID]bool)
	for {
		var snap *discovery.Snapshot
		select {
		case <-ctx.Done():
			return nil
		case s, ok := <-snapshots:
			if !ok {
				return nil
			}
			snap = s
		}

		present := make(map[core.SwitchID]bool, len(snap.Switches))
		for _, sw := range snap.Switches {
			present[sw.ID] = true
			if !connected[sw.ID] {
				connected[sw.ID] = true
				if !send(controller.SwitchJoined{Session: ofp.NewLogSession(sw.ID, sessionLogger)}) {
					return nil
				}
			}
		}
		for id := range connected {
			if !present[id] {
				delete(connected, id)
				if !send(controller.SwitchLeft{ID: id}) {
					return nil
				}
			}
		}
		if !send(controller.TopologyChanged{Switches: snap.Switches, Links: snap.Links}) {
			return nil
		}
	}
}
