// SPDX-License-Identifier: MIT

// Command kruskalctl runs the loop-prevention controller core and its
// offline tools.
//
//	kruskalctl run --topology-file fabric.yaml --web-addr :8080
//	kruskalctl mst fabric.yaml --weight-seed 7
//	kruskalctl simulate fabric.yaml frames.yaml
//	kruskalctl generate --shape leaf-spine --spines 2 --leaves 4
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/katalvlaran/kruskalctl/config"
)

// CommandPather returns the path of a command.
type CommandPather interface {
	CommandPath() string
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	cfgFile     string
	watchConfig bool
	configFlags *pflag.FlagSet
}

// load resolves the configuration from defaults, the config file, the
// environment and the flags.
func (g *globalFlags) load() (*config.Config, error) {
	v, err := config.NewViper(g.configFlags)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(v, g.cfgFile)
	if err != nil {
		return nil, errors.Wrap(err, "loading configuration")
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{configFlags: config.Flags()}

	cmd := &cobra.Command{
		Use:   "kruskalctl",
		Short: "Spanning tree loop prevention for an OpenFlow switch fabric",
		Long: `kruskalctl keeps a switched fabric loop-free. It weights every discovered
link, computes a minimum spanning tree on the first flood after each topology
change and administratively disables the ports of every link outside the tree.

Configuration keys can be set in a YAML or TOML file (--config), through
KRUSKALCTL_* environment variables or with the flags below.`,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&g.cfgFile, "config", "c", "", "configuration file to load")
	cmd.PersistentFlags().BoolVar(&g.watchConfig, "watch-config", false,
		"reload the configuration file when it changes")
	cmd.PersistentFlags().AddFlagSet(g.configFlags)

	cmd.AddCommand(
		newRun(cmd, g),
		newMST(cmd, g),
		newSimulate(cmd, g),
		newGenerate(cmd),
		newVersion(cmd),
	)

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
