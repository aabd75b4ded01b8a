package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/kruskalctl/config"
	"github.com/katalvlaran/kruskalctl/controller"
	"github.com/katalvlaran/kruskalctl/core"
	"github.com/katalvlaran/kruskalctl/discovery"
	"github.com/katalvlaran/kruskalctl/enforcer"
	"github.com/katalvlaran/kruskalctl/ofp"
)

// linkRow is a link as printed by mst.
type linkRow struct {
	Src     core.SwitchID `json:"src" yaml:"src"`
	SrcPort core.PortNo   `json:"src_port" yaml:"src_port"`
	Dst     core.SwitchID `json:"dst" yaml:"dst"`
	DstPort core.PortNo   `json:"dst_port" yaml:"dst_port"`
	Weight  int64         `json:"weight" yaml:"weight"`
}

// actionRow is one port-down request and its outcome.
type actionRow struct {
	Switch core.SwitchID `json:"switch" yaml:"switch"`
	Port   core.PortNo   `json:"port" yaml:"port"`
	Result string        `json:"result" yaml:"result"`
}

// mstResult is the machine readable output of mst.
type mstResult struct {
	Generation uint64      `json:"generation" yaml:"generation"`
	Method     string      `json:"method" yaml:"method"`
	Weight     int64       `json:"weight" yaml:"weight"`
	Tree       []linkRow   `json:"tree" yaml:"tree"`
	Blocked    []linkRow   `json:"blocked" yaml:"blocked"`
	Actions    []actionRow `json:"actions" yaml:"actions"`
}

func newMST(pather CommandPather, g *globalFlags) *cobra.Command {
	var flags struct {
		format  string
		offline []uint
	}

	cmd := &cobra.Command{
		Use:   "mst [topology-file]",
		Short: "Compute the spanning tree of a topology file",
		Long: `'mst' weights the links of a topology file, computes the spanning tree and
lists the port-down requests the controller would issue. Every switch is
treated as connected unless listed in --offline.`,
		Example: fmt.Sprintf(`  %[1]s mst fabric.yaml --weight-seed 7
  %[1]s mst fabric.yaml --mst-method prim --format json
  %[1]s mst fabric.yaml --offline 3,4`, pather.CommandPath()),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Topology.File = args[0]
			}
			if cfg.Topology.File == "" {
				return errors.New("no topology file given")
			}
			switch flags.format {
			case "human", "json", "yaml":
			default:
				return errors.Errorf("format not supported: %s", flags.format)
			}
			cmd.SilenceUsage = true

			offline := make(map[core.SwitchID]bool, len(flags.offline))
			for _, id := range flags.offline {
				offline[core.SwitchID(id)] = true
			}
			res, err := computeMST(cmd.Context(), cfg, offline)
			if err != nil {
				return err
			}

			return printMST(cmd.OutOrStdout(), flags.format, res)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "human", "output format (human, json, yaml)")
	cmd.Flags().UintSliceVar(&flags.offline, "offline", nil, "switches without a control session")

	return cmd
}

// computeMST runs one generation of the controller over the topology file with
// recording sessions and returns what it computed and sent.
func computeMST(ctx context.Context, cfg *config.Config, offline map[core.SwitchID]bool) (*mstResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	provider, err := discovery.NewFileProvider(cfg.FileProviderOptions(nil, nil))
	if err != nil {
		return nil, errors.Wrap(err, "opening topology file")
	}
	snap, err := provider.Get(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "reading topology file")
	}

	topo := core.NewTopology(core.WithWeightProvider(cfg.WeightProvider()))
	ctl := controller.New(topo, ofp.NewRegistry(), cfg.ControllerOptions(zap.NewNop(), nil))
	if err := ctl.Rebuild(snap.Switches, snap.Links); err != nil {
		return nil, errors.Wrap(err, "building topology")
	}
	for _, sw := range snap.Switches {
		if offline[sw.ID] {
			continue
		}
		if err := ctl.SwitchFeatures(ofp.NewRecorder(sw.ID)); err != nil {
			return nil, err
		}
	}

	out, err := ctl.RecomputeOutcome()
	if err != nil {
		return nil, errors.Wrap(err, "computing spanning tree")
	}
	tree, rep := out.Tree, out.Report

	res := &mstResult{
		Generation: rep.Generation,
		Method:     cfg.MST.Method,
		Weight:     tree.Weight,
		Tree:       toRows(tree.Edges),
		Blocked:    toRows(rep.Blocked),
	}
	for _, a := range rep.Sent {
		res.Actions = append(res.Actions, actionRow{Switch: a.Switch, Port: a.Port, Result: "port-down sent"})
	}
	for _, s := range rep.Skipped {
		if s.Reason == enforcer.ReasonAlreadyIssued {
			continue
		}
		res.Actions = append(res.Actions, actionRow{Switch: s.Switch, Port: s.Port, Result: skipResult(s)})
	}

	return res, nil
}

func skipResult(s enforcer.Skipped) string {
	return "skipped: " + string(s.Reason)
}

func toRows(links []core.Link) []linkRow {
	rows := make([]linkRow, 0, len(links))
	for _, l := range links {
		rows = append(rows, linkRow{Src: l.Src, SrcPort: l.SrcPort, Dst: l.Dst, DstPort: l.DstPort, Weight: l.Weight})
	}
	return rows
}

func printMST(w io.Writer, format string, res *mstResult) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(res)
	}

	fmt.Fprintf(w, "Spanning tree (%s, generation %d, weight %d)\n", res.Method, res.Generation, res.Weight)
	renderTable(w, []string{"SRC", "SRC PORT", "DST", "DST PORT", "WEIGHT"}, linkCells(res.Tree))
	fmt.Fprintf(w, "\nBlocked links (%d)\n", len(res.Blocked))
	renderTable(w, []string{"SRC", "SRC PORT", "DST", "DST PORT", "WEIGHT"}, linkCells(res.Blocked))
	fmt.Fprintf(w, "\nPort-down requests (%d)\n", len(res.Actions))
	cells := make([][]string, 0, len(res.Actions))
	for _, a := range res.Actions {
		cells = append(cells, []string{a.Switch.String(), strconv.FormatUint(uint64(a.Port), 10), a.Result})
	}
	renderTable(w, []string{"SWITCH", "PORT", "RESULT"}, cells)

	return nil
}

func linkCells(rows []linkRow) [][]string {
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{
			r.Src.String(), strconv.FormatUint(uint64(r.SrcPort), 10),
			r.Dst.String(), strconv.FormatUint(uint64(r.DstPort), 10),
			strconv.FormatInt(r.Weight, 10),
		})
	}
	return cells
}

func renderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader(header)
	table.AppendBulk(rows)
	table.Render()
}
