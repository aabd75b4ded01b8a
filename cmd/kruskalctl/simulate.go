package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"sort"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/kruskalctl/config"
	"github.com/katalvlaran/kruskalctl/controller"
	"github.com/katalvlaran/kruskalctl/core"
	"github.com/katalvlaran/kruskalctl/discovery"
	"github.com/katalvlaran/kruskalctl/ofp"
)

// script is the YAML layout of a simulation:
//
//	steps:
//	  - {switch: 1, in_port: 3, src: "00:00:00:00:00:0a", dst: "00:00:00:00:00:0b"}
//	  - {switch: 2, in_port: 3, src: "00:00:00:00:00:0b", dst: "01:80:c2:00:00:0e", ethertype: lldp}
//	  - {rebuild: true}
type script struct {
	Steps []step `yaml:"steps" validate:"min=1,dive"`
}

// step is one packet-in, or a rediscovery of the same topology when Rebuild is set.
type step struct {
	Rebuild   bool   `yaml:"rebuild"`
	Switch    uint64 `yaml:"switch" validate:"required_without=Rebuild"`
	InPort    uint32 `yaml:"in_port" validate:"required_without=Rebuild"`
	Src       string `yaml:"src" validate:"required_without=Rebuild,omitempty,mac"`
	Dst       string `yaml:"dst" validate:"required_without=Rebuild,omitempty,mac"`
	EtherType string `yaml:"ethertype" validate:"omitempty,oneof=ipv4 ipv6 arp lldp"`
	// Buffered marks the packet as buffered on the switch.
	Buffered bool `yaml:"buffered"`
}

var etherTypes = map[string]layers.EthernetType{
	"":     layers.EthernetTypeIPv4,
	"ipv4": layers.EthernetTypeIPv4,
	"ipv6": layers.EthernetTypeIPv6,
	"arp":  layers.EthernetTypeARP,
	"lldp": layers.EthernetTypeLinkLayerDiscovery,
}

var validate = validator.New()

func parseScript(data []byte) (*script, error) {
	var s script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "decoding script")
	}
	if err := validate.Struct(&s); err != nil {
		return nil, errors.Wrap(err, "validating script")
	}
	return &s, nil
}

// frame serializes the Ethernet frame of st.
func (st step) frame() ([]byte, error) {
	src, err := net.ParseMAC(st.Src)
	if err != nil {
		return nil, err
	}
	dst, err := net.ParseMAC(st.Dst)
	if err != nil {
		return nil, err
	}
	buf := gopacket.NewSerializeBuffer()
	eth := &layers.Ethernet{SrcMAC: src, DstMAC: dst, EthernetType: etherTypes[st.EtherType]}
	err = gopacket.SerializeLayers(buf, gopacket.SerializeOptions{FixLengths: true},
		eth, gopacket.Payload([]byte("kruskalctl")))
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// simRow is one line of the simulation trace.
type simRow struct {
	step     int
	event    string
	decision string
	outPort  string
	computed bool
	state    controller.State
	err      error
}

func newSimulate(pather CommandPather, g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "simulate topology-file script-file",
		Short: "Replay packet-ins against a topology and trace the decisions",
		Long: `'simulate' connects every switch of the topology file through a recording
session, replays the packet-ins of the script through the controller event
loop and prints each forwarding decision, the lifecycle state after it and the
requests sent to every switch.`,
		Example: fmt.Sprintf("  %s simulate fabric.yaml frames.yaml --weight-seed 1", pather.CommandPath()),
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			cfg.Topology.File = args[0]
			data, err := os.ReadFile(args[1])
			if err != nil {
				return errors.Wrap(err, "reading script")
			}
			sc, err := parseScript(data)
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true

			return simulate(cmd.Context(), cmd.OutOrStdout(), cfg, sc)
		},
	}
}

func simulate(ctx context.Context, w io.Writer, cfg *config.Config, sc *script) error {
	if ctx == nil {
		ctx = context.Background()
	}
	provider, err := discovery.NewFileProvider(cfg.FileProviderOptions(nil, nil))
	if err != nil {
		return errors.Wrap(err, "opening topology file")
	}
	snap, err := provider.Get(ctx)
	if err != nil {
		return errors.Wrap(err, "reading topology file")
	}

	topo := core.NewTopology(core.WithWeightProvider(cfg.WeightProvider()))
	ctl := controller.New(topo, ofp.NewRegistry(), cfg.ControllerOptions(zap.NewNop(), nil))

	eg, ctx := errgroup.WithContext(ctx)
	events := make(chan controller.Event)
	eg.Go(func() error { return ctl.Run(ctx, events) })

	recs := make(map[core.SwitchID]*ofp.Recorder, len(snap.Switches))
	var rows []simRow
	eg.Go(func() error {
		defer close(events)
		send := func(ev controller.Event) error {
			select {
			case events <- ev:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		for _, sw := range snap.Switches {
			recs[sw.ID] = ofp.NewRecorder(sw.ID)
			if err := send(controller.SwitchJoined{Session: recs[sw.ID]}); err != nil {
				return err
			}
		}
		if err := send(controller.TopologyChanged{Switches: snap.Switches, Links: snap.Links}); err != nil {
			return err
		}

		for i, st := range sc.Steps {
			if st.Rebuild {
				if err := send(controller.TopologyChanged{Switches: snap.Switches, Links: snap.Links}); err != nil {
					return err
				}
				rows = append(rows, simRow{step: i + 1, event: "rebuild"})
				continue
			}
			data, err := st.frame()
			if err != nil {
				return errors.Wrapf(err, "step %d", i+1)
			}
			bufferID := ofp.NoBuffer
			if st.Buffered {
				bufferID = uint32(i + 1)
			}
			decided := make(chan simRow, 1)
			err = send(controller.PacketReceived{
				PacketIn: controller.PacketIn{
					DatapathID: core.SwitchID(st.Switch),
					InPort:     core.PortNo(st.InPort),
					BufferID:   bufferID,
					Data:       data,
				},
				Decided: func(d controller.Decision, err error) {
					r := simRow{decision: d.Action.String(), computed: d.Triggered, state: ctl.State(), err: err}
					if d.Action == controller.Forward {
						r.outPort = strconv.FormatUint(uint64(d.OutPort), 10)
					}
					decided <- r
				},
			})
			if err != nil {
				return err
			}
			select {
			case r := <-decided:
				r.step = i + 1
				r.event = fmt.Sprintf("%s:%d %s > %s", core.SwitchID(st.Switch), st.InPort, st.Src, st.Dst)
				rows = append(rows, r)
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return err
	}
	printSimulation(w, rows, recs)

	return nil
}

func printSimulation(w io.Writer, rows []simRow, recs map[core.SwitchID]*ofp.Recorder) {
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		result := r.decision
		if r.err != nil {
			result = "error: " + r.err.Error()
		}
		computed := ""
		if r.computed {
			computed = "yes"
		}
		state := ""
		if r.event != "rebuild" {
			state = r.state.String()
		}
		cells = append(cells, []string{strconv.Itoa(r.step), r.event, result, r.outPort, computed, state})
	}
	renderTable(w, []string{"STEP", "EVENT", "DECISION", "OUT PORT", "COMPUTED TREE", "STATE"}, cells)

	ids := make([]core.SwitchID, 0, len(recs))
	for id := range recs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	fmt.Fprintln(w, "\nRequests per switch")
	cells = cells[:0]
	for _, id := range ids {
		rec := recs[id]
		cells = append(cells, []string{
			id.String(),
			strconv.Itoa(len(rec.PortMods())),
			strconv.Itoa(len(rec.FlowMods())),
			strconv.Itoa(len(rec.PacketOuts())),
		})
	}
	renderTable(w, []string{"SWITCH", "PORT-DOWN", "FLOWS", "PACKET-OUTS"}, cells)
}
