// SPDX-License-Identifier: MIT
package ofp

import (
	"net"

	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/kruskalctl/core"
)

// Reserved port numbers.
const (
	PortMax        core.PortNo = 0xffffff00
	PortInPort     core.PortNo = 0xfffffff8
	PortFlood      core.PortNo = 0xfffffffb
	PortAll        core.PortNo = 0xfffffffc
	PortController core.PortNo = 0xfffffffd
	PortAny        core.PortNo = 0xffffffff
)

// NoBuffer marks a packet that the switch did not buffer.
const NoBuffer uint32 = 0xffffffff

// ControllerMaxLenNoBuffer asks the switch to send the full packet to the controller.
const ControllerMaxLenNoBuffer uint16 = 0xffff

// PortConfig bits.
const (
	PortConfigPortDown   uint32 = 1 << 0
	PortConfigNoRecv     uint32 = 1 << 2
	PortConfigNoFwd      uint32 = 1 << 5
	PortConfigNoPacketIn uint32 = 1 << 6
)

// PortDisabled is the composite config applied to a blocked link endpoint.
const PortDisabled = PortConfigPortDown | PortConfigNoRecv | PortConfigNoFwd | PortConfigNoPacketIn

// FlowCommand is the flow-table operation of a FlowMod.
type FlowCommand uint8

// Flow-table commands.
const (
	FlowAdd FlowCommand = iota
	FlowModify
	FlowDelete
)

// Kind names a request type.
type Kind string

// Request kinds.
const (
	KindPortMod   Kind = "port_mod"
	KindFlowMod   Kind = "flow_mod"
	KindPacketOut Kind = "packet_out"
)

// Message is a request addressed to one datapath.
type Message interface {
	zapcore.ObjectMarshaler
	Kind() Kind
	Datapath() core.SwitchID
}

// Output is an output action.
type Output struct {
	Port   core.PortNo
	MaxLen uint16
}

// Match selects packets by ingress port and Ethernet addresses.
// Zero values are wildcards.
type Match struct {
	InPort core.PortNo
	EthDst net.HardwareAddr
	EthSrc net.HardwareAddr
}

// Empty reports whether the match wildcards every field.
func (m Match) Empty() bool {
	return m.InPort == 0 && len(m.EthDst) == 0 && len(m.EthSrc) == 0
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (m Match) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	if m.InPort != 0 {
		enc.AddUint32("in_port", uint32(m.InPort))
	}
	if len(m.EthDst) > 0 {
		enc.AddString("eth_dst", m.EthDst.String())
	}
	if len(m.EthSrc) > 0 {
		enc.AddString("eth_src", m.EthSrc.String())
	}
	return nil
}

// PortMod changes the administrative configuration of one port.
// Only bits set in Mask are changed to the value in Config.
type PortMod struct {
	DatapathID core.SwitchID
	PortNo     core.PortNo
	HWAddr     net.HardwareAddr
	Config     uint32
	Mask       uint32
	Advertise  uint32
}

// NewPortDown returns the PortMod disabling forwarding, reception and
// packet-in generation on port.
func NewPortDown(dpid core.SwitchID, port core.PortNo, hw net.HardwareAddr) PortMod {
	return PortMod{
		DatapathID: dpid,
		PortNo:     port,
		HWAddr:     hw,
		Config:     PortDisabled,
		Mask:       PortDisabled,
	}
}

// Kind implements Message.
func (PortMod) Kind() Kind { return KindPortMod }

// Datapath implements Message.
func (m PortMod) Datapath() core.SwitchID { return m.DatapathID }

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (m PortMod) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("dpid", m.DatapathID.String())
	enc.AddUint32("port", uint32(m.PortNo))
	enc.AddString("hw_addr", m.HWAddr.String())
	enc.AddUint32("config", m.Config)
	enc.AddUint32("mask", m.Mask)
	return nil
}

// FlowMod installs, modifies or deletes a flow entry.
type FlowMod struct {
	DatapathID core.SwitchID
	Command    FlowCommand
	Priority   uint16
	Match      Match
	Actions    []Output
	BufferID   uint32
}

// Kind implements Message.
func (FlowMod) Kind() Kind { return KindFlowMod }

// Datapath implements Message.
func (m FlowMod) Datapath() core.SwitchID { return m.DatapathID }

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (m FlowMod) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("dpid", m.DatapathID.String())
	enc.AddUint8("command", uint8(m.Command))
	enc.AddUint16("priority", m.Priority)
	if err := enc.AddObject("match", m.Match); err != nil {
		return err
	}
	if err := enc.AddArray("actions", outputs(m.Actions)); err != nil {
		return err
	}
	if m.BufferID != NoBuffer {
		enc.AddUint32("buffer_id", m.BufferID)
	}
	return nil
}

// PacketOut sends a packet (buffered on the switch or carried in Data) out of
// the listed ports.
type PacketOut struct {
	DatapathID core.SwitchID
	BufferID   uint32
	InPort     core.PortNo
	Actions    []Output
	Data       []byte
}

// Kind implements Message.
func (PacketOut) Kind() Kind { return KindPacketOut }

// Datapath implements Message.
func (m PacketOut) Datapath() core.SwitchID { return m.DatapathID }

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (m PacketOut) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("dpid", m.DatapathID.String())
	enc.AddUint32("in_port", uint32(m.InPort))
	if err := enc.AddArray("actions", outputs(m.Actions)); err != nil {
		return err
	}
	if m.BufferID != NoBuffer {
		enc.AddUint32("buffer_id", m.BufferID)
	}
	enc.AddInt("data_len", len(m.Data))
	return nil
}

type outputs []Output

func (os outputs) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, o := range os {
		enc.AppendUint32(uint32(o.Port))
	}
	return nil
}
