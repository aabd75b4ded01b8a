package controller

import (
	"errors"
	"fmt"
	"net"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
)

// ErrMalformedFrame is returned when a packet-in payload is not an Ethernet frame.
var ErrMalformedFrame = errors.New("controller: malformed ethernet frame")

// Frame holds the Ethernet header fields the forwarding decision needs.
type Frame struct {
	Src       net.HardwareAddr
	Dst       net.HardwareAddr
	EtherType layers.EthernetType
}

// DecodeFrame parses the Ethernet header of data.
func DecodeFrame(data []byte) (Frame, error) {
	var eth layers.Ethernet
	if err := eth.DecodeFromBytes(data, gopacket.NilDecodeFeedback); err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	return Frame{Src: eth.SrcMAC, Dst: eth.DstMAC, EtherType: eth.EthernetType}, nil
}

// ControlPlane reports whether the frame is topology-discovery or IPv6
// neighbour traffic, which is never learned or forwarded.
func (f Frame) ControlPlane() bool {
	switch f.EtherType {
	case layers.EthernetTypeLinkLayerDiscovery, layers.EthernetTypeIPv6:
		return true
	default:
		return false
	}
}
