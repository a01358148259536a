package main

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

var ErrReassemblyNeeded = errors.New("reassembly needed")

type IPFrame struct {
	FrameNumber uint64
	IsFragment  bool
	IPProtocol  layers.IPProtocol
	SrcAddr     net.IPAddr
	DstAddr     net.IPAddr
	SrcPort     uint16
	DstPort     uint16
	Data        []byte
}

type IPFrameHandler interface {
	HandleIPFrame(frame *IPFrame) error
}

type IPFrameHandleFunc func(frame *IPFrame) error

func (f IPFrameHandleFunc) HandleIPFrame(frame *IPFrame) error {
	return f(frame)
}

func PlaybackIPFramesFromFile(filename string, handler IPFrameHandler) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return PlaybackIPFramesFromStream(f, handler)
}

// PlaybackIPFramesFromStream reads a pcap stream and passes every TCP or UDP
// payload to handler. Other packets are skipped.
func PlaybackIPFramesFromStream(f io.Reader, handler IPFrameHandler) error {
	r, err := pcapgo.NewReader(f)
	if err != nil {
		return fmt.Errorf("failed to create pcap reader: %w", err)
	}

	packetSource := gopacket.NewPacketSource(r, r.LinkType())
	ipFrame := &IPFrame{}
	for packet := range packetSource.Packets() {
		ipFrame.FrameNumber++
		if ipV4 := packet.Layer(layers.LayerTypeIPv4); ipV4 != nil {
			ip := ipV4.(*layers.IPv4)
			ipFrame.IsFragment = ip.Flags&layers.IPv4MoreFragments != 0 || ip.FragOffset != 0
			ipFrame.IPProtocol = ip.Protocol
			ipFrame.SrcAddr = net.IPAddr{IP: ip.SrcIP}
			ipFrame.DstAddr = net.IPAddr{IP: ip.DstIP}
		} else if ipV6 := packet.Layer(layers.LayerTypeIPv6); ipV6 != nil {
			ip := ipV6.(*layers.IPv6)
			ipFrame.IsFragment = packet.Layer(layers.LayerTypeIPv6Fragment) != nil
			ipFrame.IPProtocol = ip.NextHeader
			ipFrame.SrcAddr = net.IPAddr{IP: ip.SrcIP}
			ipFrame.DstAddr = net.IPAddr{IP: ip.DstIP}
		} else {
			continue
		}
		if tcp := packet.Layer(layers.LayerTypeTCP); tcp != nil {
			tcp := tcp.(*layers.TCP)
			ipFrame.SrcPort = uint16(tcp.SrcPort)
			ipFrame.DstPort = uint16(tcp.DstPort)
			ipFrame.Data = tcp.Payload
		} else if udp := packet.Layer(layers.LayerTypeUDP); udp != nil {
			udp := udp.(*layers.UDP)
			ipFrame.SrcPort = uint16(udp.SrcPort)
			ipFrame.DstPort = uint16(udp.DstPort)
			ipFrame.Data = udp.Payload
		} else {
			continue
		}

		if err := handler.HandleIPFrame(ipFrame); err != nil {
			return fmt.Errorf("failed to handle frame %d: %w", ipFrame.FrameNumber, err)
		}
	}

	return nil
}
