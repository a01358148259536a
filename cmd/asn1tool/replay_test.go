package main

import (
	"bytes"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/davidjspooner/asn1map/pkg/asn1"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1binary"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1core"
	"github.com/davidjspooner/asn1map/pkg/snmp"
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func primitive(t *testing.T, tag asn1core.Tag, v any) *asn1binary.Node {
	t.Helper()
	n, err := asn1.DefaultRegistry().NewPrimitive(tag, v)
	require.NoError(t, err)
	return n
}

func snmpResponse(t *testing.T) []byte {
	t.Helper()
	b, err := asn1binary.Marshal(asn1binary.NewSequence(
		primitive(t, asn1core.TagInteger, 1),
		primitive(t, asn1core.TagOctetString, "public"),
		asn1binary.NewConstructed(asn1core.ClassContextSpecific, asn1core.Tag(snmp.RESPONSE),
			primitive(t, asn1core.TagInteger, 99),
			primitive(t, asn1core.TagInteger, 0),
			primitive(t, asn1core.TagInteger, 0),
			asn1binary.NewSequence(asn1binary.NewSequence(
				primitive(t, asn1core.TagOID, "1.3.6.1.2.1.1.5.0"),
				primitive(t, asn1core.TagOctetString, "router-1"),
			)),
		),
	))
	require.NoError(t, err)
	return b
}

type packet struct {
	proto   layers.IPProtocol
	srcPort uint16
	dstPort uint16
	payload []byte
}

// capture builds an in-memory pcap file of IPv4 packets.
func capture(t *testing.T, packets ...packet) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	w := pcapgo.NewWriter(buf)
	require.NoError(t, w.WriteFileHeader(65536, layers.LinkTypeEthernet))

	for _, p := range packets {
		eth := &layers.Ethernet{
			SrcMAC:       net.HardwareAddr{0x02, 0, 0, 0, 0, 1},
			DstMAC:       net.HardwareAddr{0x02, 0, 0, 0, 0, 2},
			EthernetType: layers.EthernetTypeIPv4,
		}
		ip := &layers.IPv4{
			Version:  4,
			IHL:      5,
			TTL:      64,
			Protocol: p.proto,
			SrcIP:    net.IP{10, 0, 0, 1},
			DstIP:    net.IP{10, 0, 0, 2},
		}
		var transport gopacket.SerializableLayer
		switch p.proto {
		case layers.IPProtocolUDP:
			udp := &layers.UDP{SrcPort: layers.UDPPort(p.srcPort), DstPort: layers.UDPPort(p.dstPort)}
			require.NoError(t, udp.SetNetworkLayerForChecksum(ip))
			transport = udp
		case layers.IPProtocolTCP:
			tcp := &layers.TCP{SrcPort: layers.TCPPort(p.srcPort), DstPort: layers.TCPPort(p.dstPort), Window: 1024}
			require.NoError(t, tcp.SetNetworkLayerForChecksum(ip))
			transport = tcp
		}
		sb := gopacket.NewSerializeBuffer()
		opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
		require.NoError(t, gopacket.SerializeLayers(sb, opts, eth, ip, transport, gopacket.Payload(p.payload)))
		data := sb.Bytes()
		ci := gopacket.CaptureInfo{Timestamp: time.Unix(1700000000, 0), CaptureLength: len(data), Length: len(data)}
		require.NoError(t, w.WritePacket(ci, data))
	}
	return buf.Bytes()
}

func TestPlaybackIPFrames(t *testing.T) {
	data := capture(t,
		packet{layers.IPProtocolUDP, 161, 40000, []byte{0x05, 0x00}},
		packet{layers.IPProtocolTCP, 443, 50000, []byte{0x02, 0x01, 0x01}},
	)

	type seen struct {
		number  uint64
		proto   layers.IPProtocol
		srcPort uint16
		data    []byte
	}
	var frames []seen
	err := PlaybackIPFramesFromStream(bytes.NewReader(data), IPFrameHandleFunc(func(frame *IPFrame) error {
		frames = append(frames, seen{frame.FrameNumber, frame.IPProtocol, frame.SrcPort, append([]byte(nil), frame.Data...)})
		return nil
	}))
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, seen{1, layers.IPProtocolUDP, 161, []byte{0x05, 0x00}}, frames[0])
	assert.Equal(t, seen{2, layers.IPProtocolTCP, 443, []byte{0x02, 0x01, 0x01}}, frames[1])

	err = PlaybackIPFramesFromStream(bytes.NewReader([]byte("not a capture")), IPFrameHandleFunc(func(*IPFrame) error { return nil }))
	assert.Error(t, err)
}

func TestPcapPrinterSNMP(t *testing.T) {
	data := capture(t,
		packet{layers.IPProtocolUDP, 161, 40000, snmpResponse(t)},
		packet{layers.IPProtocolUDP, 161, 40000, []byte{0x30, 0x03, 0x02, 0x01, 0x07}},
		packet{layers.IPProtocolUDP, 53, 40000, []byte{0xff}},
		packet{layers.IPProtocolTCP, 161, 40000, []byte{0x05, 0x00}},
	)
	out := &bytes.Buffer{}
	printer := &pcapPrinter{
		w:       out,
		decoder: asn1.NewDecoder(asn1binary.BER),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		opts:    pcapOpts{port: 161, snmp: true},
	}
	require.NoError(t, PlaybackIPFramesFromStream(bytes.NewReader(data), printer))

	text := out.String()
	assert.Contains(t, text, "Frame: 1 Src: 10.0.0.1:161, Dst: 10.0.0.2:40000\n")
	assert.Contains(t, text, "      Method: Response\n")
	assert.Contains(t, text, "      Version: v2c\n")
	assert.Contains(t, text, "      RequestID: 99\n")
	assert.Contains(t, text, "             1.3.6.1.2.1.1.5.0 = String: router-1\n")
	assert.Contains(t, text, "Frame: 2 ", "non SNMP payloads are reported and skipped")
	assert.NotContains(t, text, "Frame: 3 ")
	assert.NotContains(t, text, "Frame: 4 ")
}

func TestPcapPrinterBER(t *testing.T) {
	data := capture(t, packet{layers.IPProtocolUDP, 1000, 2000, []byte{0x30, 0x03, 0x02, 0x01, 0x07}})
	out := &bytes.Buffer{}
	printer := &pcapPrinter{
		w:       out,
		decoder: asn1.NewDecoder(asn1binary.BER),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		opts:    pcapOpts{dump: true},
	}
	require.NoError(t, PlaybackIPFramesFromStream(bytes.NewReader(data), printer))
	assert.Contains(t, out.String(), "      00000000  30 03 02 01 07")
	assert.Contains(t, out.String(), "[Sequence/c] 3(short)\n  [Integer/p] 1(short) 7\n")
}
