package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/davidjspooner/asn1map/internal/render"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1binary"
	"github.com/davidjspooner/asn1map/pkg/snmp"
	"github.com/google/gopacket/layers"
	"github.com/spf13/cobra"
)

type pcapOpts struct {
	port int
	snmp bool
	dump bool
}

var pcapOpt pcapOpts

var pcapCmd = &cobra.Command{
	Use:   "pcap <file>",
	Short: "decode the UDP payloads of a packet capture",
	Long: `pcap reads a pcap file and decodes the payload of every UDP packet to or
from --port as BER. With --snmp each payload is decoded as an SNMPv1 or
SNMPv2c message instead and its varbinds are printed.`,
	Args:    cobra.ExactArgs(1),
	Example: `asn1tool pcap --snmp walk.pcap`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		decoder, err := config.Decoder()
		if err != nil {
			return err
		}
		handler := &pcapPrinter{
			w:       cmd.OutOrStdout(),
			decoder: decoder,
			logger:  logger.WithGroup("pcap"),
			opts:    pcapOpt,
		}
		return PlaybackIPFramesFromFile(args[0], handler)
	},
}

type pcapPrinter struct {
	w       io.Writer
	decoder *asn1binary.Decoder
	logger  *slog.Logger
	opts    pcapOpts
}

func (p *pcapPrinter) HandleIPFrame(frame *IPFrame) error {
	if frame.IPProtocol != layers.IPProtocolUDP {
		return nil
	}
	if p.opts.port != 0 && int(frame.SrcPort) != p.opts.port && int(frame.DstPort) != p.opts.port {
		return nil
	}
	if frame.IsFragment {
		p.logger.Warn("skipping fragment", "event", "fragment", "frame", frame.FrameNumber)
		return nil
	}
	fmt.Fprintf(p.w, "Frame: %d Src: %s:%d, Dst: %s:%d\n", frame.FrameNumber, frame.SrcAddr.IP, frame.SrcPort, frame.DstAddr.IP, frame.DstPort)
	if p.opts.dump {
		for _, line := range strings.Split(strings.TrimRight(hex.Dump(frame.Data), "\n"), "\n") {
			fmt.Fprintf(p.w, "      %s\n", line)
		}
	}

	if p.opts.snmp {
		message, err := snmp.DecodeFrame(frame.Data)
		if errors.Is(err, snmp.ErrNotSNMP) {
			p.logger.Info("not an SNMP message", "event", "not_snmp", "frame", frame.FrameNumber)
			return nil
		}
		if err != nil {
			p.logger.Warn("undecodable payload", "event", "decode_error", "frame", frame.FrameNumber, "error", err)
			return nil
		}
		return p.printMessage(message)
	}

	node, _, err := p.decoder.Decode(frame.Data, 0)
	if err != nil {
		p.logger.Warn("undecodable payload", "event", "decode_error", "frame", frame.FrameNumber, "error", err)
		return nil
	}
	return render.WriteTree(p.w, node)
}

func (p *pcapPrinter) printMessage(message *snmp.Message) error {
	fmt.Fprintf(p.w, "      Method: %s\n", message.PDU.Type)
	fmt.Fprintf(p.w, "      Community: %s\n", message.Community)
	fmt.Fprintf(p.w, "      Version: %s\n", message.Version)
	fmt.Fprintf(p.w, "      RequestID: %d\n", message.PDU.RequestID)
	if message.PDU.ErrorStatus > 0 && message.PDU.Type != snmp.GET_BULK {
		fmt.Fprintf(p.w, "      Error: %d\n", message.PDU.ErrorStatus)
		fmt.Fprintf(p.w, "      ErrorIndex: %d\n", message.PDU.ErrorIndex)
	}
	if trap := message.PDU.Trap; trap != nil {
		fmt.Fprintf(p.w, "      Enterprise: %s Generic: %d Specific: %d\n", trap.Enterprise, trap.GenericTrap, trap.SpecificTrap)
	}
	return message.Walk(snmp.NewVarBindPrinter(&indentWriter{w: p.w, prefix: "             "}))
}

// indentWriter prefixes every write, callers write whole lines.
type indentWriter struct {
	w      io.Writer
	prefix string
}

func (iw *indentWriter) Write(b []byte) (int, error) {
	if _, err := io.WriteString(iw.w, iw.prefix); err != nil {
		return 0, err
	}
	return iw.w.Write(b)
}

func init() {
	pcapCmd.Flags().IntVar(&pcapOpt.port, "port", 0, "only payloads to or from this UDP port")
	pcapCmd.Flags().BoolVar(&pcapOpt.snmp, "snmp", false, "decode payloads as SNMP messages")
	pcapCmd.Flags().BoolVar(&pcapOpt.dump, "dump", false, "hex dump each payload")
	rootCmd.AddCommand(pcapCmd)
}
