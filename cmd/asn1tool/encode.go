package main

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/davidjspooner/asn1map/pkg/asn1"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1binary"
	"github.com/spf13/cobra"
)

type encodeOpts struct {
	hex   bool
	check bool
}

var encodeOpt encodeOpts

var encodeCmd = &cobra.Command{
	Use:   "encode [file]",
	Short: "decode then re-encode every TLV, printing the result as hex",
	Long: `encode decodes its input and writes it back out with minimal definite
lengths. Indefinite length constructions are kept. With --check the command
fails unless the output is identical to the input.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		decoder, err := config.Decoder()
		if err != nil {
			return err
		}
		data, err := readInput(cmd.InOrStdin(), args, encodeOpt.hex)
		if err != nil {
			return err
		}
		out, err := reencode(decoder, data)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(out))
		if encodeOpt.check && !bytes.Equal(out, data) {
			logger.Warn("re-encoding differs", "event", "roundtrip_mismatch", "in", len(data), "out", len(out))
			return fmt.Errorf("re-encoded %d octets differ from the %d input octets", len(out), len(data))
		}
		return nil
	},
}

// reencode decodes consecutive TLVs from data and encodes them again.
func reencode(decoder *asn1binary.Decoder, data []byte) ([]byte, error) {
	encoder := asn1binary.Encoder{Registry: asn1.DefaultRegistry()}
	var out []byte
	for offset := 0; offset < len(data); {
		node, n, err := decoder.Decode(data, offset)
		if err != nil {
			return nil, err
		}
		out, err = encoder.Append(out, node)
		if err != nil {
			return nil, err
		}
		offset += n
	}
	return out, nil
}

func init() {
	encodeCmd.Flags().BoolVar(&encodeOpt.hex, "hex", false, "input is hex text")
	encodeCmd.Flags().BoolVar(&encodeOpt.check, "check", false, "fail unless the output equals the input")
	rootCmd.AddCommand(encodeCmd)
}
