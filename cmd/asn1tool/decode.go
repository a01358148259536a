package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/davidjspooner/asn1map/internal/render"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1binary"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1error"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type decodeOpts struct {
	hex   bool
	json  bool
	table bool
}

var decodeOpt decodeOpts

var decodeCmd = &cobra.Command{
	Use:     "decode [file]",
	Short:   "decode every TLV in a file or stdin and print it as a tree",
	Args:    cobra.MaximumNArgs(1),
	Example: `asn1tool decode cert.der
echo 3003020107 | asn1tool decode --hex
echo 3003020107 | asn1tool decode --hex --table`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		decoder, err := config.Decoder()
		if err != nil {
			return err
		}
		r, closer, err := openInput(cmd.InOrStdin(), args, decodeOpt.hex)
		if err != nil {
			return err
		}
		defer closer()
		if decodeOpt.json && decodeOpt.table {
			return fmt.Errorf("--json and --table cannot be combined")
		}

		var table *tablewriter.Table
		if decodeOpt.table {
			table = tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"path", "identifier", "length", "value"})
			table.SetAutoWrapText(false)
		}

		stream := asn1binary.NewStreamReader(r, decoder)
		var nodes []*render.NodeJSON
		for index := 0; ; index++ {
			node, err := stream.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				logger.Error("decode failed", "event", "decode_error", "kind", fmt.Sprint(asn1error.KindOf(err)), "offset", stream.InputOffset())
				return err
			}
			if decodeOpt.json {
				nodes = append(nodes, render.Node(node))
				continue
			}
			if table != nil {
				table.AppendBulk(render.Rows(strconv.Itoa(index), node))
				continue
			}
			if err := render.WriteTree(cmd.OutOrStdout(), node); err != nil {
				return err
			}
		}
		if table != nil {
			table.Render()
		}
		logger.Debug("decoded", "rules", decoder.Rules.String(), "octets", stream.InputOffset())
		if decodeOpt.json {
			e := json.NewEncoder(cmd.OutOrStdout())
			e.SetIndent("", "  ")
			return e.Encode(nodes)
		}
		return nil
	},
}

func init() {
	decodeCmd.Flags().BoolVar(&decodeOpt.hex, "hex", false, "input is hex text")
	decodeCmd.Flags().BoolVar(&decodeOpt.json, "json", false, "print JSON instead of a tree")
	decodeCmd.Flags().BoolVar(&decodeOpt.table, "table", false, "print one table row per node instead of a tree")
	rootCmd.AddCommand(decodeCmd)
}
