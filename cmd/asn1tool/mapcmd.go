package main

import (
	"encoding/json"
	"fmt"

	"github.com/davidjspooner/asn1map/internal/render"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1map"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1schema"
	"github.com/spf13/cobra"
)

type mapOpts struct {
	schema         string
	hex            bool
	json           bool
	advisoryBounds bool
	permissiveSet  bool
}

var mapOpt mapOpts

var mapCmd = &cobra.Command{
	Use:   "map [file]",
	Short: "decode the first TLV and match it against a YAML schema",
	Long: `map decodes the first TLV of its input and matches it against a schema.
The schema is either a YAML file given with --schema or the name of a schema
listed in the config file.`,
	Args:    cobra.MaximumNArgs(1),
	Example: `asn1tool map --schema certificate.yaml cert.der`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		schema, err := resolveSchema(config, mapOpt.schema)
		if err != nil {
			return err
		}
		options := []asn1map.Option{asn1map.WithLogger(logger.WithGroup("map"))}
		if mapOpt.advisoryBounds {
			options = append(options, asn1map.WithAdvisoryBounds())
		}
		if mapOpt.permissiveSet {
			options = append(options, asn1map.WithPermissiveSet())
		}
		mapper, err := asn1map.New(schema, options...)
		if err != nil {
			return err
		}

		decoder, err := config.Decoder()
		if err != nil {
			return err
		}
		data, err := readInput(cmd.InOrStdin(), args, mapOpt.hex)
		if err != nil {
			return err
		}
		node, _, err := decoder.Decode(data, 0)
		if err != nil {
			return err
		}
		result, ok := mapper.Map(node)
		if !ok {
			return fmt.Errorf("input does not match %s", schema)
		}
		if mapOpt.json {
			e := json.NewEncoder(cmd.OutOrStdout())
			e.SetIndent("", "  ")
			return e.Encode(render.Result(result))
		}
		return render.WriteResult(cmd.OutOrStdout(), result)
	},
}

// resolveSchema treats name as a configured schema name first and a file
// path otherwise.
func resolveSchema(config *Config, name string) (asn1schema.Schema, error) {
	if name == "" {
		return nil, fmt.Errorf("a schema is required")
	}
	if _, ok := config.Schemas[name]; ok {
		schemas, err := config.LoadSchemas()
		if err != nil {
			return nil, err
		}
		return schemas[name], nil
	}
	return asn1schema.Load(name)
}

func init() {
	mapCmd.Flags().StringVar(&mapOpt.schema, "schema", "", "schema name from the config or a YAML schema file")
	mapCmd.Flags().BoolVar(&mapOpt.hex, "hex", false, "input is hex text")
	mapCmd.Flags().BoolVar(&mapOpt.json, "json", false, "print JSON instead of an outline")
	mapCmd.Flags().BoolVar(&mapOpt.advisoryBounds, "advisory-bounds", false, "do not reject repetitions outside their size bounds")
	mapCmd.Flags().BoolVar(&mapOpt.permissiveSet, "permissive-set", false, "skip SET members that match no field")
	rootCmd.AddCommand(mapCmd)
}
