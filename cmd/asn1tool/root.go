package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/davidjspooner/asn1map/pkg/logevent"
	"github.com/spf13/cobra"
)

type rootOpts struct {
	cfgFile  string
	rules    string
	maxDepth int
	logLevel string
}

var rootOpt rootOpts

var rootCmd = &cobra.Command{
	Use:           "asn1tool",
	Short:         "decode, encode and map ASN.1 BER/DER data",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootOpt.cfgFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&rootOpt.rules, "rules", "", "encoding rules, ber or der")
	rootCmd.PersistentFlags().IntVar(&rootOpt.maxDepth, "max-depth", 0, "maximum nesting depth")
	rootCmd.PersistentFlags().StringVar(&rootOpt.logLevel, "log-level", "", "debug, info, warn or error")
	rootCmd.DisableAutoGenTag = true
}

// loadConfig reads the config file and applies flags set on cmd over it.
func loadConfig(cmd *cobra.Command) (*Config, *slog.Logger, error) {
	config, err := LoadConfig(rootOpt.cfgFile)
	if err != nil {
		return nil, nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("rules") {
		config.Rules = rootOpt.rules
	}
	if flags.Changed("max-depth") {
		config.MaxDepth = rootOpt.maxDepth
	}
	if flags.Changed("log-level") {
		config.LogLevel = rootOpt.logLevel
	}
	level, err := config.Level()
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(logevent.NewHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return config, logger, nil
}
