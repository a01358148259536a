package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1go"
	"github.com/davidjspooner/asn1map/pkg/snmp"
	"github.com/spf13/cobra"
)

type snmpOpts struct {
	community string
	v1        bool
	timeout   time.Duration
}

var snmpOpt snmpOpts

var snmpCmd = &cobra.Command{
	Use:   "snmp",
	Short: "query SNMP agents",
}

var snmpGetCmd = &cobra.Command{
	Use:     "get <agent> <oid>...",
	Short:   "fetch the values of one or more OIDs",
	Args:    cobra.MinimumNArgs(2),
	Example: `asn1tool snmp get 192.0.2.1 1.3.6.1.2.1.1.1.0 1.3.6.1.2.1.1.5.0`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		oids := make([]asn1go.OID, 0, len(args)-1)
		for _, arg := range args[1:] {
			oid, err := asn1go.ParseOID(arg)
			if err != nil {
				return err
			}
			oids = append(oids, oid)
		}

		version := snmp.WithV2(snmpOpt.community)
		if snmpOpt.v1 {
			version = snmp.WithV1(snmpOpt.community)
		}
		protocol, err := snmp.NewProtocol(version, snmp.WithReceiveTimeout(snmpOpt.timeout))
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), snmpOpt.timeout)
		defer cancel()
		conn, err := protocol.Dial(ctx, args[0])
		if err != nil {
			return err
		}
		defer conn.Close()

		requestID := int(rand.Int31())
		logger.Debug("sending request", "event", "snmp_get", "agent", args[0], "request_id", requestID)
		msg, err := conn.Get(ctx, requestID, oids...)
		if err != nil {
			return err
		}
		if msg.PDU.ErrorStatus != 0 {
			return fmt.Errorf("agent returned error status %d at index %d", msg.PDU.ErrorStatus, msg.PDU.ErrorIndex)
		}
		return msg.Walk(snmp.NewVarBindPrinter(cmd.OutOrStdout()))
	},
}

func init() {
	snmpGetCmd.Flags().StringVar(&snmpOpt.community, "community", "public", "community string")
	snmpGetCmd.Flags().BoolVar(&snmpOpt.v1, "v1", false, "use SNMPv1 instead of v2c")
	snmpGetCmd.Flags().DurationVar(&snmpOpt.timeout, "timeout", 2*time.Second, "how long to wait for a response")
	snmpCmd.AddCommand(snmpGetCmd)
	rootCmd.AddCommand(snmpCmd)
}
