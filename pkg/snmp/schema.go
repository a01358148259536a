package snmp

import (
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1core"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1schema"
)

// Application tags of the SNMP SMI types.
const (
	TagIPAddress = asn1core.Tag(0)
	TagCounter32 = asn1core.Tag(1)
	TagGauge32   = asn1core.Tag(2)
	TagTimeTicks = asn1core.Tag(3)
	TagOpaque    = asn1core.Tag(4)
	TagCounter64 = asn1core.Tag(6)
)

func application(tag asn1core.Tag, inner asn1schema.Schema) *asn1schema.Tagged {
	return asn1schema.Implicit(tag, inner).WithClass(asn1core.ClassApplication)
}

var varBindsSchema = asn1schema.NewSequenceOf(
	asn1schema.NewSequence(
		asn1schema.Required("name", asn1schema.Universal(asn1core.TagOID)),
		asn1schema.Required("value", &asn1schema.Any{}),
	),
	0, asn1schema.Unbounded,
)

var pduSchema = asn1schema.NewSequence(
	asn1schema.Required("request-id", asn1schema.Universal(asn1core.TagInteger)),
	asn1schema.Required("error-status", asn1schema.Universal(asn1core.TagInteger)),
	asn1schema.Required("error-index", asn1schema.Universal(asn1core.TagInteger)),
	asn1schema.Required("variable-bindings", varBindsSchema),
)

var trapSchema = asn1schema.NewSequence(
	asn1schema.Required("enterprise", asn1schema.Universal(asn1core.TagOID)),
	asn1schema.Required("agent-addr", application(TagIPAddress, asn1schema.Universal(asn1core.TagOctetString))),
	asn1schema.Required("generic-trap", asn1schema.Universal(asn1core.TagInteger)),
	asn1schema.Required("specific-trap", asn1schema.Universal(asn1core.TagInteger)),
	asn1schema.Required("time-stamp", application(TagTimeTicks, asn1schema.Universal(asn1core.TagInteger))),
	asn1schema.Required("variable-bindings", varBindsSchema),
)

// MessageSchema returns the schema of an SNMPv1 or SNMPv2c message.
func MessageSchema() asn1schema.Schema {
	alternatives := []asn1schema.Field{}
	for _, t := range []PDUType{GET, GET_NEXT, RESPONSE, SET, TRAP, GET_BULK, INFORM, TRAP_V2, REPORT} {
		body := pduSchema
		if t == TRAP {
			body = trapSchema
		}
		alternatives = append(alternatives, asn1schema.Required(t.String(), asn1schema.Implicit(asn1core.Tag(t), body)))
	}
	return asn1schema.NewSequence(
		asn1schema.Required("version", asn1schema.Universal(asn1core.TagInteger)),
		asn1schema.Required("community", asn1schema.Universal(asn1core.TagOctetString)),
		asn1schema.Required("data", asn1schema.NewChoice(alternatives...)),
	)
}
