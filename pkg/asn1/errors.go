package asn1

import (
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1error"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1schema"
)

func errNoMatch(schema asn1schema.Schema) error {
	return asn1error.NewErrorf("asn1: data does not match %s", schema).WithType(asn1error.StructuralError)
}
