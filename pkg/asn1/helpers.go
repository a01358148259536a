// Package asn1 ties the codec packages together for the common case of
// decoding a buffer and matching it against a schema.
package asn1

import (
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1binary"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1go"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1map"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1reflect"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1schema"
)

// DefaultRegistry returns the registry of all universal value codecs.
func DefaultRegistry() *asn1binary.Registry {
	return asn1go.NewRegistry()
}

// NewDecoder returns a decoder for rules that fills in node values.
func NewDecoder(rules asn1binary.Rules) *asn1binary.Decoder {
	return &asn1binary.Decoder{Rules: rules, Registry: DefaultRegistry()}
}

// DecodeAndMap decodes the first TLV of data as BER and matches it against
// schema. ok is false when the TLV does not have the shape of schema.
func DecodeAndMap(data []byte, schema asn1schema.Schema, options ...asn1map.Option) (result asn1map.Result, ok bool, err error) {
	node, _, err := NewDecoder(asn1binary.BER).Decode(data, 0)
	if err != nil {
		return nil, false, err
	}
	return asn1map.Map(node, schema, options...)
}

// Unmarshal decodes data, matches it against schema and binds the result
// into v. A shape mismatch is reported as an error.
func Unmarshal(data []byte, schema asn1schema.Schema, v any, options ...asn1map.Option) error {
	result, ok, err := DecodeAndMap(data, schema, options...)
	if err != nil {
		return err
	}
	if !ok {
		return errNoMatch(schema)
	}
	return asn1reflect.Bind(result, v)
}
