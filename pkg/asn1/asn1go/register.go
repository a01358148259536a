package asn1go

import (
	"sync"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1binary"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1core"
)

func funcs(decode asn1binary.DecodeValueFunc, encode asn1binary.EncodeValueFunc) asn1binary.ValueCodec {
	return asn1binary.ValueCodecFuncs{Decode: decode, Encode: encode}
}

// Register adds codecs for the universal primitive types to b.
func Register(b *asn1binary.RegistryBuilder) error {
	entries := []struct {
		tag   asn1core.Tag
		name  string
		codec asn1binary.ValueCodec
	}{
		{asn1core.TagBoolean, "go.bool", funcs(decodeBoolean, encodeBoolean)},
		{asn1core.TagInteger, "go.Integer", funcs(decodeInteger, encodeInteger)},
		{asn1core.TagEnum, "go.Integer", funcs(decodeInteger, encodeInteger)},
		{asn1core.TagBitString, "go.BitString", funcs(decodeBitString, encodeBitString)},
		{asn1core.TagOctetString, "go.OctetString", funcs(decodeOctetString, encodeOctetString)},
		{asn1core.TagNull, "go.Null", funcs(decodeNull, encodeNull)},
		{asn1core.TagOID, "go.OID", funcs(decodeOID, encodeOID)},
		{asn1core.TagUTF8String, "go.string", stringCodec{utf8: true}},
		{asn1core.TagNumericString, "go.string", stringCodec{charset: NumericCharSet}},
		{asn1core.TagPrintableString, "go.string", stringCodec{charset: PrintableCharSet}},
		{asn1core.TagT61String, "go.string", stringCodec{}},
		{asn1core.TagIA5String, "go.string", stringCodec{charset: IA5CharSet}},
		{asn1core.TagVisibleString, "go.string", stringCodec{charset: VisibleCharSet}},
		{asn1core.TagGeneralString, "go.string", stringCodec{}},
		{asn1core.TagGraphicString, "go.string", stringCodec{}},
		{asn1core.TagBMPString, "go.string", funcs(decodeBMPString, encodeBMPString)},
		{asn1core.TagUniversalString, "go.string", funcs(decodeUniversalString, encodeUniversalString)},
		{asn1core.TagUTCTime, "go.time.Time", funcs(decodeUTCTime, encodeUTCTime)},
		{asn1core.TagGeneralizedTime, "go.time.Time", funcs(decodeGeneralizedTime, encodeGeneralizedTime)},
	}
	for _, e := range entries {
		if err := b.Register(e.tag, e.name, e.codec); err != nil {
			return err
		}
	}
	return nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *asn1binary.Registry
)

// NewRegistry returns a registry holding every codec in this package. The
// registry is built once and shared.
func NewRegistry() *asn1binary.Registry {
	defaultOnce.Do(func() {
		b := asn1binary.NewRegistryBuilder()
		if err := Register(b); err != nil {
			panic(err)
		}
		defaultRegistry = b.Build()
	})
	return defaultRegistry
}
