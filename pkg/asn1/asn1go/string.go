package asn1go

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1core"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1error"
)

// stringCodec handles the single octet string types, optionally restricted
// to a character set.
type stringCodec struct {
	charset *CharSet
	utf8    bool
}

func (c stringCodec) validate(b []byte) error {
	if c.utf8 && !utf8.Valid(b) {
		return asn1error.NewErrorf("invalid UTF-8")
	}
	if c.charset != nil {
		return c.charset.ValidateBytes(b)
	}
	return nil
}

func (c stringCodec) DecodeValue(tag asn1core.Tag, raw []byte) (any, error) {
	if err := c.validate(raw); err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (c stringCodec) EncodeValue(i any) ([]byte, error) {
	var b []byte
	switch v := i.(type) {
	case string:
		b = []byte(v)
	case []byte:
		b = v
	case fmt.Stringer:
		b = []byte(v.String())
	default:
		return nil, &asn1error.UnsupportedGoType{GoTypeName: goTypeName(i)}
	}
	if err := c.validate(b); err != nil {
		return nil, err
	}
	return b, nil
}

//--------------------------------------------------------------------------------------------

func decodeBMPString(tag asn1core.Tag, raw []byte) (any, error) {
	if len(raw)%2 != 0 {
		return nil, asn1error.NewErrorf("BMPString has an odd length %d", len(raw))
	}
	units := make([]uint16, len(raw)/2)
	for i := range units {
		units[i] = binary.BigEndian.Uint16(raw[i*2:])
	}
	return string(utf16.Decode(units)), nil
}

func encodeBMPString(i any) ([]byte, error) {
	s, ok := i.(string)
	if !ok {
		return nil, &asn1error.UnsupportedGoType{GoTypeName: goTypeName(i)}
	}
	b := make([]byte, 0, len(s)*2)
	for _, r := range s {
		if r > 0xFFFF {
			return nil, asn1error.NewErrorf("character %q is outside the basic multilingual plane", r)
		}
		b = binary.BigEndian.AppendUint16(b, uint16(r))
	}
	return b, nil
}

func decodeUniversalString(tag asn1core.Tag, raw []byte) (any, error) {
	if len(raw)%4 != 0 {
		return nil, asn1error.NewErrorf("UniversalString length %d is not a multiple of 4", len(raw))
	}
	runes := make([]rune, len(raw)/4)
	for i := range runes {
		r := rune(binary.BigEndian.Uint32(raw[i*4:]))
		if !utf8.ValidRune(r) {
			return nil, asn1error.NewErrorf("invalid character 0x%X", uint32(r))
		}
		runes[i] = r
	}
	return string(runes), nil
}

func encodeUniversalString(i any) ([]byte, error) {
	s, ok := i.(string)
	if !ok {
		return nil, &asn1error.UnsupportedGoType{GoTypeName: goTypeName(i)}
	}
	b := make([]byte, 0, len(s)*4)
	for _, r := range s {
		b = binary.BigEndian.AppendUint32(b, uint32(r))
	}
	return b, nil
}

func goTypeName(i any) string {
	return fmt.Sprintf("%T", i)
}
