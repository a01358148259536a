package asn1go

import (
	"encoding/hex"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1core"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1error"
)

type OctetString []byte

func (v OctetString) String() string {
	return hex.EncodeToString(v)
}

func decodeOctetString(tag asn1core.Tag, raw []byte) (any, error) {
	v := make(OctetString, len(raw))
	copy(v, raw)
	return v, nil
}

func encodeOctetString(i any) ([]byte, error) {
	switch v := i.(type) {
	case OctetString:
		return v, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	}
	return nil, &asn1error.UnsupportedGoType{GoTypeName: goTypeName(i)}
}

//--------------------------------------------------------------------------------------------

// BitString is a BIT STRING value. Bits past BitLength in the last octet are
// zero.
type BitString struct {
	Bytes     []byte
	BitLength int
}

// At returns the bit at index i, counting from the most significant bit of the
// first octet.
func (v BitString) At(i int) int {
	if i < 0 || i >= v.BitLength {
		return 0
	}
	return int(v.Bytes[i/8]>>(7-uint(i%8))) & 1
}

func (v BitString) String() string {
	b := make([]byte, v.BitLength)
	for i := range b {
		b[i] = '0' + byte(v.At(i))
	}
	return "'" + string(b) + "'B"
}

func decodeBitString(tag asn1core.Tag, raw []byte) (any, error) {
	if len(raw) == 0 {
		return nil, asn1error.NewUnexpectedError(1, 0, "bit string content").WithUnits("byte(s)")
	}
	unused := int(raw[0])
	if unused > 7 || (len(raw) == 1 && unused != 0) {
		return nil, asn1error.NewErrorf("bit string has %d unused bits in %d byte(s)", unused, len(raw)-1)
	}
	v := BitString{Bytes: make([]byte, len(raw)-1), BitLength: (len(raw)-1)*8 - unused}
	copy(v.Bytes, raw[1:])
	return v, nil
}

func encodeBitString(i any) ([]byte, error) {
	v, ok := i.(BitString)
	if !ok {
		return nil, &asn1error.UnsupportedGoType{GoTypeName: goTypeName(i)}
	}
	need := (v.BitLength + 7) / 8
	if need > len(v.Bytes) {
		return nil, asn1error.NewUnexpectedError(need, len(v.Bytes), "bit string bytes").WithUnits("byte(s)")
	}
	b := make([]byte, 1+need)
	b[0] = byte(need*8 - v.BitLength)
	copy(b[1:], v.Bytes[:need])
	if need > 0 {
		b[need] &= 0xFF << b[0]
	}
	return b, nil
}
