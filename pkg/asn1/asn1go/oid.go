package asn1go

import (
	"strconv"
	"strings"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1core"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1error"
)

type OID []int

// AppendEncoded appends the content octets of the OID to b.
func (v OID) AppendEncoded(b []byte) ([]byte, error) {
	if len(v) < 2 {
		return nil, asn1error.NewUnexpectedError(2, len(v), "OID Prefix").WithUnits("elements")
	}
	if v[0] < 0 || v[0] > 2 || v[1] < 0 || (v[0] < 2 && v[1] >= 40) {
		return nil, asn1error.NewErrorf("OID prefix %d.%d is out of range", v[0], v[1])
	}
	b = appendBase128(b, v[0]*40+v[1])
	for i := 2; i < len(v); i++ {
		n := v[i]
		if n < 0 {
			return nil, asn1error.NewErrorf("OID element %d is negative", n)
		}
		b = appendBase128(b, n)
	}
	return b, nil
}

func appendBase128(b []byte, n int) []byte {
	if n < 128 {
		return append(b, byte(n))
	}
	var reverse [10]byte
	j := 0
	for n > 0 {
		reverse[j] = byte(n & 0x7F)
		n >>= 7
		j++
	}
	for j--; j >= 0; j-- {
		if j > 0 {
			b = append(b, reverse[j]|0x80)
		} else {
			b = append(b, reverse[j])
		}
	}
	return b
}

// DecodeOID parses the content octets of an OBJECT IDENTIFIER.
func DecodeOID(bytes []byte) (OID, error) {
	if len(bytes) < 1 {
		return nil, asn1error.NewUnexpectedError(1, len(bytes), "OID Prefix").WithUnits("bytes")
	}
	v := make(OID, 0, 10)
	for i := 0; i < len(bytes); {
		if bytes[i] == 0x80 {
			return nil, asn1error.NewErrorf("OID element at byte %d has a leading zero", i)
		}
		n := 0
		endOfOID := false
		for ; i < len(bytes); i++ {
			if n > (1<<(strconv.IntSize-1)-1)>>7 {
				return nil, asn1error.NewErrorf("OID element at byte %d overflows", i)
			}
			n = n<<7 + int(bytes[i]&0x7F)
			if bytes[i]&0x80 == 0 {
				endOfOID = true
				i++
				break
			}
		}
		if !endOfOID {
			return nil, asn1error.NewErrorf("OID element %d is truncated", n)
		}
		if len(v) == 0 {
			switch {
			case n < 40:
				v = append(v, 0, n)
			case n < 80:
				v = append(v, 1, n-40)
			default:
				v = append(v, 2, n-80)
			}
			continue
		}
		v = append(v, n)
	}
	return v, nil
}

func (o OID) String() string {
	sb := strings.Builder{}
	for i, v := range o {
		if i != 0 {
			sb.WriteString(".")
		}
		sb.WriteString(strconv.Itoa(v))
	}
	return sb.String()
}

// Equal reports whether both OIDs have the same elements.
func (o OID) Equal(other OID) bool {
	if len(o) != len(other) {
		return false
	}
	for i := range o {
		if o[i] != other[i] {
			return false
		}
	}
	return true
}

// ParseOID parses the dotted form, eg "1.3.6.1.2.1".
func ParseOID(s string) (OID, error) {
	parts := strings.Split(strings.TrimPrefix(s, "."), ".")
	oid := make(OID, 0, len(parts))
	for i, part := range parts {
		if part == "" {
			return nil, asn1error.NewErrorf("OID element %d of %q is empty", i, s)
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, asn1error.NewErrorf("OID element %d of %q is not a number", i, s)
		}
		oid = append(oid, n)
	}
	return oid, nil
}

func decodeOID(tag asn1core.Tag, raw []byte) (any, error) {
	return DecodeOID(raw)
}

func encodeOID(i any) ([]byte, error) {
	switch v := i.(type) {
	case OID:
		return v.AppendEncoded(nil)
	case []int:
		return OID(v).AppendEncoded(nil)
	case string:
		oid, err := ParseOID(v)
		if err != nil {
			return nil, err
		}
		return oid.AppendEncoded(nil)
	}
	return nil, &asn1error.UnsupportedGoType{GoTypeName: goTypeName(i)}
}
