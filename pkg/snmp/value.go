package snmp

import (
	"encoding/hex"
	"net"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1binary"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1core"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1error"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1go"
)

type ValueType int

const (
	NullValue ValueType = iota
	StringValue
	CounterValue
	GaugeValue
	TimeTicksValue
	OidValue
	IntegerValue
	UnsignedValue
	IPValue
	OpaqueValue
	Counter64Value
	NoSuchObjectValue
	NoSuchInstanceValue
	EndOfMibViewValue
)

func (t ValueType) String() string {
	switch t {
	case NullValue:
		return "Null"
	case StringValue:
		return "String"
	case CounterValue:
		return "Counter"
	case GaugeValue:
		return "Gauge"
	case TimeTicksValue:
		return "TimeTicks"
	case OidValue:
		return "OID"
	case IntegerValue:
		return "Integer"
	case UnsignedValue:
		return "Unsigned"
	case IPValue:
		return "IP"
	case OpaqueValue:
		return "Opaque"
	case Counter64Value:
		return "Counter64"
	case NoSuchObjectValue:
		return "NoSuchObject"
	case NoSuchInstanceValue:
		return "NoSuchInstance"
	case EndOfMibViewValue:
		return "EndOfMibView"
	}
	return "Unknown"
}

// DecodeValue renders the value of a varbind as text together with its SMI
// type.
func DecodeValue(v *asn1binary.Node) (string, ValueType, error) {
	if v == nil {
		return "", NullValue, asn1error.NewErrorf("varbind has no value")
	}
	if v.Constructed {
		return "", NullValue, asn1error.NewErrorf("unsupported constructed value %s", v)
	}
	switch v.Class {
	case asn1core.ClassUniversal:
		switch v.Tag {
		case asn1core.TagNull:
			return "", NullValue, nil
		case asn1core.TagOctetString:
			return octetsToString(v.Content), StringValue, nil
		case asn1core.TagOID:
			oid, err := asn1go.DecodeOID(v.Content)
			if err != nil {
				return "", OidValue, err
			}
			return oid.String(), OidValue, nil
		case asn1core.TagInteger:
			s, err := integerString(v.Content)
			return s, IntegerValue, err
		}
	case asn1core.ClassApplication:
		switch v.Tag {
		case TagIPAddress:
			if len(v.Content) != net.IPv4len {
				return "", IPValue, asn1error.NewUnexpectedError(net.IPv4len, len(v.Content), "IpAddress length").WithUnits("byte(s)").WithKind(asn1error.ErrInvalidValue)
			}
			return net.IP(v.Content).String(), IPValue, nil
		case TagCounter32:
			s, err := integerString(v.Content)
			return s, CounterValue, err
		case TagCounter64:
			s, err := integerString(v.Content)
			return s, Counter64Value, err
		case TagGauge32:
			s, err := integerString(v.Content)
			return s, GaugeValue, err
		case TagTimeTicks:
			s, err := integerString(v.Content)
			return s, TimeTicksValue, err
		case TagOpaque:
			return hex.EncodeToString(v.Content), OpaqueValue, nil
		}
	case asn1core.ClassContextSpecific:
		switch v.Tag {
		case 0:
			return "", NoSuchObjectValue, nil
		case 1:
			return "", NoSuchInstanceValue, nil
		case 2:
			return "", EndOfMibViewValue, nil
		}
	}
	return "", NullValue, asn1error.NewErrorf("unsupported value type %s", v.Identifier)
}

func integerString(content []byte) (string, error) {
	v, err := asn1go.NewRegistry().DecodeValue(asn1core.TagInteger, content)
	if err != nil {
		return "", err
	}
	return v.(asn1go.Integer).String(), nil
}

// octetsToString returns printable text as is and anything else as hex.
func octetsToString(b []byte) string {
	if !utf8.Valid(b) {
		return hex.EncodeToString(b)
	}
	s := string(b)
	if strings.IndexFunc(s, func(r rune) bool { return !unicode.IsPrint(r) && !unicode.IsSpace(r) }) >= 0 {
		return hex.EncodeToString(b)
	}
	return s
}
