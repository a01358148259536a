package snmp

import (
	"bytes"
	"errors"
	"testing"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1binary"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1core"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1error"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func primitive(t *testing.T, tag asn1core.Tag, v any) *asn1binary.Node {
	t.Helper()
	n, err := asn1go.NewRegistry().NewPrimitive(tag, v)
	require.NoError(t, err)
	return n
}

func varBind(t *testing.T, oid string, value *asn1binary.Node) *asn1binary.Node {
	return asn1binary.NewSequence(primitive(t, asn1core.TagOID, oid), value)
}

func message(t *testing.T, version int, pdu *asn1binary.Node) []byte {
	t.Helper()
	b, err := asn1binary.Marshal(asn1binary.NewSequence(
		primitive(t, asn1core.TagInteger, version),
		primitive(t, asn1core.TagOctetString, "public"),
		pdu,
	))
	require.NoError(t, err)
	return b
}

func response(t *testing.T) []byte {
	pdu := asn1binary.NewConstructed(asn1core.ClassContextSpecific, asn1core.Tag(RESPONSE),
		primitive(t, asn1core.TagInteger, 1234),
		primitive(t, asn1core.TagInteger, 0),
		primitive(t, asn1core.TagInteger, 0),
		asn1binary.NewSequence(
			varBind(t, "1.3.6.1.2.1.1.5.0", primitive(t, asn1core.TagOctetString, "router-1")),
			varBind(t, "1.3.6.1.2.1.2.2.1.10.1", asn1binary.NewPrimitive(asn1core.ClassApplication, TagCounter32, []byte{0x01, 0x00})),
			varBind(t, "1.3.6.1.2.1.1.3.0", asn1binary.NewPrimitive(asn1core.ClassApplication, TagTimeTicks, []byte{0x00, 0xff})),
		),
	)
	return message(t, int(V2c), pdu)
}

func TestDecodeResponse(t *testing.T) {
	msg, err := DecodeFrame(response(t))
	require.NoError(t, err)

	assert.Equal(t, V2c, msg.Version)
	assert.Equal(t, "public", msg.Community)
	assert.Equal(t, RESPONSE, msg.PDU.Type)
	assert.Equal(t, 1234, msg.PDU.RequestID)
	assert.Nil(t, msg.PDU.Trap)
	require.Len(t, msg.PDU.VarBinds, 3)
	assert.Equal(t, "1.3.6.1.2.1.1.5.0", msg.PDU.VarBinds[0].OID.String())

	s, vt, err := DecodeValue(msg.PDU.VarBinds[1].Value)
	require.NoError(t, err)
	assert.Equal(t, CounterValue, vt)
	assert.Equal(t, "256", s)
}

func TestDecodeTrapV1(t *testing.T) {
	pdu := asn1binary.NewConstructed(asn1core.ClassContextSpecific, asn1core.Tag(TRAP),
		primitive(t, asn1core.TagOID, "1.3.6.1.4.1.8072"),
		asn1binary.NewPrimitive(asn1core.ClassApplication, TagIPAddress, []byte{10, 0, 0, 1}),
		primitive(t, asn1core.TagInteger, 6),
		primitive(t, asn1core.TagInteger, 17),
		asn1binary.NewPrimitive(asn1core.ClassApplication, TagTimeTicks, []byte{0x01, 0x00}),
		asn1binary.NewSequence(
			varBind(t, "1.3.6.1.2.1.1.5.0", primitive(t, asn1core.TagOctetString, "router-1")),
		),
	)
	msg, err := DecodeFrame(message(t, int(V1), pdu))
	require.NoError(t, err)

	assert.Equal(t, V1, msg.Version)
	assert.Equal(t, TRAP, msg.PDU.Type)
	require.NotNil(t, msg.PDU.Trap)
	assert.Equal(t, "1.3.6.1.4.1.8072", msg.PDU.Trap.Enterprise.String())
	assert.Equal(t, []byte{10, 0, 0, 1}, msg.PDU.Trap.AgentAddr)
	assert.Equal(t, 6, msg.PDU.Trap.GenericTrap)
	assert.Equal(t, 17, msg.PDU.Trap.SpecificTrap)
	assert.Equal(t, uint32(256), msg.PDU.Trap.TimeStamp)
	assert.Len(t, msg.PDU.VarBinds, 1)
}

func TestDecodeFrameErrors(t *testing.T) {
	notSNMP, err := asn1binary.Marshal(asn1binary.NewSequence(primitive(t, asn1core.TagInteger, 1)))
	require.NoError(t, err)

	_, err = DecodeFrame(notSNMP)
	assert.True(t, errors.Is(err, ErrNotSNMP))

	frame := response(t)
	_, err = DecodeFrame(frame[:len(frame)-3])
	assert.True(t, errors.Is(err, asn1error.ErrTruncatedContent), "got %v", err)
}

func TestWalk(t *testing.T) {
	msg, err := DecodeFrame(response(t))
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, msg.Walk(NewVarBindPrinter(buf)))
	assert.Equal(t, "1.3.6.1.2.1.1.5.0 = String: router-1\n"+
		"1.3.6.1.2.1.2.2.1.10.1 = Counter: 256\n"+
		"1.3.6.1.2.1.1.3.0 = TimeTicks: 255\n", buf.String())

	var seen []string
	flushed := false
	handler := VarBindHandlerFunc(func(vb *VarBind) error {
		if vb == nil {
			flushed = true
			return nil
		}
		seen = append(seen, vb.OID.String())
		return nil
	})
	require.NoError(t, msg.Walk(handler))
	assert.Len(t, seen, 3)
	assert.True(t, flushed)
}

func TestDecodeValue(t *testing.T) {
	tests := []struct {
		name     string
		node     *asn1binary.Node
		expected string
		vt       ValueType
	}{
		{"null", asn1binary.NewPrimitive(asn1core.ClassUniversal, asn1core.TagNull, nil), "", NullValue},
		{"text", asn1binary.NewPrimitive(asn1core.ClassUniversal, asn1core.TagOctetString, []byte("eth0")), "eth0", StringValue},
		{"binary", asn1binary.NewPrimitive(asn1core.ClassUniversal, asn1core.TagOctetString, []byte{0x00, 0x1b, 0x21}), "001b21", StringValue},
		{"negative", asn1binary.NewPrimitive(asn1core.ClassUniversal, asn1core.TagInteger, []byte{0xff}), "-1", IntegerValue},
		{"oid", asn1binary.NewPrimitive(asn1core.ClassUniversal, asn1core.TagOID, []byte{0x2b, 0x06, 0x01}), "1.3.6.1", OidValue},
		{"ip", asn1binary.NewPrimitive(asn1core.ClassApplication, TagIPAddress, []byte{192, 168, 1, 1}), "192.168.1.1", IPValue},
		{"gauge", asn1binary.NewPrimitive(asn1core.ClassApplication, TagGauge32, []byte{0x64}), "100", GaugeValue},
		{"counter64", asn1binary.NewPrimitive(asn1core.ClassApplication, TagCounter64, []byte{0x00, 0xff, 0xff, 0xff, 0xff, 0xff}), "1099511627775", Counter64Value},
		{"opaque", asn1binary.NewPrimitive(asn1core.ClassApplication, TagOpaque, []byte{0x9f, 0x78}), "9f78", OpaqueValue},
		{"noSuchObject", asn1binary.NewPrimitive(asn1core.ClassContextSpecific, 0, nil), "", NoSuchObjectValue},
		{"noSuchInstance", asn1binary.NewPrimitive(asn1core.ClassContextSpecific, 1, nil), "", NoSuchInstanceValue},
		{"endOfMibView", asn1binary.NewPrimitive(asn1core.ClassContextSpecific, 2, nil), "", EndOfMibViewValue},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s, vt, err := DecodeValue(test.node)
			require.NoError(t, err)
			assert.Equal(t, test.expected, s)
			assert.Equal(t, test.vt, vt)
		})
	}

	for _, bad := range []*asn1binary.Node{
		nil,
		asn1binary.NewPrimitive(asn1core.ClassApplication, TagIPAddress, []byte{1, 2, 3}),
		asn1binary.NewPrimitive(asn1core.ClassPrivate, 1, nil),
		asn1binary.NewSequence(),
	} {
		_, _, err := DecodeValue(bad)
		assert.Error(t, err, "%v", bad)
	}
}

func TestPDUTypeString(t *testing.T) {
	assert.Equal(t, "Response", RESPONSE.String())
	assert.Equal(t, "GetBulkRequest", GET_BULK.String())
	assert.Equal(t, "v2c", V2c.String())
}
