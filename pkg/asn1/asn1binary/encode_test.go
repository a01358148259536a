package asn1binary

import (
	"bytes"
	"testing"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1core"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name     string
		node     *Node
		expected []byte
	}{
		{"null", NewPrimitive(asn1core.ClassUniversal, asn1core.TagNull, nil), []byte{0x05, 0x00}},
		{"integer", NewPrimitive(asn1core.ClassUniversal, asn1core.TagInteger, []byte{0x05}), []byte{0x02, 0x01, 0x05}},
		{"empty sequence", NewSequence(), []byte{0x30, 0x00}},
		{
			"sequence",
			NewSequence(
				NewPrimitive(asn1core.ClassUniversal, asn1core.TagInteger, []byte{0x01}),
				NewPrimitive(asn1core.ClassUniversal, asn1core.TagBoolean, []byte{0xFF}),
			),
			[]byte{0x30, 0x06, 0x02, 0x01, 0x01, 0x01, 0x01, 0xFF},
		},
		{
			"explicit",
			NewExplicit(0, NewSet()),
			[]byte{0xA0, 0x02, 0x31, 0x00},
		},
		{
			"indefinite",
			NewIndefinite(asn1core.ClassUniversal, asn1core.TagSequence, NewPrimitive(asn1core.ClassUniversal, asn1core.TagNull, nil)),
			[]byte{0x30, 0x80, 0x05, 0x00, 0x00, 0x00},
		},
		{"high tag", NewPrimitive(asn1core.ClassApplication, 128, []byte{0x01}), []byte{0x5F, 0x81, 0x00, 0x01, 0x01}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b, err := Marshal(test.node)
			require.NoError(t, err)
			assert.Equal(t, test.expected, b)
			assert.Equal(t, len(b), test.node.EncodedLen())
		})
	}
}

func TestEncodeLongLength(t *testing.T) {
	node := NewPrimitive(asn1core.ClassUniversal, asn1core.TagOctetString, bytes.Repeat([]byte{0x01}, 256))
	b, err := Marshal(node)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x04, 0x82, 0x01, 0x00}, b[:4])
	assert.Len(t, b, 260)
}

func TestEncodeRecomputesLength(t *testing.T) {
	node := NewPrimitive(asn1core.ClassUniversal, asn1core.TagOctetString, []byte{0x01})
	node.Length = ContentLength{Form: LengthLong, Length: 99}
	b, err := Marshal(node)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x04, 0x01, 0x01}, b)
}

func TestEncodeErrors(t *testing.T) {
	primitiveWithChildren := NewPrimitive(asn1core.ClassUniversal, asn1core.TagInteger, nil)
	primitiveWithChildren.Children = []*Node{NewSequence()}

	constructedWithContent := NewSequence()
	constructedWithContent.Content = []byte{0x01}

	indefinitePrimitive := NewPrimitive(asn1core.ClassUniversal, asn1core.TagOctetString, nil)
	indefinitePrimitive.Length = IndefiniteLength()

	valueWithoutRegistry := &Node{Identifier: Identifier{Tag: asn1core.TagInteger}, Value: 5}

	tests := []struct {
		name string
		node *Node
		kind error
	}{
		{"primitive with children", primitiveWithChildren, asn1error.ErrInvalidValue},
		{"constructed with content", constructedWithContent, asn1error.ErrInvalidValue},
		{"indefinite primitive", indefinitePrimitive, asn1error.ErrMalformedLength},
		{"value without registry", valueWithoutRegistry, asn1error.ErrInvalidValue},
		{"nested", NewSequence(primitiveWithChildren), asn1error.ErrInvalidValue},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Marshal(test.node)
			assert.ErrorIs(t, err, test.kind)
		})
	}
	_, err := Marshal(nil)
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	inputs := [][]byte{
		{0x05, 0x00},
		{0x30, 0x06, 0x02, 0x01, 0x01, 0x04, 0x01, 0x41},
		{0xA0, 0x05, 0x31, 0x03, 0x01, 0x01, 0x00},
		{0x30, 0x80, 0x02, 0x01, 0x01, 0x30, 0x80, 0x05, 0x00, 0x00, 0x00, 0x00, 0x00},
		{0x7F, 0x81, 0x00, 0x03, 0x05, 0x01, 0x00},
		append([]byte{0x04, 0x82, 0x01, 0x00}, bytes.Repeat([]byte{0xAB}, 256)...),
	}
	for _, input := range inputs {
		var d Decoder
		node, _, err := d.Decode(input, 0)
		require.NoError(t, err)
		b, err := Marshal(node)
		require.NoError(t, err)
		assert.Equal(t, input, b)

		back, _, err := d.Decode(b, 0)
		require.NoError(t, err)
		assert.True(t, node.Equal(back))
	}
}

func TestRoundTripNormalisesLength(t *testing.T) {
	var d Decoder
	node, _, err := d.Decode([]byte{0x30, 0x83, 0x00, 0x00, 0x04, 0x02, 0x81, 0x01, 0x07}, 0)
	require.NoError(t, err)
	b, err := Marshal(node)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x30, 0x03, 0x02, 0x01, 0x07}, b)

	der := Decoder{Rules: DER}
	_, _, err = der.Decode(b, 0)
	assert.NoError(t, err)
}

func TestEncodeWithRegistry(t *testing.T) {
	b := NewRegistryBuilder()
	require.NoError(t, b.Register(asn1core.TagBoolean, "bool", ValueCodecFuncs{
		Decode: func(tag asn1core.Tag, raw []byte) (any, error) { return raw[0] != 0, nil },
		Encode: func(v any) ([]byte, error) {
			if v.(bool) {
				return []byte{0xFF}, nil
			}
			return []byte{0x00}, nil
		},
	}))
	e := Encoder{Registry: b.Build()}
	node := &Node{Identifier: Identifier{Tag: asn1core.TagBoolean}, Value: true}
	out, err := e.Encode(NewSequence(node))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x30, 0x03, 0x01, 0x01, 0xFF}, out)
}
