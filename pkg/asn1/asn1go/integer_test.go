package asn1go

import (
	"math/big"
	"strconv"
	"testing"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type IntegerTest struct {
	Bytes  []byte
	String string
}

func TestInteger(t *testing.T) {
	integerTests := []IntegerTest{
		{Bytes: []byte{0x00}, String: "0"},
		{Bytes: []byte{0x01}, String: "1"},
		{Bytes: []byte{0x7F}, String: "127"},
		{Bytes: []byte{0x00, 0x80}, String: "128"},
		{Bytes: []byte{0x80}, String: "-128"},
		{Bytes: []byte{0xFF, 0x7F}, String: "-129"},
		{Bytes: []byte{0xFF}, String: "-1"},
		{Bytes: []byte{0x07, 0xE4}, String: "2020"},
	}
	for _, test := range integerTests {
		t.Run("decode to "+test.String, func(t *testing.T) {
			v, err := decodeInteger(asn1core.TagInteger, test.Bytes)
			require.NoError(t, err)
			assert.Equal(t, test.String, v.(Integer).String())
		})
		t.Run("encode "+test.String, func(t *testing.T) {
			var v Integer
			n, err := strconv.ParseInt(test.String, 10, 64)
			require.NoError(t, err)
			v.SetInt(n)
			assert.Equal(t, test.Bytes, []byte(v))
		})
	}
}

func TestIntegerRejectsNonMinimal(t *testing.T) {
	for _, raw := range [][]byte{{}, {0x00, 0x01}, {0xFF, 0x80}} {
		_, err := decodeInteger(asn1core.TagInteger, raw)
		assert.Error(t, err, "% X", raw)
	}
}

func TestIntegerGetInt(t *testing.T) {
	v := Integer{0x01, 0x00}
	n, err := v.GetInt(16)
	require.NoError(t, err)
	assert.Equal(t, int64(256), n)

	_, err = v.GetInt(8)
	assert.Error(t, err)

	_, err = v.GetInt(12)
	assert.Error(t, err)
}

func TestIntegerBig(t *testing.T) {
	n, ok := new(big.Int).SetString("-123456789012345678901234567890", 10)
	require.True(t, ok)
	b, err := encodeInteger(n)
	require.NoError(t, err)
	v, err := decodeInteger(asn1core.TagInteger, b)
	require.NoError(t, err)
	assert.Equal(t, 0, n.Cmp(v.(Integer).Big()))
	assert.Equal(t, n.String(), v.(Integer).String())
}
