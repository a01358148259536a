package asn1go

import (
	"encoding/hex"
	"math/big"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1core"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1error"
)

//--------------------------------------------------------------------------------------------

// Integer holds the two's complement big endian content octets of an INTEGER
// or ENUMERATED value.
type Integer []byte

func (v Integer) BitSize() int {
	L := len(v)
	if L == 0 {
		return 8 //effectivly an empty byte
	}
	if v[0] == 0xFF { //supeflous leading negative sign
		return L*8 - 1
	}
	if v[0] == 0x00 { //supeflous leading zero
		return L*8 - 1
	}
	return L * 8
}

func (v Integer) String() string {
	if len(v) > 8 {
		return v.Big().String()
	}
	n, err := v.GetInt(64)
	if err != nil {
		return "0x" + hex.EncodeToString(v)
	}
	return v.Big().SetInt64(n).String()
}

// Big returns the value as a big.Int.
func (v Integer) Big() *big.Int {
	n := new(big.Int).SetBytes(v)
	if len(v) > 0 && v[0]&0x80 != 0 {
		// subtract 2^(8*len) to undo the two's complement
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), uint(len(v))*8))
	}
	return n
}

// GetInt returns the value if it fits in a signed integer of the given width.
func (v Integer) GetInt(bits int) (int64, error) {
	if bits > 64 {
		return 0, asn1error.NewErrorf("too many bits for int64")
	}
	if bits%8 != 0 || bits <= 0 {
		return 0, asn1error.NewErrorf("bits must be a multiple of 8")
	}
	if len(v) == 0 {
		return 0, nil
	}
	n := v.Big()
	limit := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
	if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
		return 0, asn1error.NewErrorf("integer is too large for %d bits", bits)
	}
	return n.Int64(), nil
}

func (v *Integer) SetInt(value int64) {
	v.SetBig(big.NewInt(value))
}

// SetBig stores the minimal two's complement encoding of n.
func (v *Integer) SetBig(n *big.Int) {
	if n.Sign() >= 0 {
		b := n.Bytes()
		if len(b) == 0 || b[0]&0x80 != 0 {
			b = append([]byte{0}, b...)
		}
		*v = b
		return
	}
	// -n-1 inverted is the two's complement of n
	b := new(big.Int).Sub(new(big.Int).Neg(n), big.NewInt(1)).Bytes()
	for i := range b {
		b[i] ^= 0xFF
	}
	if len(b) == 0 || b[0]&0x80 == 0 {
		b = append([]byte{0xFF}, b...)
	}
	*v = b
}

func checkMinimalInteger(raw []byte) error {
	if len(raw) == 0 {
		return asn1error.NewUnexpectedError(1, 0, "integer content").WithUnits("byte(s)")
	}
	if len(raw) > 1 && (raw[0] == 0x00 && raw[1]&0x80 == 0 || raw[0] == 0xFF && raw[1]&0x80 != 0) {
		return asn1error.NewErrorf("integer is not minimally encoded")
	}
	return nil
}

func decodeInteger(tag asn1core.Tag, raw []byte) (any, error) {
	if err := checkMinimalInteger(raw); err != nil {
		return nil, err
	}
	v := make(Integer, len(raw))
	copy(v, raw)
	return v, nil
}

func encodeInteger(i any) ([]byte, error) {
	var v Integer
	switch n := i.(type) {
	case Integer:
		if err := checkMinimalInteger(n); err != nil {
			return nil, err
		}
		return n, nil
	case *big.Int:
		v.SetBig(n)
	case int:
		v.SetInt(int64(n))
	case int8:
		v.SetInt(int64(n))
	case int16:
		v.SetInt(int64(n))
	case int32:
		v.SetInt(int64(n))
	case int64:
		v.SetInt(n)
	case uint:
		v.SetBig(new(big.Int).SetUint64(uint64(n)))
	case uint8:
		v.SetInt(int64(n))
	case uint16:
		v.SetInt(int64(n))
	case uint32:
		v.SetInt(int64(n))
	case uint64:
		v.SetBig(new(big.Int).SetUint64(n))
	default:
		return nil, &asn1error.UnsupportedGoType{GoTypeName: goTypeName(i)}
	}
	return v, nil
}
