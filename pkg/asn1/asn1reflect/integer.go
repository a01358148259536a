package asn1reflect

import (
	"math/big"
	"reflect"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1error"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1go"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1map"
)

func integerOf(r asn1map.Result, rType reflect.Type) (asn1go.Integer, error) {
	_, v, err := leafValue(r, rType)
	if err != nil {
		return nil, err
	}
	n, ok := v.(asn1go.Integer)
	if !ok {
		return nil, unexpectedValue(v, rType)
	}
	return n, nil
}

type integerReflectHandler struct {
}

func (h *integerReflectHandler) bind(r asn1map.Result, rv reflect.Value) error {
	n, err := integerOf(r, rv.Type())
	if err != nil {
		return err
	}
	i, err := n.GetInt(rv.Type().Bits())
	if err != nil {
		return err
	}
	rv.SetInt(i)
	return nil
}

type unsignedReflectHandler struct {
}

func (h *unsignedReflectHandler) bind(r asn1map.Result, rv reflect.Value) error {
	n, err := integerOf(r, rv.Type())
	if err != nil {
		return err
	}
	b := n.Big()
	if b.Sign() < 0 || b.BitLen() > rv.Type().Bits() {
		return asn1error.NewErrorf("%s does not fit in %s", b, rv.Type()).WithType(asn1error.StructuralError)
	}
	rv.SetUint(b.Uint64())
	return nil
}

type bigIntReflectHandler struct {
}

func (h *bigIntReflectHandler) bind(r asn1map.Result, rv reflect.Value) error {
	n, err := integerOf(r, rv.Type())
	if err != nil {
		return err
	}
	rv.Set(reflect.ValueOf(new(big.Int).Set(n.Big())))
	return nil
}
