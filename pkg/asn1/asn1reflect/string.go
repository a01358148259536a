package asn1reflect

import (
	"fmt"
	"reflect"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1go"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1map"
)

type stringReflectHandler struct {
}

func (s *stringReflectHandler) bind(r asn1map.Result, rv reflect.Value) error {
	_, v, err := leafValue(r, rv.Type())
	if err != nil {
		return err
	}
	switch v := v.(type) {
	case string:
		rv.SetString(v)
	case asn1go.OctetString:
		rv.SetString(string(v))
	case fmt.Stringer:
		rv.SetString(v.String())
	default:
		return unexpectedValue(v, rv.Type())
	}
	return nil
}

// bytesReflectHandler takes the content octets of any primitive.
type bytesReflectHandler struct {
}

func (s *bytesReflectHandler) bind(r asn1map.Result, rv reflect.Value) error {
	leaf, ok := r.(asn1map.Leaf)
	if !ok || leaf.Node.Constructed {
		return mismatch(r, rv.Type())
	}
	b := make([]byte, len(leaf.Node.Content))
	copy(b, leaf.Node.Content)
	rv.SetBytes(b)
	return nil
}
