package asn1reflect

import (
	"reflect"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1map"
)

type booleanReflectHandler struct {
}

func (b *booleanReflectHandler) bind(r asn1map.Result, rv reflect.Value) error {
	_, v, err := leafValue(r, rv.Type())
	if err != nil {
		return err
	}
	bValue, ok := v.(bool)
	if !ok {
		return unexpectedValue(v, rv.Type())
	}
	rv.SetBool(bValue)
	return nil
}
