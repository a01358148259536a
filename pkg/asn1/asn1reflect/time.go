package asn1reflect

import (
	"reflect"
	"time"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1map"
)

type timeReflectHandler struct {
}

func (t *timeReflectHandler) bind(r asn1map.Result, rv reflect.Value) error {
	_, v, err := leafValue(r, rv.Type())
	if err != nil {
		return err
	}
	tValue, ok := v.(time.Time)
	if !ok {
		return unexpectedValue(v, rv.Type())
	}
	rv.Set(reflect.ValueOf(tValue))
	return nil
}
