package asn1reflect

import (
	"reflect"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1error"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1map"
)

// --------------------------------------------
type sliceReflectHandler struct {
}

func (srh *sliceReflectHandler) bind(r asn1map.Result, rv reflect.Value) error {
	list, ok := r.(asn1map.List)
	if !ok {
		return mismatch(r, rv.Type())
	}
	slice := reflect.MakeSlice(rv.Type(), len(list), len(list))
	for i, elem := range list {
		if err := bindValue(elem, slice.Index(i)); err != nil {
			return asn1error.NewErrorf("element %d: %w", i, err).WithType(asn1error.StructuralError)
		}
	}
	rv.Set(slice)
	return nil
}
