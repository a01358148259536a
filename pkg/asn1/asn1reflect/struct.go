package asn1reflect

import (
	"reflect"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1error"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1map"
)

type fieldsHelper struct {
	index []int
	names []string
}

var fieldHelperCache map[reflect.Type]*fieldsHelper

func fieldHelperFor(rType reflect.Type) *fieldsHelper {
	lock.RLock()
	helper, ok := fieldHelperCache[rType]
	lock.RUnlock()
	if ok {
		return helper
	}
	helper = &fieldsHelper{}

	nFields := rType.NumField()
	for i := 0; i < nFields; i++ {
		field := rType.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Tag.Get("asn1")
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}
		helper.index = append(helper.index, i)
		helper.names = append(helper.names, name)
	}

	lock.Lock()
	defer lock.Unlock()
	if fieldHelperCache == nil {
		fieldHelperCache = make(map[reflect.Type]*fieldsHelper)
	}
	fieldHelperCache[rType] = helper
	return helper
}

// structReflectHandler binds Fields by name. Struct fields without a bound
// member keep their zero value.
type structReflectHandler struct {
}

func (sfh *structReflectHandler) bind(r asn1map.Result, rv reflect.Value) error {
	fields, ok := r.(asn1map.Fields)
	if !ok {
		return mismatch(r, rv.Type())
	}
	helper := fieldHelperFor(rv.Type())
	for i, name := range helper.names {
		value, ok := fields.Get(name)
		if !ok {
			continue
		}
		if err := bindValue(value, rv.Field(helper.index[i])); err != nil {
			return asn1error.NewErrorf("field %s: %w", name, err).WithType(asn1error.StructuralError)
		}
	}
	return nil
}
