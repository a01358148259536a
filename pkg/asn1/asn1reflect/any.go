package asn1reflect

import (
	"reflect"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1map"
)

// anyReflectHandler fills interface values: a Leaf becomes its decoded value
// (or the node itself when it has none), Fields a map[string]any and List a
// []any.
type anyReflectHandler struct {
}

func (a *anyReflectHandler) bind(r asn1map.Result, rv reflect.Value) error {
	v, err := natural(r, rv.Type())
	if err != nil {
		return err
	}
	if v == nil {
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	}
	reflected := reflect.ValueOf(v)
	if !reflected.Type().AssignableTo(rv.Type()) {
		return unexpectedValue(v, rv.Type())
	}
	rv.Set(reflected)
	return nil
}

func natural(r asn1map.Result, rType reflect.Type) (any, error) {
	switch r := r.(type) {
	case asn1map.Leaf:
		node, v, err := leafValue(r, rType)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return node, nil
		}
		return v, nil
	case asn1map.Fields:
		m := make(map[string]any, len(r))
		for _, field := range r {
			v, err := natural(field.Value, rType)
			if err != nil {
				return nil, err
			}
			m[field.Name] = v
		}
		return m, nil
	case asn1map.List:
		l := make([]any, len(r))
		for i, elem := range r {
			v, err := natural(elem, rType)
			if err != nil {
				return nil, err
			}
			l[i] = v
		}
		return l, nil
	}
	return nil, nil
}

// valueReflectHandler assigns a decoded value of exactly the target type,
// eg asn1go.OID.
type valueReflectHandler struct {
}

func (h *valueReflectHandler) bind(r asn1map.Result, rv reflect.Value) error {
	_, v, err := leafValue(r, rv.Type())
	if err != nil {
		return err
	}
	if v == nil || reflect.TypeOf(v) != rv.Type() {
		return unexpectedValue(v, rv.Type())
	}
	rv.Set(reflect.ValueOf(v))
	return nil
}

type nodeReflectHandler struct {
}

func (h *nodeReflectHandler) bind(r asn1map.Result, rv reflect.Value) error {
	leaf, ok := r.(asn1map.Leaf)
	if !ok {
		return mismatch(r, rv.Type())
	}
	rv.Set(reflect.ValueOf(leaf.Node))
	return nil
}

type resultReflectHandler struct {
}

func (h *resultReflectHandler) bind(r asn1map.Result, rv reflect.Value) error {
	rv.Set(reflect.ValueOf(&r).Elem())
	return nil
}

type pointerReflectHandler struct {
}

func (h *pointerReflectHandler) bind(r asn1map.Result, rv reflect.Value) error {
	if rv.IsNil() {
		rv.Set(reflect.New(rv.Type().Elem()))
	}
	return bindValue(r, rv.Elem())
}
