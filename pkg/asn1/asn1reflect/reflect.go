package asn1reflect

import (
	"math/big"
	"reflect"
	"sync"
	"time"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1binary"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1core"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1error"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1go"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1map"
)

// Bind copies a mapped result into the value v points to.
//
// Fields bind onto structs, matching the asn1 field tag or else the Go field
// name; List binds onto slices; Leaf binds onto scalars from the decoded
// value of the node, decoding it with the default registry when the node was
// relabelled by implicit tagging.
func Bind(r asn1map.Result, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return asn1error.NewErrorf("asn1: Bind needs a non nil pointer, got %T", v).WithType(asn1error.StructuralError)
	}
	return bindValue(r, rv.Elem())
}

func bindValue(r asn1map.Result, rv reflect.Value) error {
	if !rv.CanSet() {
		return asn1error.NewErrorf("cannot bind into a non-settable value - %s", rv.Type().String()).WithType(asn1error.StructuralError)
	}
	handler, err := getHandlerFor(rv.Type())
	if err != nil {
		return err
	}
	return handler.bind(r, rv)
}

type reflectHandler interface {
	bind(r asn1map.Result, rv reflect.Value) error
}

var lock sync.RWMutex
var handlerTypeCache map[reflect.Type]reflectHandler
var mapReflectHandler [32]reflectHandler

func init() {
	mapReflectHandler[reflect.Bool] = &booleanReflectHandler{}
	for _, kind := range []reflect.Kind{reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64} {
		mapReflectHandler[kind] = &integerReflectHandler{}
	}
	for _, kind := range []reflect.Kind{reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64} {
		mapReflectHandler[kind] = &unsignedReflectHandler{}
	}
	mapReflectHandler[reflect.String] = &stringReflectHandler{}
	mapReflectHandler[reflect.Interface] = &anyReflectHandler{}

	lock.Lock()
	defer lock.Unlock()
	handlerTypeCache = make(map[reflect.Type]reflectHandler)
	handlerTypeCache[reflect.TypeFor[time.Time]()] = &timeReflectHandler{}
	handlerTypeCache[reflect.TypeFor[*big.Int]()] = &bigIntReflectHandler{}
	handlerTypeCache[reflect.TypeFor[[]byte]()] = &bytesReflectHandler{}
	handlerTypeCache[reflect.TypeFor[asn1go.OID]()] = &valueReflectHandler{}
	handlerTypeCache[reflect.TypeFor[asn1go.Integer]()] = &valueReflectHandler{}
	handlerTypeCache[reflect.TypeFor[asn1go.BitString]()] = &valueReflectHandler{}
	handlerTypeCache[reflect.TypeFor[asn1go.OctetString]()] = &valueReflectHandler{}
	handlerTypeCache[reflect.TypeFor[*asn1binary.Node]()] = &nodeReflectHandler{}
	handlerTypeCache[reflect.TypeFor[asn1map.Result]()] = &resultReflectHandler{}
}

func getHandlerFor(rType reflect.Type) (reflectHandler, error) {
	lock.RLock()
	handler, ok := handlerTypeCache[rType]
	lock.RUnlock()
	if ok {
		return handler, nil
	}

	kind := rType.Kind()
	if kind <= reflect.Invalid || kind >= reflect.UnsafePointer {
		return nil, asn1error.NewUnimplementedError("unsupported %s", kind.String())
	}
	handler = mapReflectHandler[kind]
	if handler == nil {
		switch kind {
		case reflect.Struct:
			handler = &structReflectHandler{}
		case reflect.Slice:
			handler = &sliceReflectHandler{}
		case reflect.Pointer:
			handler = &pointerReflectHandler{}
		default:
			return nil, asn1error.NewUnimplementedError("unsupported type %s", rType.String())
		}
	}

	lock.Lock()
	defer lock.Unlock()
	handlerTypeCache[rType] = handler
	return handler, nil
}

// leafValue returns the node of a Leaf result and its decoded value.
func leafValue(r asn1map.Result, rType reflect.Type) (*asn1binary.Node, any, error) {
	leaf, ok := r.(asn1map.Leaf)
	if !ok {
		return nil, nil, mismatch(r, rType)
	}
	node := leaf.Node
	if node.Value != nil || node.Class != asn1core.ClassUniversal || node.Constructed {
		return node, node.Value, nil
	}
	v, err := asn1go.NewRegistry().DecodeValue(node.Tag, node.Content)
	if err != nil {
		return nil, nil, asn1error.NewErrorf("decoding %s for %s: %w", node.Tag, rType, err).
			WithType(asn1error.StructuralError).WithCause(asn1error.ErrInvalidValue)
	}
	return node, v, nil
}

func mismatch(r asn1map.Result, rType reflect.Type) error {
	return asn1error.NewErrorf("cannot bind %T into %s", r, rType).WithType(asn1error.StructuralError)
}

func unexpectedValue(v any, rType reflect.Type) error {
	return asn1error.NewErrorf("cannot bind value %T into %s", v, rType).WithType(asn1error.StructuralError)
}
