package asn1binary

import (
	"fmt"
	"maps"
	"slices"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1core"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1error"
)

// ValueCodec converts between the content octets of a universal primitive and
// a Go value.
type ValueCodec interface {
	DecodeValue(tag asn1core.Tag, raw []byte) (any, error)
	EncodeValue(v any) ([]byte, error)
}

type DecodeValueFunc func(tag asn1core.Tag, raw []byte) (any, error)
type EncodeValueFunc func(v any) ([]byte, error)

// ValueCodecFuncs adapts a pair of functions to ValueCodec.
type ValueCodecFuncs struct {
	Decode DecodeValueFunc
	Encode EncodeValueFunc
}

func (f ValueCodecFuncs) DecodeValue(tag asn1core.Tag, raw []byte) (any, error) {
	return f.Decode(tag, raw)
}

func (f ValueCodecFuncs) EncodeValue(v any) ([]byte, error) {
	return f.Encode(v)
}

type registration struct {
	name  string
	codec ValueCodec
}

// Registry maps universal tag numbers to value codecs. It is immutable once
// built and safe for concurrent use.
type Registry struct {
	codecs map[asn1core.Tag]registration
}

// RegistryBuilder collects codecs for a Registry.
type RegistryBuilder struct {
	codecs map[asn1core.Tag]registration
}

func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{codecs: make(map[asn1core.Tag]registration)}
}

// Register adds codec for tag. Registering a tag twice is an error.
func (b *RegistryBuilder) Register(tag asn1core.Tag, name string, codec ValueCodec) error {
	if codec == nil {
		return asn1error.NewErrorf("codec %q for %s is nil", name, tag)
	}
	if existing, ok := b.codecs[tag]; ok {
		return asn1error.NewErrorf("codec %q already registered for %s, cannot add %q", existing.name, tag, name)
	}
	b.codecs[tag] = registration{name: name, codec: codec}
	return nil
}

// Build returns a Registry holding the codecs registered so far.
func (b *RegistryBuilder) Build() *Registry {
	return &Registry{codecs: maps.Clone(b.codecs)}
}

// Lookup returns the codec for tag, if any.
func (r *Registry) Lookup(tag asn1core.Tag) (ValueCodec, bool) {
	if r == nil {
		return nil, false
	}
	reg, ok := r.codecs[tag]
	return reg.codec, ok
}

// Name returns the name the codec for tag was registered under.
func (r *Registry) Name(tag asn1core.Tag) string {
	if r == nil {
		return ""
	}
	return r.codecs[tag].name
}

// Tags returns the registered tags in ascending order.
func (r *Registry) Tags() []asn1core.Tag {
	if r == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.codecs))
}

// DecodeValue decodes raw with the codec for tag. Tags without a codec are
// opaque and yield a nil value.
func (r *Registry) DecodeValue(tag asn1core.Tag, raw []byte) (any, error) {
	codec, ok := r.Lookup(tag)
	if !ok {
		return nil, nil
	}
	return codec.DecodeValue(tag, raw)
}

// EncodeValue encodes v with the codec for tag. Without a codec only raw
// byte slices are accepted.
func (r *Registry) EncodeValue(tag asn1core.Tag, v any) ([]byte, error) {
	codec, ok := r.Lookup(tag)
	if ok {
		return codec.EncodeValue(v)
	}
	if raw, ok := v.([]byte); ok {
		return raw, nil
	}
	return nil, asn1error.NewErrorf("no value codec for %s to encode %T", tag, v).WithType(asn1error.StructuralError).WithCause(asn1error.ErrInvalidValue)
}

// NewPrimitive builds a universal primitive node from a Go value.
func (r *Registry) NewPrimitive(tag asn1core.Tag, v any) (*Node, error) {
	raw, err := r.EncodeValue(tag, v)
	if err != nil {
		return nil, err
	}
	n := NewPrimitive(asn1core.ClassUniversal, tag, raw)
	n.Value, err = r.DecodeValue(tag, n.Content)
	if err != nil {
		return nil, asn1error.NewErrorf("re-reading %s value %v: %w", tag, v, err).WithType(asn1error.StructuralError).WithCause(asn1error.ErrInvalidValue)
	}
	return n, nil
}

func (r *Registry) String() string {
	if r == nil {
		return "registry<nil>"
	}
	return fmt.Sprintf("registry<%d codecs>", len(r.codecs))
}
