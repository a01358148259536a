package asn1binary

import (
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1core"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1error"
)

// Encoder serialises Node trees. Definite lengths are recomputed from the
// content and always written in their minimal form; only nodes marked
// indefinite keep the indefinite form.
type Encoder struct {
	// Registry encodes universal primitives that carry a Value but no
	// Content.
	Registry *Registry
}

// Encode returns the encoding of n.
func (e *Encoder) Encode(n *Node) ([]byte, error) {
	return e.Append(nil, n)
}

// Append appends the encoding of n to b.
func (e *Encoder) Append(b []byte, n *Node) ([]byte, error) {
	if n == nil {
		return b, asn1error.NewErrorf("cannot encode a nil node").WithType(asn1error.StructuralError)
	}
	content, err := e.content(n)
	if err != nil {
		return b, err
	}
	b = AppendIdentifier(b, n.Identifier)
	if n.Constructed && n.Length.IsIndefinite() {
		b = AppendLength(b, Indefinite)
		b = append(b, content...)
		return append(b, 0x00, 0x00), nil
	}
	b = AppendLength(b, len(content))
	return append(b, content...), nil
}

func (e *Encoder) content(n *Node) ([]byte, error) {
	if !n.Constructed {
		if n.Length.IsIndefinite() {
			return nil, asn1error.NewErrorf("primitive %s cannot have an indefinite length", n.Identifier).WithType(asn1error.StructuralError).WithCause(asn1error.ErrMalformedLength)
		}
		if len(n.Children) != 0 {
			return nil, asn1error.NewErrorf("primitive %s has children", n.Identifier).WithType(asn1error.StructuralError).WithCause(asn1error.ErrInvalidValue)
		}
		if n.Content == nil && n.Value != nil {
			return e.encodeValue(n)
		}
		return n.Content, nil
	}
	if len(n.Content) != 0 {
		return nil, asn1error.NewErrorf("constructed %s has raw content", n.Identifier).WithType(asn1error.StructuralError).WithCause(asn1error.ErrInvalidValue)
	}
	var b []byte
	var err error
	for _, child := range n.Children {
		b, err = e.Append(b, child)
		if err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (e *Encoder) encodeValue(n *Node) ([]byte, error) {
	if n.Class != asn1core.ClassUniversal {
		return nil, asn1error.NewErrorf("cannot encode a value for non universal %s", n.Identifier).WithType(asn1error.StructuralError).WithCause(asn1error.ErrInvalidValue)
	}
	if e.Registry == nil {
		return nil, asn1error.NewErrorf("%s has a value but the encoder has no registry", n.Identifier).WithType(asn1error.StructuralError).WithCause(asn1error.ErrInvalidValue)
	}
	return e.Registry.EncodeValue(n.Tag, n.Value)
}

// Marshal encodes n without a registry.
func Marshal(n *Node) ([]byte, error) {
	e := Encoder{}
	return e.Encode(n)
}
