package asn1binary

import (
	"bytes"
	"reflect"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1core"
)

// Node is one decoded TLV. A primitive node carries Content, a constructed
// node carries Children; Identifier.Constructed says which.
//
// Nodes produced by a Decoder are never modified by this module and may be
// shared between goroutines.
type Node struct {
	Identifier
	Length   ContentLength
	Content  []byte
	Children []*Node

	// Value is the result of the registered ValueCodec for universal
	// primitives, nil when no codec was consulted or none is registered.
	Value any
}

// NewPrimitive returns a primitive node holding a copy of content.
func NewPrimitive(class asn1core.Class, tag asn1core.Tag, content []byte) *Node {
	c := make([]byte, len(content))
	copy(c, content)
	return &Node{
		Identifier: Identifier{Class: class, Tag: tag},
		Length:     DefiniteLength(len(c)),
		Content:    c,
	}
}

// NewConstructed returns a definite-length constructed node.
func NewConstructed(class asn1core.Class, tag asn1core.Tag, children ...*Node) *Node {
	n := &Node{Identifier: Identifier{Class: class, Constructed: true, Tag: tag}}
	n.SetChildren(children...)
	return n
}

// NewIndefinite returns a constructed node encoded with an indefinite length.
func NewIndefinite(class asn1core.Class, tag asn1core.Tag, children ...*Node) *Node {
	n := NewConstructed(class, tag, children...)
	n.Length = IndefiniteLength()
	return n
}

// NewSequence is shorthand for a universal SEQUENCE.
func NewSequence(children ...*Node) *Node {
	return NewConstructed(asn1core.ClassUniversal, asn1core.TagSequence, children...)
}

// NewSet is shorthand for a universal SET.
func NewSet(children ...*Node) *Node {
	return NewConstructed(asn1core.ClassUniversal, asn1core.TagSet, children...)
}

// NewExplicit wraps inner in a constructed context specific tag.
func NewExplicit(tag asn1core.Tag, inner *Node) *Node {
	return NewConstructed(asn1core.ClassContextSpecific, tag, inner)
}

// SetContent replaces the content of a primitive node and recomputes its
// length. Value is cleared as it no longer describes the content.
func (n *Node) SetContent(content []byte) {
	n.Content = make([]byte, len(content))
	copy(n.Content, content)
	n.Value = nil
	n.Length = DefiniteLength(len(n.Content))
}

// SetChildren replaces the children of a constructed node and recomputes its
// length. An indefinite length stays indefinite.
func (n *Node) SetChildren(children ...*Node) {
	n.Children = children
	if n.Length.IsIndefinite() {
		return
	}
	n.Length = DefiniteLength(n.contentLen())
}

func (n *Node) contentLen() int {
	if !n.Constructed {
		return len(n.Content)
	}
	total := 0
	for _, child := range n.Children {
		total += child.EncodedLen()
	}
	return total
}

// EncodedLen returns the number of octets Encode produces for n, assuming the
// primitive contents are already materialised.
func (n *Node) EncodedLen() int {
	contentLen := n.contentLen()
	if n.Constructed && n.Length.IsIndefinite() {
		return n.Identifier.EncodedLen() + 1 + contentLen + 2
	}
	return n.Identifier.EncodedLen() + lengthOctets(contentLen) + contentLen
}

// Child returns the i'th child or nil.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// WithIdentifier returns a shallow copy of n labelled with id. The content and
// children are shared with n.
func (n *Node) WithIdentifier(id Identifier) *Node {
	c := *n
	c.Identifier = id
	return &c
}

// Equal reports whether two trees have the same identifiers, lengths,
// contents and values.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Identifier != other.Identifier || n.Length != other.Length {
		return false
	}
	if !bytes.Equal(n.Content, other.Content) || !reflect.DeepEqual(n.Value, other.Value) {
		return false
	}
	if len(n.Children) != len(other.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return n.Identifier.String() + " " + n.Length.String()
}
