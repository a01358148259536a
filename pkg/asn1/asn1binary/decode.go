package asn1binary

import (
	"fmt"
	"strings"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1core"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1error"
)

// Rules selects how strictly the encoding is checked.
type Rules int

const (
	BER Rules = iota
	DER
)

func (r Rules) String() string {
	switch r {
	case BER:
		return "BER"
	case DER:
		return "DER"
	}
	return fmt.Sprintf("rules=%d", int(r))
}

// ParseRules accepts "ber" or "der" in any case.
func ParseRules(s string) (Rules, error) {
	switch strings.ToLower(s) {
	case "ber", "":
		return BER, nil
	case "der":
		return DER, nil
	}
	return BER, asn1error.NewErrorf("unknown encoding rules %q", s)
}

// DefaultMaxDepth is used when Decoder.MaxDepth is zero.
const DefaultMaxDepth = 64

// Decoder turns BER or DER octets into a Node tree. The zero value decodes
// BER without interpreting primitive values.
type Decoder struct {
	Rules    Rules
	MaxDepth int

	// Registry, when set, is used to populate Node.Value for universal
	// primitives. Content the codec rejects leaves Value nil and the raw
	// Content in place.
	Registry *Registry

	// StrictValues turns a codec failure into a decode failure.
	StrictValues bool
}

// Decode decodes exactly one TLV starting at data[offset]. It returns the node
// and the number of octets it occupied, so concatenated TLVs can be decoded
// by advancing offset.
func (d *Decoder) Decode(data []byte, offset int) (*Node, int, error) {
	if offset < 0 || offset > len(data) {
		return nil, 0, asn1error.NewUnexpectedError(len(data), offset, "offset outside buffer").WithUnits("byte(s)").WithKind(asn1error.ErrTruncatedContent)
	}
	node, next, err := d.decodeAt(data, offset, len(data), 0)
	if err != nil {
		return nil, 0, err
	}
	return node, next - offset, nil
}

func (d *Decoder) maxDepth() int {
	if d.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return d.MaxDepth
}

// decodeAt decodes the TLV at data[start:end] and returns it with the offset
// just past it. end is the limit of the enclosing content window.
func (d *Decoder) decodeAt(data []byte, start, end, depth int) (*Node, int, error) {
	if depth > d.maxDepth() {
		return nil, 0, asn1error.NewSyntaxError(asn1error.ErrDepthExceeded, start, "more than %d nested constructions", d.maxDepth())
	}
	window := data[:end]
	id, n, err := DecodeIdentifier(window, start)
	if err != nil {
		return nil, 0, err
	}
	if id.IsUniversal(asn1core.TagEndOfContents) {
		return nil, 0, asn1error.NewSyntaxError(asn1error.ErrUnexpectedEndOfContents, start, "end-of-contents outside an indefinite length")
	}
	if d.Rules == DER && n > 1 && id.Tag <= asn1core.MaxShortFormTag {
		return nil, 0, asn1error.NewSyntaxError(asn1error.ErrNotCanonical, start, "tag %d uses the multi-octet form", uint(id.Tag))
	}

	p := start + n
	length, m, err := DecodeLength(window, p)
	if err != nil {
		return nil, 0, err
	}
	if d.Rules == DER {
		if length.IsIndefinite() {
			return nil, 0, asn1error.NewSyntaxError(asn1error.ErrNotCanonical, start, "indefinite length")
		}
		if m != lengthOctets(length.Length) {
			return nil, 0, asn1error.NewUnexpectedError(lengthOctets(length.Length), m, "length is not minimally encoded").
				WithUnits("octet(s)").WithKind(asn1error.ErrNotCanonical).WithType(asn1error.SyntaxError).WithOffset(start)
		}
	}
	p += m

	node := &Node{Identifier: id, Length: length}
	if length.IsIndefinite() {
		if !id.Constructed {
			return nil, 0, asn1error.NewSyntaxError(asn1error.ErrMalformedLength, start, "indefinite length on primitive %s", id)
		}
		return d.decodeIndefinite(node, data, start, p, end, depth)
	}

	if length.Length > end-p {
		return nil, 0, asn1error.NewUnexpectedError(length.Length, end-p, "content of %s exceeds available input", id).
			WithUnits("byte(s)").WithKind(asn1error.ErrTruncatedContent).WithType(asn1error.SyntaxError).WithOffset(start)
	}
	contentEnd := p + length.Length

	if id.Constructed {
		for p < contentEnd {
			child, next, err := d.decodeAt(data, p, contentEnd, depth+1)
			if err != nil {
				return nil, 0, err
			}
			node.Children = append(node.Children, child)
			p = next
		}
		return node, contentEnd, nil
	}

	node.Content = make([]byte, length.Length)
	copy(node.Content, data[p:contentEnd])
	if err := d.decodeValue(node, start); err != nil {
		return nil, 0, err
	}
	return node, contentEnd, nil
}

// decodeIndefinite reads children from p until the end-of-contents marker,
// which is consumed but not kept.
func (d *Decoder) decodeIndefinite(node *Node, data []byte, start, p, end, depth int) (*Node, int, error) {
	for {
		if p >= end {
			return nil, 0, asn1error.NewSyntaxError(asn1error.ErrUnterminatedIndefiniteLength, start, "no end-of-contents for %s", node.Identifier)
		}
		if data[p] == 0x00 {
			if p+1 >= end {
				return nil, 0, asn1error.NewSyntaxError(asn1error.ErrUnterminatedIndefiniteLength, start, "end-of-contents for %s truncated", node.Identifier)
			}
			if data[p+1] != 0x00 {
				return nil, 0, asn1error.NewSyntaxError(asn1error.ErrMalformedLength, p, "end-of-contents with non-zero length")
			}
			return node, p + 2, nil
		}
		child, next, err := d.decodeAt(data, p, end, depth+1)
		if err != nil {
			return nil, 0, err
		}
		node.Children = append(node.Children, child)
		p = next
	}
}

func (d *Decoder) decodeValue(node *Node, start int) error {
	if d.Registry == nil || node.Class != asn1core.ClassUniversal {
		return nil
	}
	v, err := d.Registry.DecodeValue(node.Tag, node.Content)
	if err != nil {
		if !d.StrictValues {
			return nil
		}
		return asn1error.NewErrorf("decoding %s value: %w", node.Tag, err).
			WithType(asn1error.StructuralError).WithCause(asn1error.ErrInvalidValue).WithOffset(start)
	}
	node.Value = v
	return nil
}

// Unmarshal decodes the first BER TLV in data and returns it together with the
// octets that follow it.
func Unmarshal(data []byte) (*Node, []byte, error) {
	d := Decoder{}
	node, n, err := d.Decode(data, 0)
	if err != nil {
		return nil, nil, err
	}
	return node, data[n:], nil
}
