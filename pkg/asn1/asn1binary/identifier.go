package asn1binary

import (
	"fmt"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1core"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1error"
)

const (
	classShift      = 6
	constructedBit  = 0x20
	tagNumberMask   = 0x1F
	continuationBit = 0x80
)

// maxTag bounds multi-octet tag numbers so that they fit in 32 bits.
const maxTag = asn1core.Tag(1<<32 - 1)

// Identifier is the decoded form of the identifier octet(s) of a TLV.
type Identifier struct {
	Class       asn1core.Class
	Constructed bool
	Tag         asn1core.Tag
}

// EndOfContents is the identifier of the end-of-contents marker.
var EndOfContents = Identifier{}

func (id Identifier) String() string {
	form := "p"
	if id.Constructed {
		form = "c"
	}
	if id.Class == asn1core.ClassUniversal {
		return fmt.Sprintf("[%s/%s]", id.Tag, form)
	}
	return fmt.Sprintf("[%s %d/%s]", id.Class, uint(id.Tag), form)
}

// Is reports whether id carries the given class and tag number, ignoring the
// constructed flag.
func (id Identifier) Is(class asn1core.Class, tag asn1core.Tag) bool {
	return id.Class == class && id.Tag == tag
}

// IsUniversal reports whether id is the universal tag t.
func (id Identifier) IsUniversal(t asn1core.Tag) bool {
	return id.Is(asn1core.ClassUniversal, t)
}

// DecodeIdentifier decodes the identifier octets found at data[offset:]. It
// returns the identifier and the number of octets consumed.
func DecodeIdentifier(data []byte, offset int) (Identifier, int, error) {
	if offset < 0 || offset >= len(data) {
		return Identifier{}, 0, asn1error.NewSyntaxError(asn1error.ErrTruncatedContent, offset, "no identifier octets")
	}
	first := data[offset]
	id := Identifier{
		Class:       asn1core.Class(first >> classShift),
		Constructed: first&constructedBit != 0,
		Tag:         asn1core.Tag(first & tagNumberMask),
	}
	if id.Tag != tagNumberMask {
		return id, 1, nil
	}

	// multi-octet form, base 128 big endian with the high bit marking continuation
	id.Tag = 0
	p := offset + 1
	for {
		if p >= len(data) {
			return Identifier{}, 0, asn1error.NewSyntaxError(asn1error.ErrMalformedIdentifier, offset, "multi-octet tag truncated")
		}
		b := data[p]
		if p == offset+1 && b == continuationBit {
			return Identifier{}, 0, asn1error.NewSyntaxError(asn1error.ErrMalformedIdentifier, offset, "multi-octet tag has leading zero bits")
		}
		if id.Tag > maxTag>>7 {
			return Identifier{}, 0, asn1error.NewSyntaxError(asn1error.ErrMalformedIdentifier, offset, "tag number overflows 32 bits")
		}
		id.Tag = id.Tag<<7 | asn1core.Tag(b&^continuationBit)
		p++
		if b&continuationBit == 0 {
			break
		}
	}
	return id, p - offset, nil
}

// EncodedLen returns the number of identifier octets Encode produces.
func (id Identifier) EncodedLen() int {
	if id.Tag <= asn1core.MaxShortFormTag {
		return 1
	}
	return 1 + base128Len(id.Tag)
}

// AppendIdentifier appends the canonical encoding of id to b. Tag numbers up to
// 30 always use the single octet form.
func AppendIdentifier(b []byte, id Identifier) []byte {
	first := byte(id.Class&3) << classShift
	if id.Constructed {
		first |= constructedBit
	}
	if id.Tag <= asn1core.MaxShortFormTag {
		return append(b, first|byte(id.Tag))
	}
	b = append(b, first|tagNumberMask)
	for i := base128Len(id.Tag) - 1; i >= 0; i-- {
		octet := byte(id.Tag>>(uint(i)*7)) &^ continuationBit
		if i > 0 {
			octet |= continuationBit
		}
		b = append(b, octet)
	}
	return b
}

// Encode returns the identifier octets of id.
func (id Identifier) Encode() []byte {
	return AppendIdentifier(make([]byte, 0, id.EncodedLen()), id)
}

func base128Len(t asn1core.Tag) int {
	if t == 0 {
		return 1
	}
	n := 0
	for ; t > 0; t >>= 7 {
		n++
	}
	return n
}
