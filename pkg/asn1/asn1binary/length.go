package asn1binary

import (
	"fmt"
	"math"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1error"
)

// LengthForm is the encoding used for the length octets.
type LengthForm int

const (
	LengthShort LengthForm = iota + 1
	LengthLong
	LengthIndefinite
)

func (f LengthForm) String() string {
	switch f {
	case LengthShort:
		return "short"
	case LengthLong:
		return "long"
	case LengthIndefinite:
		return "indefinite"
	}
	return fmt.Sprintf("form=%d", int(f))
}

// Indefinite is the Length of a ContentLength whose content is terminated by
// an end-of-contents marker.
const Indefinite = -1

const (
	indefiniteOctet = 0x80
	reservedOctet   = 0xFF
	// more length octets than this cannot be represented in an int
	maxLengthOctets = 8
)

// ContentLength is the decoded form of the length octets of a TLV.
type ContentLength struct {
	Form   LengthForm
	Length int
}

// DefiniteLength returns the minimal encoding form for n content octets.
func DefiniteLength(n int) ContentLength {
	if n < 0x80 {
		return ContentLength{Form: LengthShort, Length: n}
	}
	return ContentLength{Form: LengthLong, Length: n}
}

// IndefiniteLength returns a length terminated by end-of-contents.
func IndefiniteLength() ContentLength {
	return ContentLength{Form: LengthIndefinite, Length: Indefinite}
}

func (l ContentLength) IsIndefinite() bool {
	return l.Form == LengthIndefinite
}

func (l ContentLength) String() string {
	if l.IsIndefinite() {
		return "indefinite"
	}
	return fmt.Sprintf("%d(%s)", l.Length, l.Form)
}

// DecodeLength decodes the length octets found at data[offset:]. It returns
// the length and the number of octets consumed.
func DecodeLength(data []byte, offset int) (ContentLength, int, error) {
	if offset < 0 || offset >= len(data) {
		return ContentLength{}, 0, asn1error.NewSyntaxError(asn1error.ErrTruncatedContent, offset, "no length octets")
	}
	first := data[offset]
	switch {
	case first == indefiniteOctet:
		return IndefiniteLength(), 1, nil
	case first < 0x80:
		return ContentLength{Form: LengthShort, Length: int(first)}, 1, nil
	case first == reservedOctet:
		return ContentLength{}, 0, asn1error.NewSyntaxError(asn1error.ErrMalformedLength, offset, "reserved length octet 0xFF")
	}

	count := int(first &^ 0x80)
	if offset+1+count > len(data) {
		return ContentLength{}, 0, asn1error.NewUnexpectedError(count, len(data)-offset-1, "long form length truncated").
			WithUnits("octet(s)").WithKind(asn1error.ErrTruncatedContent).WithType(asn1error.SyntaxError).WithOffset(offset)
	}
	length := 0
	significant := 0
	for _, b := range data[offset+1 : offset+1+count] {
		if significant == 0 && b == 0 {
			continue
		}
		significant++
		if significant > maxLengthOctets || length > (math.MaxInt-int(b))>>8 {
			return ContentLength{}, 0, asn1error.NewSyntaxError(asn1error.ErrMalformedLength, offset, "length does not fit in an int")
		}
		length = length<<8 | int(b)
	}
	return ContentLength{Form: LengthLong, Length: length}, 1 + count, nil
}

// lengthOctets returns the number of octets the minimal encoding of n needs.
func lengthOctets(n int) int {
	if n == Indefinite || n < 0x80 {
		return 1
	}
	count := 1
	for ; n > 0; n >>= 8 {
		count++
	}
	return count
}

// AppendLength appends the minimal encoding of n content octets to b, or the
// indefinite marker when n is Indefinite.
func AppendLength(b []byte, n int) []byte {
	if n == Indefinite {
		return append(b, indefiniteOctet)
	}
	if n < 0x80 {
		return append(b, byte(n))
	}
	count := lengthOctets(n) - 1
	b = append(b, 0x80|byte(count))
	for i := count - 1; i >= 0; i-- {
		b = append(b, byte(n>>(uint(i)*8)))
	}
	return b
}

// Encode returns the length octets for l. A definite length is always
// written in its minimal form whatever Form says.
func (l ContentLength) Encode() []byte {
	n := l.Length
	if l.IsIndefinite() {
		n = Indefinite
	}
	return AppendLength(make([]byte, 0, lengthOctets(n)), n)
}
