package asn1go

import "github.com/davidjspooner/asn1map/pkg/asn1/asn1error"

// CharSet is the set of octets a restricted string type may contain.
type CharSet struct {
	name string
	bits [256 / 32]uint32
}

func newCharSet(name string) *CharSet {
	return &CharSet{name: name}
}

func (c *CharSet) addRange(from, to byte) *CharSet {
	for r := int(from); r <= int(to); r++ {
		c.bits[r/32] |= 1 << uint32(r%32)
	}
	return c
}

func (c *CharSet) addChars(chars string) *CharSet {
	for i := 0; i < len(chars); i++ {
		c.addRange(chars[i], chars[i])
	}
	return c
}

func (c *CharSet) Contains(b byte) bool {
	return c.bits[b/32]&(1<<uint32(b%32)) != 0
}

// ValidateBytes reports the first octet outside the set.
func (c *CharSet) ValidateBytes(bytes []byte) error {
	for i, b := range bytes {
		if !c.Contains(b) {
			return asn1error.NewErrorf("%q at index %d is not allowed in a %s", b, i, c.name).
				WithType(asn1error.StructuralError).WithCause(asn1error.ErrInvalidValue)
		}
	}
	return nil
}

var (
	PrintableCharSet = newCharSet("PrintableString").addRange('A', 'Z').addRange('a', 'z').addRange('0', '9').addChars(" '()+,-./:=?")
	IA5CharSet       = newCharSet("IA5String").addRange(0, 127)
	NumericCharSet   = newCharSet("NumericString").addRange('0', '9').addChars(" ")
	VisibleCharSet   = newCharSet("VisibleString").addRange(' ', '~')
)
