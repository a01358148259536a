package asn1core

import (
	"fmt"
	"strconv"
)

// Tag is a tag number. It carries neither the class nor the constructed flag,
// those live in the identifier.
type Tag uint

const (
	TagEndOfContents    = Tag(0x00)
	TagBoolean          = Tag(0x01)
	TagInteger          = Tag(0x02)
	TagBitString        = Tag(0x03)
	TagOctetString      = Tag(0x04)
	TagNull             = Tag(0x05)
	TagOID              = Tag(0x06)
	TagObjectDescriptor = Tag(0x07)
	TagExternal         = Tag(0x08)
	TagReal             = Tag(0x09)
	TagEnum             = Tag(0x0A)
	TagUTF8String       = Tag(0x0C)
	TagRelativeOID      = Tag(0x0D)
	TagTime             = Tag(0x0E)
	TagSequence         = Tag(0x10)
	TagSet              = Tag(0x11)
	TagNumericString    = Tag(0x12)
	TagPrintableString  = Tag(0x13)
	TagT61String        = Tag(0x14)
	TagVideotexString   = Tag(0x15)
	TagIA5String        = Tag(0x16)
	TagUTCTime          = Tag(0x17)
	TagGeneralizedTime  = Tag(0x18)
	TagGraphicString    = Tag(0x19)
	TagVisibleString    = Tag(0x1A)
	TagGeneralString    = Tag(0x1B)
	TagUniversalString  = Tag(0x1C)
	TagBMPString        = Tag(0x1E)
	TagDate             = Tag(0x1F)
)

// MaxShortFormTag is the largest tag number that fits in the identifier
// octet. Tag numbers above it use the multi-octet form.
const MaxShortFormTag = Tag(30)

var tagNames = newNames[Tag]("tag")

func init() {
	tagNames.add(TagEndOfContents, "EndOfContents")
	tagNames.add(TagBoolean, "Boolean")
	tagNames.add(TagInteger, "Integer")
	tagNames.add(TagBitString, "BitString")
	tagNames.add(TagOctetString, "OctetString")
	tagNames.add(TagNull, "Null")
	tagNames.add(TagOID, "OID", "ObjectIdentifier")
	tagNames.add(TagObjectDescriptor, "ObjectDescriptor")
	tagNames.add(TagExternal, "External")
	tagNames.add(TagReal, "Real")
	tagNames.add(TagEnum, "Enum", "Enumerated")
	tagNames.add(TagUTF8String, "UTF8String")
	tagNames.add(TagRelativeOID, "RelativeOID")
	tagNames.add(TagTime, "Time")
	tagNames.add(TagSequence, "Sequence", "SequenceOf")
	tagNames.add(TagSet, "Set", "SetOf")
	tagNames.add(TagNumericString, "NumericString")
	tagNames.add(TagPrintableString, "PrintableString")
	tagNames.add(TagT61String, "T61String", "TeletexString")
	tagNames.add(TagVideotexString, "VideotexString")
	tagNames.add(TagIA5String, "IA5String")
	tagNames.add(TagUTCTime, "UTCTime")
	tagNames.add(TagGeneralizedTime, "GeneralizedTime")
	tagNames.add(TagGraphicString, "GraphicString")
	tagNames.add(TagVisibleString, "VisibleString")
	tagNames.add(TagGeneralString, "GeneralString")
	tagNames.add(TagUniversalString, "UniversalString")
	tagNames.add(TagBMPString, "BMPString")
	tagNames.add(TagDate, "Date")
}

func (t Tag) String() string {
	if name, ok := tagNames.name(t); ok {
		return name
	}
	return fmt.Sprintf("tag=%d", uint(t))
}

// ParseTag accepts either a universal tag name or a decimal tag number.
func ParseTag(tag string) (Tag, error) {
	if n, err := strconv.ParseUint(tag, 10, 32); err == nil {
		return Tag(n), nil
	}
	return tagNames.value(tag)
}
