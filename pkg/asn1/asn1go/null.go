package asn1go

import (
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1core"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1error"
)

//--------------------------------------------------------------------------------------------

type Null struct {
}

func (v Null) String() string {
	return "null"
}

func decodeNull(tag asn1core.Tag, raw []byte) (any, error) {
	if len(raw) != 0 {
		return nil, asn1error.NewUnexpectedError(0, len(raw), "null").WithUnits("bytes")
	}
	return Null{}, nil
}

func encodeNull(i any) ([]byte, error) {
	switch i.(type) {
	case Null, *Null, nil:
		return []byte{}, nil
	}
	return nil, &asn1error.UnsupportedGoType{GoTypeName: goTypeName(i)}
}

//--------------------------------------------------------------------------------------------

func decodeBoolean(tag asn1core.Tag, raw []byte) (any, error) {
	if len(raw) != 1 {
		return nil, asn1error.NewUnexpectedError(1, len(raw), "boolean").WithUnits("bytes")
	}
	return raw[0] != 0, nil
}

func encodeBoolean(i any) ([]byte, error) {
	b, ok := i.(bool)
	if !ok {
		return nil, &asn1error.UnsupportedGoType{GoTypeName: goTypeName(i)}
	}
	if b {
		return []byte{0xFF}, nil
	}
	return []byte{0x00}, nil
}
