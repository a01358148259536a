package asn1go

import (
	"strings"
	"time"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1core"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1error"
)

var utcTimeLayouts = []string{
	"0601021504Z0700",
	"060102150405Z0700",
}

var generalizedTimeLayouts = []string{
	"20060102150405Z0700",
	"20060102150405.999999999Z0700",
	"200601021504Z0700",
	"2006010215Z0700",
}

func parseTime(raw []byte, layouts []string) (time.Time, error) {
	s := string(raw)
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}
	// local time without a zone designator
	if !strings.ContainsAny(s, "Z+-") {
		for _, layout := range layouts {
			t, err := time.ParseInLocation(strings.TrimSuffix(layout, "Z0700"), s, time.UTC)
			if err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, asn1error.NewErrorf("unable to parse time %q", s)
}

func decodeUTCTime(tag asn1core.Tag, raw []byte) (any, error) {
	t, err := parseTime(raw, utcTimeLayouts)
	if err != nil {
		return nil, err
	}
	// X.680 two digit years: 50-99 are 19xx
	if t.Year() >= 2050 {
		t = t.AddDate(-100, 0, 0)
	}
	return t, nil
}

func encodeUTCTime(i any) ([]byte, error) {
	t, ok := i.(time.Time)
	if !ok {
		return nil, &asn1error.UnsupportedGoType{GoTypeName: goTypeName(i)}
	}
	t = t.UTC()
	if t.Year() < 1950 || t.Year() >= 2050 {
		return nil, asn1error.NewErrorf("year %d cannot be represented as UTCTime", t.Year())
	}
	return []byte(t.Format("060102150405Z")), nil
}

func decodeGeneralizedTime(tag asn1core.Tag, raw []byte) (any, error) {
	t, err := parseTime(raw, generalizedTimeLayouts)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func encodeGeneralizedTime(i any) ([]byte, error) {
	t, ok := i.(time.Time)
	if !ok {
		return nil, &asn1error.UnsupportedGoType{GoTypeName: goTypeName(i)}
	}
	return []byte(t.UTC().Format("20060102150405.999999999Z")), nil
}
