package asn1schema

import (
	"testing"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1core"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	valid := NewSequence(
		Required("oid", Universal(asn1core.TagOID)),
		Optional("data", Explicit(0, NewSetOf(Universal(asn1core.TagInteger), 1, Unbounded))),
		Required("alt", NewChoice(
			Required("int", Universal(asn1core.TagInteger)),
			Required("tagged", Implicit(1, Universal(asn1core.TagOctetString))),
		)),
		Optional("rest", &Any{}),
	)
	assert.NoError(t, Validate(valid))

	tests := []struct {
		name   string
		schema Schema
	}{
		{"nil", nil},
		{"nil field", NewSequence(Required("a", nil))},
		{"typed nil field", NewSequence(Required("a", (*Leaf)(nil)))},
		{"typed nil root", (*Sequence)(nil)},
		{"typed nil element", NewSetOf((*Choice)(nil), 0, Unbounded)},
		{"typed nil implicit", Implicit(0, (*Leaf)(nil))},
		{"empty name", NewSet(Required("", &Any{}))},
		{"duplicate name", NewSequence(Required("a", &Any{}), Optional("a", &Any{}))},
		{"empty choice", NewChoice()},
		{"optional alternative", NewChoice(Optional("a", &Any{}))},
		{"negative min", NewSequenceOf(&Any{}, -1, Unbounded)},
		{"max below min", NewSetOf(&Any{}, 3, 2)},
		{"bad max", NewSetOf(&Any{}, 0, -2)},
		{"implicit choice", Implicit(0, NewChoice(Required("a", &Any{})))},
		{"implicit any", Implicit(0, &Any{})},
		{"bad class", &Leaf{Class: 7, Tag: 1}},
		{"end of contents", Universal(asn1core.TagEndOfContents)},
		{"no mode", &Tagged{Class: asn1core.ClassContextSpecific, Inner: &Any{}}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := Validate(test.schema)
			assert.ErrorIs(t, err, asn1error.ErrInvalidSchema)
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	err := Validate(NewSequence(Required("", &Any{}), Required("b", NewChoice())))
	require.Error(t, err)
	var list asn1error.List
	require.ErrorAs(t, err, &list)
	assert.Len(t, list, 2)
}

func TestIdentity(t *testing.T) {
	tests := []struct {
		schema Schema
		class  asn1core.Class
		tag    asn1core.Tag
		ok     bool
	}{
		{Universal(asn1core.TagInteger), asn1core.ClassUniversal, asn1core.TagInteger, true},
		{&Leaf{Class: asn1core.ClassApplication, Tag: 1}, asn1core.ClassApplication, 1, true},
		{NewSequence(), asn1core.ClassUniversal, asn1core.TagSequence, true},
		{NewSequenceOf(&Any{}, 0, Unbounded), asn1core.ClassUniversal, asn1core.TagSequence, true},
		{NewSet(), asn1core.ClassUniversal, asn1core.TagSet, true},
		{NewSetOf(&Any{}, 0, Unbounded), asn1core.ClassUniversal, asn1core.TagSet, true},
		{Explicit(3, &Any{}), asn1core.ClassContextSpecific, 3, true},
		{&Any{}, 0, 0, false},
		{NewChoice(), 0, 0, false},
	}
	for _, test := range tests {
		t.Run(test.schema.String(), func(t *testing.T) {
			class, tag, ok := Identity(test.schema)
			assert.Equal(t, test.ok, ok)
			assert.Equal(t, test.class, class)
			assert.Equal(t, test.tag, tag)
		})
	}
}

func TestString(t *testing.T) {
	s := NewSequence(
		Required("a", Universal(asn1core.TagInteger)),
		Optional("b", Explicit(2, NewSequenceOf(Universal(asn1core.TagOID), 1, Unbounded))),
	)
	assert.Equal(t, "SEQUENCE{a,b?}", s.String())
	assert.Equal(t, "[2] EXPLICIT SEQUENCE SIZE(1..MAX) OF OID", s.Fields[1].Schema.String())
	assert.Equal(t, "[Application 0] IMPLICIT OctetString", Implicit(0, Universal(asn1core.TagOctetString)).WithClass(asn1core.ClassApplication).String())
}
