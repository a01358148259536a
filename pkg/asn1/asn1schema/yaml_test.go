package asn1schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1core"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const certificateLike = `
type: Sequence
children:
  version:
    explicit: true
    constant: 0
    type: Integer
    optional: true
  serial: {type: Integer}
  algorithm:
    type: Sequence
    children:
      oid: {type: ObjectIdentifier}
      params: {type: ANY, optional: true}
  names:
    type: SetOf
    min: 1
    max: -1
    children: {type: PrintableString}
  extra:
    implicit: true
    constant: 3
    type: OctetString
    optional: true
  choice:
    type: CHOICE
    children:
      number: {type: Integer}
      text: {type: UTF8String}
  counter:
    implicit: true
    class: Application
    constant: 1
    type: Integer
`

func TestParse(t *testing.T) {
	s, err := ParseBytes([]byte(certificateLike))
	require.NoError(t, err)

	seq, ok := s.(*Sequence)
	require.True(t, ok, "got %T", s)
	require.Len(t, seq.Fields, 7)

	names := make([]string, len(seq.Fields))
	for i, f := range seq.Fields {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"version", "serial", "algorithm", "names", "extra", "choice", "counter"}, names)

	version := seq.Fields[0]
	assert.True(t, version.Optional)
	assert.Equal(t, &Tagged{Mode: ModeExplicit, Class: asn1core.ClassContextSpecific, Number: 0, Inner: Universal(asn1core.TagInteger)}, version.Schema)

	algorithm := seq.Fields[2].Schema.(*Sequence)
	assert.Equal(t, Universal(asn1core.TagOID), algorithm.Fields[0].Schema)
	assert.Equal(t, &Any{}, algorithm.Fields[1].Schema)
	assert.True(t, algorithm.Fields[1].Optional)

	assert.Equal(t, NewSetOf(Universal(asn1core.TagPrintableString), 1, Unbounded), seq.Fields[3].Schema)
	assert.Equal(t, Implicit(3, Universal(asn1core.TagOctetString)), seq.Fields[4].Schema)

	choice := seq.Fields[5].Schema.(*Choice)
	require.Len(t, choice.Alternatives, 2)
	assert.Equal(t, "number", choice.Alternatives[0].Name)

	assert.Equal(t, Implicit(1, Universal(asn1core.TagInteger)).WithClass(asn1core.ClassApplication), seq.Fields[6].Schema)
}

func TestParseLeafClass(t *testing.T) {
	s, err := ParseBytes([]byte("{type: 2, class: Private}"))
	require.NoError(t, err)
	assert.Equal(t, &Leaf{Class: asn1core.ClassPrivate, Tag: 2}, s)

	s, err = ParseBytes([]byte("{type: Sequence}"))
	require.NoError(t, err)
	assert.Equal(t, Universal(asn1core.TagSequence), s)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not yaml", "type: [unclosed"},
		{"not a mapping", "- a\n- b"},
		{"unknown key", "{type: Integer, size: 4}"},
		{"missing type", "{class: Universal}"},
		{"unknown type", "{type: Banana}"},
		{"unknown class", "{type: Integer, class: Imperial}"},
		{"explicit and implicit", "{type: Integer, explicit: true, implicit: true, constant: 0}"},
		{"explicit without constant", "{type: Integer, explicit: true}"},
		{"constant without tagging", "{type: Integer, constant: 1}"},
		{"any with children", "{type: ANY, children: {a: {type: Integer}}}"},
		{"choice without children", "{type: CHOICE}"},
		{"choice repeats", "{type: CHOICE, min: 1, children: {a: {type: Integer}}}"},
		{"integer repeats", "{type: Integer, min: 1, children: {type: Integer}}"},
		{"integer with children", "{type: Integer, children: {a: {type: Integer}}}"},
		{"repetition without element", "{type: Sequence, min: 1}"},
		{"optional element", "{type: Sequence, min: 1, children: {type: Integer, optional: true}}"},
		{"optional root", "{type: Integer, optional: true}"},
		{"children list", "{type: Sequence, children: [a, b]}"},
		{"implicit choice", "{type: CHOICE, implicit: true, constant: 0, children: {a: {type: Integer}}}"},
		{"bounds", "{type: Sequence, min: 4, max: 2, children: {type: Integer}}"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseBytes([]byte(test.doc))
			assert.ErrorIs(t, err, asn1error.ErrInvalidSchema)
		})
	}
}

func TestLoad(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(filename, []byte(certificateLike), 0o600))
	s, err := Load(filename)
	require.NoError(t, err)
	assert.Equal(t, KindSequence, s.Kind())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
