package asn1schema

import (
	"fmt"
	"strings"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1core"
)

// Schema describes the expected shape of a Node tree. The set of
// implementations is closed: *Leaf, *Any, *Choice, *Sequence, *Set,
// *SequenceOf, *SetOf and *Tagged.
type Schema interface {
	Kind() Kind
	String() string
	validate(path string, errs *errorList)
}

type Kind int

const (
	KindLeaf Kind = iota + 1
	KindAny
	KindChoice
	KindSequence
	KindSet
	KindSequenceOf
	KindSetOf
	KindTagged
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindAny:
		return "ANY"
	case KindChoice:
		return "CHOICE"
	case KindSequence:
		return "SEQUENCE"
	case KindSet:
		return "SET"
	case KindSequenceOf:
		return "SEQUENCE OF"
	case KindSetOf:
		return "SET OF"
	case KindTagged:
		return "tagged"
	}
	return fmt.Sprintf("kind=%d", int(k))
}

// Unbounded is the Max of a repetition without an upper limit.
const Unbounded = -1

// Field is a named member of a SEQUENCE, SET or CHOICE.
type Field struct {
	Name     string
	Schema   Schema
	Optional bool
}

func Required(name string, s Schema) Field {
	return Field{Name: name, Schema: s}
}

func Optional(name string, s Schema) Field {
	return Field{Name: name, Schema: s, Optional: true}
}

//--------------------------------------------------------------------------------------------

// Leaf matches a node by class and tag number.
type Leaf struct {
	Class asn1core.Class
	Tag   asn1core.Tag
}

func Universal(tag asn1core.Tag) *Leaf {
	return &Leaf{Class: asn1core.ClassUniversal, Tag: tag}
}

func (s *Leaf) Kind() Kind { return KindLeaf }

func (s *Leaf) String() string {
	if s.Class == asn1core.ClassUniversal {
		return s.Tag.String()
	}
	return fmt.Sprintf("[%s %d]", s.Class, uint(s.Tag))
}

// Any matches every node.
type Any struct{}

func (s *Any) Kind() Kind     { return KindAny }
func (s *Any) String() string { return "ANY" }

// Choice matches the first alternative that matches.
type Choice struct {
	Alternatives []Field
}

func NewChoice(alternatives ...Field) *Choice {
	return &Choice{Alternatives: alternatives}
}

func (s *Choice) Kind() Kind     { return KindChoice }
func (s *Choice) String() string { return "CHOICE" + fieldNames(s.Alternatives) }

type Sequence struct {
	Fields []Field
}

func NewSequence(fields ...Field) *Sequence {
	return &Sequence{Fields: fields}
}

func (s *Sequence) Kind() Kind     { return KindSequence }
func (s *Sequence) String() string { return "SEQUENCE" + fieldNames(s.Fields) }

type Set struct {
	Fields []Field
}

func NewSet(fields ...Field) *Set {
	return &Set{Fields: fields}
}

func (s *Set) Kind() Kind     { return KindSet }
func (s *Set) String() string { return "SET" + fieldNames(s.Fields) }

// SequenceOf matches a SEQUENCE whose children all match Element.
type SequenceOf struct {
	Element Schema
	Min     int
	Max     int
}

func NewSequenceOf(element Schema, minCount, maxCount int) *SequenceOf {
	return &SequenceOf{Element: element, Min: minCount, Max: maxCount}
}

func (s *SequenceOf) Kind() Kind { return KindSequenceOf }
func (s *SequenceOf) String() string {
	return fmt.Sprintf("SEQUENCE%s OF %s", bounds(s.Min, s.Max), describe(s.Element))
}

// SetOf matches a SET whose children all match Element.
type SetOf struct {
	Element Schema
	Min     int
	Max     int
}

func NewSetOf(element Schema, minCount, maxCount int) *SetOf {
	return &SetOf{Element: element, Min: minCount, Max: maxCount}
}

func (s *SetOf) Kind() Kind { return KindSetOf }
func (s *SetOf) String() string {
	return fmt.Sprintf("SET%s OF %s", bounds(s.Min, s.Max), describe(s.Element))
}

type TagMode int

const (
	ModeExplicit TagMode = iota + 1
	ModeImplicit
)

func (m TagMode) String() string {
	switch m {
	case ModeExplicit:
		return "EXPLICIT"
	case ModeImplicit:
		return "IMPLICIT"
	}
	return fmt.Sprintf("mode=%d", int(m))
}

// Tagged matches a node carrying Class and Number, then matches Inner against
// its single child (explicit) or against the node relabelled with the inner
// identifier (implicit).
type Tagged struct {
	Mode   TagMode
	Class  asn1core.Class
	Number asn1core.Tag
	Inner  Schema
}

func Explicit(number asn1core.Tag, inner Schema) *Tagged {
	return &Tagged{Mode: ModeExplicit, Class: asn1core.ClassContextSpecific, Number: number, Inner: inner}
}

func Implicit(number asn1core.Tag, inner Schema) *Tagged {
	return &Tagged{Mode: ModeImplicit, Class: asn1core.ClassContextSpecific, Number: number, Inner: inner}
}

// WithClass changes the class of the tag, eg to ClassApplication.
func (s *Tagged) WithClass(class asn1core.Class) *Tagged {
	s.Class = class
	return s
}

func (s *Tagged) Kind() Kind { return KindTagged }
func (s *Tagged) String() string {
	prefix := fmt.Sprintf("[%d]", uint(s.Number))
	if s.Class != asn1core.ClassContextSpecific {
		prefix = fmt.Sprintf("[%s %d]", s.Class, uint(s.Number))
	}
	return fmt.Sprintf("%s %s %s", prefix, s.Mode, describe(s.Inner))
}

//--------------------------------------------------------------------------------------------

// Identity returns the class and tag number a node matching s carries, for
// the schemas where that is fixed. It is used to relabel implicitly tagged
// nodes.
func Identity(s Schema) (asn1core.Class, asn1core.Tag, bool) {
	switch s := s.(type) {
	case *Leaf:
		return s.Class, s.Tag, true
	case *Sequence, *SequenceOf:
		return asn1core.ClassUniversal, asn1core.TagSequence, true
	case *Set, *SetOf:
		return asn1core.ClassUniversal, asn1core.TagSet, true
	case *Tagged:
		return s.Class, s.Number, true
	}
	return 0, 0, false
}

func fieldNames(fields []Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
		if f.Optional {
			names[i] += "?"
		}
	}
	return "{" + strings.Join(names, ",") + "}"
}

func bounds(minCount, maxCount int) string {
	if minCount == 0 && maxCount == Unbounded {
		return ""
	}
	if maxCount == Unbounded {
		return fmt.Sprintf(" SIZE(%d..MAX)", minCount)
	}
	return fmt.Sprintf(" SIZE(%d..%d)", minCount, maxCount)
}

func describe(s Schema) string {
	if s == nil {
		return "<nil>"
	}
	return s.String()
}
