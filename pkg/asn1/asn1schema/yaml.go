package asn1schema

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1core"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1error"
	"gopkg.in/yaml.v3"
)

// record is one schema node of a YAML document. Children is kept as a raw
// node so that field order survives decoding.
type record struct {
	Type     string    `yaml:"type"`
	Class    string    `yaml:"class"`
	Optional bool      `yaml:"optional"`
	Explicit bool      `yaml:"explicit"`
	Implicit bool      `yaml:"implicit"`
	Constant *uint     `yaml:"constant"`
	Min      *int      `yaml:"min"`
	Max      *int      `yaml:"max"`
	Children yaml.Node `yaml:"children"`
}

var recordKeys = map[string]bool{
	"type": true, "class": true, "optional": true, "explicit": true, "implicit": true,
	"constant": true, "min": true, "max": true, "children": true,
}

func yamlError(path string, n *yaml.Node, format string, args ...any) error {
	args = append([]any{path, n.Line}, args...)
	return asn1error.NewErrorf("%s (line %d): "+format, args...).
		WithType(asn1error.StructuralError).WithCause(asn1error.ErrInvalidSchema)
}

// Parse reads a schema document. A document is a tree of records:
//
//	type: Sequence
//	children:
//	  version: {type: Integer}
//	  community: {type: OctetString}
//	  data: {type: ANY}
//
// type is a universal tag name or number, ANY or CHOICE. A SEQUENCE or SET
// record with min or max set is a repetition whose children is a single
// record. explicit or implicit together with constant wrap the record in a
// tag of the given class (context specific by default). Without tagging
// class applies to the leaf itself.
func Parse(r io.Reader) (Schema, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, asn1error.NewErrorf("reading schema: %w", err).
			WithType(asn1error.StructuralError).WithCause(asn1error.ErrInvalidSchema)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) == 1 {
		root = root.Content[0]
	}
	s, optional, err := fromYAML("$", root)
	if err != nil {
		return nil, err
	}
	if optional {
		return nil, yamlError("$", root, "optional is only allowed on fields")
	}
	if err := Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

func ParseBytes(data []byte) (Schema, error) {
	return Parse(bytes.NewReader(data))
}

// Load parses the schema document in the named file.
func Load(filename string) (Schema, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Parse(f)
	if err != nil {
		return nil, asn1error.NewErrorf("%s: %w", filename, err)
	}
	return s, nil
}

func fromYAML(path string, n *yaml.Node) (Schema, bool, error) {
	if n.Kind != yaml.MappingNode {
		return nil, false, yamlError(path, n, "expected a mapping")
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if key := n.Content[i].Value; !recordKeys[key] {
			return nil, false, yamlError(path, n.Content[i], "unknown key %q", key)
		}
	}
	var rec record
	if err := n.Decode(&rec); err != nil {
		return nil, false, yamlError(path, n, "%s", err)
	}

	tagged := rec.Explicit || rec.Implicit
	switch {
	case rec.Explicit && rec.Implicit:
		return nil, false, yamlError(path, n, "explicit and implicit are exclusive")
	case tagged && rec.Constant == nil:
		return nil, false, yamlError(path, n, "tagging needs a constant")
	case !tagged && rec.Constant != nil:
		return nil, false, yamlError(path, n, "constant needs explicit or implicit")
	}

	var class asn1core.Class
	if tagged {
		class = asn1core.ClassContextSpecific
	}
	if rec.Class != "" {
		var err error
		class, err = asn1core.ParseClass(rec.Class)
		if err != nil {
			return nil, false, yamlError(path, n, "%s", err)
		}
	}
	leafClass := class
	if tagged {
		leafClass = asn1core.ClassUniversal
	}

	inner, err := innerFromYAML(path, n, &rec, leafClass)
	if err != nil {
		return nil, false, err
	}
	if !tagged {
		return inner, rec.Optional, nil
	}
	mode := ModeExplicit
	if rec.Implicit {
		mode = ModeImplicit
	}
	return &Tagged{Mode: mode, Class: class, Number: asn1core.Tag(*rec.Constant), Inner: inner}, rec.Optional, nil
}

func innerFromYAML(path string, n *yaml.Node, rec *record, leafClass asn1core.Class) (Schema, error) {
	hasChildren := rec.Children.Kind != 0
	repeated := rec.Min != nil || rec.Max != nil

	switch strings.ToUpper(rec.Type) {
	case "":
		return nil, yamlError(path, n, "missing type")
	case "ANY":
		if hasChildren || repeated {
			return nil, yamlError(path, n, "ANY cannot have children")
		}
		return &Any{}, nil
	case "CHOICE":
		if repeated {
			return nil, yamlError(path, n, "CHOICE cannot repeat")
		}
		fields, err := fieldsFromYAML(path, &rec.Children)
		if err != nil {
			return nil, err
		}
		return &Choice{Alternatives: fields}, nil
	}

	tag, err := asn1core.ParseTag(rec.Type)
	if err != nil {
		return nil, yamlError(path, n, "%s", err)
	}
	aggregate := leafClass == asn1core.ClassUniversal && (tag == asn1core.TagSequence || tag == asn1core.TagSet)

	if repeated {
		if !aggregate {
			return nil, yamlError(path, n, "only SEQUENCE and SET can repeat")
		}
		if !hasChildren {
			return nil, yamlError(path, n, "repetition needs an element")
		}
		element, optional, err := fromYAML(path+"[]", &rec.Children)
		if err != nil {
			return nil, err
		}
		if optional {
			return nil, yamlError(path+"[]", &rec.Children, "optional is only allowed on fields")
		}
		minCount, maxCount := 0, Unbounded
		if rec.Min != nil {
			minCount = *rec.Min
		}
		if rec.Max != nil {
			maxCount = *rec.Max
		}
		if tag == asn1core.TagSet {
			return NewSetOf(element, minCount, maxCount), nil
		}
		return NewSequenceOf(element, minCount, maxCount), nil
	}

	if !hasChildren {
		return &Leaf{Class: leafClass, Tag: tag}, nil
	}
	if !aggregate {
		return nil, yamlError(path, n, "%s cannot have children", tag)
	}
	fields, err := fieldsFromYAML(path, &rec.Children)
	if err != nil {
		return nil, err
	}
	if tag == asn1core.TagSet {
		return &Set{Fields: fields}, nil
	}
	return &Sequence{Fields: fields}, nil
}

func fieldsFromYAML(path string, n *yaml.Node) ([]Field, error) {
	if n.Kind != yaml.MappingNode {
		return nil, yamlError(path, n, "children must be a mapping of names to schemas")
	}
	fields := make([]Field, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		name := n.Content[i].Value
		s, optional, err := fromYAML(path+"."+name, n.Content[i+1])
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: name, Schema: s, Optional: optional})
	}
	return fields, nil
}
