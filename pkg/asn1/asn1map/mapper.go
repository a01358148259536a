package asn1map

import (
	"context"
	"log/slog"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1binary"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1core"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1schema"
)

type Option func(m *Mapper)

// WithAdvisoryBounds stops SEQUENCE OF and SET OF from rejecting a child count
// outside their min and max.
func WithAdvisoryBounds() Option {
	return func(m *Mapper) {
		m.advisoryBounds = true
	}
}

// WithPermissiveSet lets a SET skip children that match none of the remaining
// fields instead of failing.
func WithPermissiveSet() Option {
	return func(m *Mapper) {
		m.permissiveSet = true
	}
}

// WithLogger traces match decisions at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mapper) {
		m.logger = logger
	}
}

// Mapper matches Node trees against one schema. It holds no mutable state and
// may be used from many goroutines.
type Mapper struct {
	schema         asn1schema.Schema
	advisoryBounds bool
	permissiveSet  bool
	logger         *slog.Logger
}

// New validates schema and returns a Mapper for it.
func New(schema asn1schema.Schema, options ...Option) (*Mapper, error) {
	if err := asn1schema.Validate(schema); err != nil {
		return nil, err
	}
	m := &Mapper{schema: schema}
	for _, option := range options {
		option(m)
	}
	return m, nil
}

func (m *Mapper) Schema() asn1schema.Schema {
	return m.schema
}

// Map matches node against the schema. The boolean is false when the node
// does not have the expected shape; that is not an error.
func (m *Mapper) Map(node *asn1binary.Node) (Result, bool) {
	if node == nil {
		return nil, false
	}
	return m.match("$", node, m.schema)
}

// Map is a one shot New followed by Map.
func Map(node *asn1binary.Node, schema asn1schema.Schema, options ...Option) (Result, bool, error) {
	m, err := New(schema, options...)
	if err != nil {
		return nil, false, err
	}
	r, ok := m.Map(node)
	return r, ok, nil
}

func (m *Mapper) trace(path string, node *asn1binary.Node, s asn1schema.Schema, reason string) {
	if m.logger == nil || !m.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	m.logger.Debug("no match",
		slog.String("event", "no_match"),
		slog.String("path", path),
		slog.String("node", node.Identifier.String()),
		slog.String("schema", s.String()),
		slog.String("reason", reason),
	)
}

func (m *Mapper) match(path string, node *asn1binary.Node, s asn1schema.Schema) (Result, bool) {
	switch s := s.(type) {
	case *asn1schema.Any:
		return Leaf{Node: node}, true
	case *asn1schema.Leaf:
		if !node.Is(s.Class, s.Tag) {
			m.trace(path, node, s, "tag mismatch")
			return nil, false
		}
		return Leaf{Node: node}, true
	case *asn1schema.Tagged:
		return m.matchTagged(path, node, s)
	case *asn1schema.Choice:
		for _, alt := range s.Alternatives {
			if r, ok := m.match(path+"|"+alt.Name, node, alt.Schema); ok {
				return r, true
			}
		}
		m.trace(path, node, s, "no alternative matched")
		return nil, false
	case *asn1schema.Sequence:
		if !m.isAggregate(path, node, s, asn1core.TagSequence) {
			return nil, false
		}
		return m.matchSequence(path, node, s)
	case *asn1schema.Set:
		if !m.isAggregate(path, node, s, asn1core.TagSet) {
			return nil, false
		}
		return m.matchSet(path, node, s)
	case *asn1schema.SequenceOf:
		if !m.isAggregate(path, node, s, asn1core.TagSequence) {
			return nil, false
		}
		return m.matchRepeated(path, node, s, s.Element, s.Min, s.Max)
	case *asn1schema.SetOf:
		if !m.isAggregate(path, node, s, asn1core.TagSet) {
			return nil, false
		}
		return m.matchRepeated(path, node, s, s.Element, s.Min, s.Max)
	}
	return nil, false
}

func (m *Mapper) isAggregate(path string, node *asn1binary.Node, s asn1schema.Schema, tag asn1core.Tag) bool {
	if !node.IsUniversal(tag) || !node.Constructed {
		m.trace(path, node, s, "not a constructed "+tag.String())
		return false
	}
	return true
}

func (m *Mapper) matchTagged(path string, node *asn1binary.Node, s *asn1schema.Tagged) (Result, bool) {
	if !node.Is(s.Class, s.Number) {
		m.trace(path, node, s, "tag mismatch")
		return nil, false
	}
	if s.Mode == asn1schema.ModeExplicit {
		if !node.Constructed || len(node.Children) != 1 {
			m.trace(path, node, s, "explicit tag must wrap exactly one value")
			return nil, false
		}
		return m.match(path, node.Children[0], s.Inner)
	}
	class, tag, ok := asn1schema.Identity(s.Inner)
	if !ok {
		return nil, false
	}
	inner := node.WithIdentifier(asn1binary.Identifier{Class: class, Constructed: node.Constructed, Tag: tag})
	return m.match(path, inner, s.Inner)
}

// matchSequence walks children and fields in lockstep. An optional field is
// assumed absent when it does not match the current child, and a consumed
// field is never revisited.
func (m *Mapper) matchSequence(path string, node *asn1binary.Node, s *asn1schema.Sequence) (Result, bool) {
	out := make(Fields, 0, len(s.Fields))
	next := 0
	for i, child := range node.Children {
		matched := false
		for next < len(s.Fields) {
			field := s.Fields[next]
			next++
			if r, ok := m.match(path+"."+field.Name, child, field.Schema); ok {
				out = append(out, Field{Name: field.Name, Value: r})
				matched = true
				break
			}
			if !field.Optional {
				m.trace(path, node, s, "required field "+field.Name+" did not match")
				return nil, false
			}
		}
		if !matched {
			m.trace(path, node.Children[i], s, "more children than fields")
			return nil, false
		}
	}
	for _, field := range s.Fields[next:] {
		if !field.Optional {
			m.trace(path, node, s, "required field "+field.Name+" missing")
			return nil, false
		}
	}
	return out, true
}

// matchSet binds each child to the first remaining field it matches.
func (m *Mapper) matchSet(path string, node *asn1binary.Node, s *asn1schema.Set) (Result, bool) {
	bound := make([]Result, len(s.Fields))
	for _, child := range node.Children {
		matched := false
		for i, field := range s.Fields {
			if bound[i] != nil {
				continue
			}
			if r, ok := m.match(path+"."+field.Name, child, field.Schema); ok {
				bound[i] = r
				matched = true
				break
			}
		}
		if !matched && !m.permissiveSet {
			m.trace(path, child, s, "child matches no remaining field")
			return nil, false
		}
	}
	out := make(Fields, 0, len(s.Fields))
	for i, field := range s.Fields {
		if bound[i] != nil {
			out = append(out, Field{Name: field.Name, Value: bound[i]})
			continue
		}
		if !field.Optional {
			m.trace(path, node, s, "required field "+field.Name+" missing")
			return nil, false
		}
	}
	return out, true
}

func (m *Mapper) matchRepeated(path string, node *asn1binary.Node, s, element asn1schema.Schema, minCount, maxCount int) (Result, bool) {
	count := len(node.Children)
	if !m.advisoryBounds && (count < minCount || (maxCount != asn1schema.Unbounded && count > maxCount)) {
		m.trace(path, node, s, "child count out of bounds")
		return nil, false
	}
	out := make(List, 0, count)
	for _, child := range node.Children {
		r, ok := m.match(path+"[]", child, element)
		if !ok {
			return nil, false
		}
		out = append(out, r)
	}
	return out, true
}
