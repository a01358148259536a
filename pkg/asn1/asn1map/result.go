package asn1map

import (
	"strings"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1binary"
)

// Result is the outcome of a successful match. It is one of Fields, List or
// Leaf.
type Result interface {
	isResult()
	String() string
}

// Field is one bound member of a SEQUENCE or SET.
type Field struct {
	Name  string
	Value Result
}

// Fields holds the bound members in schema declaration order. Optional
// members that were absent are not present.
type Fields []Field

// Get returns the value bound to name.
func (f Fields) Get(name string) (Result, bool) {
	for _, field := range f {
		if field.Name == name {
			return field.Value, true
		}
	}
	return nil, false
}

// Names returns the bound member names in order.
func (f Fields) Names() []string {
	names := make([]string, len(f))
	for i, field := range f {
		names[i] = field.Name
	}
	return names
}

func (f Fields) String() string {
	parts := make([]string, len(f))
	for i, field := range f {
		parts[i] = field.Name + ":" + field.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// List holds one Result per child of a SEQUENCE OF or SET OF.
type List []Result

func (l List) String() string {
	parts := make([]string, len(l))
	for i, r := range l {
		parts[i] = r.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Leaf passes a node through unexamined. For implicitly tagged values Node
// carries the identifier of the underlying type.
type Leaf struct {
	Node *asn1binary.Node
}

func (l Leaf) String() string {
	return l.Node.String()
}

func (Fields) isResult() {}
func (List) isResult()   {}
func (Leaf) isResult()   {}
