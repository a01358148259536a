package asn1core

import (
	"fmt"
	"slices"
	"strings"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1error"
	"golang.org/x/exp/constraints"
)

// names is a case insensitive two way table between names and integer
// values. Tables are filled from init functions and read only afterwards.
type names[T constraints.Integer] struct {
	kind      string
	canonical map[T]string
	lookup    map[string]T
}

func newNames[T constraints.Integer](kind string) *names[T] {
	return &names[T]{kind: kind, canonical: make(map[T]string), lookup: make(map[string]T)}
}

// add registers val under name and its aliases. name is what String methods
// print.
func (n *names[T]) add(val T, name string, aliases ...string) {
	if _, ok := n.canonical[val]; ok {
		panic(fmt.Sprintf("duplicate %s value %d", n.kind, val))
	}
	all := append([]string{name}, aliases...)
	for _, s := range all {
		if _, ok := n.lookup[strings.ToLower(s)]; ok {
			panic(fmt.Sprintf("duplicate %s name %q", n.kind, s))
		}
	}
	n.canonical[val] = name
	for _, s := range all {
		n.lookup[strings.ToLower(s)] = val
	}
}

func (n *names[T]) name(val T) (string, bool) {
	s, ok := n.canonical[val]
	return s, ok
}

func (n *names[T]) value(s string) (T, error) {
	val, ok := n.lookup[strings.ToLower(s)]
	if !ok {
		return val, asn1error.NewErrorf("unknown %s %q, expected one of %s", n.kind, s, strings.Join(n.known(), ", "))
	}
	return val, nil
}

// known returns the canonical names ordered by value.
func (n *names[T]) known() []string {
	vals := make([]T, 0, len(n.canonical))
	for val := range n.canonical {
		vals = append(vals, val)
	}
	slices.Sort(vals)
	out := make([]string, len(vals))
	for i, val := range vals {
		out[i] = n.canonical[val]
	}
	return out
}
