// Package render turns decoded nodes and mapped results into text trees and
// JSON friendly values.
package render

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1binary"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1core"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1map"
)

// Value formats the decoded value of a primitive node, falling back to its
// content in hex.
func Value(n *asn1binary.Node) string {
	switch v := n.Value.(type) {
	case nil:
		return hex.EncodeToString(n.Content)
	case string:
		return strconv.Quote(v)
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// WriteTree writes one line per node, children indented by two spaces.
func WriteTree(w io.Writer, n *asn1binary.Node) error {
	return writeTree(w, n, 0)
}

func writeTree(w io.Writer, n *asn1binary.Node, depth int) error {
	indent := strings.Repeat("  ", depth)
	if n.Constructed {
		if _, err := fmt.Fprintf(w, "%s%s\n", indent, n); err != nil {
			return err
		}
		for _, child := range n.Children {
			if err := writeTree(w, child, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	_, err := fmt.Fprintf(w, "%s%s %s\n", indent, n, Value(n))
	return err
}

// NodeJSON is the JSON shape of a node.
type NodeJSON struct {
	Class       string      `json:"class"`
	Tag         string      `json:"tag"`
	Constructed bool        `json:"constructed"`
	Length      string      `json:"length"`
	Content     string      `json:"content,omitempty"`
	Value       string      `json:"value,omitempty"`
	Children    []*NodeJSON `json:"children,omitempty"`
}

func Node(n *asn1binary.Node) *NodeJSON {
	out := &NodeJSON{
		Class:       n.Class.String(),
		Tag:         n.Tag.String(),
		Constructed: n.Constructed,
		Length:      n.Length.String(),
	}
	if n.Class != asn1core.ClassUniversal {
		out.Tag = strconv.Itoa(int(n.Tag))
	}
	if !n.Constructed {
		out.Content = hex.EncodeToString(n.Content)
		if n.Value != nil {
			out.Value = Value(n)
		}
	}
	for _, child := range n.Children {
		out.Children = append(out.Children, Node(child))
	}
	return out
}

// Result converts a mapped result into maps, slices and strings. Leaves become
// their formatted value.
func Result(r asn1map.Result) any {
	switch r := r.(type) {
	case asn1map.Fields:
		m := make(map[string]any, len(r))
		for _, f := range r {
			m[f.Name] = Result(f.Value)
		}
		return m
	case asn1map.List:
		l := make([]any, len(r))
		for i, elem := range r {
			l[i] = Result(elem)
		}
		return l
	case asn1map.Leaf:
		if r.Node.Constructed {
			return Node(r.Node)
		}
		return Value(r.Node)
	}
	return nil
}

// WriteResult writes a mapped result as an indented outline in field order.
func WriteResult(w io.Writer, r asn1map.Result) error {
	return writeResult(w, "", r, 0)
}

func writeResult(w io.Writer, label string, r asn1map.Result, depth int) error {
	indent := strings.Repeat("  ", depth)
	if label == "" {
		label = "$"
	}
	switch r := r.(type) {
	case asn1map.Fields:
		if label != "$" {
			if _, err := fmt.Fprintf(w, "%s%s:\n", indent, label); err != nil {
				return err
			}
			depth++
		}
		for _, f := range r {
			if err := writeResult(w, f.Name, f.Value, depth); err != nil {
				return err
			}
		}
		return nil
	case asn1map.List:
		if _, err := fmt.Fprintf(w, "%s%s: %d item(s)\n", indent, label, len(r)); err != nil {
			return err
		}
		for i, elem := range r {
			if err := writeResult(w, fmt.Sprintf("[%d]", i), elem, depth+1); err != nil {
				return err
			}
		}
		return nil
	case asn1map.Leaf:
		if r.Node.Constructed {
			if _, err := fmt.Fprintf(w, "%s%s:\n", indent, label); err != nil {
				return err
			}
			return writeTree(w, r.Node, depth+1)
		}
		_, err := fmt.Fprintf(w, "%s%s: %s\n", indent, label, Value(r.Node))
		return err
	}
	return nil
}

// Rows flattens n into table rows of path, identifier, length and value. The
// path of the root is prefix, children append their index.
func Rows(prefix string, n *asn1binary.Node) [][]string {
	var rows [][]string
	return appendRows(rows, prefix, n)
}

func appendRows(rows [][]string, path string, n *asn1binary.Node) [][]string {
	if n.Constructed {
		rows = append(rows, []string{path, n.Identifier.String(), n.Length.String(), ""})
		for i, child := range n.Children {
			rows = appendRows(rows, path+"."+strconv.Itoa(i), child)
		}
		return rows
	}
	return append(rows, []string{path, n.Identifier.String(), n.Length.String(), Value(n)})
}
