// Package tree implements the raw node model for parsed gazette documents.
// A Node is a Scalar, a Compound (ordered name -> Node mapping) or a List.
// Attribute-like children live next to element-like children in a Compound
// and are told apart only by their name (a leading '@').
//
// Nodes are immutable values: every edit returns a new Node and leaves the
// receiver untouched, so a tree can be shared by independent passes.
package tree

import (
	"slices"
	"strings"
)

// Kind identifies the variant held by a Node.
type Kind uint8

const (
	// Missing is the zero Kind, returned for lookups that found nothing.
	Missing Kind = iota
	Scalar
	Compound
	List
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Compound:
		return "compound"
	case List:
		return "list"
	default:
		return "missing"
	}
}

// AttrMarker prefixes attribute-like field names.
const AttrMarker = "@"

// TextField names the text payload child of an element that also carries
// attributes or children, as produced by the upstream converter.
const TextField = "#text"

// Field is one named child of a Compound.
type Field struct {
	Name  string
	Value Node
}

// Node is a tagged tree value. The zero Node is Missing.
type Node struct {
	kind   Kind
	text   string
	fields []Field
	items  []Node
}

// Text returns a Scalar node.
func Text(s string) Node {
	return Node{kind: Scalar, text: s}
}

// Object returns a Compound node holding the given fields in order.
func Object(fields ...Field) Node {
	return Node{kind: Compound, fields: slices.Clone(fields)}
}

// Items returns a List node. Items() is an empty List, not Missing.
func Items(items ...Node) Node {
	out := make([]Node, len(items))
	copy(out, items)
	return Node{kind: List, items: out}
}

// F is shorthand for building a Field.
func F(name string, v Node) Field {
	return Field{Name: name, Value: v}
}

// IsAttr reports whether a field name follows the attribute convention.
func IsAttr(name string) bool {
	return strings.HasPrefix(name, AttrMarker)
}

func (n Node) Kind() Kind { return n.kind }

// Exists reports whether the node is anything other than Missing.
func (n Node) Exists() bool { return n.kind != Missing }

func (n Node) IsScalar() bool   { return n.kind == Scalar }
func (n Node) IsCompound() bool { return n.kind == Compound }
func (n Node) IsList() bool     { return n.kind == List }

// Str returns the scalar text. ok is false for any other kind.
func (n Node) Str() (string, bool) {
	if n.kind != Scalar {
		return "", false
	}
	return n.text, true
}

// Len is the number of fields of a Compound or items of a List.
func (n Node) Len() int {
	switch n.kind {
	case Compound:
		return len(n.fields)
	case List:
		return len(n.items)
	}
	return 0
}

// Fields returns a copy of a Compound's fields (nil for other kinds).
func (n Node) Fields() []Field {
	if n.kind != Compound {
		return nil
	}
	return slices.Clone(n.fields)
}

// Items returns a copy of a List's items (nil for other kinds).
func (n Node) Items() []Node {
	if n.kind != List {
		return nil
	}
	return slices.Clone(n.items)
}

// Get returns the first child called name, or a Missing node.
func (n Node) Get(name string) Node {
	if i := n.index(name); i >= 0 {
		return n.fields[i].Value
	}
	return Node{}
}

// Has reports whether a Compound has a child called name.
func (n Node) Has(name string) bool {
	return n.index(name) >= 0
}

// Path follows a chain of Compound children.
func (n Node) Path(names ...string) Node {
	cur := n
	for _, name := range names {
		cur = cur.Get(name)
		if !cur.Exists() {
			return cur
		}
	}
	return cur
}

func (n Node) index(name string) int {
	if n.kind != Compound {
		return -1
	}
	for i, f := range n.fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// With sets a child on a Compound. An existing child keeps its position,
// a new one is appended. On any other kind With returns n unchanged.
func (n Node) With(name string, v Node) Node {
	if n.kind != Compound {
		return n
	}
	fields := slices.Clone(n.fields)
	if i := n.index(name); i >= 0 {
		fields[i].Value = v
	} else {
		fields = append(fields, Field{Name: name, Value: v})
	}
	return Node{kind: Compound, fields: fields}
}

// Without drops every child whose name is listed.
func (n Node) Without(names ...string) Node {
	if n.kind != Compound {
		return n
	}
	fields := make([]Field, 0, len(n.fields))
	for _, f := range n.fields {
		if !slices.Contains(names, f.Name) {
			fields = append(fields, f)
		}
	}
	return Node{kind: Compound, fields: fields}
}

// Rename moves the child from to the name to, keeping its position.
// Nothing happens when from is absent.
func (n Node) Rename(from, to string) Node {
	i := n.index(from)
	if i < 0 {
		return n
	}
	fields := slices.Clone(n.fields)
	fields[i].Name = to
	return Node{kind: Compound, fields: fields}
}

// Equal reports deep equality, including field order.
func Equal(a, b Node) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Scalar:
		return a.text == b.text
	case Compound:
		if len(a.fields) != len(b.fields) {
			return false
		}
		for i := range a.fields {
			if a.fields[i].Name != b.fields[i].Name || !Equal(a.fields[i].Value, b.fields[i].Value) {
				return false
			}
		}
		return true
	case List:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	}
	return true
}

// String renders the node as compact JSON.
func (n Node) String() string {
	b, err := n.MarshalJSON()
	if err != nil {
		return "<" + n.kind.String() + ">"
	}
	return string(b)
}
