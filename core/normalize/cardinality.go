package normalize

import "github.com/gaurav-prasanna/rpipipe/core/tree"

// ListField is a canonical field that is conceptually repeatable. Upstream
// it arrives as a wrapper Compound holding zero, one or many children named
// Item.
type ListField struct {
	Name string
	Item string
}

// ToList collapses a list wrapper into a List of its Item children:
// no child gives an empty List, a List child is returned as is, and a
// single child becomes a one-element List. A wrapper that is already a
// List is returned unchanged; a scalar wrapper (an empty element) yields
// an empty List.
func ToList(wrapper tree.Node, item string) tree.Node {
	switch wrapper.Kind() {
	case tree.List:
		return wrapper
	case tree.Compound:
		child := wrapper.Get(item)
		switch child.Kind() {
		case tree.Missing:
			return tree.Items()
		case tree.List:
			return child
		}
		return tree.Items(child)
	}
	return tree.Items()
}

// AsList treats a node that may hold one or many entries as a List.
// Missing stays Missing.
func AsList(n tree.Node) tree.Node {
	switch n.Kind() {
	case tree.Missing, tree.List:
		return n
	}
	return tree.Items(n)
}

// Lists materializes every listed field present on rec as a List.
// Absent fields stay absent.
func Lists(rec tree.Node, fields ...ListField) tree.Node {
	for _, lf := range fields {
		if v := rec.Get(lf.Name); v.Exists() {
			rec = rec.With(lf.Name, ToList(v, lf.Item))
		}
	}
	return rec
}

// EachItem rewrites every item of the List field name with fn.
// Non-list or absent fields are left alone.
func EachItem(rec tree.Node, name string, fn func(tree.Node) tree.Node) tree.Node {
	v := rec.Get(name)
	if !v.IsList() {
		return rec
	}
	items := v.Items()
	for i := range items {
		items[i] = fn(items[i])
	}
	return rec.With(name, tree.Items(items...))
}
