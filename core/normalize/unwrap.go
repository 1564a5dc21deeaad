package normalize

import "github.com/gaurav-prasanna/rpipipe/core/tree"

// Payload is the canonical name of a compound scalar's text child.
const Payload = "text"

// Text resolves a plain or compound scalar to its text.
func Text(n tree.Node) (string, bool) {
	if s, ok := n.Str(); ok {
		return s, true
	}
	if n.IsCompound() {
		return n.Get(Payload).Str()
	}
	return "", false
}

// Unwrap replaces a compound scalar with its text payload, discarding the
// attribute children. Any other shape passes through untouched.
func Unwrap(n tree.Node) tree.Node {
	if n.IsCompound() {
		if s, ok := n.Get(Payload).Str(); ok {
			return tree.Text(s)
		}
	}
	return n
}

// UnwrapFields unwraps each named field present on rec.
func UnwrapFields(rec tree.Node, names ...string) tree.Node {
	for _, name := range names {
		if v := rec.Get(name); v.Exists() {
			rec = rec.With(name, Unwrap(v))
		}
	}
	return rec
}

// Promote sets rec[to] to the text found at path under rec. Nothing
// happens when the path does not resolve to text.
func Promote(rec tree.Node, to string, path ...string) tree.Node {
	if s, ok := Text(rec.Path(path...)); ok {
		return rec.With(to, tree.Text(s))
	}
	return rec
}
