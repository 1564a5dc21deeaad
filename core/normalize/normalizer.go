// Package normalize implements the document-wide passes of the pipeline.
// A parsed gazette document is pruned of noise fields and its raw names are
// canonicalized before any per-type transformer sees it; the list and
// scalar helpers in this package are then applied field by field.
package normalize

import "github.com/gaurav-prasanna/rpipipe/core/tree"

// Normalizer runs the global passes over a whole document.
type Normalizer struct {
	pruner *Pruner
	canon  *Canonicalizer
}

// New creates a Normalizer with the default banned fields and rename table.
func New() *Normalizer {
	return &Normalizer{
		pruner: NewPruner(DefaultBanned...),
		canon:  MustCanonicalizer(DefaultRules),
	}
}

// NewWith creates a Normalizer from explicit parts.
func NewWith(p *Pruner, c *Canonicalizer) *Normalizer {
	return &Normalizer{pruner: p, canon: c}
}

// Normalize prunes then canonicalizes doc.
func (n *Normalizer) Normalize(doc tree.Node) tree.Node {
	return n.canon.Canonicalize(n.pruner.Prune(doc))
}
