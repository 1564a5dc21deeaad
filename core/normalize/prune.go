package normalize

import (
	"github.com/gaurav-prasanna/rpipipe/core/tree"
	"github.com/samber/lo"
)

// DefaultBanned are noise fields dropped anywhere in a document: INID
// identifier-type codes, internal sequence numbers and kind codes.
var DefaultBanned = []string{"@inid", "@sequencia", "@kindcode"}

// Pruner removes banned fields at every depth.
type Pruner struct {
	banned map[string]bool
}

// NewPruner creates a Pruner for the given field names.
func NewPruner(names ...string) *Pruner {
	return &Pruner{
		banned: lo.SliceToMap(names, func(name string) (string, bool) { return name, true }),
	}
}

// Prune returns a copy of n without banned fields, including inside Lists.
// Surviving siblings keep their order.
func (p *Pruner) Prune(n tree.Node) tree.Node {
	switch n.Kind() {
	case tree.Compound:
		fields := make([]tree.Field, 0, n.Len())
		for _, f := range n.Fields() {
			if p.banned[f.Name] {
				continue
			}
			fields = append(fields, tree.F(f.Name, p.Prune(f.Value)))
		}
		return tree.Object(fields...)
	case tree.List:
		return tree.Items(lo.Map(n.Items(), func(item tree.Node, _ int) tree.Node {
			return p.Prune(item)
		})...)
	}
	return n
}
