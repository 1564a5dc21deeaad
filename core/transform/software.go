package transform

import (
	"github.com/gaurav-prasanna/rpipipe/core/normalize"
	"github.com/gaurav-prasanna/rpipipe/core/tree"
)

var softwareLists = []normalize.ListField{
	{Name: "application-field-list", Item: "application-field"},
	{Name: "creator-list", Item: "creator"},
	{Name: "language-list", Item: "language"},
	{Name: "program-type-list", Item: "program-type"},
	{Name: "holder-list", Item: "holder"},
}

// SoftwareTransformer handles software registration issues.
type SoftwareTransformer struct{}

// NewSoftware creates a SoftwareTransformer.
func NewSoftware() *SoftwareTransformer {
	return &SoftwareTransformer{}
}

// Transform returns one record per dispatch.
func (t *SoftwareTransformer) Transform(doc tree.Node) ([]tree.Node, error) {
	return wrappedRecords(doc, "software-process", func(p tree.Node) tree.Node {
		p = normalize.UnwrapFields(p, "number", "title", "creation-date")
		p = normalize.Lists(p, softwareLists...)
		p = normalize.EachItem(p, "application-field-list", unwrapCode)
		p = normalize.EachItem(p, "program-type-list", unwrapCode)
		p = normalize.EachItem(p, "language-list", language)
		return p
	})
}

func unwrapCode(item tree.Node) tree.Node {
	return normalize.UnwrapFields(item, "code")
}

// language gives every language entry the shape {language: "..."}.
func language(item tree.Node) tree.Node {
	if s, ok := item.Str(); ok {
		return tree.Object(tree.F("language", tree.Text(s)))
	}
	if !item.Has(normalize.Payload) {
		return item
	}
	return normalize.Promote(item, "language", normalize.Payload).Without(normalize.Payload)
}
