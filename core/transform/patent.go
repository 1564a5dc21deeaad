package transform

import (
	"github.com/gaurav-prasanna/rpipipe/core/normalize"
	"github.com/gaurav-prasanna/rpipipe/core/tree"
)

var patentLists = []normalize.ListField{
	{Name: "holder-list", Item: "holder"},
	{Name: "inventor-list", Item: "inventor"},
	{Name: "attorney-list", Item: "attorney"},
	{Name: "priority-list", Item: "priority"},
	{Name: "international-class-list", Item: "international-class"},
	{Name: "national-class-list", Item: "national-class"},
}

// PatentTransformer handles patent application and industrial design
// issues. Both wrap a patent process in each dispatch; they differ only in
// which dated fields the process carries.
type PatentTransformer struct {
	scalars []string
}

// NewPatent creates the transformer for patent application issues.
func NewPatent() *PatentTransformer {
	return &PatentTransformer{
		scalars: []string{"number", "filing-date", "title", "grant-date", "national-phase-date"},
	}
}

// NewDesign creates the transformer for industrial design issues.
func NewDesign() *PatentTransformer {
	return &PatentTransformer{
		scalars: []string{"number", "filing-date", "title", "grant-date", "extension-date"},
	}
}

// Transform returns one record per dispatch.
func (t *PatentTransformer) Transform(doc tree.Node) ([]tree.Node, error) {
	return wrappedRecords(doc, "patent-process", t.process)
}

func (t *PatentTransformer) process(p tree.Node) tree.Node {
	p = normalize.UnwrapFields(p, t.scalars...)
	if pub := p.Get("national-publication-date"); pub.Exists() {
		if gazette := pub.Get("gazette-date"); gazette.Exists() {
			pub = gazette
		}
		p = p.With("national-publication-date", normalize.Unwrap(pub))
	}

	p = normalize.Lists(p, patentLists...)
	p = normalize.EachItem(p, "holder-list", nestedAddress)
	p = normalize.EachItem(p, "priority-list", priority)
	p = normalize.EachItem(p, "international-class-list", func(c tree.Node) tree.Node {
		return classCode(c, "year")
	})
	p = normalize.EachItem(p, "national-class-list", func(c tree.Node) tree.Node {
		return classCode(c)
	})
	return p
}

// nestedAddress composes a holder's address from its address sub-object,
// preferring the country acronym over the country name. Holders carrying
// country and state directly are composed the same way.
func nestedAddress(holder tree.Node) tree.Node {
	addr := holder.Get(FieldAddress)
	if !addr.IsCompound() {
		if !holder.Has("country") {
			return holder
		}
		addr = holder
		holder = holder.Without("country", "state")
	}
	if composed := joinAddress(countryCode(addr.Get("country")), text(addr.Get("state"))); composed != "" {
		return holder.With(FieldAddress, tree.Text(composed))
	}
	return holder
}

func countryCode(country tree.Node) string {
	if code := text(country.Get("acronym")); code != "" {
		return code
	}
	if name := text(country.Get("name")); name != "" {
		return name
	}
	return text(country)
}

func priority(p tree.Node) tree.Node {
	p = normalize.Promote(p, "priority-country", "country-code")
	p = normalize.UnwrapFields(p, "priority-number", "priority-date")
	return p.Without("country-code")
}

// classCode moves a classification's text payload to "code" and drops the
// payload plus any extra attribute fields. A bare scalar becomes {code}.
func classCode(c tree.Node, drop ...string) tree.Node {
	if s, ok := c.Str(); ok {
		return tree.Object(tree.F("code", tree.Text(s)))
	}
	if !c.Has(normalize.Payload) {
		return c
	}
	c = normalize.Promote(c, "code", normalize.Payload)
	return c.Without(append(drop, normalize.Payload)...)
}
