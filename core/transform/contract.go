package transform

import (
	"github.com/gaurav-prasanna/rpipipe/core/normalize"
	"github.com/gaurav-prasanna/rpipipe/core/tree"
)

var contractLists = []normalize.ListField{
	{Name: "transferor-list", Item: "transferor"},
	{Name: "transferee-list", Item: "transferee"},
	{Name: "certificate-list", Item: "certificate"},
	{Name: "petition-list", Item: "petition"},
}

var certificateScalars = []string{
	"number", "document-nature", "object-text", "category-code", "currency",
	"contract-value", "payment-terms", "contract-term", "ip-validity-term", "observation",
}

// ContractTransformer handles technology transfer contract issues.
type ContractTransformer struct{}

// NewContract creates a ContractTransformer.
func NewContract() *ContractTransformer {
	return &ContractTransformer{}
}

// Transform returns one record per dispatch.
func (t *ContractTransformer) Transform(doc tree.Node) ([]tree.Node, error) {
	return wrappedRecords(doc, "contract-process", func(p tree.Node) tree.Node {
		p = normalize.UnwrapFields(p, "number", "protocol-date")
		p = normalize.Lists(p, contractLists...)
		p = normalize.EachItem(p, "transferor-list", contractParty)
		p = normalize.EachItem(p, "transferee-list", func(party tree.Node) tree.Node {
			return normalize.UnwrapFields(contractParty(party), "sector")
		})
		p = normalize.EachItem(p, "certificate-list", func(c tree.Node) tree.Node {
			return normalize.UnwrapFields(c, certificateScalars...)
		})
		p = normalize.EachItem(p, "petition-list", petition)
		return p
	})
}

// contractParty unwraps a party's name and reduces its address to the
// country name.
func contractParty(party tree.Node) tree.Node {
	party = normalize.UnwrapFields(party, "name")
	if addr := party.Get(FieldAddress); addr.IsCompound() {
		party = normalize.Promote(party, FieldAddress, FieldAddress, "country", "name")
	}
	return party
}

func petition(p tree.Node) tree.Node {
	p = normalize.UnwrapFields(p, "number", "protocol-date")
	if req := p.Get("requester"); req.IsCompound() {
		p = normalize.Promote(p, "requester", "requester", "name")
	}
	return p
}
