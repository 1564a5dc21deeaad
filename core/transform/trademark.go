package transform

import (
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/rpipipe/core/normalize"
	"github.com/gaurav-prasanna/rpipipe/core/tree"
)

// vendorPrefix is stripped from trademark dispatch codes ("IPAS009" -> "009").
const vendorPrefix = "IPAS"

var trademarkLists = []normalize.ListField{
	{Name: "holder-list", Item: "holder"},
	{Name: "nice-class-list", Item: "nice-class"},
	{Name: "vienna-class-list", Item: "vienna-class"},
	{Name: "dispatch-list", Item: "dispatch"},
	{Name: "blocker-list", Item: "blocker"},
}

// TrademarkTransformer handles trademark issues, whose document holds the
// process list directly.
type TrademarkTransformer struct{}

// NewTrademark creates a TrademarkTransformer.
func NewTrademark() *TrademarkTransformer {
	return &TrademarkTransformer{}
}

// Transform returns one record per process entry.
func (t *TrademarkTransformer) Transform(doc tree.Node) ([]tree.Node, error) {
	processes := normalize.AsList(doc.Get("process"))
	if !processes.Exists() {
		return nil, fmt.Errorf("%w: no process list", ErrMissingPivot)
	}
	issue := tree.Text(Issue(doc))

	records := make([]tree.Node, 0, processes.Len())
	for _, p := range processes.Items() {
		if !p.IsCompound() {
			continue
		}
		p = normalize.Lists(p.With(FieldIssue, issue), trademarkLists...)
		p = normalize.EachItem(p, "holder-list", flatAddress)
		p = normalize.EachItem(p, "vienna-class-list", func(v tree.Node) tree.Node {
			return v.Without("edition")
		})
		p = normalize.EachItem(p, "dispatch-list", trademarkDispatch)
		records = append(records, p)
	}
	return records, nil
}

// flatAddress replaces a party's country and state fields with a composed
// address: "country/state", or just the country when the state is empty.
func flatAddress(party tree.Node) tree.Node {
	country, state := party.Get("country"), party.Get("state")
	if !country.Exists() && !state.Exists() {
		return party
	}
	party = party.Without("country", "state")
	if addr := joinAddress(text(country), text(state)); addr != "" {
		party = party.With(FieldAddress, tree.Text(addr))
	}
	return party
}

func trademarkDispatch(d tree.Node) tree.Node {
	code := strings.ReplaceAll(text(d.Get("code")), vendorPrefix, "")
	name := text(d.Get("name"))
	d = d.Without("code", "name").With(FieldDispatch, tree.Text(Label(code, name)))

	protocol := d.Get("protocol")
	if !protocol.IsCompound() {
		return d
	}
	protocol = protocol.
		Rename("number", "protocol-number").
		Rename("date", "protocol-date").
		Rename("code", "protocol-code")
	protocol = normalize.UnwrapFields(protocol, "protocol-number", "protocol-date", "protocol-code")
	if req := protocol.Get("requester"); req.IsCompound() {
		protocol = protocol.With("requester", flatAddress(req))
	}
	return d.With("protocol", protocol)
}
