// Package transform turns a normalized gazette document into the records
// stored for one publication type. Each record type has its own transformer;
// all of them copy the issue label onto every record and never fail on
// missing optional structure.
package transform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/rpipipe/core"
	"github.com/gaurav-prasanna/rpipipe/core/normalize"
	"github.com/gaurav-prasanna/rpipipe/core/tree"
)

// ErrMissingPivot is returned when the list a transformer enumerates
// records from is absent from the document.
var ErrMissingPivot = errors.New("transform: missing pivot structure")

// RecordType is a gazette publication type.
type RecordType int

const (
	Trademark RecordType = iota + 1
	PatentApplication
	SoftwareRegistration
	TechnologyContract
	IndustrialDesign
)

var codes = map[RecordType]string{
	Trademark:            "RM",
	PatentApplication:    "P",
	SoftwareRegistration: "PC",
	TechnologyContract:   "CT",
	IndustrialDesign:     "DI",
}

// Types lists every record type in a stable order.
func Types() []RecordType {
	return []RecordType{Trademark, PatentApplication, SoftwareRegistration, TechnologyContract, IndustrialDesign}
}

// Code is the file-name type code of t ("RM", "P", "PC", "CT", "DI").
func (t RecordType) Code() string { return codes[t] }

func (t RecordType) String() string {
	switch t {
	case Trademark:
		return "trademark"
	case PatentApplication:
		return "patent-application"
	case SoftwareRegistration:
		return "software-registration"
	case TechnologyContract:
		return "technology-contract"
	case IndustrialDesign:
		return "industrial-design"
	}
	return fmt.Sprintf("RecordType(%d)", int(t))
}

// ParseCode maps a type code to its RecordType.
func ParseCode(code string) (RecordType, bool) {
	for t, c := range codes {
		if c == code {
			return t, true
		}
	}
	return 0, false
}

// For returns the transformer for t, or nil for an unknown type.
func For(t RecordType) core.Transformer {
	switch t {
	case Trademark:
		return NewTrademark()
	case PatentApplication:
		return NewPatent()
	case IndustrialDesign:
		return NewDesign()
	case SoftwareRegistration:
		return NewSoftware()
	case TechnologyContract:
		return NewContract()
	}
	return nil
}

// Field names shared by every record type.
const (
	FieldIssue    = "issue"
	FieldDispatch = "dispatch"
	FieldAddress  = "address"
)

const sep = " - "

// Issue builds the issue label "{number} - {date}" from a document header.
func Issue(doc tree.Node) string {
	number, _ := normalize.Text(doc.Get("number"))
	date, _ := normalize.Text(doc.Get("date"))
	return number + sep + date
}

// Label joins a code and its description as "code - description".
func Label(code, description string) string {
	return code + sep + description
}

// joinAddress joins the non-empty parts with "/".
func joinAddress(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "/")
}

// text is normalize.Text without the ok flag.
func text(n tree.Node) string {
	s, _ := normalize.Text(n)
	return s
}

// wrappedRecords enumerates the records of the dispatch-wrapped types: the
// document holds a list of dispatches, each wrapping one process under
// processField. The dispatch's code and title become the process's dispatch
// label and its comment is hoisted onto the process.
func wrappedRecords(doc tree.Node, processField string, each func(tree.Node) tree.Node) ([]tree.Node, error) {
	dispatches := normalize.AsList(doc.Get(FieldDispatch))
	if !dispatches.Exists() {
		return nil, fmt.Errorf("%w: no %s list", ErrMissingPivot, FieldDispatch)
	}
	issue := tree.Text(Issue(doc))

	records := make([]tree.Node, 0, dispatches.Len())
	for i, d := range dispatches.Items() {
		proc := d.Get(processField)
		if !proc.IsCompound() {
			return nil, fmt.Errorf("%w: %s %d has no %s", ErrMissingPivot, FieldDispatch, i, processField)
		}
		proc = proc.
			With(FieldIssue, issue).
			With(FieldDispatch, tree.Text(Label(text(d.Get("code")), text(d.Get("title")))))
		if comment := d.Get("comment"); comment.Exists() {
			proc = proc.With("comment", normalize.Unwrap(comment))
		}
		records = append(records, each(proc))
	}
	return records, nil
}
