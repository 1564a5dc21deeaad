// Package convert parses gazette source files into the raw node model.
//
// XML follows the usual attribute/element mapping: attributes become
// "@name" children, repeated child elements become a List at the position
// of their first occurrence, an element holding only text becomes a Scalar
// and an element mixing text with attributes or children keeps the text
// under "#text". The root element itself is omitted.
package convert

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gaurav-prasanna/rpipipe/core/tree"
	"golang.org/x/net/html/charset"
)

// ErrNoRoot is returned for a document without a root element.
var ErrNoRoot = errors.New("convert: document has no root element")

// XMLConverter converts XML documents.
type XMLConverter struct{}

// NewXML creates an XMLConverter.
func NewXML() *XMLConverter {
	return &XMLConverter{}
}

type element struct {
	attrs  []tree.Field
	order  []string
	groups map[string][]tree.Node
	text   strings.Builder
}

func newElement(start xml.StartElement) *element {
	e := &element{groups: make(map[string][]tree.Node)}
	for _, a := range start.Attr {
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
			continue
		}
		e.attrs = append(e.attrs, tree.F(tree.AttrMarker+a.Name.Local, tree.Text(a.Value)))
	}
	return e
}

func (e *element) add(name string, n tree.Node) {
	if _, seen := e.groups[name]; !seen {
		e.order = append(e.order, name)
	}
	e.groups[name] = append(e.groups[name], n)
}

func (e *element) node() tree.Node {
	text := strings.TrimSpace(e.text.String())
	if len(e.attrs) == 0 && len(e.order) == 0 {
		if text == "" {
			return tree.Object()
		}
		return tree.Text(text)
	}

	fields := append([]tree.Field{}, e.attrs...)
	for _, name := range e.order {
		group := e.groups[name]
		if len(group) == 1 {
			fields = append(fields, tree.F(name, group[0]))
		} else {
			fields = append(fields, tree.F(name, tree.Items(group...)))
		}
	}
	if text != "" {
		fields = append(fields, tree.F(tree.TextField, tree.Text(text)))
	}
	return tree.Object(fields...)
}

// Convert parses r and returns the content of its root element.
func (c *XMLConverter) Convert(r io.Reader) (tree.Node, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var stack []*element
	var names []string
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return tree.Node{}, ErrNoRoot
		}
		if err != nil {
			return tree.Node{}, fmt.Errorf("parsing XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, newElement(t))
			names = append(names, t.Name.Local)
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		case xml.EndElement:
			top := stack[len(stack)-1]
			name := names[len(names)-1]
			stack, names = stack[:len(stack)-1], names[:len(names)-1]
			if len(stack) == 0 {
				return top.node(), nil
			}
			stack[len(stack)-1].add(name, top.node())
		}
	}
}

// JSONConverter converts documents already serialized as JSON trees.
type JSONConverter struct{}

// NewJSON creates a JSONConverter.
func NewJSON() *JSONConverter {
	return &JSONConverter{}
}

// Convert decodes r keeping object key order.
func (c *JSONConverter) Convert(r io.Reader) (tree.Node, error) {
	n, err := tree.DecodeJSON(r)
	if err != nil {
		return tree.Node{}, fmt.Errorf("parsing JSON: %w", err)
	}
	return n, nil
}
