package tree

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	j "github.com/goccy/go-json"
)

// ErrMalformedJSON is returned when a token stream does not form a value.
var ErrMalformedJSON = errors.New("tree: malformed JSON")

// DecodeJSON reads one JSON value into a Node, keeping object key order.
// Numbers and booleans become Scalars holding their literal text; null
// becomes an empty Compound, the shape an empty element takes upstream.
func DecodeJSON(r io.Reader) (Node, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()

	n, err := decodeValue(dec)
	if err != nil {
		return Node{}, err
	}
	return n, nil
}

// ParseJSON is DecodeJSON over a byte slice.
func ParseJSON(b []byte) (Node, error) {
	return DecodeJSON(bytes.NewReader(b))
}

func decodeValue(dec *j.Decoder) (Node, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Node{}, fmt.Errorf("%w: unexpected end of input", ErrMalformedJSON)
		}
		return Node{}, err
	}
	return fromToken(dec, tok)
}

func fromToken(dec *j.Decoder, tok any) (Node, error) {
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return Node{}, fmt.Errorf("%w: unexpected %q", ErrMalformedJSON, rune(v))
	case string:
		return Text(v), nil
	case j.Number:
		return Text(string(v)), nil
	case float64:
		return Text(strconv.FormatFloat(v, 'g', -1, 64)), nil
	case bool:
		return Text(strconv.FormatBool(v)), nil
	case nil:
		return Object(), nil
	}
	return Node{}, fmt.Errorf("%w: unexpected token %T", ErrMalformedJSON, tok)
}

func decodeObject(dec *j.Decoder) (Node, error) {
	var fields []Field
	for {
		tok, err := dec.Token()
		if err != nil {
			return Node{}, err
		}
		if d, ok := tok.(j.Delim); ok && d == '}' {
			return Node{kind: Compound, fields: fields}, nil
		}
		key, ok := tok.(string)
		if !ok {
			return Node{}, fmt.Errorf("%w: object key is %T", ErrMalformedJSON, tok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return Node{}, err
		}
		fields = append(fields, Field{Name: key, Value: val})
	}
}

func decodeArray(dec *j.Decoder) (Node, error) {
	items := []Node{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return Node{}, err
		}
		if d, ok := tok.(j.Delim); ok && d == ']' {
			return Node{kind: List, items: items}, nil
		}
		item, err := fromToken(dec, tok)
		if err != nil {
			return Node{}, err
		}
		items = append(items, item)
	}
}

// MarshalJSON encodes the node with Compound fields in order.
// A Missing node encodes as null.
func (n Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.appendJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n Node) appendJSON(buf *bytes.Buffer) error {
	switch n.kind {
	case Scalar:
		return writeString(buf, n.text)
	case Compound:
		buf.WriteByte('{')
		for i, f := range n.fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeString(buf, f.Name); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := f.Value.appendJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case List:
		buf.WriteByte('[')
		for i, item := range n.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.appendJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		buf.WriteString("null")
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	b, err := j.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
