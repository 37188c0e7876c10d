// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"
	"unicode"

	"github.com/spf13/cast"
)

// TypeXML is a constant representing the "xml" encoding type.
const TypeXML Type = "xml"

// XML layout of structured values.
const (
	XMLRoot     = "result" // document element
	XMLEntry    = "entry"  // element name of list items
	XMLNilAttr  = "nil"    // attribute marking a null value
	XMLListAttr = "list"   // attribute marking a list element
)

// errXMLEmptyDocument is returned when decoding a document without a root element.
var errXMLEmptyDocument = errors.New("xml: document has no root element")

func init() {
	Register(TypeXML, XMLCodec{})
}

// XMLCodec maps structured values onto XML.
//
// Maps become elements named after their keys (in sorted order), lists
// become elements carrying list="true" with one <entry> child per item, and
// scalars become character data. The document element is <result>. A null
// value is an empty element carrying nil="true". Decoding produces
// map[string]any, []any, string or nil; scalar types are not preserved.
// Sibling elements sharing a name also decode as a list.
type XMLCodec struct{}

// Encode encodes a structured value as an XML document.
func (XMLCodec) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	if err := encodeXMLElement(enc, XMLRoot, v); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func encodeXMLElement(enc *xml.Encoder, name string, v any) error {
	if !isXMLName(name) {
		return fmt.Errorf("xml: invalid element name %q", name)
	}
	start := xml.StartElement{Name: xml.Name{Local: name}}

	rv := reflect.ValueOf(v)
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			rv = reflect.Value{}
			break
		}
		rv = rv.Elem()
	}

	if !rv.IsValid() {
		start.Attr = []xml.Attr{{Name: xml.Name{Local: XMLNilAttr}, Value: "true"}}
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		return enc.EncodeToken(start.End())
	}

	isBytes := rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8
	if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && !isBytes {
		start.Attr = []xml.Attr{{Name: xml.Name{Local: XMLListAttr}, Value: "true"}}
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("xml: map key type %s is not supported", rv.Type().Key())
		}
		keys := rv.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			return strings.Compare(a.String(), b.String())
		})
		for _, key := range keys {
			if err := encodeXMLElement(enc, key.String(), rv.MapIndex(key).Interface()); err != nil {
				return err
			}
		}
	case reflect.Slice, reflect.Array:
		if isBytes {
			if err := enc.EncodeToken(xml.CharData(base64.StdEncoding.EncodeToString(rv.Bytes()))); err != nil {
				return err
			}
			break
		}
		for i := range rv.Len() {
			if err := encodeXMLElement(enc, XMLEntry, rv.Index(i).Interface()); err != nil {
				return err
			}
		}
	default:
		text, err := cast.ToStringE(rv.Interface())
		if err != nil {
			return fmt.Errorf("xml: %w", err)
		}
		if err := enc.EncodeToken(xml.CharData(text)); err != nil {
			return err
		}
	}

	return enc.EncodeToken(start.End())
}

// isXMLName reports whether name can be used as an element name.
func isXMLName(name string) bool {
	if name == "" || strings.HasPrefix(strings.ToLower(name), "xml") {
		return false
	}
	for i, r := range name {
		switch {
		case unicode.IsLetter(r), r == '_':
		case i > 0 && (unicode.IsDigit(r) || r == '-' || r == '.'):
		default:
			return false
		}
	}

	return true
}

// xmlNode is a parsed element.
type xmlNode struct {
	name     string
	isNil    bool
	isList   bool
	text     strings.Builder
	children []*xmlNode
}

// Decode decodes an XML document into a structured target (*any or
// *map[string]any).
func (XMLCodec) Decode(data []byte, v any) error {
	root, err := parseXML(data)
	if err != nil {
		return err
	}

	return assignStructured(v, root.value())
}

func parseXML(data []byte) (*xmlNode, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		root  *xmlNode
		stack []*xmlNode
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &xmlNode{name: t.Name.Local}
			for _, attr := range t.Attr {
				if attr.Value != "true" {
					continue
				}
				switch attr.Name.Local {
				case XMLNilAttr:
					node.isNil = true
				case XMLListAttr:
					node.isList = true
				}
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, node)
			} else {
				if root != nil {
					return nil, errors.New("xml: multiple root elements")
				}
				root = node
			}
			stack = append(stack, node)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}

	if root == nil {
		return nil, errXMLEmptyDocument
	}

	return root, nil
}

// value converts the node into a structured value.
func (n *xmlNode) value() any {
	if n.isNil {
		return nil
	}
	if n.isList {
		list := make([]any, 0, len(n.children))
		for _, child := range n.children {
			list = append(list, child.value())
		}
		return list
	}
	if len(n.children) == 0 {
		return n.text.String()
	}

	m := make(map[string]any, len(n.children))
	repeated := make(map[string]bool)
	for _, child := range n.children {
		v := child.value()
		existing, ok := m[child.name]
		switch {
		case !ok:
			m[child.name] = v
		case repeated[child.name]:
			m[child.name] = append(existing.([]any), v)
		default:
			// Repeated element names collect into a list.
			m[child.name] = []any{existing, v}
			repeated[child.name] = true
		}
	}

	return m
}
