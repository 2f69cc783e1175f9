// Copyright 2024 Google Inc. All rights reserved.
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

package proto

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// XMLAttribute is one namespace-qualified, unresolved attribute value
// (spec §4.4 step 4: "preserving raw (unresolved) attribute values").
type XMLAttribute struct {
	Namespace string
	Name      string
	Value     string
}

// XMLNamespaceDecl is one xmlns declaration opened at an element.
type XMLNamespaceDecl struct {
	Prefix string
	URI    string
}

// XMLNode is either an element (Name non-empty) or a text node (IsText
// true), flattened verbatim into the binary artifact emitted by the XML
// compiler (spec §4.4).
type XMLNode struct {
	Line       int
	IsText     bool
	Text       string
	Namespace  string
	Name       string
	Namespaces []XMLNamespaceDecl
	Attributes []XMLAttribute
	Children   []XMLNode
}

const (
	fieldXMLNodeLine       = 1
	fieldXMLNodeIsText     = 2
	fieldXMLNodeText       = 3
	fieldXMLNodeNamespace  = 4
	fieldXMLNodeName       = 5
	fieldXMLNodeNSDecl     = 6
	fieldXMLNodeAttribute  = 7
	fieldXMLNodeChild      = 8

	fieldNSDeclPrefix = 1
	fieldNSDeclURI    = 2

	fieldAttrNamespace = 1
	fieldAttrName      = 2
	fieldAttrValue     = 3
)

// Marshal encodes n, recursively, into its wire representation.
func (n *XMLNode) Marshal() []byte {
	var b []byte
	b = appendUint32(b, fieldXMLNodeLine, uint32(n.Line))
	b = appendBool(b, fieldXMLNodeIsText, n.IsText)
	if n.IsText {
		b = appendString(b, fieldXMLNodeText, n.Text)
		return b
	}
	b = appendString(b, fieldXMLNodeNamespace, n.Namespace)
	b = appendString(b, fieldXMLNodeName, n.Name)
	for _, d := range n.Namespaces {
		b = appendMessage(b, fieldXMLNodeNSDecl, marshalNSDecl(d))
	}
	for _, a := range n.Attributes {
		b = appendMessage(b, fieldXMLNodeAttribute, marshalAttribute(a))
	}
	for _, c := range n.Children {
		b = appendMessage(b, fieldXMLNodeChild, c.Marshal())
	}
	return b
}

func marshalNSDecl(d XMLNamespaceDecl) []byte {
	var b []byte
	b = appendString(b, fieldNSDeclPrefix, d.Prefix)
	b = appendString(b, fieldNSDeclURI, d.URI)
	return b
}

func marshalAttribute(a XMLAttribute) []byte {
	var b []byte
	b = appendString(b, fieldAttrNamespace, a.Namespace)
	b = appendString(b, fieldAttrName, a.Name)
	b = appendString(b, fieldAttrValue, a.Value)
	return b
}

// UnmarshalXMLNode decodes the wire representation produced by
// XMLNode.Marshal.
func UnmarshalXMLNode(data []byte) (*XMLNode, error) {
	n, err := unmarshalXMLNode(data)
	if err != nil {
		return nil, fmt.Errorf("proto: unmarshal XMLNode: %w", err)
	}
	return &n, nil
}

func unmarshalXMLNode(data []byte) (XMLNode, error) {
	var n XMLNode
	err := decodeMessage(data, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case fieldXMLNodeLine:
			v, c := consumeVarint(b)
			n.Line = int(v)
			return c
		case fieldXMLNodeIsText:
			v, c := consumeVarint(b)
			n.IsText = v != 0
			return c
		case fieldXMLNodeText:
			v, c := consumeString(b)
			n.Text = v
			return c
		case fieldXMLNodeNamespace:
			v, c := consumeString(b)
			n.Namespace = v
			return c
		case fieldXMLNodeName:
			v, c := consumeString(b)
			n.Name = v
			return c
		case fieldXMLNodeNSDecl:
			msg, c := consumeBytes(b)
			if c < 0 {
				return c
			}
			d, err := unmarshalNSDecl(msg)
			if err != nil {
				return -1
			}
			n.Namespaces = append(n.Namespaces, d)
			return c
		case fieldXMLNodeAttribute:
			msg, c := consumeBytes(b)
			if c < 0 {
				return c
			}
			a, err := unmarshalAttribute(msg)
			if err != nil {
				return -1
			}
			n.Attributes = append(n.Attributes, a)
			return c
		case fieldXMLNodeChild:
			msg, c := consumeBytes(b)
			if c < 0 {
				return c
			}
			child, err := unmarshalXMLNode(msg)
			if err != nil {
				return -1
			}
			n.Children = append(n.Children, child)
			return c
		}
		return -1
	})
	return n, err
}

func unmarshalNSDecl(data []byte) (XMLNamespaceDecl, error) {
	var d XMLNamespaceDecl
	err := decodeMessage(data, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case fieldNSDeclPrefix:
			v, c := consumeString(b)
			d.Prefix = v
			return c
		case fieldNSDeclURI:
			v, c := consumeString(b)
			d.URI = v
			return c
		}
		return -1
	})
	return d, err
}

func unmarshalAttribute(data []byte) (XMLAttribute, error) {
	var a XMLAttribute
	err := decodeMessage(data, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case fieldAttrNamespace:
			v, c := consumeString(b)
			a.Namespace = v
			return c
		case fieldAttrName:
			v, c := consumeString(b)
			a.Name = v
			return c
		case fieldAttrValue:
			v, c := consumeString(b)
			a.Value = v
			return c
		}
		return -1
	})
	return a, err
}
