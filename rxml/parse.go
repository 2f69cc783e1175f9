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

package rxml

import (
	"fmt"
	"io"

	"github.com/jacoelho/xsd/pkg/xmlstream"
)

// Parse inflates r into an in-memory tree with namespace scoping
// preserved (spec §4.4 step 1). Namespace prefixes are not retained:
// element and attribute names carry their fully resolved namespace URI,
// which is what the flattened binary format stores.
func Parse(r io.Reader) (*Document, error) {
	reader, err := xmlstream.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("rxml: %w", err)
	}

	var root *Node
	var stack []*Node
	for {
		ev, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("rxml: parse error: %w", err)
		}

		switch ev.Kind {
		case xmlstream.EventStartElement:
			n := Node{
				Line:      ev.Line,
				Namespace: ev.Name.Namespace,
				Name:      ev.Name.Local,
			}
			for _, a := range ev.Attrs {
				n.Attributes = append(n.Attributes, Attribute{
					Namespace: a.Name.Namespace,
					Name:      a.Name.Local,
					Value:     string(a.Value),
				})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("rxml: multiple root elements")
				}
				stack = append(stack, &n)
				root = stack[0]
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
				stack = append(stack, &parent.Children[len(parent.Children)-1])
			}

		case xmlstream.EventEndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("rxml: unbalanced end element")
			}
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			} else {
				stack = nil
			}

		case xmlstream.EventCharData:
			if len(stack) == 0 {
				continue
			}
			parent := stack[len(stack)-1]
			text := string(ev.Text)
			parent.Children = append(parent.Children, Node{IsText: true, Text: text, Line: ev.Line})
		}
	}

	if root == nil {
		return nil, fmt.Errorf("rxml: empty document")
	}

	doc := &Document{Root: *root}
	collectIDs(&doc.Root, &doc.ExportedSymbols)
	return doc, nil
}
