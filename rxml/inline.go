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
	"strings"
)

// ExtractInlineFragments locates <aapt:attr name="X"> children anywhere
// in doc's tree and pulls each one out into its own Document (spec §4.4
// step 3). baseName seeds the synthetic resource names given to
// extracted fragments, e.g. the entry name of the file being compiled.
//
// Extraction recurses into nested <aapt:attr> elements, and sub-document
// order matches the document order (depth-first) in which the
// <aapt:attr> elements were encountered in the source (spec §4.5,
// "Determinism").
func ExtractInlineFragments(doc *Document, baseName string) []*Document {
	counter := 0
	var extracted []*Document
	extractFrom(&doc.Root, baseName, &counter, &extracted)
	return extracted
}

func extractFrom(parent *Node, baseName string, counter *int, extracted *[]*Document) {
	i := 0
	for i < len(parent.Children) {
		child := &parent.Children[i]
		if !child.IsText && child.Namespace == AaptNamespace && child.Name == "attr" {
			sub := extractOne(parent, child, baseName, counter)
			*extracted = append(*extracted, sub)
			extractFrom(&sub.Root, baseName, counter, extracted)
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			continue
		}
		if !child.IsText {
			extractFrom(child, baseName, counter, extracted)
		}
		i++
	}
}

// extractOne removes the <aapt:attr name="X"> wrapper, returning the
// Document rooted at its single element child, and rewrites the
// corresponding attribute on parent to a reference to the synthesized
// resource name.
func extractOne(parent, aaptAttr *Node, baseName string, counter *int) *Document {
	var qualifiedName string
	for _, a := range aaptAttr.Attributes {
		if a.Name == "name" {
			qualifiedName = a.Value
			break
		}
	}

	var valueElem *Node
	for i := range aaptAttr.Children {
		if !aaptAttr.Children[i].IsText {
			valueElem = &aaptAttr.Children[i]
			break
		}
	}
	sub := &Document{}
	if valueElem != nil {
		sub.Root = *valueElem
	}
	collectIDs(&sub.Root, &sub.ExportedSymbols)

	*counter++
	synthName := fmt.Sprintf("%s_extracted_%d", baseName, *counter)
	ns, local := splitQualifiedAttrName(qualifiedName)
	setAttribute(parent, ns, local, "@"+synthName)
	sub.SynthesizedName = synthName

	return sub
}

// wellKnownPrefixes maps the attribute-reference prefixes that appear in
// an <aapt:attr name="..."> value to their namespace URI. The namespace
// reader this package parses with resolves element and attribute names
// eagerly and does not expose the source's raw prefix-to-URI bindings,
// so arbitrary user-declared prefixes on an inline-fragment "name"
// reference cannot be resolved here; the two prefixes Android resource
// XML actually uses for this construct are handled directly.
var wellKnownPrefixes = map[string]string{
	"android": "http://schemas.android.com/apk/res/android",
	"aapt":    AaptNamespace,
}

// splitQualifiedAttrName resolves a "prefix:local" attribute reference
// (as written in an <aapt:attr name="..."> value) to a namespace URI and
// local name, falling back to no namespace when unprefixed.
func splitQualifiedAttrName(qualified string) (namespace, local string) {
	idx := strings.IndexByte(qualified, ':')
	if idx < 0 {
		return "", qualified
	}
	prefix, name := qualified[:idx], qualified[idx+1:]
	if uri, ok := wellKnownPrefixes[prefix]; ok {
		return uri, name
	}
	return prefix, name
}

func setAttribute(n *Node, namespace, name, value string) {
	for i := range n.Attributes {
		if n.Attributes[i].Namespace == namespace && n.Attributes[i].Name == name {
			n.Attributes[i].Value = value
			return
		}
	}
	n.Attributes = append(n.Attributes, Attribute{Namespace: namespace, Name: name, Value: value})
}
