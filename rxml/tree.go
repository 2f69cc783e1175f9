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

// Package rxml inflates layout/drawable XML into an in-memory tree,
// collects @+id definitions, extracts <aapt:attr> inline fragments into
// their own documents, and flattens the result to the binary format
// embedded in a compiled envelope (spec §4.4).
package rxml

import "android/rescompile/proto"

// AaptNamespace is the reserved namespace used for build-time-only
// elements and attributes, such as <aapt:attr>.
const AaptNamespace = "http://schemas.android.com/aapt"

// Document is one XML document: a root node plus the symbols it defines.
// The primary document and every extracted inline fragment are each a
// Document of their own.
type Document struct {
	Root            proto.XMLNode
	ExportedSymbols []string
	// SynthesizedName is the resource name ExtractInlineFragments
	// generated for this Document and rewrote into the referencing
	// attribute on its parent (spec §4.4 step 3(c)/(d)). Empty on the
	// primary document returned by Parse.
	SynthesizedName string
}

// Node is an alias for the wire node type so that tree construction and
// flattening share one representation end to end.
type Node = proto.XMLNode

// Attribute is an alias for the wire attribute type.
type Attribute = proto.XMLAttribute

// NamespaceDecl is an alias for the wire namespace-declaration type.
type NamespaceDecl = proto.XMLNamespaceDecl

// Flatten serializes d.Root to the binary XML format (spec §4.4 step 4).
func (d *Document) Flatten() []byte {
	return d.Root.Marshal()
}
