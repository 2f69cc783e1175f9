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

// Package restable parses values XML documents (<resources>...</resources>)
// into a proto.ResourceTable, and synthesizes pseudo-locale variants from
// default-configuration entries (spec §4.3).
package restable

import (
	"fmt"
	"io"
	"strings"

	"github.com/jacoelho/xsd/pkg/xmlstream"

	"android/rescompile/proto"
)

// Options configures one values-document parse (spec §4.3 step 2).
type Options struct {
	// Legacy downgrades a positional-argument string to a warning instead
	// of a parse error.
	Legacy bool
	// Translatable is the default translatable flag applied to every
	// string/plurals entry that doesn't set android:translatable itself.
	// The driver sets this to false when the source filename contains
	// "donottranslate".
	Translatable bool
	// Config is the configuration the parsed entries are recorded under.
	Config string
}

// ErrPositionalArgument is reported when a string resource mixes
// positional (%1$s) and non-positional (%s) format specifiers without
// legacy mode.
type ErrPositionalArgument struct {
	Entry string
}

func (e *ErrPositionalArgument) Error() string {
	return fmt.Sprintf("%s: undeclared positional argument; pass --legacy to downgrade to a warning", e.Entry)
}

// Warner receives non-fatal diagnostics raised while parsing, such as a
// legacy-mode positional-argument downgrade.
type Warner interface {
	Warn(entry, message string)
}

// Parse reads a values XML document from r into table, recording every
// entry under opts.Config. Parse errors abort the file (spec §4.3 step 3).
func Parse(r io.Reader, table *proto.ResourceTable, pkgName string, opts Options, warn Warner) error {
	reader, err := xmlstream.NewReader(r)
	if err != nil {
		return fmt.Errorf("restable: %w", err)
	}
	pkg := table.CreatePackage(pkgName)

	depth := 0
	for {
		ev, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("restable: parse error: %w", err)
		}
		switch ev.Kind {
		case xmlstream.EventStartElement:
			depth++
			if depth != 2 {
				continue
			}
			if err := parseEntry(reader, ev, pkg, opts, warn); err != nil {
				return err
			}
			// parseEntry consumes through its own matching end event, so
			// the subtree it just handled never reaches the case below.
			depth--
		case xmlstream.EventEndElement:
			depth--
		}
	}
	return nil
}

func attrValue(attrs []xmlstream.Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name.Local == name {
			return string(a.Value), true
		}
	}
	return "", false
}

func parseEntry(reader *xmlstream.Reader, start xmlstream.Event, pkg *proto.Package, opts Options, warn Warner) error {
	typeName := resourceTypeFor(start.Name.Local)
	if start.Name.Local == "item" {
		// A generic <item type="X" name="foo">, used for dimen/id/bool/
		// fraction/etc. resources that don't have their own element name.
		if t, ok := attrValue(start.Attrs, "type"); ok && t != "" {
			typeName = t
		} else {
			typeName = "attr"
		}
	}
	name, ok := attrValue(start.Attrs, "name")
	if !ok || name == "" {
		return skipAndIgnore(reader)
	}

	translatable := opts.Translatable
	if v, ok := attrValue(start.Attrs, "translatable"); ok {
		translatable = v == "true"
	}

	switch start.Name.Local {
	case "string":
		text, err := readElementText(reader)
		if err != nil {
			return err
		}
		if err := checkPositionalArguments(name, text, opts.Legacy, warn); err != nil {
			return err
		}
		ty := pkg.CreateType(typeName)
		ty.CreateEntry(name).SetValue(opts.Config, proto.Value{Translatable: translatable, Str: text})

	case "plurals":
		items, err := readPluralItems(reader)
		if err != nil {
			return err
		}
		ty := pkg.CreateType(typeName)
		ty.CreateEntry(name).SetValue(opts.Config, proto.Value{Translatable: translatable, IsPlural: true, PluralItems: items})

	case "string-array":
		values, err := readArrayItems(reader)
		if err != nil {
			return err
		}
		ty := pkg.CreateType(typeName)
		for i, v := range values {
			entryName := fmt.Sprintf("%s[%d]", name, i)
			ty.CreateEntry(entryName).SetValue(opts.Config, proto.Value{Translatable: translatable, Str: v})
		}

	case "array":
		values, err := readArrayItems(reader)
		if err != nil {
			return err
		}
		ty := pkg.CreateType(typeName)
		for i, v := range values {
			entryName := fmt.Sprintf("%s[%d]", name, i)
			ty.CreateEntry(entryName).SetValue(opts.Config, proto.Value{Str: v})
		}

	case "declare-styleable":
		if err := skipAndIgnore(reader); err != nil {
			return err
		}

	default:
		// dimen, color, bool, integer, id, fraction, style and any other
		// simple-valued resource type: the element's text is the value
		// verbatim.
		text, err := readElementText(reader)
		if err != nil {
			return err
		}
		ty := pkg.CreateType(typeName)
		ty.CreateEntry(name).SetValue(opts.Config, proto.Value{Str: text})
	}
	return nil
}

// resourceTypeFor maps a values XML element name to its resource type,
// e.g. <string-array> and <array> both produce "array" entries while
// <string> produces "string" (mirrors aapt2's ParseResourceType table
// for values elements).
func resourceTypeFor(elementName string) string {
	switch elementName {
	case "string":
		return "string"
	case "string-array", "array", "integer-array":
		return "array"
	case "plurals":
		return "plurals"
	case "declare-styleable":
		return "styleable"
	case "item":
		return "attr"
	default:
		return elementName
	}
}

// readElementText consumes the remainder of the current element
// (already past its start event) and returns its concatenated character
// data, ignoring any child elements (spec doesn't define nested markup
// inside simple value resources beyond plain text).
func readElementText(reader *xmlstream.Reader) (string, error) {
	var b strings.Builder
	depth := 1
	for {
		ev, err := reader.Next()
		if err != nil {
			return "", fmt.Errorf("restable: %w", err)
		}
		switch ev.Kind {
		case xmlstream.EventStartElement:
			depth++
		case xmlstream.EventEndElement:
			depth--
			if depth == 0 {
				return b.String(), nil
			}
		case xmlstream.EventCharData:
			b.Write(ev.Text)
		}
	}
}

func readPluralItems(reader *xmlstream.Reader) ([]proto.PluralItem, error) {
	var items []proto.PluralItem
	depth := 1
	for {
		ev, err := reader.Next()
		if err != nil {
			return nil, fmt.Errorf("restable: %w", err)
		}
		switch ev.Kind {
		case xmlstream.EventStartElement:
			depth++
			if depth == 2 && ev.Name.Local == "item" {
				quantity, _ := attrValue(ev.Attrs, "quantity")
				text, err := readElementText(reader)
				if err != nil {
					return nil, err
				}
				depth--
				items = append(items, proto.PluralItem{Quantity: quantity, Value: text})
			}
		case xmlstream.EventEndElement:
			depth--
			if depth == 0 {
				return items, nil
			}
		}
	}
}

func readArrayItems(reader *xmlstream.Reader) ([]string, error) {
	var values []string
	depth := 1
	for {
		ev, err := reader.Next()
		if err != nil {
			return nil, fmt.Errorf("restable: %w", err)
		}
		switch ev.Kind {
		case xmlstream.EventStartElement:
			depth++
			if depth == 2 && ev.Name.Local == "item" {
				text, err := readElementText(reader)
				if err != nil {
					return nil, err
				}
				depth--
				values = append(values, text)
			}
		case xmlstream.EventEndElement:
			depth--
			if depth == 0 {
				return values, nil
			}
		}
	}
}

// skipAndIgnore consumes the remainder of the current element's subtree
// without interpreting it, for constructs this compiler does not model
// (e.g. <declare-styleable> attr children, which describe, rather than
// hold, resource values).
func skipAndIgnore(reader *xmlstream.Reader) error {
	depth := 1
	for {
		ev, err := reader.Next()
		if err != nil {
			return fmt.Errorf("restable: %w", err)
		}
		switch ev.Kind {
		case xmlstream.EventStartElement:
			depth++
		case xmlstream.EventEndElement:
			depth--
			if depth == 0 {
				return nil
			}
		}
	}
}

// checkPositionalArguments enforces spec §4.3 step 2: a string resource
// using a "%1$s"-style positional specifier alongside a bare "%s"
// specifier is an error unless legacy mode is set, in which case it is
// downgraded to a warning.
func checkPositionalArguments(entry, text string, legacy bool, warn Warner) error {
	hasPositional := strings.Contains(text, "$")
	hasBare := false
	for i := 0; i < len(text); i++ {
		if text[i] != '%' {
			continue
		}
		if i+1 < len(text) && text[i+1] == '%' {
			i++
			continue
		}
		j := i + 1
		for j < len(text) && text[j] >= '0' && text[j] <= '9' {
			j++
		}
		if j < len(text) && text[j] == '$' {
			if j > i+1 {
				hasPositional = true
			}
			continue
		}
		hasBare = true
	}
	if hasPositional && hasBare {
		if legacy {
			if warn != nil {
				warn.Warn(entry, "mixing positional and non-positional format arguments")
			}
			return nil
		}
		return &ErrPositionalArgument{Entry: entry}
	}
	return nil
}
