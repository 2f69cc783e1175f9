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

// Package respath classifies resource file paths of the form
// "type[-qualifiers]/name[.ext]" into a typed descriptor, and builds the
// stable intermediate-archive entry name for a classified path.
package respath

import (
	"fmt"
	"path/filepath"
	"strings"

	"android/rescompile/resconfig"
)

// Type names recognized under a res/ directory. Kept as a concrete table
// (rather than "any directory name is a type") so that §4.8's dispatch on
// "known resource type" is well defined; mirrors aapt2's parseResourceType.
var knownTypes = map[string]bool{
	"anim": true, "animator": true, "array": true, "attr": true,
	"bool": true, "color": true, "dimen": true, "drawable": true,
	"font": true, "fraction": true, "id": true, "integer": true,
	"interpolator": true, "layout": true, "menu": true, "mipmap": true,
	"navigation": true, "plurals": true, "raw": true, "string": true,
	"style": true, "transition": true, "values": true, "xml": true,
}

// RawType is the pseudo-type used for verbatim, untransformed pass-through.
const RawType = "raw"

// ValuesType is the type directory triggering the Values Compiler.
const ValuesType = "values"

// Descriptor is the parsed form of a resource path:
// res/type[-qualifiers]/name[.ext].
type Descriptor struct {
	Source     string          // original path, an opaque diagnostic identifier.
	TypeDir    string          // directory token before any dash, e.g. "values".
	Name       string          // filename without its final extension group.
	Extension  string          // "", "xml", "png", "9.png", or other.
	ConfigStr  string          // raw qualifier segment; empty if none.
	Config     resconfig.Config
}

// ErrBadPath reports a path with fewer than two components.
type ErrBadPath struct{ Path string }

func (e *ErrBadPath) Error() string { return fmt.Sprintf("%s: bad resource path", e.Path) }

// ErrInvalidConfiguration reports a qualifier segment that failed to parse.
type ErrInvalidConfiguration struct {
	Path, ConfigStr string
	Cause           error
}

func (e *ErrInvalidConfiguration) Error() string {
	return fmt.Sprintf("%s: invalid configuration %q: %v", e.Path, e.ConfigStr, e.Cause)
}

func (e *ErrInvalidConfiguration) Unwrap() error { return e.Cause }

// Classify parses path into a Descriptor. Only the final two path
// components matter; everything before them (e.g. a "res/" prefix) is
// ignored. Forward slashes are converted to the platform separator before
// splitting, so slash-delimited paths work on every platform; a backslash
// separates components only where it is the platform separator.
func Classify(path string) (Descriptor, error) {
	norm := filepath.FromSlash(path)
	parts := strings.Split(norm, string(filepath.Separator))
	// Drop empty components (leading/trailing/duplicate separators).
	nonEmpty := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	if len(nonEmpty) < 2 {
		return Descriptor{}, &ErrBadPath{Path: path}
	}

	dir := nonEmpty[len(nonEmpty)-2]
	filename := nonEmpty[len(nonEmpty)-1]

	typeDir := dir
	configStr := ""
	if dash := strings.Index(dir, "-"); dash >= 0 {
		typeDir = dir[:dash]
		configStr = dir[dash+1:]
	}

	cfg, err := resconfig.Parse(configStr)
	if err != nil {
		return Descriptor{}, &ErrInvalidConfiguration{Path: path, ConfigStr: configStr, Cause: err}
	}

	name := filename
	extension := ""
	if dot := strings.Index(filename, "."); dot >= 0 {
		// First-dot split: "foo.9.png" -> name="foo", extension="9.png".
		// This is load-bearing for 9-patch classification downstream.
		name = filename[:dot]
		extension = filename[dot+1:]
	}

	return Descriptor{
		Source:    path,
		TypeDir:   typeDir,
		Name:      name,
		Extension: extension,
		ConfigStr: configStr,
		Config:    cfg,
	}, nil
}

// IsKnownType reports whether typeDir names a recognized resource type.
func IsKnownType(typeDir string) bool {
	return knownTypes[typeDir]
}

// EntryName builds the stable intermediate-archive entry name for d:
// "type[-qual]_name[.ext].flat".
func EntryName(d Descriptor) string {
	var b strings.Builder
	b.WriteString(d.TypeDir)
	if d.ConfigStr != "" {
		b.WriteByte('-')
		b.WriteString(d.ConfigStr)
	}
	b.WriteByte('_')
	b.WriteString(d.Name)
	if d.Extension != "" {
		b.WriteByte('.')
		b.WriteString(d.Extension)
	}
	b.WriteString(".flat")
	return b.String()
}

// WithValuesExtension returns a copy of d with its extension rewritten to
// "arsc", as required for values-type inputs before computing the entry
// name (§4.3, §4.8).
func WithValuesExtension(d Descriptor) Descriptor {
	d.Extension = "arsc"
	return d
}
