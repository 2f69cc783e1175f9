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

// Package driver dispatches one classified resource input to the
// compiler stage its type and extension select, and writes the result
// into an open archive (spec §4.8). It is the per-input glue between
// respath/restable/rxml/respng/rfile and archive; CompileAll implements
// the batch's sticky-error accumulation (spec §7, §9).
package driver

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"android/rescompile/archive"
	"android/rescompile/proto"
	"android/rescompile/rdiag"
	"android/rescompile/respath"
	"android/rescompile/respng"
	"android/rescompile/restable"
	"android/rescompile/rfile"
	"android/rescompile/rxml"
)

// Options gathers the per-batch settings shared by every input (spec §6).
type Options struct {
	PackageName      string
	DefaultPackageID uint8
	Legacy           bool
	PseudoLocalize   bool
}

// CompileAll compiles every descriptor in order, writing results into w.
// A failure compiling one input is reported through diag and does not
// stop the batch; CompileAll reports whether any input failed (spec §7:
// "a single malformed input must not prevent the rest of the batch from
// compiling").
func CompileAll(descriptors []respath.Descriptor, w archive.Writer, diag *rdiag.Context, opts Options) bool {
	for _, d := range descriptors {
		if err := CompileOne(d, w, diag, opts); err != nil {
			diag.Error(d.Source, err.Error())
		}
	}
	return diag.Failed()
}

// CompileOne compiles a single input and writes its result as one or
// more entries in w (spec §4.8).
func CompileOne(d respath.Descriptor, w archive.Writer, diag *rdiag.Context, opts Options) error {
	if !respath.IsKnownType(d.TypeDir) {
		return fmt.Errorf("unrecognized resource type %q", d.TypeDir)
	}

	diag.Note(d.Source, "processing")

	switch {
	case d.TypeDir == respath.ValuesType:
		return compileValues(d, w, diag, opts)
	case d.TypeDir == respath.RawType:
		return compilePassthrough(d, w, diag)
	case d.Extension == "xml":
		return compileXML(d, w, diag)
	case d.Extension == "png" || d.Extension == "9.png":
		return compilePNG(d, w, diag)
	default:
		return compilePassthrough(d, w, diag)
	}
}

func compileValues(d respath.Descriptor, w archive.Writer, diag *rdiag.Context, opts Options) error {
	f, err := os.Open(d.Source)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	compileOpts := restable.CompileOptions{
		PackageName:      opts.PackageName,
		DefaultPackageID: opts.DefaultPackageID,
		Legacy:           opts.Legacy,
		PseudoLocalize:   opts.PseudoLocalize,
		Translatable:     !strings.Contains(d.Name, "donottranslate"),
		Config:           d.ConfigStr,
	}
	table, err := restable.Compile(f, d.Source, compileOpts, diag)
	if err != nil {
		return fmt.Errorf("compile values: %w", err)
	}

	entryName := respath.EntryName(respath.WithValuesExtension(d))
	return archive.WriteRaw(w, entryName, table.Marshal())
}

func compileXML(d respath.Descriptor, w archive.Writer, diag *rdiag.Context) error {
	diag.Note(d.Source, "compiling XML")

	f, err := os.Open(d.Source)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	doc, err := rxml.Parse(f)
	if err != nil {
		return fmt.Errorf("compile xml: %w", err)
	}

	entryName := respath.EntryName(d)
	baseName := strings.TrimSuffix(entryName, ".flat")
	subdocs := rxml.ExtractInlineFragments(doc, baseName)

	records := make([]archive.Record, 0, 1+len(subdocs))
	records = append(records, archive.Record{
		Descriptor: &proto.CompiledFile{
			Type:            d.TypeDir,
			Entry:           d.Name,
			Config:          d.ConfigStr,
			SourcePath:      d.Source,
			ExportedSymbols: doc.ExportedSymbols,
		},
		Payload: doc.Flatten(),
	})
	for _, sub := range subdocs {
		records = append(records, archive.Record{
			Descriptor: &proto.CompiledFile{
				Type:            d.TypeDir,
				Entry:           sub.SynthesizedName,
				Config:          d.ConfigStr,
				SourcePath:      d.Source,
				ExportedSymbols: sub.ExportedSymbols,
			},
			Payload: sub.Flatten(),
		})
	}

	return archive.WriteEnvelope(w, entryName, records)
}

func compilePNG(d respath.Descriptor, w archive.Writer, diag *rdiag.Context) error {
	diag.Note(d.Source, "compiling PNG")

	raw, err := os.ReadFile(d.Source)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}

	result, err := respng.Compile(raw, d.Extension == "9.png")
	if err != nil {
		return fmt.Errorf("compile png: %w", err)
	}
	if result.IsNinePatch {
		diag.Note(d.Source, fmt.Sprintf("9-patch dimensions %dx%d", result.Width, result.Height))
	}

	entryName := respath.EntryName(d)
	record := archive.Record{
		Descriptor: &proto.CompiledFile{
			Type:       d.TypeDir,
			Entry:      d.Name,
			Config:     d.ConfigStr,
			SourcePath: d.Source,
		},
		Payload: result.Payload,
	}
	return archive.WriteEnvelope(w, entryName, []archive.Record{record})
}

// compilePassthrough embeds raw or otherwise-unrecognized-extension
// files verbatim (spec §4.6): it is used both for the "raw" resource
// type and for any input whose extension isn't xml/png/9.png.
func compilePassthrough(d respath.Descriptor, w archive.Writer, diag *rdiag.Context) error {
	diag.Note(d.Source, "compiling raw file")

	m, err := rfile.Map(d.Source)
	if err != nil {
		return fmt.Errorf("compile raw: %w", err)
	}
	defer m.Close()

	entryName := respath.EntryName(d)
	record := archive.Record{
		Descriptor: &proto.CompiledFile{
			Type:       d.TypeDir,
			Entry:      d.Name,
			Config:     d.ConfigStr,
			SourcePath: d.Source,
		},
		Payload: bytes.Clone(m.Bytes()),
	}
	return archive.WriteEnvelope(w, entryName, []archive.Record{record})
}
