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

package driver

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"

	"android/rescompile/archive"
	"android/rescompile/proto"
	"android/rescompile/rdiag"
	"android/rescompile/respath"
	"android/rescompile/rxml"
)

// decodeEnvelope re-reads a compiled envelope written by
// archive.WriteEnvelope, for test assertions only; production code has
// no envelope reader since linking is out of scope (spec §1).
func decodeEnvelope(t *testing.T, data []byte) []*proto.CompiledFile {
	t.Helper()
	if len(data) < 4 {
		t.Fatalf("envelope too short: %d bytes", len(data))
	}
	count := binary.LittleEndian.Uint32(data[:4])
	rest := data[4:]
	descriptors := make([]*proto.CompiledFile, 0, count)
	for i := uint32(0); i < count; i++ {
		descLen, n := protowire.ConsumeVarint(rest)
		if n < 0 {
			t.Fatalf("bad descriptor length prefix at record %d", i)
		}
		rest = rest[n:]
		descBytes := rest[:descLen]
		rest = rest[descLen:]
		desc, err := proto.UnmarshalCompiledFile(descBytes)
		if err != nil {
			t.Fatalf("UnmarshalCompiledFile: %v", err)
		}
		descriptors = append(descriptors, desc)
		payloadLen := binary.LittleEndian.Uint64(rest[:8])
		rest = rest[8+payloadLen:]
	}
	return descriptors
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestCompileOneValues(t *testing.T) {
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "values", "strings.xml")
	writeFile(t, src, `<resources><string name="hi">Hi</string></resources>`)

	d, err := respath.Classify("values/strings.xml")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	d.Source = src

	out := t.TempDir()
	w, err := archive.NewDirWriter(out)
	if err != nil {
		t.Fatalf("NewDirWriter: %v", err)
	}
	diag := rdiag.NewContext(nil)

	if err := CompileOne(d, w, diag, Options{DefaultPackageID: 0x7f}); err != nil {
		t.Fatalf("CompileOne: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	body, err := os.ReadFile(filepath.Join(out, "values_strings.arsc.flat"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	table, err := proto.Unmarshal(body)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	pkg := table.FindPackage("")
	if pkg == nil || pkg.FindType("string") == nil {
		t.Fatalf("missing compiled string entry: %+v", table)
	}
}

func TestCompileOneXMLExtractsFragments(t *testing.T) {
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "drawable", "icon.xml")
	writeFile(t, src, `<vector xmlns:android="http://schemas.android.com/apk/res/android"
	xmlns:aapt="http://schemas.android.com/aapt">
	<aapt:attr name="android:fillColor">
		<gradient android:startColor="#000"/>
	</aapt:attr>
</vector>`)

	d, err := respath.Classify("drawable/icon.xml")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	d.Source = src

	out := t.TempDir()
	w, err := archive.NewDirWriter(out)
	if err != nil {
		t.Fatalf("NewDirWriter: %v", err)
	}
	diag := rdiag.NewContext(nil)

	if err := CompileOne(d, w, diag, Options{}); err != nil {
		t.Fatalf("CompileOne: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	entryPath := filepath.Join(out, respath.EntryName(d))
	body, err := os.ReadFile(entryPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(body) == 0 {
		t.Fatal("compiled xml entry is empty")
	}

	descriptors := decodeEnvelope(t, body)
	if len(descriptors) != 2 {
		t.Fatalf("got %d records, want 2 (primary + 1 extracted fragment)", len(descriptors))
	}
	primary, fragment := descriptors[0], descriptors[1]
	if primary.Entry == fragment.Entry {
		t.Fatalf("fragment Entry %q must not equal primary Entry %q", fragment.Entry, primary.Entry)
	}

	// Independently re-derive what the primary's rewritten attribute
	// should reference, and confirm the fragment's descriptor Entry is
	// exactly that name — i.e. the reference driver.compileXML embeds is
	// actually resolvable against one of the envelope's own records.
	f, err := os.Open(src)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	doc, err := rxml.Parse(f)
	if err != nil {
		t.Fatalf("rxml.Parse: %v", err)
	}
	baseName := strings.TrimSuffix(respath.EntryName(d), ".flat")
	subs := rxml.ExtractInlineFragments(doc, baseName)
	if len(subs) != 1 {
		t.Fatalf("got %d sub-documents, want 1", len(subs))
	}
	wantRef := "@" + subs[0].SynthesizedName
	if got := doc.Root.Attributes[0].Value; got != wantRef {
		t.Fatalf("rewritten attribute = %q, want %q", got, wantRef)
	}
	if fragment.Entry != subs[0].SynthesizedName {
		t.Errorf("fragment.Entry = %q, want %q (the synthesized name referenced by the primary)", fragment.Entry, subs[0].SynthesizedName)
	}
}

func buildTestPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestCompileOnePNG(t *testing.T) {
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "drawable", "icon.png")
	if err := os.MkdirAll(filepath.Dir(src), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(src, buildTestPNG(t), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	d, err := respath.Classify("drawable/icon.png")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	d.Source = src

	out := t.TempDir()
	w, err := archive.NewDirWriter(out)
	if err != nil {
		t.Fatalf("NewDirWriter: %v", err)
	}
	diag := rdiag.NewContext(nil)

	if err := CompileOne(d, w, diag, Options{}); err != nil {
		t.Fatalf("CompileOne: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := os.Stat(filepath.Join(out, respath.EntryName(d))); err != nil {
		t.Fatalf("missing compiled entry: %v", err)
	}
}

func TestCompileOneRawPassthrough(t *testing.T) {
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "raw", "licenses.txt")
	writeFile(t, src, "raw bytes verbatim")

	d, err := respath.Classify("raw/licenses.txt")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	d.Source = src

	out := t.TempDir()
	w, err := archive.NewDirWriter(out)
	if err != nil {
		t.Fatalf("NewDirWriter: %v", err)
	}
	diag := rdiag.NewContext(nil)

	if err := CompileOne(d, w, diag, Options{}); err != nil {
		t.Fatalf("CompileOne: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, respath.EntryName(d))); err != nil {
		t.Fatalf("missing compiled entry: %v", err)
	}
}

func TestCompileAllAccumulatesStickyError(t *testing.T) {
	srcDir := t.TempDir()
	goodSrc := filepath.Join(srcDir, "raw", "ok.txt")
	writeFile(t, goodSrc, "fine")

	good, err := respath.Classify("raw/ok.txt")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	good.Source = goodSrc

	bad, err := respath.Classify("bogus-type/missing.txt")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	bad.Source = filepath.Join(srcDir, "bogus-type", "missing.txt")

	out := t.TempDir()
	w, err := archive.NewDirWriter(out)
	if err != nil {
		t.Fatalf("NewDirWriter: %v", err)
	}
	var messages []string
	diag := rdiag.NewContext(sinkFunc(func(source string, sev rdiag.Severity, msg string) {
		if sev == rdiag.Error {
			messages = append(messages, msg)
		}
	}))

	failed := CompileAll([]respath.Descriptor{good, bad}, w, diag, Options{})
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if !failed {
		t.Fatal("want CompileAll to report batch failure")
	}
	if _, err := os.Stat(filepath.Join(out, respath.EntryName(good))); err != nil {
		t.Errorf("good input was not compiled despite later failure: %v", err)
	}
	if len(messages) != 1 {
		t.Errorf("got %d error diagnostics, want 1", len(messages))
	}
}

type sinkFunc func(source string, sev rdiag.Severity, message string)

func (f sinkFunc) Diagnose(source string, sev rdiag.Severity, message string) { f(source, sev, message) }
