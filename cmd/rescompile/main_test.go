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

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeResFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestRunRejectsMissingOutput(t *testing.T) {
	if code := run([]string{"res/values/strings.xml"}); code != 1 {
		t.Errorf("run() = %d, want 1", code)
	}
}

func TestRunRejectsBothModes(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	if code := run([]string{"-o", out, "--dir", "res", "extra.xml"}); code != 1 {
		t.Errorf("run() = %d, want 1", code)
	}
}

func TestRunCompilesDirTree(t *testing.T) {
	res := t.TempDir()
	writeResFile(t, filepath.Join(res, "values", "strings.xml"), `<resources><string name="hi">Hi</string></resources>`)
	writeResFile(t, filepath.Join(res, "raw", "license.txt"), "raw bytes")

	out := filepath.Join(t.TempDir(), "out")
	if code := run([]string{"-o", out, "--dir", res}); code != 0 {
		t.Fatalf("run() = %d, want 0", code)
	}

	if _, err := os.Stat(filepath.Join(out, "values_strings.arsc.flat")); err != nil {
		t.Errorf("missing compiled values entry: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "raw_license.txt.flat")); err != nil {
		t.Errorf("missing compiled raw entry: %v", err)
	}
}

func TestRunReportsFailureButCompilesRest(t *testing.T) {
	res := t.TempDir()
	writeResFile(t, filepath.Join(res, "raw", "ok.txt"), "fine")
	writeResFile(t, filepath.Join(res, "bogus-type", "x.txt"), "oops")

	out := filepath.Join(t.TempDir(), "out")
	if code := run([]string{"-o", out, "--dir", res}); code != 1 {
		t.Fatalf("run() = %d, want 1", code)
	}
	if _, err := os.Stat(filepath.Join(out, "raw_ok.txt.flat")); err != nil {
		t.Errorf("good input should still have compiled: %v", err)
	}
}
