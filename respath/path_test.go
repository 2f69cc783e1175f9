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

package respath

import "testing"

func TestClassifyBadPath(t *testing.T) {
	if _, err := Classify("strings.xml"); err == nil {
		t.Fatal("Classify of a single-component path succeeded, want error")
	}
}

func TestClassifyInvalidConfiguration(t *testing.T) {
	if _, err := Classify("res/values-hdpi--ldpi/strings.xml"); err == nil {
		t.Fatal("Classify with malformed qualifiers succeeded, want error")
	}
}

func TestClassifyValues(t *testing.T) {
	d, err := Classify("res/values/strings.xml")
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if d.TypeDir != "values" || d.Name != "strings" || d.Extension != "xml" || d.ConfigStr != "" {
		t.Errorf("Classify = %+v", d)
	}
}

func TestClassifyQualified(t *testing.T) {
	d, err := Classify("res/drawable-hdpi/icon.png")
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if d.TypeDir != "drawable" || d.ConfigStr != "hdpi" || d.Name != "icon" || d.Extension != "png" {
		t.Errorf("Classify = %+v", d)
	}
}

func TestClassifyNinePatchFirstDotSplit(t *testing.T) {
	d, err := Classify("res/drawable/foo.9.png")
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	if d.Name != "foo" || d.Extension != "9.png" {
		t.Errorf("Classify(foo.9.png) = name=%q ext=%q, want name=foo ext=9.png", d.Name, d.Extension)
	}
}

func TestEntryNameRoundTrip(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"res/drawable-hdpi/icon.9.png", "drawable-hdpi_icon.9.png.flat"},
		{"res/layout/main.xml", "layout_main.xml.flat"},
		{"res/raw/data", "raw_data.flat"},
	}
	for _, tc := range cases {
		d, err := Classify(tc.path)
		if err != nil {
			t.Fatalf("Classify(%q) returned error: %v", tc.path, err)
		}
		if got := EntryName(d); got != tc.want {
			t.Errorf("EntryName(Classify(%q)) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestEntryNameValuesRewritesExtension(t *testing.T) {
	d, err := Classify("res/values-fr/strings.xml")
	if err != nil {
		t.Fatalf("Classify returned error: %v", err)
	}
	d = WithValuesExtension(d)
	if got, want := EntryName(d), "values-fr_strings.arsc.flat"; got != want {
		t.Errorf("EntryName = %q, want %q", got, want)
	}
}
