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
	"strings"
	"testing"

	"android/rescompile/proto"
)

const layoutXML = `<?xml version="1.0" encoding="utf-8"?>
<LinearLayout xmlns:android="http://schemas.android.com/apk/res/android">
  <TextView android:id="@+id/title" android:text="hi"/>
  <TextView android:id="@+id/subtitle" android:text="@+id/title"/>
</LinearLayout>`

func TestParseBuildsTreeAndCollectsIDs(t *testing.T) {
	doc, err := Parse(strings.NewReader(layoutXML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Root.Name != "LinearLayout" {
		t.Fatalf("root name = %q, want LinearLayout", doc.Root.Name)
	}
	if len(doc.Root.Children) != 2 {
		t.Fatalf("got %d children, want 2", len(doc.Root.Children))
	}
	want := []string{"id/title", "id/subtitle"}
	if len(doc.ExportedSymbols) != len(want) {
		t.Fatalf("got symbols %v, want %v", doc.ExportedSymbols, want)
	}
	for i, w := range want {
		if doc.ExportedSymbols[i] != w {
			t.Errorf("symbol[%d] = %q, want %q", i, doc.ExportedSymbols[i], w)
		}
	}
}

func TestParseResolvesNamespacedAttributes(t *testing.T) {
	doc, err := Parse(strings.NewReader(layoutXML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	attr := doc.Root.Children[0].Attributes[0]
	if attr.Namespace != "http://schemas.android.com/apk/res/android" || attr.Name != "id" {
		t.Errorf("first attr = %+v, want android:id resolved", attr)
	}
}

const aaptAttrXML = `<?xml version="1.0" encoding="utf-8"?>
<vector xmlns:android="http://schemas.android.com/apk/res/android"
        xmlns:aapt="http://schemas.android.com/aapt">
  <aapt:attr name="android:fillColor">
    <gradient android:startColor="#ff0000" android:endColor="#0000ff">
      <aapt:attr name="android:centerColor">
        <item android:offset="0.5"/>
      </aapt:attr>
    </gradient>
  </aapt:attr>
</vector>`

func TestExtractInlineFragmentsRecursiveAndOrdered(t *testing.T) {
	doc, err := Parse(strings.NewReader(aaptAttrXML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	subs := ExtractInlineFragments(doc, "drawable_icon")
	if len(subs) != 2 {
		t.Fatalf("got %d extracted documents, want 2", len(subs))
	}
	if subs[0].Root.Name != "gradient" {
		t.Errorf("subs[0] root = %q, want gradient (outer fragment first)", subs[0].Root.Name)
	}
	if subs[1].Root.Name != "item" {
		t.Errorf("subs[1] root = %q, want item (nested fragment second)", subs[1].Root.Name)
	}

	// The outer aapt:attr child must be gone from vector, replaced by a
	// plain attribute referencing the synthesized name.
	if len(doc.Root.Children) != 0 {
		t.Fatalf("vector still has %d children, want 0 after extraction", len(doc.Root.Children))
	}
	if len(doc.Root.Attributes) != 1 {
		t.Fatalf("vector has %d attributes, want 1 synthesized reference", len(doc.Root.Attributes))
	}
	got := doc.Root.Attributes[0]
	wantNS := "http://schemas.android.com/apk/res/android"
	if got.Namespace != wantNS || got.Name != "fillColor" || !strings.HasPrefix(got.Value, "@drawable_icon_extracted_") {
		t.Errorf("rewritten attribute = %+v", got)
	}
	if "@"+subs[0].SynthesizedName != got.Value {
		t.Errorf("subs[0].SynthesizedName = %q, want the name referenced by %q", subs[0].SynthesizedName, got.Value)
	}

	// Same for the nested aapt:attr, now removed from the extracted gradient.
	gradient := subs[0].Root
	if len(gradient.Children) != 0 {
		t.Fatalf("gradient still has %d children, want 0 after nested extraction", len(gradient.Children))
	}
}

func TestFlattenRoundTrip(t *testing.T) {
	doc, err := Parse(strings.NewReader(layoutXML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	data := doc.Flatten()
	got, err := proto.UnmarshalXMLNode(data)
	if err != nil {
		t.Fatalf("UnmarshalXMLNode: %v", err)
	}
	if got.Name != "LinearLayout" || len(got.Children) != 2 {
		t.Fatalf("round-tripped node = %+v", got)
	}
	if got.Children[0].Attributes[0].Value != "@+id/title" {
		t.Errorf("round-tripped attribute value = %q", got.Children[0].Attributes[0].Value)
	}
}
