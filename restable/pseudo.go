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

package restable

import "android/rescompile/proto"

// enXAAccents maps ASCII letters to an accented look-alike, the standard
// en-XA pseudo-locale substitution table.
var enXAAccents = map[rune]rune{
	'a': 'å', 'b': 'ß', 'c': 'ç', 'd': 'ð', 'e': 'é', 'f': 'ƒ', 'g': 'ğ',
	'h': 'ħ', 'i': 'î', 'j': 'ĵ', 'k': 'ķ', 'l': 'ľ', 'm': 'ɱ', 'n': 'ñ',
	'o': 'ö', 'p': 'þ', 'q': 'ǫ', 'r': 'ř', 's': 'š', 't': 'ŧ', 'u': 'ü',
	'v': 'ṽ', 'w': 'ŵ', 'x': 'ẋ', 'y': 'ý', 'z': 'ž',
	'A': 'Å', 'B': 'Β', 'C': 'Ç', 'D': 'Ð', 'E': 'É', 'F': 'Ƒ', 'G': 'Ğ',
	'H': 'Ħ', 'I': 'Î', 'J': 'Ĵ', 'K': 'Ķ', 'L': 'Ľ', 'M': 'Μ', 'N': 'Ñ',
	'O': 'Ö', 'P': 'Þ', 'Q': 'Ǫ', 'R': 'Ř', 'S': 'Š', 'T': 'Ŧ', 'U': 'Ü',
	'V': 'Ṽ', 'W': 'Ŵ', 'X': 'Ẋ', 'Y': 'Ý', 'Z': 'Ž',
}

const (
	pseudoEnXA = "en-XA"
	pseudoArXB = "ar-XB"

	// rtlOverride and popDirFmt wrap ar-XB text in a right-to-left override, the
	// standard technique for stress-testing bidi layout without a real
	// translation.
	rtlOverride = "‮"
	popDirFmt   = "‬"
)

// pseudoLocalizeEnXA expands and accents text, widening it to flag
// truncation bugs while staying readable.
func pseudoLocalizeEnXA(text string) string {
	runes := []rune(text)
	out := make([]rune, 0, len(runes)*3/2+6)
	out = append(out, '[')
	for _, r := range runes {
		if accented, ok := enXAAccents[r]; ok {
			out = append(out, accented)
		} else {
			out = append(out, r)
		}
	}
	// Pad ~30% to exercise layouts sized for the shorter default string.
	pad := len(runes) / 10
	for i := 0; i < pad; i++ {
		out = append(out, ' ', 'x', 'x')
	}
	out = append(out, ']')
	return string(out)
}

// pseudoLocalizeArXB wraps text in a right-to-left override so that
// layouts exercise mirrored, RTL rendering without a real Arabic
// translation.
func pseudoLocalizeArXB(text string) string {
	return rtlOverride + text + popDirFmt
}

// GeneratePseudoLocales synthesizes en-XA and ar-XB entries from every
// default-configuration string and plurals entry across every package
// and type in table, recording them as weak values (spec §4.3 step 4,
// §8: "never replaces an existing strong entry").
func GeneratePseudoLocales(table *proto.ResourceTable) {
	for pi := range table.Packages {
		pkg := &table.Packages[pi]
		for ti := range pkg.Types {
			ty := &pkg.Types[ti]
			if ty.Name != "string" && ty.Name != "plurals" {
				continue
			}
			for ei := range ty.Entries {
				e := &ty.Entries[ei]
				def := e.FindConfigValue("")
				if def == nil {
					continue
				}
				e.SetValue(pseudoEnXA, pseudoLocaleValue(def.Value, pseudoLocalizeEnXA))
				e.SetValue(pseudoArXB, pseudoLocaleValue(def.Value, pseudoLocalizeArXB))
			}
		}
	}
}

func pseudoLocaleValue(v proto.Value, transform func(string) string) proto.Value {
	out := proto.Value{Weak: true, Translatable: v.Translatable, IsPlural: v.IsPlural}
	if v.IsPlural {
		out.PluralItems = make([]proto.PluralItem, len(v.PluralItems))
		for i, item := range v.PluralItems {
			out.PluralItems[i] = proto.PluralItem{Quantity: item.Quantity, Value: transform(item.Value)}
		}
		return out
	}
	out.Str = transform(v.Str)
	return out
}
