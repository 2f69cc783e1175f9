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

import "regexp"

// idDefinition matches a newly-defined id reference, e.g. "@+id/foo"
// (spec §4.4 step 2: "ID collection").
var idDefinition = regexp.MustCompile(`@\+id/([A-Za-z_][A-Za-z0-9_.]*)`)

// collectIDs walks n's subtree depth-first and appends "id/<name>" to
// symbols for every "@+id/name" occurrence found in an attribute value,
// in document order, skipping names already recorded.
func collectIDs(n *Node, symbols *[]string) {
	if n.IsText {
		return
	}
	seen := make(map[string]bool, len(*symbols))
	for _, s := range *symbols {
		seen[s] = true
	}
	walkCollectIDs(n, symbols, seen)
}

func walkCollectIDs(n *Node, symbols *[]string, seen map[string]bool) {
	if n.IsText {
		return
	}
	for _, a := range n.Attributes {
		for _, m := range idDefinition.FindAllStringSubmatch(a.Value, -1) {
			name := "id/" + m[1]
			if !seen[name] {
				seen[name] = true
				*symbols = append(*symbols, name)
			}
		}
	}
	for i := range n.Children {
		walkCollectIDs(&n.Children[i], symbols, seen)
	}
}
