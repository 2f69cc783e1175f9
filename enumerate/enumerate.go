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

// Package enumerate walks a resource root directory or classifies an
// explicit file list into the ordered batch of inputs the driver
// compiles (spec §4.2).
package enumerate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"android/rescompile/respath"
)

// ErrBothModesSpecified reports that both a root directory and an
// explicit file list were supplied; the two enumeration modes are
// mutually exclusive (spec §4.2).
var ErrBothModesSpecified = fmt.Errorf("enumerate: --dir and explicit input files are mutually exclusive")

// Dir walks root two levels deep (type[-qualifiers] directories, then
// their immediate file children), skipping any dotted entry, and
// classifies every leaf. A classification failure aborts enumeration:
// directory-mode input is expected to be entirely well-formed (spec
// §4.2, §7).
func Dir(root string) ([]respath.Descriptor, error) {
	typeDirs, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("enumerate: read %s: %w", root, err)
	}
	sort.Slice(typeDirs, func(i, j int) bool { return typeDirs[i].Name() < typeDirs[j].Name() })

	var descriptors []respath.Descriptor
	for _, td := range typeDirs {
		if strings.HasPrefix(td.Name(), ".") {
			continue
		}
		if !td.IsDir() {
			continue
		}
		typeDirPath := filepath.Join(root, td.Name())
		files, err := os.ReadDir(typeDirPath)
		if err != nil {
			return nil, fmt.Errorf("enumerate: read %s: %w", typeDirPath, err)
		}
		sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })

		for _, f := range files {
			if strings.HasPrefix(f.Name(), ".") {
				continue
			}
			if f.IsDir() {
				continue
			}
			path := filepath.Join(td.Name(), f.Name())
			d, err := respath.Classify(path)
			if err != nil {
				return nil, fmt.Errorf("enumerate: %w", err)
			}
			d.Source = filepath.Join(typeDirPath, f.Name())
			descriptors = append(descriptors, d)
		}
	}
	return descriptors, nil
}

// Explicit classifies every path in files, in order. Any classification
// failure aborts the whole batch before any compilation runs (spec
// §4.2, §7).
func Explicit(files []string) ([]respath.Descriptor, error) {
	descriptors := make([]respath.Descriptor, 0, len(files))
	for _, path := range files {
		d, err := respath.Classify(path)
		if err != nil {
			return nil, fmt.Errorf("enumerate: %w", err)
		}
		descriptors = append(descriptors, d)
	}
	return descriptors, nil
}
