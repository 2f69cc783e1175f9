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

import (
	"io"

	"android/rescompile/proto"
	"android/rescompile/rdiag"
)

// CompileOptions gathers the per-batch settings a single values document
// is compiled against (spec §4.3, §6 CLI surface).
type CompileOptions struct {
	PackageName      string
	DefaultPackageID uint8
	Legacy           bool
	PseudoLocalize   bool
	// Translatable is the default translatable flag for entries that
	// don't set android:translatable themselves; the driver derives this
	// from the source filename (spec §4.3 step 2).
	Translatable bool
	Config       string
}

// diagWarner adapts an rdiag.Context to the Warner interface Parse uses
// to report legacy-mode downgrades.
type diagWarner struct {
	ctx    *rdiag.Context
	source string
}

func (w diagWarner) Warn(entry, message string) {
	w.ctx.Warning(w.source, entry+": "+message)
}

// Compile parses a values XML document from r into a fresh
// ResourceTable, optionally synthesizes pseudo-locales, and assigns the
// default package ID to any package left without one (spec §4.3 steps
// 3-5).
func Compile(r io.Reader, source string, opts CompileOptions, diag *rdiag.Context) (*proto.ResourceTable, error) {
	table := &proto.ResourceTable{}
	warn := diagWarner{ctx: diag, source: source}

	parseOpts := Options{
		Legacy:       opts.Legacy,
		Translatable: opts.Translatable,
		Config:       opts.Config,
	}
	if err := Parse(r, table, opts.PackageName, parseOpts, warn); err != nil {
		return nil, err
	}

	if opts.PseudoLocalize {
		GeneratePseudoLocales(table)
	}

	table.CreatePackage(opts.PackageName)
	for i := range table.Packages {
		if !table.Packages[i].HasID {
			table.Packages[i].HasID = true
			table.Packages[i].ID = opts.DefaultPackageID
		}
	}

	return table, nil
}
