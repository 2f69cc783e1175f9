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

// Command rescompile is the per-file Android resource compiler: it
// enumerates a resource root (or an explicit file list), compiles each
// input independently, and writes the results into a directory or zip
// archive (spec §6 CLI surface).
package main

import (
	"flag"
	"fmt"
	"os"

	"android/rescompile/archive"
	"android/rescompile/driver"
	"android/rescompile/enumerate"
	"android/rescompile/rdiag"
	"android/rescompile/respath"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: rescompile -o OUTPUT [--dir RESDIR | FILES...] [options]

Compiles Android resource source files into the intermediate format
consumed by a resource linker, writing one compiled entry per input
into OUTPUT (a directory, or a .zip/.apk/.jar archive).

  -o OUTPUT           output directory or archive path (required)
  --dir RESDIR        compile every file under a res/-style directory tree
  --package NAME      resource package name entries are recorded under
  --package-id ID     default package ID (0-255) assigned to packages
                      that don't otherwise have one (default 127)
  --legacy            downgrade undeclared positional-argument errors
                      in string resources to warnings
  --pseudo-localize   synthesize en-XA/ar-XB pseudo-locale variants for
                      string and plurals resources
  -v                  emit verbose (note-level) diagnostics

Exactly one of --dir or a FILES... list must be given.
`)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("rescompile", flag.ContinueOnError)
	fs.Usage = usage
	fs.SetOutput(os.Stderr)

	output := fs.String("o", "", "output directory or archive path")
	dir := fs.String("dir", "", "compile every file under a res/-style directory tree")
	pkgName := fs.String("package", "", "resource package name")
	pkgID := fs.Uint("package-id", 0x7f, "default package ID")
	legacy := fs.Bool("legacy", false, "downgrade positional-argument errors to warnings")
	pseudoLocalize := fs.Bool("pseudo-localize", false, "synthesize pseudo-locale variants")
	verbose := fs.Bool("v", false, "verbose diagnostics")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *output == "" {
		fmt.Fprintln(os.Stderr, "rescompile: -o is required")
		usage()
		return 1
	}
	if *pkgID > 0xff {
		fmt.Fprintln(os.Stderr, "rescompile: --package-id must fit in a byte")
		return 1
	}

	files := fs.Args()
	if *dir != "" && len(files) > 0 {
		fmt.Fprintln(os.Stderr, enumerate.ErrBothModesSpecified)
		usage()
		return 1
	}
	if *dir == "" && len(files) == 0 {
		fmt.Fprintln(os.Stderr, "rescompile: one of --dir or input files is required")
		usage()
		return 1
	}

	var batch []respath.Descriptor
	var enumErr error
	if *dir != "" {
		batch, enumErr = enumerate.Dir(*dir)
	} else {
		batch, enumErr = enumerate.Explicit(files)
	}
	if enumErr != nil {
		fmt.Fprintf(os.Stderr, "rescompile: %v\n", enumErr)
		return 1
	}

	w, err := archive.Open(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rescompile: %v\n", err)
		return 1
	}

	diag := rdiag.NewContext(rdiag.NewWriter(os.Stderr, *verbose))
	opts := driver.Options{
		PackageName:      *pkgName,
		DefaultPackageID: uint8(*pkgID),
		Legacy:           *legacy,
		PseudoLocalize:   *pseudoLocalize,
	}

	failed := driver.CompileAll(batch, w, diag, opts)

	if err := w.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "rescompile: %v\n", err)
		return 1
	}

	if failed {
		return 1
	}
	return 0
}
