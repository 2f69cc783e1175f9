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

// Package rfile embeds an arbitrary file verbatim by memory-mapping it,
// the pass-through compiler used for "raw" resources and any input the
// driver doesn't otherwise recognize (spec §4.6).
package rfile

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Mapping is an open memory-mapped file. Callers must call Close once
// the mapped bytes are no longer needed (spec §3, "Lifecycles": no data
// outlives a single input's compilation).
type Mapping struct {
	data []byte
	f    *os.File
}

// Bytes returns the file's contents. The slice is only valid until Close.
func (m *Mapping) Bytes() []byte { return m.data }

// Close unmaps the file and releases its descriptor.
func (m *Mapping) Close() error {
	var err error
	if len(m.data) > 0 {
		err = unix.Munmap(m.data)
	}
	if cerr := m.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// Map opens and memory-maps path for reading (spec §4.6: "memory-map the
// file (fail cleanly if mapping fails)").
func Map(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rfile: open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("rfile: stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return &Mapping{f: f}, nil
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("rfile: mmap %s: %w", path, err)
	}
	return &Mapping{data: data, f: f}, nil
}
