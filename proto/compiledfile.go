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

package proto

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// CompiledFile is the per-entry descriptor written ahead of every
// non-values payload (spec §3 ResourceFile, §4.7 Envelope Writer).
type CompiledFile struct {
	Package         string
	Type            string
	Entry           string
	Config          string
	SourcePath      string
	ExportedSymbols []string
}

const (
	fieldCompiledFilePackage         = 1
	fieldCompiledFileType            = 2
	fieldCompiledFileEntry           = 3
	fieldCompiledFileConfig          = 4
	fieldCompiledFileSourcePath      = 5
	fieldCompiledFileExportedSymbol  = 6
)

// Marshal encodes f into its wire representation.
func (f *CompiledFile) Marshal() []byte {
	var b []byte
	b = appendString(b, fieldCompiledFilePackage, f.Package)
	b = appendString(b, fieldCompiledFileType, f.Type)
	b = appendString(b, fieldCompiledFileEntry, f.Entry)
	b = appendString(b, fieldCompiledFileConfig, f.Config)
	b = appendString(b, fieldCompiledFileSourcePath, f.SourcePath)
	for _, sym := range f.ExportedSymbols {
		b = protowire.AppendTag(b, fieldCompiledFileExportedSymbol, protowire.BytesType)
		b = protowire.AppendString(b, sym)
	}
	return b
}

// UnmarshalCompiledFile decodes the wire representation produced by
// CompiledFile.Marshal.
func UnmarshalCompiledFile(data []byte) (*CompiledFile, error) {
	f := &CompiledFile{}
	err := decodeMessage(data, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch num {
		case fieldCompiledFilePackage:
			v, n := consumeString(b)
			f.Package = v
			return n
		case fieldCompiledFileType:
			v, n := consumeString(b)
			f.Type = v
			return n
		case fieldCompiledFileEntry:
			v, n := consumeString(b)
			f.Entry = v
			return n
		case fieldCompiledFileConfig:
			v, n := consumeString(b)
			f.Config = v
			return n
		case fieldCompiledFileSourcePath:
			v, n := consumeString(b)
			f.SourcePath = v
			return n
		case fieldCompiledFileExportedSymbol:
			v, n := consumeString(b)
			f.ExportedSymbols = append(f.ExportedSymbols, v)
			return n
		}
		return -1
	})
	if err != nil {
		return nil, fmt.Errorf("proto: unmarshal CompiledFile: %w", err)
	}
	return f, nil
}
