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

// Package proto hand-encodes the resource-table and compiled-file wire
// formats described in resources.proto directly on top of
// google.golang.org/protobuf's low-level wire primitives, since no
// protoc-generated package can be produced without running the protobuf
// toolchain (out of scope for this module; see spec §3, §4.3, §4.7).
package proto

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, 1)
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendUint32(b []byte, num protowire.Number, v uint32) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

// fieldVisitor is called once per top-level field encountered while
// decoding a message. It must consume exactly the bytes belonging to
// that field's value and return the number of bytes consumed, or a
// negative value to decline the field. decodeMessage skips a declined
// field and reports an error only if the field cannot be skipped either,
// so a nested message that fails to decode is dropped, not reported.
type fieldVisitor func(num protowire.Number, typ protowire.Type, b []byte) int

// decodeMessage walks b field-by-field, dispatching to visit for each one.
// Unrecognized fields are skipped, matching protobuf's forward-compat rules.
func decodeMessage(b []byte, visit fieldVisitor) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("proto: invalid tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		consumed := visit(num, typ, b)
		if consumed < 0 {
			// Visitor declined the field (e.g. wrong wire type); skip it.
			consumed = protowire.ConsumeFieldValue(num, typ, b)
			if consumed < 0 {
				return fmt.Errorf("proto: invalid field %d: %w", num, protowire.ParseError(consumed))
			}
		}
		b = b[consumed:]
	}
	return nil
}

func consumeString(b []byte) (string, int) {
	return protowire.ConsumeString(b)
}

func consumeBytes(b []byte) ([]byte, int) {
	return protowire.ConsumeBytes(b)
}

func consumeVarint(b []byte) (uint64, int) {
	return protowire.ConsumeVarint(b)
}
