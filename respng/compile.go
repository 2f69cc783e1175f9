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

package respng

import (
	"bytes"
	"fmt"
	"image/png"
)

// Result is the outcome of compiling one PNG input.
type Result struct {
	Payload      []byte
	Width        int
	Height       int
	IsNinePatch  bool
	UsedOriginal bool // true when the filtered-original payload won selection.
}

// Compile decodes raw (the full file content), optionally strips and
// records 9-patch border metadata, re-encodes, and selects the smaller
// of the re-encoded and filtered-original payloads (spec §4.5).
func Compile(raw []byte, isNinePatch bool) (Result, error) {
	filtered, err := FilterChunks(raw)
	if err != nil {
		return Result{}, fmt.Errorf("respng: %w", err)
	}

	img, err := png.Decode(bytes.NewReader(filtered))
	if err != nil {
		return Result{}, fmt.Errorf("respng: decode: %w", err)
	}

	var reencoded []byte
	var finalW, finalH int

	if isNinePatch {
		np, err := ParseNinePatch(img)
		if err != nil {
			return Result{}, fmt.Errorf("respng: 9-patch: %w", err)
		}
		stripped := StripBorder(img)
		finalW, finalH = stripped.Bounds().Dx(), stripped.Bounds().Dy()

		var buf bytes.Buffer
		if err := png.Encode(&buf, stripped); err != nil {
			return Result{}, fmt.Errorf("respng: encode: %w", err)
		}
		withChunk, err := InsertNinePatchChunk(buf.Bytes(), np.Marshal())
		if err != nil {
			return Result{}, fmt.Errorf("respng: %w", err)
		}
		// A 9-patch always uses the re-encoded output; the border strip
		// is mandatory regardless of size (spec §4.5 step 6).
		return Result{Payload: withChunk, Width: finalW, Height: finalH, IsNinePatch: true}, nil
	}

	b := img.Bounds()
	finalW, finalH = b.Dx(), b.Dy()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Result{}, fmt.Errorf("respng: encode: %w", err)
	}
	reencoded = buf.Bytes()

	if len(reencoded) <= len(filtered) {
		return Result{Payload: reencoded, Width: finalW, Height: finalH}, nil
	}
	return Result{Payload: filtered, Width: finalW, Height: finalH, UsedOriginal: true}, nil
}
