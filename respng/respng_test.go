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
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

// withAncillaryChunk inserts a tEXt chunk right after IHDR, to exercise
// chunk filtering.
func withAncillaryChunk(t *testing.T, src []byte) []byte {
	t.Helper()
	const text = "tEXtComment\x00hello"
	typ := []byte(text[:4])
	data := []byte(text[4:])

	idx := bytes.Index(src, []byte("IHDR"))
	if idx < 0 {
		t.Fatal("no IHDR chunk found")
	}
	ihdrEnd := idx + 4 + 13 + 4 // type + data + crc
	var chunkBuf bytes.Buffer
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	chunkBuf.Write(lenBuf[:])
	chunkBuf.Write(typ)
	chunkBuf.Write(data)
	crc := crc32.ChecksumIEEE(append(append([]byte{}, typ...), data...))
	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], crc)
	chunkBuf.Write(crcBuf[:])

	out := append([]byte{}, src[:ihdrEnd]...)
	out = append(out, chunkBuf.Bytes()...)
	out = append(out, src[ihdrEnd:]...)
	return out
}

func TestFilterChunksDropsAncillaryChunks(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	raw := withAncillaryChunk(t, encodePNG(t, img))

	if !bytes.Contains(raw, []byte("tEXt")) {
		t.Fatal("test setup failed to insert tEXt chunk")
	}

	filtered, err := FilterChunks(raw)
	if err != nil {
		t.Fatalf("FilterChunks: %v", err)
	}
	if bytes.Contains(filtered, []byte("tEXt")) {
		t.Error("filtered output still contains tEXt chunk")
	}
	if _, err := png.Decode(bytes.NewReader(filtered)); err != nil {
		t.Errorf("filtered output no longer decodes: %v", err)
	}
	if len(filtered) >= len(raw) {
		t.Errorf("filtered length %d not smaller than original %d", len(filtered), len(raw))
	}
}

// buildNinePatch constructs a 6x6 RGBA image (4x4 interior) with a
// fully-stretchable horizontal and vertical region and full-width
// content padding, the simplest valid 9-patch border.
func buildNinePatch() *image.RGBA {
	const size = 6
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}
	black := color.RGBA{A: 255}
	for x := 1; x < size-1; x++ {
		img.Set(x, 0, black)        // top border: stretch marks
		img.Set(x, size-1, black)   // bottom border: padding marks
	}
	for y := 1; y < size-1; y++ {
		img.Set(0, y, black)        // left border: stretch marks
		img.Set(size-1, y, black)   // right border: padding marks
	}
	return img
}

func TestParseNinePatchAndStripBorder(t *testing.T) {
	img := buildNinePatch()
	np, err := ParseNinePatch(img)
	if err != nil {
		t.Fatalf("ParseNinePatch: %v", err)
	}
	if len(np.XDivs) != 1 || np.XDivs[0] != [2]int{0, 4} {
		t.Errorf("XDivs = %v, want [[0 4]]", np.XDivs)
	}
	if len(np.YDivs) != 1 || np.YDivs[0] != [2]int{0, 4} {
		t.Errorf("YDivs = %v, want [[0 4]]", np.YDivs)
	}
	if np.PaddingLeft != 0 || np.PaddingRight != 0 || np.PaddingTop != 0 || np.PaddingBottom != 0 {
		t.Errorf("padding = %+v, want all zero (full-width marks)", np)
	}

	stripped := StripBorder(img)
	if stripped.Bounds().Dx() != 4 || stripped.Bounds().Dy() != 4 {
		t.Fatalf("stripped size = %dx%d, want 4x4", stripped.Bounds().Dx(), stripped.Bounds().Dy())
	}
	r, g, b, _ := stripped.At(0, 0).RGBA()
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Errorf("stripped interior pixel = %v,%v,%v, want 10,20,30", r>>8, g>>8, b>>8)
	}
}

func TestCompileNinePatchAlwaysUsesReencoded(t *testing.T) {
	img := buildNinePatch()
	raw := encodePNG(t, img)

	result, err := Compile(raw, true)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !result.IsNinePatch || result.UsedOriginal {
		t.Errorf("result = %+v, want IsNinePatch=true, UsedOriginal=false", result)
	}
	if result.Width != 4 || result.Height != 4 {
		t.Errorf("result size = %dx%d, want 4x4 (source minus 2px border)", result.Width, result.Height)
	}
	if !bytes.Contains(result.Payload, []byte(ninePatchChunkType)) {
		t.Error("payload missing embedded 9-patch chunk")
	}
}

func TestCompileNonNinePatchSelectsSmaller(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	raw := withAncillaryChunk(t, encodePNG(t, img))

	result, err := Compile(raw, false)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if result.Width != 8 || result.Height != 8 {
		t.Errorf("result size = %dx%d, want 8x8", result.Width, result.Height)
	}
	if _, err := png.Decode(bytes.NewReader(result.Payload)); err != nil {
		t.Errorf("selected payload doesn't decode as PNG: %v", err)
	}
}
