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

// Package respng decodes PNG images (including 9-patch border metadata),
// strips non-essential chunks, and re-encodes the result, choosing
// whichever of the re-encoded or chunk-filtered original is smaller
// (spec §4.5).
//
// image/png decodes and encodes the pixel raster but gives no access to
// individual chunks, so the chunk filter below is a small hand-rolled
// reader/writer over the raw PNG container format (signature + a stream
// of length-prefixed, CRC-guarded chunks) — no chunk-level PNG library
// was found across the example pack, so this is written directly
// against the PNG specification's chunk layout.
package respng

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
)

// signature is the 8-byte PNG file signature.
var signature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// allowedChunks is the allow-list of chunk types required to faithfully
// render the image; every other chunk (text, time, physical-dimension,
// color-profile metadata, ...) is dropped (spec §4.5 step 2).
var allowedChunks = map[string]bool{
	"IHDR": true,
	"PLTE": true,
	"tRNS": true,
	"IDAT": true,
	"IEND": true,
}

type chunk struct {
	typ  string
	data []byte
}

// readChunks parses the full PNG container in data into its chunk list.
func readChunks(data []byte) ([]chunk, error) {
	if len(data) < len(signature) || !bytes.Equal(data[:len(signature)], signature) {
		return nil, fmt.Errorf("respng: not a PNG file")
	}
	var chunks []chunk
	b := data[len(signature):]
	for len(b) > 0 {
		if len(b) < 8 {
			return nil, fmt.Errorf("respng: truncated chunk header")
		}
		length := binary.BigEndian.Uint32(b[0:4])
		typ := string(b[4:8])
		if len(b) < 12 || uint32(len(b)-12) < length {
			return nil, fmt.Errorf("respng: truncated chunk %q", typ)
		}
		payload := b[8 : 8+length]
		chunks = append(chunks, chunk{typ: typ, data: payload})
		b = b[8+length+4:] // skip data and trailing CRC
		if typ == "IEND" {
			break
		}
	}
	return chunks, nil
}

// writeChunks serializes signature followed by chunks, recomputing each
// chunk's CRC32.
func writeChunks(w io.Writer, chunks []chunk) (int64, error) {
	var total int64
	n, err := w.Write(signature)
	total += int64(n)
	if err != nil {
		return total, err
	}
	var hdr [8]byte
	for _, c := range chunks {
		binary.BigEndian.PutUint32(hdr[0:4], uint32(len(c.data)))
		copy(hdr[4:8], c.typ)
		n, err := w.Write(hdr[:])
		total += int64(n)
		if err != nil {
			return total, err
		}
		n, err = w.Write(c.data)
		total += int64(n)
		if err != nil {
			return total, err
		}
		crc := crc32.ChecksumIEEE(append([]byte(c.typ), c.data...))
		var crcBuf [4]byte
		binary.BigEndian.PutUint32(crcBuf[:], crc)
		n, err = w.Write(crcBuf[:])
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// FilterChunks re-serializes src, keeping only chunks on the rendering
// allow-list, and returns the filtered bytes; their length is the
// filtered byte count (spec §4.5 steps 2, 7; §GLOSSARY "Chunk filter").
func FilterChunks(src []byte) ([]byte, error) {
	chunks, err := readChunks(src)
	if err != nil {
		return nil, err
	}
	var kept []chunk
	for _, c := range chunks {
		if allowedChunks[c.typ] {
			kept = append(kept, c)
		}
	}
	var buf bytes.Buffer
	if _, err := writeChunks(&buf, kept); err != nil {
		return nil, fmt.Errorf("respng: %w", err)
	}
	return buf.Bytes(), nil
}

// ninePatchChunkType is the private ancillary chunk this compiler
// embeds to carry 9-patch metadata (stretch regions and content
// padding) alongside the re-encoded pixel data. It is inserted directly
// after IHDR, matching where real 9-patch tooling places it.
const ninePatchChunkType = "npTc"

// InsertNinePatchChunk re-serializes a PNG buffer (as produced by
// image/png.Encode) with a 9-patch metadata chunk inserted immediately
// after IHDR.
func InsertNinePatchChunk(src []byte, npData []byte) ([]byte, error) {
	chunks, err := readChunks(src)
	if err != nil {
		return nil, err
	}
	out := make([]chunk, 0, len(chunks)+1)
	inserted := false
	for _, c := range chunks {
		out = append(out, c)
		if c.typ == "IHDR" && !inserted {
			out = append(out, chunk{typ: ninePatchChunkType, data: npData})
			inserted = true
		}
	}
	var buf bytes.Buffer
	if _, err := writeChunks(&buf, out); err != nil {
		return nil, fmt.Errorf("respng: %w", err)
	}
	return buf.Bytes(), nil
}
