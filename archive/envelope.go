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

package archive

import (
	"bufio"
	"encoding/binary"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"android/rescompile/proto"
)

// Record is one (file descriptor, payload) pair embedded in a compiled
// envelope (spec §3, §4.7).
type Record struct {
	Descriptor *proto.CompiledFile
	Payload    []byte
}

// compiledStream buffers the writes for one envelope so that any
// buffered bytes are committed before the archive entry is sealed (spec
// §5, §9: "stream adapter lifetime"). It must be released via flush
// before the owning Writer's FinishEntry is called.
type compiledStream struct {
	buf      *bufio.Writer
	hadError bool
}

func newCompiledStream(w interface{ Write([]byte) (int, error) }) *compiledStream {
	return &compiledStream{buf: bufio.NewWriter(w)}
}

func (s *compiledStream) writeLittleEndian32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	if _, err := s.buf.Write(tmp[:]); err != nil {
		s.hadError = true
	}
}

func (s *compiledStream) writeRecord(r Record) {
	desc := r.Descriptor.Marshal()
	var lenPrefix []byte
	lenPrefix = protowire.AppendVarint(lenPrefix, uint64(len(desc)))
	if _, err := s.buf.Write(lenPrefix); err != nil {
		s.hadError = true
		return
	}
	if _, err := s.buf.Write(desc); err != nil {
		s.hadError = true
		return
	}

	var payloadLen [8]byte
	binary.LittleEndian.PutUint64(payloadLen[:], uint64(len(r.Payload)))
	if _, err := s.buf.Write(payloadLen[:]); err != nil {
		s.hadError = true
		return
	}
	if _, err := s.buf.Write(r.Payload); err != nil {
		s.hadError = true
	}
}

// release flushes the buffer and drops the reference to it, so that the
// caller can no longer write through the stream. Must be called, and its
// error checked, before FinishEntry.
func (s *compiledStream) release() error {
	err := s.buf.Flush()
	s.buf = nil
	if err != nil {
		return err
	}
	if s.hadError {
		return fmt.Errorf("archive: failed to write data")
	}
	return nil
}

// WriteEnvelope opens entryName on w, writes the little-endian count of
// records followed by each record's (descriptor, payload) pair, and
// seals the entry. Releasing the internal stream adapter before
// FinishEntry is called is handled internally (spec §4.7, §9).
func WriteEnvelope(w Writer, entryName string, records []Record) error {
	out, err := w.StartEntry(entryName)
	if err != nil {
		return fmt.Errorf("%s: failed to open: %w", entryName, err)
	}

	stream := newCompiledStream(out)
	stream.writeLittleEndian32(uint32(len(records)))
	for _, r := range records {
		stream.writeRecord(r)
	}
	if err := stream.release(); err != nil {
		return fmt.Errorf("%s: %w", entryName, err)
	}

	if err := w.FinishEntry(); err != nil {
		return fmt.Errorf("%s: failed to finish writing data: %w", entryName, err)
	}
	return nil
}

// WriteRaw opens entryName on w and writes data verbatim as the entry's
// entire body, with no count header or length prefix. This is the
// values-compiler variant (spec §4.3 step 6, §6): the serialized
// resource table is written directly as the entry body to match the
// legacy linker's expectation.
func WriteRaw(w Writer, entryName string, data []byte) error {
	out, err := w.StartEntry(entryName)
	if err != nil {
		return fmt.Errorf("%s: failed to open: %w", entryName, err)
	}

	buffered := bufio.NewWriter(out)
	_, writeErr := buffered.Write(data)
	flushErr := buffered.Flush()
	if writeErr != nil {
		return fmt.Errorf("%s: failed to write: %w", entryName, writeErr)
	}
	if flushErr != nil {
		return fmt.Errorf("%s: failed to write: %w", entryName, flushErr)
	}

	if err := w.FinishEntry(); err != nil {
		return fmt.Errorf("%s: failed to finish writing data: %w", entryName, err)
	}
	return nil
}
