// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

package ser

import (
	"errors"
	"fmt"

	"github.com/stele-foundation/stele/lib/layout"
)

// ErrWriterFull is returned by fixed-capacity writers when a write
// would exceed the backing buffer. Recovery means retrying the whole
// serialization with a larger buffer; the write position is unchanged
// and no partial bytes are committed.
var ErrWriterFull = errors.New("archive writer capacity exhausted")

// Positional reports the current write position, which is the buffer
// position the next written byte will occupy.
type Positional interface {
	Pos() int
}

// Writer is an append-only archive byte sink. There is no seeking and
// no rewriting: once bytes are written their positions are final,
// which is what lets pointer displacements be computed before the
// pointer record itself is written.
type Writer interface {
	Positional

	// Write appends bytes to the archive. Either all of them are
	// written or none: a failed write leaves the position unchanged.
	Write(data []byte) error
}

// Buffer is a growable in-memory Writer. Writes never fail short of
// the process running out of memory.
type Buffer struct {
	data []byte
}

// NewBuffer returns an empty growable writer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Pos returns the current write position.
func (b *Buffer) Pos() int { return len(b.data) }

// Write appends data to the buffer.
func (b *Buffer) Write(data []byte) error {
	b.data = append(b.data, data...)
	return nil
}

// Bytes returns the accumulated archive bytes. The slice aliases the
// buffer's storage; it is the finished archive once serialization
// completes and must not be written through afterwards.
func (b *Buffer) Bytes() []byte { return b.data }

// BufferWriter is a fixed-capacity Writer over caller-provided
// storage. It never allocates; writes past capacity fail with
// [ErrWriterFull].
type BufferWriter struct {
	data []byte
	pos  int
}

// NewBufferWriter returns a writer that fills buf front to back.
func NewBufferWriter(buf []byte) *BufferWriter {
	return &BufferWriter{data: buf}
}

// Pos returns the current write position.
func (w *BufferWriter) Pos() int { return w.pos }

// Write appends data, failing with [ErrWriterFull] when buf cannot
// hold it. On failure nothing is written.
func (w *BufferWriter) Write(data []byte) error {
	if w.pos+len(data) > len(w.data) {
		return fmt.Errorf("write of %d bytes at position %d exceeds capacity %d: %w",
			len(data), w.pos, len(w.data), ErrWriterFull)
	}
	copy(w.data[w.pos:], data)
	w.pos += len(data)
	return nil
}

// Bytes returns the written prefix of the backing buffer.
func (w *BufferWriter) Bytes() []byte { return w.data[:w.pos] }

// zeros is the padding source for alignment writes. 16 bytes covers
// every alignment the format's primitive encodings use.
var zeros [16]byte

// Align pads w with zero bytes until its position is a multiple of
// align, returning the aligned position. align must be a power of two
// no larger than 16.
func Align(w Writer, align int) (int, error) {
	pad := layout.Padding(w.Pos(), align)
	if pad > 0 {
		if err := w.Write(zeros[:pad]); err != nil {
			return 0, err
		}
	}
	return w.Pos(), nil
}

// Pad writes n zero bytes.
func Pad(w Writer, n int) error {
	for n > len(zeros) {
		if err := w.Write(zeros[:]); err != nil {
			return err
		}
		n -= len(zeros)
	}
	return w.Write(zeros[:n])
}
