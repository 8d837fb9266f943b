// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

package ser

import (
	"github.com/stele-foundation/stele/lib/layout"
)

// Serializer composes one Writer, one Allocator, and one Sharing
// strategy into the single context threaded through an encode pass.
// Each capability's operations forward to the corresponding component;
// Serializer adds no behavior of its own.
type Serializer struct {
	writer    Writer
	allocator Allocator
	sharing   Sharing
}

// Compose builds a Serializer from explicit components.
func Compose(w Writer, a Allocator, s Sharing) *Serializer {
	return &Serializer{writer: w, allocator: a, sharing: s}
}

// NewSerializer returns the general-purpose configuration: growable
// output buffer, heap-backed scratch, and deduplicating sharing.
func NewSerializer() *Serializer {
	return Compose(NewBuffer(), NewHeapAllocator(), NewDedup())
}

// NewCoreSerializer returns the allocation-free configuration: fixed
// output and scratch buffers and duplicate sharing. Exceeding either
// buffer fails with [ErrWriterFull] or [ErrScratchExhausted]; the only
// recovery is retrying with larger buffers.
func NewCoreSerializer(out, scratch []byte) *Serializer {
	return Compose(NewBufferWriter(out), NewStackAllocator(scratch), Duplicate{})
}

// Pos returns the current write position.
func (s *Serializer) Pos() int { return s.writer.Pos() }

// Write appends bytes to the archive.
func (s *Serializer) Write(data []byte) error { return s.writer.Write(data) }

// Align pads the archive so the next write lands on a multiple of
// align, returning the aligned position.
func (s *Serializer) Align(align int) (int, error) { return Align(s.writer, align) }

// PushAlloc acquires scratch memory.
func (s *Serializer) PushAlloc(l layout.Layout) (Alloc, error) { return s.allocator.PushAlloc(l) }

// PopAlloc releases scratch memory.
func (s *Serializer) PopAlloc(a Alloc) error { return s.allocator.PopAlloc(a) }

// SharedPos consults the sharing registry.
func (s *Serializer) SharedPos(key any) (int, bool) { return s.sharing.SharedPos(key) }

// AddShared records a first serialization in the sharing registry.
func (s *Serializer) AddShared(key any, pos int) error { return s.sharing.AddShared(key, pos) }

// Writer returns the underlying writer, typically to retrieve the
// finished bytes after the encode pass completes.
func (s *Serializer) Writer() Writer { return s.writer }
