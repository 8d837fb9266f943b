// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

package ser

import (
	"errors"
	"fmt"

	"github.com/stele-foundation/stele/lib/layout"
)

var (
	// ErrScratchExhausted is returned when a fixed scratch buffer
	// cannot satisfy an allocation.
	ErrScratchExhausted = errors.New("scratch allocator capacity exhausted")

	// ErrOutOfOrderPop is returned when allocations are not released
	// in exact reverse order of acquisition.
	ErrOutOfOrderPop = errors.New("scratch allocation released out of order")
)

// Alloc is a scratch allocation: a byte region plus the token that
// ties it to its frame in the allocator's stack. The token is what
// lets PopAlloc verify strict LIFO release; frames are counted rather
// than addressed so that zero-size allocations stay distinguishable.
type Alloc struct {
	// Bytes is the allocated region, zeroed on acquisition.
	Bytes []byte

	frame int
}

// Allocator provides stack-discipline scratch memory for transient
// serialization state. Serializing a record whose pointer fields
// depend on the record's final write position requires assembling the
// record off to the side first; that assembly space comes from here,
// not from the archive buffer.
//
// Allocations must be released in exact reverse order of acquisition.
// Callers pair every PushAlloc with a deferred PopAlloc so scratch
// unwinds on every exit path; leaking a frame across a failed
// serialization would starve subsequent attempts on the same
// allocator.
type Allocator interface {
	// PushAlloc acquires a zeroed scratch region of the given layout.
	PushAlloc(l layout.Layout) (Alloc, error)

	// PopAlloc releases the most recent outstanding allocation.
	// Releasing any other allocation fails with [ErrOutOfOrderPop].
	PopAlloc(a Alloc) error
}

// StackAllocator carves scratch allocations out of a fixed
// caller-provided buffer. It never allocates; acquisitions past
// capacity fail with [ErrScratchExhausted].
type StackAllocator struct {
	buf    []byte
	off    int
	frames []int
}

// NewStackAllocator returns an allocator backed by buf.
func NewStackAllocator(buf []byte) *StackAllocator {
	return &StackAllocator{buf: buf}
}

// PushAlloc acquires the next aligned region of the scratch buffer.
func (s *StackAllocator) PushAlloc(l layout.Layout) (Alloc, error) {
	start := layout.AlignUp(s.off, l.Alignment())
	if start+l.Size > len(s.buf) {
		return Alloc{}, fmt.Errorf("scratch allocation of %d bytes at offset %d exceeds capacity %d: %w",
			l.Size, start, len(s.buf), ErrScratchExhausted)
	}
	region := s.buf[start : start+l.Size]
	clear(region)
	s.frames = append(s.frames, s.off)
	s.off = start + l.Size
	return Alloc{Bytes: region, frame: len(s.frames) - 1}, nil
}

// PopAlloc releases the top allocation, returning its bytes to the
// scratch buffer.
func (s *StackAllocator) PopAlloc(a Alloc) error {
	if len(s.frames) == 0 {
		return fmt.Errorf("release with no outstanding scratch allocations: %w", ErrOutOfOrderPop)
	}
	top := len(s.frames) - 1
	if a.frame != top {
		return fmt.Errorf("release of frame %d, top of stack is %d: %w",
			a.frame, top, ErrOutOfOrderPop)
	}
	s.off = s.frames[top]
	s.frames = s.frames[:top]
	return nil
}

// HeapAllocator satisfies scratch allocations from the Go heap. Each
// PushAlloc is a fresh allocation, so capacity is never exhausted;
// LIFO discipline is still enforced so that code exercised against a
// HeapAllocator behaves identically on a [StackAllocator].
type HeapAllocator struct {
	depth int
}

// NewHeapAllocator returns an allocator backed by the Go heap.
func NewHeapAllocator() *HeapAllocator {
	return &HeapAllocator{}
}

// PushAlloc acquires a zeroed region of the given layout.
func (h *HeapAllocator) PushAlloc(l layout.Layout) (Alloc, error) {
	h.depth++
	return Alloc{Bytes: make([]byte, l.Size), frame: h.depth}, nil
}

// PopAlloc releases the most recent allocation.
func (h *HeapAllocator) PopAlloc(a Alloc) error {
	if h.depth == 0 {
		return fmt.Errorf("release with no outstanding scratch allocations: %w", ErrOutOfOrderPop)
	}
	if a.frame != h.depth {
		return fmt.Errorf("release of frame %d, top of stack is %d: %w",
			a.frame, h.depth, ErrOutOfOrderPop)
	}
	h.depth--
	return nil
}
