// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

// Package layout describes the byte layout of archived values: a size
// and a power-of-two alignment. Validation derives layouts for
// variable-length values from untrusted metadata, so all layout math
// is overflow-checked and returns errors instead of wrapping.
package layout

import (
	"errors"
	"fmt"
	"math"
)

// ErrOverflow is returned when a computed size or alignment exceeds
// the addressable range. Untrusted length metadata reaches this path,
// so it must be an ordinary error, never a panic.
var ErrOverflow = errors.New("layout size computation overflows")

// Layout is the byte layout of an archived value: how many bytes it
// occupies and the alignment its position must satisfy. Align must be
// a power of two; the zero Layout (size 0, align 0) is invalid and
// Align 0 is normalized to 1 by [Layout.Alignment].
type Layout struct {
	Size  int
	Align int
}

// Common fixed layouts of the archive format's primitive encodings.
var (
	U8  = Layout{Size: 1, Align: 1}
	U16 = Layout{Size: 2, Align: 2}
	U32 = Layout{Size: 4, Align: 4}
	U64 = Layout{Size: 8, Align: 8}
)

// Alignment returns the effective alignment, treating the zero value
// as byte-aligned.
func (l Layout) Alignment() int {
	if l.Align <= 0 {
		return 1
	}
	return l.Align
}

// Array returns the layout of n contiguous elements of elem. The
// element stride is elem.Size rounded up to elem's alignment. Returns
// [ErrOverflow] when n is negative or the total size does not fit in
// an int; n comes from untrusted pointer metadata during validation.
func Array(elem Layout, n int) (Layout, error) {
	if n < 0 {
		return Layout{}, fmt.Errorf("array of %d elements: %w", n, ErrOverflow)
	}
	stride := AlignUp(elem.Size, elem.Alignment())
	if stride != 0 && n > math.MaxInt/stride {
		return Layout{}, fmt.Errorf("array of %d elements of stride %d: %w", n, stride, ErrOverflow)
	}
	return Layout{Size: stride * n, Align: elem.Alignment()}, nil
}

// Bytes returns the layout of a run of n bytes. Returns [ErrOverflow]
// when n is negative.
func Bytes(n int) (Layout, error) {
	if n < 0 {
		return Layout{}, fmt.Errorf("byte run of length %d: %w", n, ErrOverflow)
	}
	return Layout{Size: n, Align: 1}, nil
}

// AlignUp rounds pos up to the next multiple of align. align must be
// a power of two.
func AlignUp(pos, align int) int {
	return (pos + align - 1) &^ (align - 1)
}

// Padding returns the number of bytes needed after pos to reach the
// next multiple of align.
func Padding(pos, align int) int {
	return AlignUp(pos, align) - pos
}

// Aligned reports whether pos is a multiple of align.
func Aligned(pos, align int) bool {
	return pos&(align-1) == 0
}
