// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

package layout

import (
	"errors"
	"math"
	"testing"
)

func TestAlignUp(t *testing.T) {
	cases := []struct {
		pos, align, want int
	}{
		{0, 1, 0},
		{0, 8, 0},
		{1, 8, 8},
		{7, 8, 8},
		{8, 8, 8},
		{9, 4, 12},
	}
	for _, c := range cases {
		if got := AlignUp(c.pos, c.align); got != c.want {
			t.Errorf("AlignUp(%d, %d) = %d, want %d", c.pos, c.align, got, c.want)
		}
	}
}

func TestPadding(t *testing.T) {
	if got := Padding(5, 8); got != 3 {
		t.Errorf("Padding(5, 8) = %d, want 3", got)
	}
	if got := Padding(8, 8); got != 0 {
		t.Errorf("Padding(8, 8) = %d, want 0", got)
	}
}

func TestArray(t *testing.T) {
	l, err := Array(U32, 5)
	if err != nil {
		t.Fatalf("Array(U32, 5) failed: %v", err)
	}
	if l.Size != 20 || l.Align != 4 {
		t.Errorf("Array(U32, 5) = %+v, want size 20 align 4", l)
	}

	// Stride rounds odd-sized elements up to their alignment.
	elem := Layout{Size: 3, Align: 2}
	l, err = Array(elem, 4)
	if err != nil {
		t.Fatalf("Array failed: %v", err)
	}
	if l.Size != 16 {
		t.Errorf("Array stride not rounded: size = %d, want 16", l.Size)
	}
}

func TestArrayOverflow(t *testing.T) {
	if _, err := Array(U64, -1); !errors.Is(err, ErrOverflow) {
		t.Errorf("negative count: err = %v, want ErrOverflow", err)
	}
	if _, err := Array(U64, math.MaxInt/4); !errors.Is(err, ErrOverflow) {
		t.Errorf("oversized count: err = %v, want ErrOverflow", err)
	}
}

func TestBytesNegative(t *testing.T) {
	if _, err := Bytes(-1); !errors.Is(err, ErrOverflow) {
		t.Errorf("Bytes(-1): err = %v, want ErrOverflow", err)
	}
	l, err := Bytes(17)
	if err != nil {
		t.Fatalf("Bytes(17) failed: %v", err)
	}
	if l.Size != 17 || l.Alignment() != 1 {
		t.Errorf("Bytes(17) = %+v, want size 17 align 1", l)
	}
}

func TestZeroLayoutAlignment(t *testing.T) {
	var l Layout
	if l.Alignment() != 1 {
		t.Errorf("zero layout alignment = %d, want 1", l.Alignment())
	}
}
